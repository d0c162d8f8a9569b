// Package config loads and validates the simulator configuration from a
// YAML or JSON file, with environment-variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/microgrid"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/stream"
)

type Config struct {
	Battery BatteryConfig           `json:"battery"`
	Grid    GridConfig              `json:"grid"`
	Prices  microgrid.PriceSchedule `json:"prices"`
	Stream  stream.Config           `json:"stream"`
	Metrics metrics.Config          `json:"metrics"`
	Report  ReportConfig            `json:"report"`
	Logging LoggingConfig           `json:"logging"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("MG_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mg_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Battery.SetDefaults()
	cfg.Grid.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Report.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Prices.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
