package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/battery"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/logger"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `battery:
  chemistry: "NMC"
  init_soc: 0.5
  capacity_kwh: 150
  capacity_ah: 300
  power_max_kw: 20
  soc_min: 0.1
  soc_max: 0.9
  efficiency: 0.95
  sample_time_hours: 0.25
grid:
  max_import_kw: 100
  max_export_kw: 50
prices:
  peak:
    buy: 0.30
    sell: 0.10
    ranges:
      - start: 18
        end: 21
  offpeak:
    buy: 0.10
    sell: 0.05
stream:
  broker: "tcp://localhost:1883"
  topic: "site/samples"
metrics:
  prometheus_enabled: true
logging:
  level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"chemistry", cfg.Battery.Chemistry, "NMC"},
		{"init_soc", cfg.Battery.InitSoC, 0.5},
		{"initial_soh default", cfg.Battery.InitialSOH, 1.0},
		{"sample_time", cfg.Battery.SampleTimeHours, 0.25},
		{"max_import", cfg.Grid.MaxImportKW, 100.0},
		{"peak buy", cfg.Prices.Peak.BuyEURPerKWh, 0.30},
		{"peak range", cfg.Prices.Peak.Ranges[0].Start, 18},
		{"broker", cfg.Stream.Broker, "tcp://localhost:1883"},
		{"topic", cfg.Stream.Topic, "site/samples"},
		{"prometheus", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus port default", cfg.Metrics.PrometheusPort, "2112"},
		{"report dir default", cfg.Report.Dir, "reports"},
		{"log level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadRejectsFixedChemistryWithDegradedSOH(t *testing.T) {
	path := writeConfig(t, `battery:
  chemistry: "LFP"
  initial_soh: 0.9
  init_soc: 0.5
  capacity_kwh: 100
  capacity_ah: 200
  power_max_kw: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if _, _, err := cfg.Battery.Build(logger.Nop{}); !errors.Is(err, battery.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestLoadRejectsUnknownChemistry(t *testing.T) {
	path := writeConfig(t, `battery:
  chemistry: "lead-acid"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown chemistry")
	}
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestBatteryBuild(t *testing.T) {
	cfg := BatteryConfig{
		Chemistry:   "NMC",
		InitSoC:     0.4,
		CapacityKWh: 150,
		CapacityAh:  300,
		PowerMaxKW:  20,
		SoCMin:      0.1,
		SoCMax:      0.9,
	}
	cfg.SetDefaults()
	engine, state, err := cfg.Build(logger.Nop{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !engine.Policy().Degrades {
		t.Fatal("NMC policy must degrade")
	}
	if state.SoC != 0.4 || state.SoH != 1.0 {
		t.Fatalf("unexpected initial state %+v", state)
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, `battery:
  chemistry: "NMC"
  init_soc: 0.5
  capacity_kwh: 100
  capacity_ah: 200
  power_max_kw: 10
stream:
  broker: "tcp://localhost:1883"
`)
	t.Setenv("MG_STREAM__TOPIC", "override/topic")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Stream.Topic != "override/topic" {
		t.Fatalf("env override not applied, topic %q", cfg.Stream.Topic)
	}
}
