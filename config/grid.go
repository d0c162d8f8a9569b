package config

import "github.com/ferro-gianluca-29/microgrid-simulator/core/microgrid"

// GridConfig bounds the exchange with the upstream grid.
type GridConfig struct {
	MaxImportKW float64 `json:"max_import_kw"`
	MaxExportKW float64 `json:"max_export_kw"`
}

// SetDefaults applies sane defaults. An unconfigured grid is effectively
// unconstrained.
func (c *GridConfig) SetDefaults() {
	if c.MaxImportKW == 0 {
		c.MaxImportKW = 1e9
	}
	if c.MaxExportKW == 0 {
		c.MaxExportKW = 1e9
	}
}

// Limits converts the section into the simulation type.
func (c GridConfig) Limits() microgrid.GridLimits {
	return microgrid.GridLimits{MaxImportKW: c.MaxImportKW, MaxExportKW: c.MaxExportKW}
}
