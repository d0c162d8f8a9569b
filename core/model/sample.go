package model

import "time"

// Sample is one timestamped load/PV measurement taken from the data stream.
// Powers are averages over the step that ends at Timestamp.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	LoadKW    float64   `json:"load_kw"`
	PVKW      float64   `json:"pv_kw"`
}

// StepResult is the committed outcome of one simulation step. The schema is
// identical for every step so reporting can append rows without checks.
type StepResult struct {
	Step           int       `json:"step"`
	Time           time.Time `json:"time"`
	LoadKW         float64   `json:"load_kw"`
	PVKW           float64   `json:"pv_kw"`
	BatteryPowerKW float64   `json:"battery_power_kw"` // requested, positive = discharge
	DeliveredKW    float64   `json:"delivered_kw"`     // actual after clamping
	SoC            float64   `json:"soc"`
	SoH            float64   `json:"soh"`
	ThroughputAh   float64   `json:"throughput_ah"`
	GridImportKW   float64   `json:"grid_import_kw"`
	GridExportKW   float64   `json:"grid_export_kw"`
	StepHours      float64   `json:"step_hours"`
	PriceBand      string    `json:"price_band"`
	EnergyCostEUR  float64   `json:"energy_cost_eur"` // positive = money spent
}
