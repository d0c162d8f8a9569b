package config

import (
	"fmt"
	"os"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/battery"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/logger"
)

// BatteryConfig defines the battery pack and its step granularity.
type BatteryConfig struct {
	Chemistry   string  `json:"chemistry"`
	InitSoC     float64 `json:"init_soc"`
	InitialSOH  float64 `json:"initial_soh"`
	CapacityKWh float64 `json:"capacity_kwh"`
	CapacityAh  float64 `json:"capacity_ah"`
	PowerMaxKW  float64 `json:"power_max_kw"`
	SoCMin      float64 `json:"soc_min"`
	SoCMax      float64 `json:"soc_max"`
	Efficiency  float64 `json:"efficiency"`
	// SampleTimeHours is the duration of one simulation step.
	SampleTimeHours float64 `json:"sample_time_hours"`
	// CurveFile overrides the built-in NMC calibration table.
	CurveFile string `json:"curve_file"`
}

// SetDefaults applies sane defaults.
func (c *BatteryConfig) SetDefaults() {
	if c.Chemistry == "" {
		c.Chemistry = "NMC"
	}
	if c.InitialSOH == 0 {
		c.InitialSOH = 1.0
	}
	if c.SoCMax == 0 {
		c.SoCMax = 1.0
	}
	if c.Efficiency == 0 {
		c.Efficiency = 1.0
	}
	if c.SampleTimeHours == 0 {
		c.SampleTimeHours = 1.0
	}
}

// Validate checks the fields that Build does not already reject through the
// engine constructor.
func (c BatteryConfig) Validate() error {
	if _, err := battery.ParseChemistry(c.Chemistry); err != nil {
		return err
	}
	if c.InitSoC < c.SoCMin || c.InitSoC > c.SoCMax {
		return fmt.Errorf("battery init_soc %g outside [%g, %g]", c.InitSoC, c.SoCMin, c.SoCMax)
	}
	if c.SampleTimeHours <= 0 {
		return fmt.Errorf("battery sample_time_hours must be positive")
	}
	return nil
}

// Build resolves the chemistry policy and constructs the transition engine
// and its initial state.
func (c BatteryConfig) Build(log logger.Logger) (*battery.Engine, *battery.State, error) {
	chem, err := battery.ParseChemistry(c.Chemistry)
	if err != nil {
		return nil, nil, err
	}

	var curve *battery.SOHCurve
	if c.CurveFile != "" {
		f, err := os.Open(c.CurveFile)
		if err != nil {
			return nil, nil, fmt.Errorf("battery curve_file: %w", err)
		}
		defer f.Close()
		curve, err = battery.LoadCurve(f)
		if err != nil {
			return nil, nil, fmt.Errorf("battery curve_file %s: %w", c.CurveFile, err)
		}
	}

	policy, err := battery.ResolvePolicy(chem, c.InitialSOH, curve)
	if err != nil {
		return nil, nil, err
	}
	limits := battery.Limits{
		CapacityKWh: c.CapacityKWh,
		CapacityAh:  c.CapacityAh,
		PowerMaxKW:  c.PowerMaxKW,
		SoCMin:      c.SoCMin,
		SoCMax:      c.SoCMax,
		Efficiency:  c.Efficiency,
	}
	engine, err := battery.NewEngine(limits, policy, log)
	if err != nil {
		return nil, nil, err
	}
	return engine, battery.NewState(c.InitSoC), nil
}
