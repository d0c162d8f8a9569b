// Package microgrid runs the step-by-step simulation: battery dispatch,
// transition, grid balance and energy cost for each load/PV sample.
package microgrid

import (
	"context"
	"fmt"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/battery"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/dispatch"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/logger"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/ferro-gianluca-29/microgrid-simulator/internal/eventbus"
)

// GridLimits bounds the power exchanged with the upstream grid.
type GridLimits struct {
	MaxImportKW float64
	MaxExportKW float64
}

// Validate checks the grid limits.
func (g GridLimits) Validate() error {
	if g.MaxImportKW < 0 || g.MaxExportKW < 0 {
		return fmt.Errorf("grid limits must be non-negative")
	}
	return nil
}

// Microgrid owns one battery state and drives it through the simulation in
// strict step order. It is not safe for concurrent use: a single loop owns
// the instance, per the exclusive-ownership model of the battery state.
type Microgrid struct {
	engine    *battery.Engine
	state     *battery.State
	ctrl      dispatch.RuleBasedController
	grid      GridLimits
	prices    PriceSchedule
	stepHours float64
	bus       eventbus.EventBus
	log       logger.Logger

	results []model.StepResult
}

// New assembles a microgrid around an already-constructed battery engine.
// The bus may be nil when no reporting subscriber is attached.
func New(engine *battery.Engine, state *battery.State, grid GridLimits, prices PriceSchedule,
	stepHours float64, bus eventbus.EventBus, log logger.Logger) (*Microgrid, error) {
	if engine == nil || state == nil {
		return nil, fmt.Errorf("engine and state are required")
	}
	if stepHours <= 0 {
		return nil, fmt.Errorf("step duration must be positive, got %g hours", stepHours)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Microgrid{
		engine:    engine,
		state:     state,
		ctrl:      dispatch.RuleBasedController{PowerMaxKW: engine.Limits().PowerMaxKW},
		grid:      grid,
		prices:    prices,
		stepHours: stepHours,
		bus:       bus,
		log:       log,
	}, nil
}

// State exposes the battery state for inspection. Callers must not mutate
// it while the simulation is running.
func (m *Microgrid) State() *battery.State { return m.state }

// Results returns the per-step log accumulated so far.
func (m *Microgrid) Results() []model.StepResult { return m.results }

// Reset rewinds the battery to step zero and clears the run log.
func (m *Microgrid) Reset() {
	m.state.Reset()
	m.results = nil
}

// Step processes one sample: the rule-based controller picks the battery
// command, the engine commits the transition, and the grid covers the
// residual. The delivered power, not the request, enters the grid balance
// so SoC-bound truncation shows up as extra import or lost export.
func (m *Microgrid) Step(sample model.Sample) (model.StepResult, error) {
	step := m.state.CurrentStep
	req := m.ctrl.Decide(sample.LoadKW, sample.PVKW)
	res, err := m.engine.Transition(m.state, req, m.stepHours)
	if err != nil {
		return model.StepResult{}, fmt.Errorf("step %d: %w", step, err)
	}

	net := sample.LoadKW - sample.PVKW - res.DeliveredKW
	var imp, exp float64
	if net > 0 {
		imp = net
		if imp > m.grid.MaxImportKW {
			m.log.Warnf("step %d: import %0.2f kW exceeds grid limit %0.2f kW, load shed", step, imp, m.grid.MaxImportKW)
			imp = m.grid.MaxImportKW
		}
	} else if net < 0 {
		exp = -net
		if exp > m.grid.MaxExportKW {
			m.log.Warnf("step %d: export %0.2f kW exceeds grid limit %0.2f kW, curtailed", step, exp, m.grid.MaxExportKW)
			exp = m.grid.MaxExportKW
		}
	}

	band, label := m.prices.Resolve(sample.Timestamp)
	cost := imp*m.stepHours*band.BuyEURPerKWh - exp*m.stepHours*band.SellEURPerKWh

	result := model.StepResult{
		Step:           step,
		Time:           sample.Timestamp,
		LoadKW:         sample.LoadKW,
		PVKW:           sample.PVKW,
		BatteryPowerKW: req,
		DeliveredKW:    res.DeliveredKW,
		SoC:            res.SoC,
		SoH:            res.SoH,
		ThroughputAh:   res.ThroughputAh,
		GridImportKW:   imp,
		GridExportKW:   exp,
		StepHours:      m.stepHours,
		PriceBand:      label,
		EnergyCostEUR:  cost,
	}
	m.results = append(m.results, result)
	if m.bus != nil {
		m.bus.Publish(eventbus.StepEvent{Result: result})
	}
	return result, nil
}

// Run consumes samples until the channel closes or the context is done.
func (m *Microgrid) Run(ctx context.Context, samples <-chan model.Sample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				m.log.Infof("sample stream closed after %d steps", m.state.CurrentStep)
				return nil
			}
			if _, err := m.Step(s); err != nil {
				return err
			}
		}
	}
}
