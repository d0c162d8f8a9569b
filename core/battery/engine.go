package battery

import (
	"fmt"
	"math"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/logger"
)

// Limits bundles the physical limits of a battery pack.
type Limits struct {
	CapacityKWh float64 // nominal energy capacity
	CapacityAh  float64 // nominal charge capacity
	PowerMaxKW  float64 // symmetric charge/discharge power limit
	SoCMin      float64 // lower state-of-charge bound
	SoCMax      float64 // upper state-of-charge bound
	Efficiency  float64 // one-way efficiency in (0,1]
}

// Validate checks that the limits describe a physically sound pack.
func (l Limits) Validate() error {
	if l.CapacityKWh <= 0 {
		return fmt.Errorf("%w: capacity_kwh must be positive", ErrConfig)
	}
	if l.CapacityAh <= 0 {
		return fmt.Errorf("%w: capacity_ah must be positive", ErrConfig)
	}
	if l.PowerMaxKW <= 0 {
		return fmt.Errorf("%w: power_max_kw must be positive", ErrConfig)
	}
	if l.SoCMin < 0 || l.SoCMax > 1 || l.SoCMin >= l.SoCMax {
		return fmt.Errorf("%w: SoC bounds must satisfy 0 <= min < max <= 1", ErrConfig)
	}
	if l.Efficiency <= 0 || l.Efficiency > 1 {
		return fmt.Errorf("%w: efficiency must be in (0,1]", ErrConfig)
	}
	return nil
}

// Result carries the outcome of one transition.
type Result struct {
	SoC          float64
	SoH          float64
	DeliveredKW  float64 // actual power after SoC/power clamping
	DeltaAh      float64 // Ah moved during the step, absolute
	ThroughputAh float64 // cumulative throughput after the step
}

// Engine advances the physical state of a battery one step at a time.
//
// Sign convention: positive power discharges the battery (grid injection),
// negative power charges it. Charging stores |energy| * efficiency;
// discharging withdraws energy / efficiency, so a full round trip returns
// efficiency² of the energy put in.
type Engine struct {
	limits Limits
	policy Policy
	log    logger.Logger
}

// NewEngine validates the limits and binds the chemistry policy. The policy
// is immutable for the life of the engine; chemistry cannot change mid-run.
func NewEngine(limits Limits, policy Policy, log logger.Logger) (*Engine, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if policy.Degrades && policy.Curve == nil {
		return nil, fmt.Errorf("%w: degrading chemistry %s requires a curve table", ErrConfig, policy.Chemistry)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{limits: limits, policy: policy, log: log}, nil
}

// Limits returns the engine's physical limits.
func (e *Engine) Limits() Limits { return e.limits }

// Policy returns the resolved chemistry policy.
func (e *Engine) Policy() Policy { return e.policy }

// Transition applies the requested power for the given step duration and
// commits the resulting state: SoC from the efficiency-weighted energy
// balance, SOH from the degradation curve, and one appended history record.
// The returned delivered power may be smaller in magnitude than requested
// when a SoC bound truncates the step; the caller needs that value to
// balance grid and PV flows correctly.
func (e *Engine) Transition(st *State, requestedPowerKW, sampleTimeHours float64) (Result, error) {
	r, err := e.compute(st, requestedPowerKW, sampleTimeHours)
	if err != nil {
		return Result{}, err
	}
	if st.CurrentStep == 0 {
		st.SoH = 1.0
		st.lastSoH = 1.0
		st.CumulativeAhThroughput = 0
	}
	st.SoC = r.SoC
	if e.policy.Degrades {
		st.ApplySOH(e.policy.Curve, r.DeltaAh)
	} else {
		st.SoH = 1.0
	}
	st.History = append(st.History, Record{
		Step:         st.CurrentStep,
		SoC:          st.SoC,
		SoH:          st.SoH,
		PowerKW:      r.DeliveredKW,
		ThroughputAh: st.CumulativeAhThroughput,
	})
	st.CurrentStep++
	e.log.Debugw("battery transition", map[string]any{
		"step":          st.CurrentStep,
		"soc":           st.SoC,
		"soh":           st.SoH,
		"delivered_kw":  r.DeliveredKW,
		"throughput_ah": st.CumulativeAhThroughput,
	})
	return r, nil
}

// TransitionWithoutUpdate evaluates a hypothetical command without touching
// the state: no SoC/SOH commit, no throughput accumulation, no history
// append. Given identical inputs it returns exactly what Transition would.
func (e *Engine) TransitionWithoutUpdate(st *State, requestedPowerKW, sampleTimeHours float64) (Result, error) {
	return e.compute(st, requestedPowerKW, sampleTimeHours)
}

// compute is the pure transition: it reads the state and derives the next
// values without mutating anything. Step zero re-initializes SOH and
// throughput unconditionally, even on a reused state object.
func (e *Engine) compute(st *State, requestedPowerKW, sampleTimeHours float64) (Result, error) {
	if sampleTimeHours <= 0 || math.IsNaN(sampleTimeHours) {
		return Result{}, fmt.Errorf("%w: sample time %g hours, must be positive", ErrInvalidArgument, sampleTimeHours)
	}

	baseLast, baseThroughput := st.lastSoH, st.CumulativeAhThroughput
	if st.CurrentStep == 0 {
		baseLast, baseThroughput = 1.0, 0
	}

	power := clamp(requestedPowerKW, -e.limits.PowerMaxKW, e.limits.PowerMaxKW)

	// External energy moved this step, converted to the internal SoC delta
	// on the loss-incurring leg.
	var deltaSoC float64
	switch {
	case power > 0: // discharge: internal withdrawal exceeds delivered energy
		deltaSoC = -(power * sampleTimeHours / e.limits.Efficiency) / e.limits.CapacityKWh
	case power < 0: // charge: only the efficient fraction is stored
		deltaSoC = (-power * sampleTimeHours * e.limits.Efficiency) / e.limits.CapacityKWh
	}

	socNew := clamp(st.SoC+deltaSoC, e.limits.SoCMin, e.limits.SoCMax)
	actual := socNew - st.SoC

	// Delivered power is recomputed from the post-clamp SoC change so a
	// truncated request is reported honestly.
	var delivered float64
	switch {
	case actual < 0:
		delivered = (-actual * e.limits.CapacityKWh) * e.limits.Efficiency / sampleTimeHours
	case actual > 0:
		delivered = -(actual * e.limits.CapacityKWh) / e.limits.Efficiency / sampleTimeHours
	}

	deltaAh := math.Abs(actual) * e.limits.CapacityAh

	soh := 1.0
	throughput := baseThroughput
	if e.policy.Degrades {
		throughput += deltaAh
		soh = nextSOH(e.policy.Curve, throughput, baseLast)
	}

	return Result{
		SoC:          socNew,
		SoH:          soh,
		DeliveredKW:  delivered,
		DeltaAh:      deltaAh,
		ThroughputAh: throughput,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
