package battery

import "math"

// Record is one per-step history entry. The schema is identical for every
// step so reporting can append rows without per-step checks.
type Record struct {
	Step         int     `json:"step"`
	SoC          float64 `json:"soc"`
	SoH          float64 `json:"soh"`
	PowerKW      float64 `json:"power_kw"`
	ThroughputAh float64 `json:"throughput_ah"`
}

// State is the mutable physical record of one battery instance: state of
// charge, state of health, cumulative Ah throughput and the step counter.
// It is owned exclusively by the transition engine driving it and must not
// be mutated concurrently.
type State struct {
	SoC                    float64
	SoH                    float64
	CumulativeAhThroughput float64
	CurrentStep            int

	// History is append-only; entries are written once per committed step
	// and never mutated retroactively.
	History []Record

	lastSoH float64
}

// NewState creates a fresh state at the given initial state of charge, with
// SOH 1.0 and zero throughput.
func NewState(initSoC float64) *State {
	return &State{SoC: initSoC, SoH: 1.0, lastSoH: 1.0}
}

// LastSoH returns the most recently committed SOH value used by the
// monotonic non-increase guard.
func (s *State) LastSoH() float64 { return s.lastSoH }

// Reset rewinds the state to step zero: SOH and throughput re-initialize and
// degradation from prior runs is discarded. SoC and the accumulated history
// are kept. The engine applies the same re-initialization whenever it
// observes CurrentStep == 0, so a reset state behaves identically whether it
// was reset explicitly or reused from scratch.
func (s *State) Reset() {
	s.CurrentStep = 0
	s.SoH = 1.0
	s.lastSoH = 1.0
	s.CumulativeAhThroughput = 0
}

// ApplySOH accumulates the absolute Ah delta into the cumulative throughput
// and commits the degraded SOH derived from the curve. The monotonic guard
// keeps SOH from ever increasing, including across replayed thresholds or
// floating-point jitter at an exact breakpoint.
func (s *State) ApplySOH(curve *SOHCurve, deltaAh float64) float64 {
	s.CumulativeAhThroughput += math.Abs(deltaAh)
	soh := nextSOH(curve, s.CumulativeAhThroughput, s.lastSoH)
	s.lastSoH = soh
	s.SoH = soh
	return soh
}

// nextSOH derives the candidate SOH for the given cumulative throughput and
// enforces monotonic non-increase against the last committed value.
func nextSOH(curve *SOHCurve, cumulativeAh, lastSoH float64) float64 {
	return math.Min(curve.DiscreteSOH(cumulativeAh), lastSoH)
}
