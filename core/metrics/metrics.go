// Package metrics defines the reporting interfaces fed by the simulation
// loop. Implementations live in infra/metrics.
package metrics

import "github.com/ferro-gianluca-29/microgrid-simulator/core/model"

// StepRecorder records committed simulation steps for observability.
type StepRecorder interface {
	RecordStep(res model.StepResult) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordStep(model.StepResult) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []StepRecorder
}

// NewMultiSink builds a MultiSink from the given sinks.
func NewMultiSink(sinks ...StepRecorder) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordStep(res model.StepResult) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.RecordStep(res); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
