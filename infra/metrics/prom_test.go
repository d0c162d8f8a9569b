package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/ferro-gianluca-29/microgrid-simulator/core/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
)

func TestPromSinkRecordsStep(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	res := model.StepResult{
		Step:         0,
		Time:         time.Now(),
		SoC:          0.42,
		SoH:          0.955,
		ThroughputAh: 31.5,
		DeliveredKW:  8,
		GridImportKW: 2,
		StepHours:    0.25,
		PriceBand:    "peak",
	}
	if err := sink.RecordStep(res); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.RecordStep(res); err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := testutil.ToFloat64(sink.soc); got != 0.42 {
		t.Errorf("soc gauge %g, want 0.42", got)
	}
	if got := testutil.ToFloat64(sink.soh); got != 0.955 {
		t.Errorf("soh gauge %g, want 0.955", got)
	}
	if got := testutil.ToFloat64(sink.steps); got != 2 {
		t.Errorf("steps counter %g, want 2", got)
	}
	if got := testutil.ToFloat64(sink.gridEnergy.WithLabelValues("import", "peak")); got != 1 {
		t.Errorf("grid import energy %g, want 1 kWh", got)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	multi := coremetrics.NewMultiSink(coremetrics.NopSink{}, sink)
	if err := multi.RecordStep(model.StepResult{SoC: 0.7, StepHours: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(sink.soc); got != 0.7 {
		t.Errorf("soc gauge %g, want 0.7", got)
	}
}
