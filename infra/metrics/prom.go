package metrics

import (
	coremetrics "github.com/ferro-gianluca-29/microgrid-simulator/core/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes simulation state through Prometheus metrics.
type PromSink struct {
	steps      prometheus.Counter
	soc        prometheus.Gauge
	soh        prometheus.Gauge
	throughput prometheus.Gauge
	power      prometheus.Histogram
	gridEnergy *prometheus.CounterVec
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The HTTP server is started separately with StartPromServer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simulation_steps_total",
			Help: "Total number of committed simulation steps",
		}),
		soc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battery_soc",
			Help: "Battery state of charge fraction",
		}),
		soh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battery_soh",
			Help: "Battery state of health fraction",
		}),
		throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battery_throughput_ah",
			Help: "Cumulative battery Ah throughput",
		}),
		power: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "battery_power_kw",
			Help:    "Delivered battery power per step, positive for discharge",
			Buckets: prometheus.LinearBuckets(-50, 10, 11),
		}),
		gridEnergy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_energy_kwh_total",
			Help: "Energy exchanged with the grid",
		}, []string{"direction", "band"}),
	}

	collectors := []prometheus.Collector{s.steps, s.soc, s.soh, s.throughput, s.power, s.gridEnergy}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordStep updates the gauges and counters from one step result.
func (s *PromSink) RecordStep(res model.StepResult) error {
	s.steps.Inc()
	s.soc.Set(res.SoC)
	s.soh.Set(res.SoH)
	s.throughput.Set(res.ThroughputAh)
	s.power.Observe(res.DeliveredKW)
	if res.GridImportKW > 0 {
		s.gridEnergy.WithLabelValues("import", res.PriceBand).Add(res.GridImportKW * res.StepHours)
	}
	if res.GridExportKW > 0 {
		s.gridEnergy.WithLabelValues("export", res.PriceBand).Add(res.GridExportKW * res.StepHours)
	}
	return nil
}
