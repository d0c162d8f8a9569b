// Package app wires the configuration into a runnable service: battery
// engine, simulation loop, sample stream and reporting sinks.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferro-gianluca-29/microgrid-simulator/config"
	coremetrics "github.com/ferro-gianluca-29/microgrid-simulator/core/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/microgrid"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/logger"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/stream"
	"github.com/ferro-gianluca-29/microgrid-simulator/internal/eventbus"
)

// Service orchestrates the simulation loop and its sample source.
type Service struct {
	grid        *microgrid.Microgrid
	consumer    *stream.Consumer
	bus         *eventbus.Bus
	sink        coremetrics.StepRecorder
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration. The MQTT consumer is only
// constructed when a broker is configured; offline runs feed samples through
// Simulate instead.
func New(cfg *config.Config) (*Service, error) {
	cfg.Logging.Apply()
	logg := logger.New("service")

	engine, state, err := cfg.Battery.Build(logger.New("battery"))
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}

	var sinks []coremetrics.StepRecorder
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.StepRecorder = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	grid, err := microgrid.New(engine, state, cfg.Grid.Limits(), cfg.Prices,
		cfg.Battery.SampleTimeHours, bus, logger.New("microgrid"))
	if err != nil {
		return nil, fmt.Errorf("microgrid: %w", err)
	}

	svc := &Service{
		grid:        grid,
		bus:         bus,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.Stream.Broker != "" {
		consumer, err := stream.NewConsumer(cfg.Stream, logger.New("stream"))
		if err != nil {
			return nil, fmt.Errorf("stream: %w", err)
		}
		svc.consumer = consumer
	}
	return svc, nil
}

// Microgrid exposes the simulation loop, mainly for offline runs and tests.
func (s *Service) Microgrid() *microgrid.Microgrid { return s.grid }

// Run connects to the broker and processes live samples until the context is
// cancelled. Cancellation is a normal shutdown, not an error.
func (s *Service) Run(ctx context.Context) error {
	if s.consumer == nil {
		return fmt.Errorf("no sample stream configured: set stream.broker")
	}
	s.startRecorder()
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("stream start: %w", err)
	}
	err := s.grid.Run(ctx, s.consumer.Out())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Simulate replays a fixed sample set through the loop and returns the full
// run log.
func (s *Service) Simulate(ctx context.Context, samples []model.Sample) ([]model.StepResult, error) {
	s.startRecorder()
	for _, sample := range samples {
		select {
		case <-ctx.Done():
			return s.grid.Results(), ctx.Err()
		default:
		}
		if _, err := s.grid.Step(sample); err != nil {
			return s.grid.Results(), err
		}
	}
	s.log.Infof("simulation finished: %d steps, final SoC %.3f, SOH %.3f",
		len(samples), s.grid.State().SoC, s.grid.State().SoH)
	return s.grid.Results(), nil
}

// startRecorder pumps step events from the bus into the metrics sink.
func (s *Service) startRecorder() {
	sub := s.bus.Subscribe()
	go func() {
		for e := range sub {
			if err := s.sink.RecordStep(e.Result); err != nil {
				s.log.Errorf("record step %d: %v", e.Result.Step, err)
			}
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
