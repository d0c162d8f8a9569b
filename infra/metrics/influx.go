package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/ferro-gianluca-29/microgrid-simulator/core/metrics"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/logger"
)

// InfluxSink writes simulation steps to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing reporting backend never
// blocks a simulation run.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.StepRecorder {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordStep writes one step result as a line protocol point.
func (s *InfluxSink) RecordStep(res model.StepResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("microgrid_step").
		AddTag("price_band", res.PriceBand).
		AddField("step", res.Step).
		AddField("load_kw", res.LoadKW).
		AddField("pv_kw", res.PVKW).
		AddField("delivered_kw", res.DeliveredKW).
		AddField("soc", res.SoC).
		AddField("soh", res.SoH).
		AddField("throughput_ah", res.ThroughputAh).
		AddField("grid_import_kw", res.GridImportKW).
		AddField("grid_export_kw", res.GridExportKW).
		AddField("energy_cost_eur", res.EnergyCostEUR).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
