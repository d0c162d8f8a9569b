// Package export renders a finished simulation run as CSV, JSON or an HTML
// chart for offline inspection.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
)

// WriteJSON writes the run log to w in JSON format.
func WriteJSON(w io.Writer, results []model.StepResult) error {
	enc := json.NewEncoder(w)
	return enc.Encode(results)
}

// WriteCSV writes the run log to w with one row per step.
func WriteCSV(w io.Writer, results []model.StepResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"step", "time", "load_kw", "pv_kw", "battery_power_kw", "delivered_kw",
		"soc", "soh", "throughput_ah", "grid_import_kw", "grid_export_kw",
		"price_band", "energy_cost_eur",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			strconv.Itoa(r.Step),
			r.Time.Format(time.RFC3339),
			ffmt(r.LoadKW),
			ffmt(r.PVKW),
			ffmt(r.BatteryPowerKW),
			ffmt(r.DeliveredKW),
			ffmt(r.SoC),
			ffmt(r.SoH),
			ffmt(r.ThroughputAh),
			ffmt(r.GridImportKW),
			ffmt(r.GridExportKW),
			r.PriceBand,
			ffmt(r.EnergyCostEUR),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ffmt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
