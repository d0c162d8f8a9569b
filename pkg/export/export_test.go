package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
)

func sampleResults() []model.StepResult {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.StepResult{
		{
			Step: 0, Time: ts, LoadKW: 10, PVKW: 2, BatteryPowerKW: 8,
			DeliveredKW: 8, SoC: 0.45, SoH: 1, ThroughputAh: 16,
			GridImportKW: 0, GridExportKW: 0, StepHours: 1,
			PriceBand: "peak", EnergyCostEUR: 0,
		},
		{
			Step: 1, Time: ts.Add(time.Hour), LoadKW: 4, PVKW: 9, BatteryPowerKW: -5,
			DeliveredKW: -5, SoC: 0.48, SoH: 1, ThroughputAh: 26,
			GridImportKW: 0, GridExportKW: 0, StepHours: 1,
			PriceBand: "offpeak", EnergyCostEUR: 0,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step,time,load_kw") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-01T12:00:00Z") {
		t.Fatalf("row missing timestamp: %q", lines[1])
	}
	if !strings.Contains(lines[2], "offpeak") {
		t.Fatalf("row missing price band: %q", lines[2])
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	results := sampleResults()
	if err := WriteJSON(&buf, results); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var decoded []model.StepResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].SoC != 0.48 {
		t.Fatalf("unexpected decode %+v", decoded)
	}
}

func TestWriteChartHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChartHTML(&buf, sampleResults()); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "SoC") || !strings.Contains(html, "SOH") {
		t.Fatal("chart missing series")
	}
}
