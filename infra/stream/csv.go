package stream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
)

// ReadSamples parses an offline sample file with three columns per row:
// RFC3339 timestamp, load kW, PV kW. A header row is skipped when the first
// column is not a timestamp.
func ReadSamples(r io.Reader) ([]model.Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}

	var samples []model.Sample
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("sample row %d: expected 3 columns, got %d", i+1, len(row))
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("sample row %d: bad timestamp %q", i+1, row[0])
		}
		load, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("sample row %d: bad load %q", i+1, row[1])
		}
		pv, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("sample row %d: bad pv %q", i+1, row[2])
		}
		samples = append(samples, model.Sample{Timestamp: ts, LoadKW: load, PVKW: pv})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("sample source has no data rows")
	}
	return samples, nil
}
