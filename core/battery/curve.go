package battery

import (
	"bytes"
	"encoding/csv"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

//go:embed nmc_soh_curve.csv
var nmcCurveCSV []byte

// SOHCurve is an immutable lookup of cumulative Ah-throughput thresholds to
// SOH fractions, loaded once per chemistry and safely shared across battery
// instances. Thresholds are strictly ascending and values non-increasing.
//
// The authoritative semantics are discrete: SOH holds the value of the
// highest reached threshold. A continuous monotone estimate over the same
// pairs is kept as a secondary, non-authoritative fallback.
type SOHCurve struct {
	thresholds []float64
	values     []float64
	fallback   *interp.FritschButland
	domainMin  float64
	domainMax  float64
}

// LoadCurve parses a two-column CSV source of (throughput Ah, SOH percent)
// pairs. A header row is skipped when the first column is not numeric.
// Percentages must lie in (0,100] and are converted to fractions. Rows are
// canonicalized to ascending threshold order; the source is not trusted to
// be sorted.
func LoadCurve(r io.Reader) (*SOHCurve, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read curve source: %v", ErrConfig, err)
	}

	type pair struct{ ah, soh float64 }
	var pairs []pair
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: curve row %d: expected 2 columns, got %d", ErrConfig, i+1, len(row))
		}
		ah, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%w: curve row %d: bad throughput %q", ErrConfig, i+1, row[0])
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: curve row %d: bad SOH %q", ErrConfig, i+1, row[1])
		}
		if ah < 0 {
			return nil, fmt.Errorf("%w: curve row %d: negative throughput %g", ErrConfig, i+1, ah)
		}
		if pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("%w: curve row %d: SOH %g outside (0,100]", ErrConfig, i+1, pct)
		}
		pairs = append(pairs, pair{ah: ah, soh: pct / 100})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: curve source has no data rows", ErrConfig)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ah < pairs[j].ah })

	c := &SOHCurve{
		thresholds: make([]float64, len(pairs)),
		values:     make([]float64, len(pairs)),
	}
	for i, p := range pairs {
		if i > 0 && p.ah == pairs[i-1].ah {
			return nil, fmt.Errorf("%w: duplicate curve threshold %g", ErrConfig, p.ah)
		}
		if i > 0 && p.soh > pairs[i-1].soh {
			return nil, fmt.Errorf("%w: SOH increases at threshold %g", ErrConfig, p.ah)
		}
		c.thresholds[i] = p.ah
		c.values[i] = p.soh
	}
	c.buildFallback()
	return c, nil
}

// DefaultNMCCurve returns the embedded reference calibration curve for the
// degrading chemistry.
func DefaultNMCCurve() *SOHCurve {
	c, err := LoadCurve(bytes.NewReader(nmcCurveCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded NMC curve: %v", err))
	}
	return c
}

// buildFallback fits the monotone continuous estimator over the table pairs.
// The origin (0 Ah, SOH 1.0) is prepended when the first threshold is
// positive so the estimate covers fresh batteries.
func (c *SOHCurve) buildFallback() {
	xs := c.thresholds
	ys := c.values
	if xs[0] > 0 {
		xs = append([]float64{0}, xs...)
		ys = append([]float64{1}, ys...)
	}
	if len(xs) < 2 {
		return
	}
	var fb interp.FritschButland
	if err := fb.Fit(xs, ys); err != nil {
		return
	}
	c.fallback = &fb
	c.domainMin = xs[0]
	c.domainMax = xs[len(xs)-1]
}

// Len returns the number of table rows.
func (c *SOHCurve) Len() int { return len(c.thresholds) }

// Point returns the i-th (threshold, value) pair in ascending order.
func (c *SOHCurve) Point(i int) (float64, float64) {
	return c.thresholds[i], c.values[i]
}

// DiscreteSOH returns the SOH fraction for the given cumulative throughput.
// A threshold counts as reached when cumulativeAh >= threshold. Before the
// first threshold SOH is 1.0; beyond the last threshold the final table
// value is pinned.
func (c *SOHCurve) DiscreteSOH(cumulativeAh float64) float64 {
	soh := 1.0
	for i, th := range c.thresholds {
		if cumulativeAh < th {
			break
		}
		soh = c.values[i]
	}
	return soh
}

// ContinuousSOH returns the continuous monotone estimate at the given
// cumulative throughput, clamped to the fitted domain. It is not used by
// the transition path; the discrete stepping of DiscreteSOH is
// authoritative.
func (c *SOHCurve) ContinuousSOH(cumulativeAh float64) float64 {
	if c.fallback == nil {
		return c.DiscreteSOH(cumulativeAh)
	}
	x := cumulativeAh
	if x < c.domainMin {
		x = c.domainMin
	}
	if x > c.domainMax {
		x = c.domainMax
	}
	return c.fallback.Predict(x)
}
