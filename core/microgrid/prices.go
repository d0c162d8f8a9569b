package microgrid

import (
	"fmt"
	"time"
)

// HourRange is an inclusive [Start, End] hour-of-day interval.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r HourRange) contains(hour int) bool {
	return r.Start <= hour && hour <= r.End
}

// PriceBand holds buy/sell prices for a set of hour ranges.
type PriceBand struct {
	BuyEURPerKWh  float64     `json:"buy"`
	SellEURPerKWh float64     `json:"sell"`
	Ranges        []HourRange `json:"ranges"`
}

// PriceSchedule resolves grid prices per timestamp. Bands are checked in
// peak, standard order; offpeak is the fallback when no range matches.
type PriceSchedule struct {
	Peak     PriceBand `json:"peak"`
	Standard PriceBand `json:"standard"`
	Offpeak  PriceBand `json:"offpeak"`
}

// Validate checks hour ranges and price signs.
func (s PriceSchedule) Validate() error {
	for _, band := range []struct {
		name string
		b    PriceBand
	}{{"peak", s.Peak}, {"standard", s.Standard}, {"offpeak", s.Offpeak}} {
		if band.b.BuyEURPerKWh < 0 || band.b.SellEURPerKWh < 0 {
			return fmt.Errorf("price band %s: negative price", band.name)
		}
		for _, r := range band.b.Ranges {
			if r.Start < 0 || r.End > 23 || r.Start > r.End {
				return fmt.Errorf("price band %s: bad hour range %d-%d", band.name, r.Start, r.End)
			}
		}
	}
	return nil
}

// Resolve returns the band prices active at ts and the band label.
func (s PriceSchedule) Resolve(ts time.Time) (PriceBand, string) {
	hour := ts.Hour()
	for _, band := range []struct {
		name string
		b    PriceBand
	}{{"peak", s.Peak}, {"standard", s.Standard}} {
		for _, r := range band.b.Ranges {
			if r.contains(hour) {
				return band.b, band.name
			}
		}
	}
	return s.Offpeak, "offpeak"
}
