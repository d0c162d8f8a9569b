package battery

import (
	"fmt"
	"strings"
)

// Chemistry identifies the cell chemistry of a battery pack.
type Chemistry int

const (
	// NMC degrades with cumulative Ah throughput following its curve table.
	NMC Chemistry = iota
	// LFP keeps SOH pinned at 1.0 for the whole run.
	LFP
	// NCA keeps SOH pinned at 1.0 for the whole run.
	NCA
)

// String returns a human-readable representation of the chemistry.
func (c Chemistry) String() string {
	switch c {
	case NMC:
		return "NMC"
	case LFP:
		return "LFP"
	case NCA:
		return "NCA"
	default:
		return "unknown"
	}
}

// ParseChemistry converts a configuration identifier into a Chemistry.
func ParseChemistry(s string) (Chemistry, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NMC":
		return NMC, nil
	case "LFP":
		return LFP, nil
	case "NCA":
		return NCA, nil
	default:
		return 0, fmt.Errorf("%w: unknown chemistry %q", ErrConfig, s)
	}
}

// Policy is the per-chemistry degradation variant, resolved once at battery
// construction and immutable thereafter. For degrading chemistries Curve is
// non-nil; for fixed chemistries SOH is pinned at 1.0 and Curve is nil.
type Policy struct {
	Chemistry Chemistry
	Degrades  bool
	Curve     *SOHCurve
}

// ResolvePolicy validates the configured initial SOH against the chemistry
// and selects the degradation variant. A fixed-SOH chemistry configured
// with any initial SOH other than 1.0 is rejected: silently pinning a wrong
// value would corrupt every downstream energy and cost metric.
func ResolvePolicy(chem Chemistry, initialSOH float64, curve *SOHCurve) (Policy, error) {
	switch chem {
	case LFP, NCA:
		if initialSOH != 1.0 {
			return Policy{}, fmt.Errorf("%w: chemistry %s does not degrade, initial SOH must be 1.0 (got %g)",
				ErrConfig, chem, initialSOH)
		}
		return Policy{Chemistry: chem}, nil
	case NMC:
		if initialSOH <= 0 || initialSOH > 1 {
			return Policy{}, fmt.Errorf("%w: initial SOH %g outside (0,1]", ErrConfig, initialSOH)
		}
		if curve == nil {
			curve = DefaultNMCCurve()
		}
		return Policy{Chemistry: chem, Degrades: true, Curve: curve}, nil
	default:
		return Policy{}, fmt.Errorf("%w: unknown chemistry %d", ErrConfig, int(chem))
	}
}
