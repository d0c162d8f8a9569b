// Package dispatch implements the rule-based control policy deciding the
// battery command for each simulation step.
package dispatch

// tolerance below which load and PV are considered balanced.
const tolerance = 1e-6

// RuleBasedController implements the greedy dispatch rule: discharge the
// battery to cover a load deficit, charge it with a PV surplus, and let the
// grid absorb whatever the battery cannot.
type RuleBasedController struct {
	// PowerMaxKW caps the magnitude of the returned command.
	PowerMaxKW float64
}

// Decide returns the requested battery power for the step, positive for
// discharge. The returned value never exceeds PowerMaxKW in magnitude; the
// transition engine applies the SoC bounds and reports what was actually
// delivered.
func (c RuleBasedController) Decide(loadKW, pvKW float64) float64 {
	switch {
	case loadKW > pvKW+tolerance:
		deficit := loadKW - pvKW
		if deficit > c.PowerMaxKW {
			deficit = c.PowerMaxKW
		}
		return deficit
	case pvKW > loadKW+tolerance:
		surplus := pvKW - loadKW
		if surplus > c.PowerMaxKW {
			surplus = c.PowerMaxKW
		}
		return -surplus
	default:
		return 0
	}
}
