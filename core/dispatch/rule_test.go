package dispatch

import "testing"

func TestDecideDischargesOnDeficit(t *testing.T) {
	c := RuleBasedController{PowerMaxKW: 10}
	if got := c.Decide(8, 3); got != 5 {
		t.Fatalf("expected 5 got %g", got)
	}
}

func TestDecideChargesOnSurplus(t *testing.T) {
	c := RuleBasedController{PowerMaxKW: 10}
	if got := c.Decide(2, 9); got != -7 {
		t.Fatalf("expected -7 got %g", got)
	}
}

func TestDecideCapsAtPowerLimit(t *testing.T) {
	c := RuleBasedController{PowerMaxKW: 10}
	if got := c.Decide(50, 0); got != 10 {
		t.Fatalf("expected 10 got %g", got)
	}
	if got := c.Decide(0, 50); got != -10 {
		t.Fatalf("expected -10 got %g", got)
	}
}

func TestDecideIdleWhenBalanced(t *testing.T) {
	c := RuleBasedController{PowerMaxKW: 10}
	if got := c.Decide(5, 5); got != 0 {
		t.Fatalf("expected 0 got %g", got)
	}
	if got := c.Decide(5, 5+5e-7); got != 0 {
		t.Fatalf("within tolerance: expected 0 got %g", got)
	}
}
