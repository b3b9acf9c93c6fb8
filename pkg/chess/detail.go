package chess

import (
	"fmt"
	"time"
)

// Detail is a side's time plus the breakdown specific to the rule set.
// Bronstein is set only under Bronstein, ByoYomi only under byo-yomi.
type Detail struct {
	Total     time.Duration
	Bronstein *BronsteinSplit
	ByoYomi   *ByoYomiPeriods
}

// BronsteinSplit divides a Bronstein clock into main time and the part of the
// delay that would still be refunded. Main + Delay == Total.
type BronsteinSplit struct {
	Main  time.Duration
	Delay time.Duration
}

// ByoYomiPeriods describes where a byo-yomi clock stands.
// Period is the number of whole periods still covered by the clock value.
type ByoYomiPeriods struct {
	Period     int
	Periods    int
	InMainTime bool
}

func (d *DualClock) detailLocked(side Side) Detail {
	t := d.clocks[side].CurrentTime()
	detail := Detail{Total: t}

	switch d.tc.RuleSet {
	case Bronstein:
		split := d.bronsteinSplit(side, t)
		detail.Bronstein = &split
	case ByoYomi:
		periods := d.byoYomiPeriods(side, t)
		detail.ByoYomi = &periods
	}

	return detail
}

func (d *DualClock) bronsteinSplit(side Side, t time.Duration) BronsteinSplit {
	inc := d.tc.increment[side]
	baseline := d.bronsteinFloor[side] - inc

	delay := t - baseline
	if delay < 0 {
		delay = 0
	}
	if delay > inc {
		delay = inc
	}

	return BronsteinSplit{Main: t - delay, Delay: delay}
}

func (d *DualClock) byoYomiPeriods(side Side, t time.Duration) ByoYomiPeriods {
	inc := d.tc.increment[side]
	total := d.tc.byoPeriods[side]
	p := ByoYomiPeriods{Periods: total}

	if t < 0 {
		return p
	}
	if inc <= 0 {
		p.InMainTime = t > 0
		return p
	}

	p.Period = total
	if n := int64(t / inc); n < int64(total) {
		p.Period = int(n)
	}
	p.InMainTime = t > inc*time.Duration(total)

	return p
}

func ruleSetMismatch(want, got RuleSet) error {
	return fmt.Errorf("%s detail requested under %s: %w", want, got, ErrInvalidState)
}
