package chess

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/chessclock/pkg/timesource"
)

// Snapshot is a consistent view of both clocks taken under one lock
type Snapshot struct {
	RuleSet RuleSet
	Times   [2]Detail
	Active  Side
	Running bool
}

// ActiveSide returns the side whose clock is counting down, if any
func (s Snapshot) ActiveSide() (Side, bool) {
	return s.Active, s.Running
}

// Transition names the operation that changed the clock state
type Transition string

// All the state changing operations
const (
	TransitionStart       Transition = "start"
	TransitionChange      Transition = "change"
	TransitionStop        Transition = "stop"
	TransitionReset       Transition = "reset"
	TransitionTimeControl Transition = "time-control"
)

// Listener is called after every state change
type Listener func(Transition, Snapshot)

// DualClock manages the clocks of both sides under a TimeControl. At most one
// side is active; under every rule set except hourglass the other clock is
// paused.
//
// All methods are safe for concurrent use. Listeners registered with
// Subscribe run after the internal lock is released, so they may query the
// clock again.
type DualClock struct {
	mu sync.Mutex

	clocks [2]*Clock
	tc     TimeControl

	active  Side
	running bool

	// lowest post-move value seen per side, caps Bronstein refunds
	bronsteinFloor [2]time.Duration

	listeners []Listener

	logger *zap.Logger
}

// NewDualClock creates a dual clock with a zero sudden-death time control and
// both clocks paused at zero
func NewDualClock(src timesource.Source, logger *zap.Logger) *DualClock {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &DualClock{
		clocks: [2]*Clock{NewClock(src), NewClock(src)},
		logger: logger,
	}
	d.resetTimers()

	return d
}

// Subscribe registers fn to be called after every state change
func (d *DualClock) Subscribe(fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners = append(d.listeners, fn)
}

// StartTimer starts side's clock when nothing is running. If the other side
// is running it behaves like ChangeTimer; if side is already running it does
// nothing.
func (d *DualClock) StartTimer(side Side) {
	d.mu.Lock()

	if d.running {
		if d.active == side {
			d.mu.Unlock()
			return
		}
		d.changeTimer()
		d.unlockAndNotify(TransitionChange)
		return
	}

	other := side.Opp()
	if d.tc.RuleSet == Hourglass && d.clocks[other].CurrentTime() >= 0 {
		d.clocks[other].SetMode(CountingUp)
	}
	d.clocks[side].SetMode(CountingDown)
	d.active = side
	d.running = true

	d.logger.Debug("timer started",
		zap.Stringer("side", side),
		zap.Stringer("rule_set", d.tc.RuleSet),
	)

	d.unlockAndNotify(TransitionStart)
}

// ChangeTimer ends the active side's move: its time is credited according to
// the rule set and the other side's clock starts. Does nothing when paused.
func (d *DualClock) ChangeTimer() {
	d.mu.Lock()

	if !d.running {
		d.mu.Unlock()
		return
	}

	d.changeTimer()
	d.unlockAndNotify(TransitionChange)
}

// StopTimer pauses both clocks. Does nothing when already paused.
func (d *DualClock) StopTimer() {
	d.mu.Lock()

	if !d.running {
		d.mu.Unlock()
		return
	}

	for _, c := range d.clocks {
		c.SetMode(Paused)
	}
	d.running = false

	d.logger.Debug("timers stopped",
		zap.Duration("left", d.clocks[Left].CurrentTime()),
		zap.Duration("right", d.clocks[Right].CurrentTime()),
	)

	d.unlockAndNotify(TransitionStop)
}

// ResetTimers pauses both clocks and restores their initial times
func (d *DualClock) ResetTimers() {
	d.mu.Lock()
	d.resetTimers()
	d.unlockAndNotify(TransitionReset)
}

// SetTimeControl replaces the time control and resets both clocks
func (d *DualClock) SetTimeControl(tc TimeControl) {
	d.mu.Lock()
	d.tc = tc
	d.logger.Debug("time control changed",
		zap.Stringer("rule_set", tc.RuleSet),
		zap.Bool("symmetric", tc.Symmetric()),
	)
	d.resetTimers()
	d.unlockAndNotify(TransitionTimeControl)
}

// TimeControl returns a copy of the current time control
func (d *DualClock) TimeControl() TimeControl {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.tc
}

// ActiveSide returns the side whose clock is counting down, if any
func (d *DualClock) ActiveSide() (Side, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.active, d.running
}

// Time returns side's current clock value. Negative values are overtime.
func (d *DualClock) Time(side Side) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.clocks[side].CurrentTime()
}

// Flagged reports whether side's time has run out
func (d *DualClock) Flagged(side Side) bool {
	return d.Time(side) < 0
}

// DetailedTime returns side's time together with the rule-set specific split
func (d *DualClock) DetailedTime(side Side) Detail {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.detailLocked(side)
}

// BronsteinTime returns the main/delay split of side's time. Fails with
// ErrInvalidState unless the rule set is Bronstein.
func (d *DualClock) BronsteinTime(side Side) (BronsteinSplit, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tc.RuleSet != Bronstein {
		return BronsteinSplit{}, ruleSetMismatch(Bronstein, d.tc.RuleSet)
	}

	return d.bronsteinSplit(side, d.clocks[side].CurrentTime()), nil
}

// ByoYomiPeriods returns the period state of side's time. Fails with
// ErrInvalidState unless the rule set is ByoYomi.
func (d *DualClock) ByoYomiPeriods(side Side) (ByoYomiPeriods, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tc.RuleSet != ByoYomi {
		return ByoYomiPeriods{}, ruleSetMismatch(ByoYomi, d.tc.RuleSet)
	}

	return d.byoYomiPeriods(side, d.clocks[side].CurrentTime()), nil
}

// Snapshot returns both clocks and the active side as one consistent view
func (d *DualClock) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.snapshotLocked()
}

func (d *DualClock) changeTimer() {
	prev := d.active
	next := prev.Opp()
	c := d.clocks[prev]
	t := c.CurrentTime()

	if d.tc.RuleSet == Hourglass && t >= 0 {
		// the previous side keeps running and gains what the other side spends
		c.SetMode(CountingUp)
	} else {
		c.SetMode(Paused)
		if t >= 0 {
			c.SetTime(d.creditMove(prev, t))
		}
	}

	d.clocks[next].SetMode(CountingDown)
	d.active = next

	d.logger.Debug("timer changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", next),
		zap.Duration("remaining", c.CurrentTime()),
	)
}

// creditMove returns the value side's clock holds after a move that left t
// on it
func (d *DualClock) creditMove(side Side, t time.Duration) time.Duration {
	inc := d.tc.increment[side]

	switch d.tc.RuleSet {
	case Fischer:
		return t + inc

	case Bronstein:
		newT := t + inc
		if newT > d.bronsteinFloor[side] {
			return d.bronsteinFloor[side]
		}
		d.bronsteinFloor[side] = newT
		return newT

	case ByoYomi:
		if inc <= 0 {
			return t
		}
		period := t / inc
		if int64(period) < int64(d.tc.byoPeriods[side]) {
			// a consumed period restarts the countdown at the next full period
			return inc * (period + 1)
		}
		return t

	default:
		return t
	}
}

func (d *DualClock) resetTimers() {
	for _, side := range Sides {
		c := d.clocks[side]
		c.SetMode(Paused)
		c.SetTime(d.tc.InitialTime(side))
		d.bronsteinFloor[side] = c.CurrentTime()
	}
	d.running = false

	d.logger.Debug("timers reset",
		zap.Stringer("rule_set", d.tc.RuleSet),
		zap.Duration("left", d.clocks[Left].CurrentTime()),
		zap.Duration("right", d.clocks[Right].CurrentTime()),
	)
}

func (d *DualClock) snapshotLocked() Snapshot {
	return Snapshot{
		RuleSet: d.tc.RuleSet,
		Times:   [2]Detail{d.detailLocked(Left), d.detailLocked(Right)},
		Active:  d.active,
		Running: d.running,
	}
}

// unlockAndNotify releases the lock and hands a fresh snapshot to every
// listener
func (d *DualClock) unlockAndNotify(tr Transition) {
	snap := d.snapshotLocked()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(tr, snap)
	}
}
