// Package chess defines the chess clock entities: a single stopwatch, the
// time control policy and the dual clock that enforces the rule sets.
package chess

import (
	"time"

	"github.com/tecu23/chessclock/pkg/timesource"
)

// Mode is the direction a Clock is running in
type Mode int

// All the possible clock modes
const (
	Paused Mode = iota
	CountingUp
	CountingDown
)

func (m Mode) String() string {
	switch m {
	case CountingUp:
		return "counting-up"
	case CountingDown:
		return "counting-down"
	default:
		return "paused"
	}
}

// Clock is a single stoppable, reversible stopwatch. Elapsed time is computed
// on read from the anchor instant; nothing runs in the background.
//
// Clock is not goroutine-safe. DualClock owns its clocks and serializes access.
type Clock struct {
	mode   Mode
	base   time.Duration
	anchor time.Time

	src timesource.Source
}

// NewClock creates a paused clock at zero reading time from src
func NewClock(src timesource.Source) *Clock {
	if src == nil {
		src = timesource.System{}
	}

	return &Clock{src: src}
}

// Mode returns the current mode
func (c *Clock) Mode() Mode {
	return c.mode
}

// SetMode freezes the current value and switches to m. Every call re-anchors,
// even when m equals the current mode; the visible value does not change.
func (c *Clock) SetMode(m Mode) {
	now := c.src.Now()

	c.base = c.timeAt(now)
	if m != Paused {
		c.anchor = now
	}
	c.mode = m
}

// CurrentTime returns the clock value at this instant
func (c *Clock) CurrentTime() time.Duration {
	if c.mode == Paused {
		return c.base
	}

	return c.timeAt(c.src.Now())
}

// SetTime overwrites the value and pauses the clock
func (c *Clock) SetTime(v time.Duration) {
	c.base = v
	c.mode = Paused
}

func (c *Clock) timeAt(now time.Time) time.Duration {
	elapsed := now.Sub(c.anchor)

	switch c.mode {
	case CountingUp:
		return c.base + elapsed
	case CountingDown:
		return c.base - elapsed
	default:
		return c.base
	}
}
