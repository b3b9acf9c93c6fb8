// Package game ties a dual clock to the outside world: it logs every
// transition, publishes events for the front-ends and watches for flag-down.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/chessclock/pkg/chess"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/messages"
	"github.com/tecu23/chessclock/pkg/timesource"
)

// DefaultTickInterval is how often Run publishes a tick
const DefaultTickInterval = 100 * time.Millisecond

var transitionEvents = map[chess.Transition]events.EventType{
	chess.TransitionStart:       events.EventClockStarted,
	chess.TransitionChange:      events.EventClockSwitched,
	chess.TransitionStop:        events.EventClockStopped,
	chess.TransitionReset:       events.EventClockReset,
	chess.TransitionTimeControl: events.EventClockReset,
}

// Session is one sitting at the chess clock
type Session struct {
	ID    uuid.UUID
	Clock *chess.DualClock

	// serializes the read-then-act sequence of Press
	mu sync.Mutex

	flagMu  sync.Mutex
	flagged [2]bool

	Publisher *events.Publisher
	Logger    *zap.Logger
}

// NewSession creates a session with tc applied and both clocks paused
func NewSession(
	tc chess.TimeControl,
	src timesource.Source,
	publisher *events.Publisher,
	logger *zap.Logger,
) (*Session, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = events.NewPublisher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	logger = logger.With(zap.String("session_id", id.String()))

	s := &Session{
		ID:        id,
		Clock:     chess.NewDualClock(src, logger.Named("clock")),
		Publisher: publisher,
		Logger:    logger,
	}

	s.Clock.SetTimeControl(tc)
	s.Clock.Subscribe(s.onTransition)

	logger.Info("created clock session",
		zap.Stringer("rule_set", tc.RuleSet),
		zap.Duration("left", tc.InitialTime(chess.Left)),
		zap.Duration("right", tc.InitialTime(chess.Right)),
	)

	return s, nil
}

// Press handles a player hitting their button. With the clock paused it
// starts the opponent's clock; with the player's own clock running it ends
// their move. Presses while the opponent's clock runs are ignored.
func (s *Session) Press(side chess.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, running := s.Clock.ActiveSide()
	switch {
	case !running:
		s.Clock.StartTimer(side.Opp())
	case active == side:
		s.Clock.ChangeTimer()
	default:
		s.Logger.Debug("ignored press on waiting side", zap.Stringer("side", side))
	}
}

// Start starts side's clock, or switches if the other side is running
func (s *Session) Start(side chess.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Clock.StartTimer(side)
}

// Switch ends the active side's move
func (s *Session) Switch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Clock.ChangeTimer()
}

// Pause stops both clocks
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Clock.StopTimer()
}

// Reset restores both clocks to their initial times
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Clock.ResetTimers()
}

// SetTimeControl replaces the time control, which resets both clocks
func (s *Session) SetTimeControl(tc chess.TimeControl) error {
	if err := tc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Clock.SetTimeControl(tc)
	return nil
}

// State returns the current clock state in wire form
func (s *Session) State(reason string) messages.ClockStatePayload {
	return messages.NewClockStatePayload(s.ID.String(), reason, s.Clock.Snapshot())
}

// Run publishes a tick every interval and reports flag-down until ctx is
// cancelled
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick publishes the current state and checks both flags
func (s *Session) Tick() {
	snap := s.Clock.Snapshot()

	s.Publisher.Publish(events.Event{
		Type:      events.EventClockTick,
		SessionID: s.ID.String(),
		Payload:   messages.NewClockStatePayload(s.ID.String(), "tick", snap),
	})

	s.checkFlags(snap)
}

func (s *Session) onTransition(tr chess.Transition, snap chess.Snapshot) {
	if tr == chess.TransitionReset || tr == chess.TransitionTimeControl {
		s.flagMu.Lock()
		s.flagged = [2]bool{}
		s.flagMu.Unlock()
	}

	s.Logger.Info("clock transition",
		zap.String("transition", string(tr)),
		zap.Int64("left_ms", snap.Times[chess.Left].Total.Milliseconds()),
		zap.Int64("right_ms", snap.Times[chess.Right].Total.Milliseconds()),
	)

	s.Publisher.Publish(events.Event{
		Type:      transitionEvents[tr],
		SessionID: s.ID.String(),
		Payload:   messages.NewClockStatePayload(s.ID.String(), string(tr), snap),
	})

	s.checkFlags(snap)
}

// checkFlags publishes FLAG_DOWN the first time a side goes negative after a
// reset
func (s *Session) checkFlags(snap chess.Snapshot) {
	for _, side := range chess.Sides {
		if snap.Times[side].Total >= 0 {
			continue
		}

		s.flagMu.Lock()
		already := s.flagged[side]
		s.flagged[side] = true
		s.flagMu.Unlock()

		if already {
			continue
		}

		s.Logger.Info("player time expired", zap.Stringer("side", side))

		s.Publisher.Publish(events.Event{
			Type:      events.EventFlagDown,
			SessionID: s.ID.String(),
			Payload: messages.FlagDownPayload{
				SessionID: s.ID.String(),
				Side:      side.String(),
			},
		})
	}
}
