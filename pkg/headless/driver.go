// Package headless drives a clock session with JSON commands, one per line,
// and writes state changes back as JSON lines. It stands in for the terminal
// UI in scripts and tests.
package headless

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/chessclock/pkg/chess"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/game"
	"github.com/tecu23/chessclock/pkg/messages"
)

// Driver routes inbound commands to a session and publishes its events
type Driver struct {
	session *game.Session

	in      io.Reader
	out     *json.Encoder
	writeMu sync.Mutex // Mutex to protect concurrent writes to out.

	logger *zap.Logger
}

// NewDriver creates a driver and subscribes it to the session's events
func NewDriver(session *game.Session, in io.Reader, out io.Writer, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Driver{
		session: session,
		in:      in,
		out:     json.NewEncoder(out),
		logger:  logger,
	}

	for _, t := range []events.EventType{
		events.EventClockStarted,
		events.EventClockSwitched,
		events.EventClockStopped,
		events.EventClockReset,
	} {
		session.Publisher.Subscribe(t, d.forwardState)
	}
	session.Publisher.Subscribe(events.EventFlagDown, d.forwardFlag)

	return d
}

// Run handles commands until the input ends or ctx is cancelled
func (d *Driver) Run(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go d.readPump(ctx, lines, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			d.handleLine(line)
		}
	}
}

func (d *Driver) readPump(ctx context.Context, lines chan<- []byte, readErr chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(d.in)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}

	readErr <- scanner.Err()
}

func (d *Driver) handleLine(line []byte) {
	var inbound messages.InboundMessage
	if err := json.Unmarshal(line, &inbound); err != nil {
		d.logger.Error("Failed to parse inbound JSON", zap.Error(err))
		d.sendError("Failed to parse inbound JSON")
		return
	}

	if err := d.handleInbound(inbound); err != nil {
		d.logger.Warn("command rejected",
			zap.String("type", inbound.Type),
			zap.Error(err),
		)
		d.sendError(err.Error())
	}
}

// handleInbound is where we decode and route a command
func (d *Driver) handleInbound(msg messages.InboundMessage) error {
	switch msg.Type {
	case messages.TypePress, messages.TypeStart:
		var payload messages.SidePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("invalid %s payload", msg.Type)
		}
		side, err := chess.ParseSide(payload.Side)
		if err != nil {
			return err
		}
		if msg.Type == messages.TypePress {
			d.session.Press(side)
		} else {
			d.session.Start(side)
		}

	case messages.TypeSwitch:
		d.session.Switch()

	case messages.TypePause:
		d.session.Pause()

	case messages.TypeReset:
		d.session.Reset()

	case messages.TypeSetTimeControl:
		var payload messages.SetTimeControlPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("invalid %s payload", msg.Type)
		}
		tc, err := timeControlFromPayload(payload)
		if err != nil {
			return err
		}
		return d.session.SetTimeControl(tc)

	case messages.TypeState:
		d.send(messages.OutboundMessage{
			Event:   messages.EventClockState,
			Payload: d.session.State("state"),
		})

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}

func timeControlFromPayload(p messages.SetTimeControlPayload) (chess.TimeControl, error) {
	rule, err := chess.ParseRuleSet(p.RuleSet)
	if err != nil {
		return chess.TimeControl{}, err
	}

	tc := chess.TimeControl{RuleSet: rule}
	settings := [2]messages.SideSettings{p.SideSettings, p.SideSettings}
	if p.Right != nil {
		settings[chess.Right] = *p.Right
	}

	for _, side := range chess.Sides {
		s := settings[side]
		mainTime, err := msDuration("main_time_ms", s.MainTimeMs)
		if err != nil {
			return chess.TimeControl{}, err
		}
		increment, err := msDuration("increment_ms", s.IncrementMs)
		if err != nil {
			return chess.TimeControl{}, err
		}
		if err := tc.SetMainTime(side, mainTime); err != nil {
			return chess.TimeControl{}, err
		}
		if err := tc.SetIncrement(side, increment); err != nil {
			return chess.TimeControl{}, err
		}
		if err := tc.SetByoPeriods(side, s.ByoPeriods); err != nil {
			return chess.TimeControl{}, err
		}
	}

	return tc, nil
}

// maxMs is the largest millisecond count a time.Duration can hold
const maxMs = math.MaxInt64 / int64(time.Millisecond)

func msDuration(field string, ms int64) (time.Duration, error) {
	if ms < 0 || ms > maxMs {
		return 0, fmt.Errorf("%s %d out of range [0, %d]: %w", field, ms, maxMs, chess.ErrInvalidArgument)
	}

	return time.Duration(ms) * time.Millisecond, nil
}

func (d *Driver) forwardState(event events.Event) {
	d.send(messages.OutboundMessage{
		Event:   messages.EventClockState,
		Payload: event.Payload,
	})
}

func (d *Driver) forwardFlag(event events.Event) {
	d.send(messages.OutboundMessage{
		Event:   messages.EventFlagDown,
		Payload: event.Payload,
	})
}

func (d *Driver) sendError(msg string) {
	d.send(messages.OutboundMessage{
		Event: messages.EventError,
		Payload: messages.ErrorPayload{
			Message: msg,
		},
	})
}

func (d *Driver) send(msg messages.OutboundMessage) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if err := d.out.Encode(msg); err != nil {
		d.logger.Error("write error", zap.Error(err))
	}
}
