package headless

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tecu23/chessclock/pkg/chess"
	"github.com/tecu23/chessclock/pkg/events"
	"github.com/tecu23/chessclock/pkg/game"
	"github.com/tecu23/chessclock/pkg/messages"
	"github.com/tecu23/chessclock/pkg/timesource"
)

type outbound struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func newTestDriver(t *testing.T, input string) (*Driver, *game.Session, *timesource.Mock, *bytes.Buffer) {
	t.Helper()

	tc, err := chess.NewTimeControl(chess.Fischer, time.Minute, 2*time.Second, 0)
	require.NoError(t, err)

	src := timesource.NewMock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := zaptest.NewLogger(t)

	session, err := game.NewSession(tc, src, events.NewPublisher(), logger)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewDriver(session, strings.NewReader(input), out, logger), session, src, out
}

func readOutput(t *testing.T, out *bytes.Buffer) []outbound {
	t.Helper()

	var msgs []outbound
	scanner := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for scanner.Scan() {
		var msg outbound
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestDriver_PressAndState(t *testing.T) {
	input := `{"type":"PRESS","payload":{"side":"left"}}

{"type":"STATE"}
`
	d, _, _, out := newTestDriver(t, input)

	require.NoError(t, d.Run(context.Background()))

	msgs := readOutput(t, out)
	require.Len(t, msgs, 2)

	for _, msg := range msgs {
		assert.Equal(t, messages.EventClockState, msg.Event)
	}

	var started, state messages.ClockStatePayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &started))
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &state))

	assert.Equal(t, "start", started.Reason)
	assert.Equal(t, "right", started.ActiveSide)
	assert.Equal(t, "state", state.Reason)
	assert.Equal(t, "fischer", state.RuleSet)
	assert.Equal(t, int64(62000), state.Left.TimeMs)
	assert.Equal(t, "1:02", state.Left.Display)
}

func TestDriver_SwitchPauseReset(t *testing.T) {
	input := `{"type":"START","payload":{"side":"right"}}
{"type":"SWITCH"}
{"type":"PAUSE"}
{"type":"RESET"}
`
	d, session, _, out := newTestDriver(t, input)

	require.NoError(t, d.Run(context.Background()))

	var reasons []string
	for _, msg := range readOutput(t, out) {
		var p messages.ClockStatePayload
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		reasons = append(reasons, p.Reason)
	}

	assert.Equal(t, []string{"start", "change", "stop", "reset"}, reasons)
	_, running := session.Clock.ActiveSide()
	assert.False(t, running)
}

func TestDriver_SetTimeControl(t *testing.T) {
	input := `{"type":"SET_TIME_CONTROL","payload":{"rule_set":"bronstein","main_time_ms":300000,"increment_ms":3000,"right":{"main_time_ms":180000,"increment_ms":3000}}}
`
	d, session, _, out := newTestDriver(t, input)

	require.NoError(t, d.Run(context.Background()))

	tc := session.Clock.TimeControl()
	assert.Equal(t, chess.Bronstein, tc.RuleSet)
	assert.Equal(t, 5*time.Minute, tc.MainTime(chess.Left))
	assert.Equal(t, 3*time.Minute, tc.MainTime(chess.Right))

	msgs := readOutput(t, out)
	require.Len(t, msgs, 1)

	var p messages.ClockStatePayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &p))
	assert.Equal(t, "time-control", p.Reason)
	require.NotNil(t, p.Right.DelayMs)
	assert.Equal(t, int64(3000), *p.Right.DelayMs)
	assert.Equal(t, int64(180000), *p.Right.MainMs)
}

func TestDriver_Errors(t *testing.T) {
	input := `not json
{"type":"DANCE"}
{"type":"PRESS","payload":{"side":"middle"}}
{"type":"PRESS","payload":"left"}
{"type":"SET_TIME_CONTROL","payload":{"rule_set":"fischer","main_time_ms":-5}}
{"type":"SET_TIME_CONTROL","payload":{"rule_set":"blitzkrieg"}}
{"type":"SET_TIME_CONTROL","payload":{"rule_set":"fischer","main_time_ms":20000000000000}}
`
	d, session, _, out := newTestDriver(t, input)

	require.NoError(t, d.Run(context.Background()))

	msgs := readOutput(t, out)
	require.Len(t, msgs, 7)
	for _, msg := range msgs {
		assert.Equal(t, messages.EventError, msg.Event)
	}

	var e messages.ErrorPayload
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &e))
	assert.Contains(t, e.Message, "DANCE")

	require.NoError(t, json.Unmarshal(msgs[6].Payload, &e))
	assert.Contains(t, e.Message, "main_time_ms")

	// nothing reached the clock
	assert.Equal(t, chess.Fischer, session.Clock.TimeControl().RuleSet)
	_, running := session.Clock.ActiveSide()
	assert.False(t, running)
}

func TestDriver_FlagDown(t *testing.T) {
	input := `{"type":"START","payload":{"side":"left"}}
`
	d, session, src, out := newTestDriver(t, input)

	require.NoError(t, d.Run(context.Background()))

	src.Advance(63 * time.Second)
	session.Tick()

	msgs := readOutput(t, out)
	require.Len(t, msgs, 2)
	assert.Equal(t, messages.EventFlagDown, msgs[1].Event)

	var flag messages.FlagDownPayload
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &flag))
	assert.Equal(t, "left", flag.Side)
	assert.Equal(t, session.ID.String(), flag.SessionID)
}

func TestDriver_StopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	tc, err := chess.NewTimeControl(chess.SuddenDeath, time.Minute, 0, 0)
	require.NoError(t, err)
	session, err := game.NewSession(tc, timesource.System{}, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	d := NewDriver(session, pr, &bytes.Buffer{}, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTimeControlFromPayload_Range(t *testing.T) {
	tests := []struct {
		name     string
		settings messages.SideSettings
		wantErr  bool
	}{
		{"zero", messages.SideSettings{}, false},
		{"largest", messages.SideSettings{MainTimeMs: maxMs}, false},
		{"main overflows", messages.SideSettings{MainTimeMs: 20_000_000_000_000}, true},
		{"main one past largest", messages.SideSettings{MainTimeMs: maxMs + 1}, true},
		{"increment overflows", messages.SideSettings{IncrementMs: math.MaxInt64}, true},
		{"negative", messages.SideSettings{MainTimeMs: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := timeControlFromPayload(messages.SetTimeControlPayload{
				RuleSet:      "fischer",
				SideSettings: tt.settings,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, chess.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Duration(tt.settings.MainTimeMs)*time.Millisecond, tc.MainTime(chess.Left))
		})
	}
}

func TestDriver_ReadPumpStopsOnCancel(t *testing.T) {
	d, _, _, _ := newTestDriver(t, "{\"type\":\"STATE\"}\n{\"type\":\"STATE\"}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nobody reads lines, so the pump may only leave through ctx
	lines := make(chan []byte)
	done := make(chan struct{})
	go func() {
		d.readPump(ctx, lines, make(chan error, 1))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("readPump blocked after cancel")
	}
}
