package messages

import "github.com/tecu23/chessclock/pkg/chess"

// Outbound events
const (
	EventClockState = "CLOCK_STATE"
	EventFlagDown   = "FLAG_DOWN"
	EventError      = "ERROR"
)

// OutboundMessage is how we wrap responses before writing
// them to the driver output
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// SideState is the state of one clock
type SideState struct {
	TimeMs  int64  `json:"time_ms"`
	Display string `json:"display"`
	Flagged bool   `json:"flagged"`
	MainMs  *int64 `json:"main_ms,omitempty"`  // Bronstein only
	DelayMs *int64 `json:"delay_ms,omitempty"` // Bronstein only
	Period  *int   `json:"period,omitempty"`   // Byo-yomi only
	Periods *int   `json:"periods,omitempty"`  // Byo-yomi only
	InMain  *bool  `json:"in_main,omitempty"`  // Byo-yomi only
}

// ClockStatePayload contains information about the current state of the clock
type ClockStatePayload struct {
	SessionID  string    `json:"session_id"`
	Reason     string    `json:"reason"`
	RuleSet    string    `json:"rule_set"`
	ActiveSide string    `json:"active_side,omitempty"` // Empty while paused
	Left       SideState `json:"left"`
	Right      SideState `json:"right"`
}

// FlagDownPayload contains information about which side ran out of time
type FlagDownPayload struct {
	SessionID string `json:"session_id"`
	Side      string `json:"side"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewClockStatePayload converts a snapshot into its wire form
func NewClockStatePayload(sessionID, reason string, s chess.Snapshot) ClockStatePayload {
	p := ClockStatePayload{
		SessionID: sessionID,
		Reason:    reason,
		RuleSet:   s.RuleSet.String(),
		Left:      newSideState(s.Times[chess.Left]),
		Right:     newSideState(s.Times[chess.Right]),
	}

	if side, running := s.ActiveSide(); running {
		p.ActiveSide = side.String()
	}

	return p
}

func newSideState(d chess.Detail) SideState {
	st := SideState{
		TimeMs:  d.Total.Milliseconds(),
		Display: chess.FormatClockTime(d.Total),
		Flagged: d.Total < 0,
	}

	if b := d.Bronstein; b != nil {
		mainMs, delayMs := b.Main.Milliseconds(), b.Delay.Milliseconds()
		st.MainMs, st.DelayMs = &mainMs, &delayMs
	}

	if y := d.ByoYomi; y != nil {
		period, periods, inMain := y.Period, y.Periods, y.InMainTime
		st.Period, st.Periods, st.InMain = &period, &periods, &inMain
	}

	return st
}
