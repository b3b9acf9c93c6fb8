package messages

import "encoding/json"

// Inbound message types
const (
	TypePress          = "PRESS"
	TypeStart          = "START"
	TypeSwitch         = "SWITCH"
	TypePause          = "PAUSE"
	TypeReset          = "RESET"
	TypeSetTimeControl = "SET_TIME_CONTROL"
	TypeState          = "STATE"
)

// InboundMessage is the generic wrapper for commands coming from the driver.
// The "type" field tells us the action; "payload" is the data we parse further.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SidePayload names the side a PRESS or START applies to
type SidePayload struct {
	Side string `json:"side"`
}

// SideSettings are the time settings of one side in milliseconds
type SideSettings struct {
	MainTimeMs  int64 `json:"main_time_ms"`
	IncrementMs int64 `json:"increment_ms"`
	ByoPeriods  int   `json:"byo_periods"`
}

// SetTimeControlPayload configures both sides with the same settings unless
// Right overrides them
type SetTimeControlPayload struct {
	RuleSet string `json:"rule_set"`
	SideSettings
	Right *SideSettings `json:"right,omitempty"`
}
