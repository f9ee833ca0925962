package device

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire tokens.
const (
	TokenOn      = "on"
	TokenOff     = "off"
	TokenOnline  = "online"
	TokenOffline = "offline"
)

// DecodeStatus decodes an actuator status token ("on" or "off").
func DecodeStatus(payload []byte) (bool, error) {
	switch string(bytes.TrimSpace(payload)) {
	case TokenOn:
		return true, nil
	case TokenOff:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status token %q", ErrPayloadDecode, truncate(payload))
	}
}

// DecodeHealth decodes a heartbeat token ("online" or "offline").
func DecodeHealth(payload []byte) (bool, error) {
	switch string(bytes.TrimSpace(payload)) {
	case TokenOnline:
		return true, nil
	case TokenOffline:
		return false, nil
	default:
		return false, fmt.Errorf("%w: health token %q", ErrPayloadDecode, truncate(payload))
	}
}

// wireSchedule detects missing fields; a zero value is legal for most of them.
type wireSchedule struct {
	Enabled      *bool `json:"enabled"`
	Hour         *int  `json:"hour"`
	Minute       *int  `json:"minute"`
	IntervalDays *int  `json:"intervalDays"`
	DurationMs   *int  `json:"durationMs"`
}

// DecodeSchedule decodes a schedule object. All five fields are required
// and must be in range; anything else is a decode error.
func DecodeSchedule(payload []byte) (ScheduleConfig, error) {
	var w wireSchedule
	if err := json.Unmarshal(payload, &w); err != nil {
		return ScheduleConfig{}, fmt.Errorf("%w: schedule: %w", ErrPayloadDecode, err)
	}

	var missing []string
	if w.Enabled == nil {
		missing = append(missing, "enabled")
	}
	if w.Hour == nil {
		missing = append(missing, "hour")
	}
	if w.Minute == nil {
		missing = append(missing, "minute")
	}
	if w.IntervalDays == nil {
		missing = append(missing, "intervalDays")
	}
	if w.DurationMs == nil {
		missing = append(missing, "durationMs")
	}
	if len(missing) > 0 {
		return ScheduleConfig{}, fmt.Errorf("%w: schedule missing %v", ErrPayloadDecode, missing)
	}

	cfg := ScheduleConfig{
		Enabled:      *w.Enabled,
		Hour:         *w.Hour,
		Minute:       *w.Minute,
		IntervalDays: *w.IntervalDays,
		DurationMs:   *w.DurationMs,
	}
	if err := cfg.Validate(); err != nil {
		return ScheduleConfig{}, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	return cfg, nil
}

// EncodeSchedule encodes a schedule for the schedule topic.
func EncodeSchedule(cfg ScheduleConfig) ([]byte, error) {
	return json.Marshal(cfg)
}

// EncodeSwitch encodes a plain on/off command.
func EncodeSwitch(on bool) []byte {
	if on {
		return []byte(TokenOn)
	}
	return []byte(TokenOff)
}

// timedCommand is the structured form of a timed run.
type timedCommand struct {
	State    string `json:"state"`
	Duration int    `json:"duration"`
}

// EncodeTimed encodes {"state":"on","duration":ms}.
func EncodeTimed(durationMs int) ([]byte, error) {
	return json.Marshal(timedCommand{State: TokenOn, Duration: durationMs})
}

// truncate keeps log lines bounded when a device sends garbage.
func truncate(payload []byte) string {
	const limit = 64
	if len(payload) > limit {
		return string(payload[:limit]) + "..."
	}
	return string(payload)
}
