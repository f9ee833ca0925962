package device

import (
	"fmt"
	"strconv"
	"time"
)

// MaxDurationMs is the longest run the controller accepts, in milliseconds.
const MaxDurationMs = 300000

// ActuatorID identifies a pump, numbered from 1.
type ActuatorID int

// ParseActuatorID parses a decimal actuator ID.
func ParseActuatorID(s string) (ActuatorID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActuator, s)
	}
	return ActuatorID(n), nil
}

// ActuatorStatus is the reported state of one actuator.
type ActuatorStatus struct {
	ID   ActuatorID `json:"id"`
	IsOn bool       `json:"is_on"`

	// Reported is false until the device has sent a status for this actuator.
	Reported  bool      `json:"reported"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ScheduleConfig is an actuator's watering schedule. The JSON form is the
// wire format shared with the controller.
type ScheduleConfig struct {
	Enabled      bool `json:"enabled"`
	Hour         int  `json:"hour"`
	Minute       int  `json:"minute"`
	IntervalDays int  `json:"intervalDays"`
	DurationMs   int  `json:"durationMs"`
}

// Validate checks every field range.
func (s ScheduleConfig) Validate() error {
	switch {
	case s.Hour < 0 || s.Hour > 23:
		return fmt.Errorf("%w: hour %d not in 0..23", ErrInvalidSchedule, s.Hour)
	case s.Minute < 0 || s.Minute > 59:
		return fmt.Errorf("%w: minute %d not in 0..59", ErrInvalidSchedule, s.Minute)
	case s.IntervalDays < 1:
		return fmt.Errorf("%w: intervalDays %d must be positive", ErrInvalidSchedule, s.IntervalDays)
	}
	if err := ValidateDuration(s.DurationMs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	return nil
}

// ValidateDuration checks a run duration in milliseconds.
func ValidateDuration(ms int) error {
	if ms < 0 || ms > MaxDurationMs {
		return fmt.Errorf("%w: %dms not in 0..%d", ErrInvalidDuration, ms, MaxDurationMs)
	}
	return nil
}

// Schedule pairs a ScheduleConfig with its actuator.
type Schedule struct {
	ID     ActuatorID     `json:"id"`
	Config ScheduleConfig `json:"config"`

	// Known is false until a schedule has been received or applied.
	Known     bool      `json:"known"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// DeviceHealth is the controller heartbeat.
type DeviceHealth struct {
	Online    bool      `json:"online"`
	Reported  bool      `json:"reported"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Snapshot is a copy of the whole model.
type Snapshot struct {
	Actuators     []ActuatorStatus `json:"actuators"`
	Schedules     []Schedule       `json:"schedules"`
	Health        DeviceHealth     `json:"health"`
	LastMessageAt time.Time        `json:"last_message_at,omitzero"`
}
