package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrPayloadDecode) {
//	    // log and drop the message
//	}
var (
	// ErrPayloadDecode is returned when an inbound payload cannot be decoded.
	ErrPayloadDecode = errors.New("device: payload decode error")

	// ErrUnknownActuator is returned for an actuator ID outside 1..N.
	ErrUnknownActuator = errors.New("device: unknown actuator")

	// ErrInvalidSchedule is returned when a schedule field is out of range.
	ErrInvalidSchedule = errors.New("device: invalid schedule")

	// ErrInvalidDuration is returned for a negative or over-limit run duration.
	ErrInvalidDuration = errors.New("device: invalid duration")
)
