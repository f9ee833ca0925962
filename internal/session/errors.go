package session

import "errors"

var (
	// ErrNotConnected is returned when an outbound message is attempted while
	// the session is not in the Connected state. The message is dropped.
	ErrNotConnected = errors.New("not connected to broker")

	// ErrPublishFailed is returned when the transport rejects a publish.
	ErrPublishFailed = errors.New("publish failed")
)
