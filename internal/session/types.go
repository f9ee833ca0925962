package session

import (
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
)

// State is the connection state.
type State int

// Connection states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateErrored
)

// String returns the lower-case state name used in logs and the API.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the connection.
type Status struct {
	State State

	// Reason carries the underlying cause for StateErrored and for an
	// unsolicited StateDisconnected.
	Reason string

	// Kind classifies the failure behind StateErrored.
	Kind mqtt.FailureKind

	// Attempts counts connect attempts since the last successful connect.
	Attempts int

	// Since is when State was entered.
	Since time.Time
}

// Settings are the fixed session parameters that do not come from the user.
type Settings struct {
	Port              int
	Path              string
	ClientIDPrefix    string
	ConnectTimeout    time.Duration
	ReconnectInterval time.Duration
	KeepAlive         time.Duration
	QoS               byte

	// Topics are subscribed after every successful connect.
	Topics []string
}

// Event is a transport occurrence delivered to Dispatch.
// It is one of EventConnected, EventMessage, EventError, EventClosed or
// EventReconnecting.
type Event interface {
	generation() uint64
}

// EventConnected reports that the broker accepted the session.
type EventConnected struct {
	Gen uint64
}

// EventMessage carries one inbound message.
type EventMessage struct {
	Gen     uint64
	Topic   string
	Payload []byte
}

// EventError reports a failed connect attempt.
type EventError struct {
	Gen uint64
	Err error
}

// EventClosed reports that an established session was closed by the peer or the network.
type EventClosed struct {
	Gen uint64
	Err error
}

// EventReconnecting fires when the backoff interval has elapsed.
type EventReconnecting struct {
	Gen uint64
}

func (e EventConnected) generation() uint64    { return e.Gen }
func (e EventMessage) generation() uint64      { return e.Gen }
func (e EventError) generation() uint64        { return e.Gen }
func (e EventClosed) generation() uint64       { return e.Gen }
func (e EventReconnecting) generation() uint64 { return e.Gen }
