package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/gorilla/websocket"
)

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when publishing or subscribing on a closed session.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed wraps every failed connect attempt.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("mqtt: operation timed out")
)

// FailureKind classifies why a connect attempt failed.
type FailureKind string

// Failure kinds.
const (
	FailureAuth    FailureKind = "auth"
	FailureNetwork FailureKind = "network"
	FailureTLS     FailureKind = "tls"
	FailureTimeout FailureKind = "timeout"
	FailureUnknown FailureKind = "unknown"
)

// ConnectError describes a failed connect attempt.
// It matches both ErrConnectionFailed and the underlying cause with errors.Is.
type ConnectError struct {
	Kind FailureKind
	Err  error
}

// NewConnectError classifies err and wraps it.
func NewConnectError(err error) *ConnectError {
	return &ConnectError{Kind: Classify(err), Err: err}
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrConnectionFailed, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *ConnectError) Unwrap() []error {
	return []error{ErrConnectionFailed, e.Err}
}

// Classify maps a transport error to a FailureKind.
//
// Structured errors are checked first (paho CONNACK refusals, x509/tls
// errors, net errors). Some failures surface from the websocket dialer as
// plain strings, so the message is inspected as a last resort.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	if errors.Is(err, ErrTimeout) {
		return FailureTimeout
	}
	if errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword) ||
		errors.Is(err, packets.ErrorRefusedNotAuthorised) {
		return FailureAuth
	}

	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalidCert      x509.CertificateInvalidError
		verification     *tls.CertificateVerificationError
		recordHeader     tls.RecordHeaderError
		alert            tls.AlertError
	)
	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &hostname),
		errors.As(err, &invalidCert),
		errors.As(err, &verification),
		errors.As(err, &recordHeader),
		errors.As(err, &alert):
		return FailureTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}
	if errors.Is(err, websocket.ErrBadHandshake) {
		return FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not authorized"), strings.Contains(msg, "not authorised"),
		strings.Contains(msg, "bad user name or password"):
		return FailureAuth
	case strings.Contains(msg, "x509"), strings.Contains(msg, "tls:"), strings.Contains(msg, "certificate"):
		return FailureTLS
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"), strings.Contains(msg, "eof"):
		return FailureNetwork
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return FailureTimeout
	}
	return FailureUnknown
}
