// Package mqtt provides the broker transport for the irrigation dashboard.
//
// This package manages:
//   - Secure WebSocket sessions (wss://host:port/path) via paho.mqtt.golang
//   - Per-session randomised client identifiers
//   - Clean-session semantics with library auto-reconnect disabled
//   - Topic builders and parsers for the plant/... hierarchy
//   - Classification of connect failures (auth, network, TLS, timeout)
//
// # Architecture
//
// The package exposes a Dialer that opens one session per call. A session
// reports everything through the Handlers callbacks; it never reconnects on
// its own. Reconnect policy belongs to the session manager, which owns the
// fixed backoff and the connection state machine.
//
//	session.Manager → Dialer.Dial → Conn ⇄ broker
//	      ↑                           |
//	      └──────── Handlers ─────────┘
//
// Callbacks run on paho goroutines. Consumers hand them to their own event
// loop rather than touching shared state directly.
//
// # Security Considerations
//
//   - Transport is always TLS 1.2+ over WebSocket
//   - Credentials are sent only in the CONNECT packet and never logged
//
// # Usage
//
//	conn := mqtt.PahoDialer{}.Dial(opts, mqtt.Handlers{
//	    OnConnect: func() { conn.Subscribe(mqtt.Topics{}.PumpStatus(1)) },
//	    OnMessage: func(topic string, payload []byte) { ... },
//	})
//	defer conn.Close()
package mqtt
