// Package session owns the single broker session of a dashboard.
//
// The Manager is the connection state machine:
//
//	Disconnected → Connecting → {Connected | Errored}
//	Connected → {Disconnected (close) | Errored}
//	Errored/Disconnected → Reconnecting (after backoff) → Connecting
//
// Transport callbacks are converted to Event values and posted to the event
// loop, where Dispatch is the only function that advances the machine. Every
// connect attempt carries a generation number; events belonging to an older
// attempt are discarded, so a late callback from a torn-down session cannot
// change state.
//
// Reconnects use a fixed interval and never give up. Only Disconnect ends
// the cycle.
//
// All Manager methods must be called on the event loop.
package session
