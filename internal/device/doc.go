// Package device holds the dashboard's view of the irrigation controller.
//
// The Model is the canonical in-memory record of:
//   - each actuator's reported on/off state
//   - each actuator's schedule, as last reported by the device or applied by the user
//   - the controller's online/offline heartbeat
//   - when the last message of any kind arrived
//
// Writes go through SetActuatorStatus, SetSchedule and SetDeviceHealth.
// Observers are notified synchronously after each write, so they always see
// the complete new state. The Model has no locks: it belongs to the event
// loop and must only be touched from there.
//
// The codec in this package converts between wire payloads and typed values.
// Decoding never panics; malformed input yields an error wrapping
// ErrPayloadDecode.
package device
