// Package router turns inbound broker messages into device model writes.
//
// Each topic kind has its own decode step. A payload that fails to decode is
// logged and dropped; the model keeps its prior state. Topics outside the
// plant hierarchy, command echoes and actuators the model does not know are
// ignored.
package router
