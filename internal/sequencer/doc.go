// Package sequencer derives the watering animation from actuator state.
//
// Each actuator has its own phase machine:
//
//	Idle ──on──▶ Flowing ──offsets──▶ PerTargetActive
//	  ▲                                    │
//	  │                                   off
//	  │                                    ▼
//	  └──duration── Celebrating ◀──stagger── Settling
//
// A turn-on marks the actuator as flowing and schedules one "reached target"
// timer per target at increasing offsets. A turn-off clears those markers,
// then staggers a celebrate marker per target and schedules one timer that
// returns the actuator to Idle.
//
// Timers are grouped per actuator into two categories, Targets and
// Celebrate. Every transition first cancels all timers of the actuator, and
// every timer checks the actuator's epoch before touching state, so a
// callback from a superseded transition can never change what is shown.
//
// The sequencer reacts only to model changes, never to user intent, so the
// animation reflects confirmed device state. It performs no I/O and must run
// on the event loop.
package sequencer
