// Package eventloop runs the dashboard core on a single goroutine.
//
// Every state change in the core (broker callbacks, routed messages,
// animation timers, user commands) is a closure posted to one Loop and
// executed to completion before the next one starts. Components that only
// ever run on the loop need no locks.
//
// Two implementations share the Executor interface:
//
//   - Loop: the production loop backed by an unbounded queue and time.AfterFunc.
//   - Manual: a virtual-time loop for tests. Posted work runs on Drain and
//     timers fire on Advance, so timing-dependent behaviour is deterministic.
//
// Timers returned by AfterFunc are cancellable: once Stop returns, the
// callback is guaranteed not to run, even if the underlying wall-clock timer
// already expired and its closure is queued.
package eventloop
