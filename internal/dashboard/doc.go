// Package dashboard wires the irrigation core together and runs it on a
// single event loop.
//
//	credentials.Store ─▶ session.Manager ─▶ router.Router ─▶ device.Model
//	                           ▲                                 │
//	command.Emitter ───────────┘                 sequencer.Sequencer
//	                                                             │
//	                                 panel.Render ◀──────────────┘
//
// Every exported method may be called from any goroutine. Each one hands its
// work to the loop with Do and waits for it, so the model, the session and
// the sequencer are only ever touched by the loop goroutine. Store I/O
// happens on the caller's goroutine, before or after the loop step.
//
// Changes are coalesced: any number of model, session or animation changes
// within one loop step produce a single rendered View for subscribers.
package dashboard
