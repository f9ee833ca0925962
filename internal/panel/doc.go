// Package panel is the presentation layer of the dashboard.
//
// Render is a pure function from core state (connection status, device
// model snapshot, per-actuator animation) to a View: the texts, flags and
// markers the page displays. It performs no I/O and keeps no state, so the
// API can call it after every change and push the result to browsers.
//
// Handler serves the dashboard web page. The page is embedded into the
// binary with go:embed; a directory on disk can be served instead during
// development. Cache-control headers are set to no-cache so a rebuilt page
// is picked up on reload.
package panel
