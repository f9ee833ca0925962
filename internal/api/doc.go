// Package api provides the local HTTP API and WebSocket feed the dashboard
// page talks to.
//
// Routes (all under /api/v1 except the page):
//
//	GET    /health                       liveness, version, broker state
//	GET    /state                        rendered dashboard view
//	PUT    /connection                   store credentials and (re)connect
//	DELETE /connection                   disconnect; ?forget=1 also deletes credentials
//	POST   /actuators/{id}/state         {on} or {on:true, duration_ms}
//	PUT    /actuators/{id}/schedule      schedule object
//	GET    /ws                           pushes "dashboard.view" events
//	GET    /panel/                       the dashboard page
//
// Errors are JSON bodies {status, code, message}. A command attempted while
// the broker is not connected answers 409 with code "not_connected".
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
