// Package api implements the HTTP REST facade and WebSocket push server.
//
// This package provides:
//   - REST endpoints for device state, the activity log, settings, and
//     control commands
//   - Account registration and login with JWT bearer auth
//   - A WebSocket hub that pushes state changes to connected dashboards
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
