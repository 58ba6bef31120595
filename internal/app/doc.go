// Package app wires the IndentDesk server together: configuration, logging
// and telemetry, the spreadsheet row store and its cache, the services,
// the websocket hub, scheduled jobs and the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration from file and environment (cmd/web)
//	2. Initialize logging and OpenTelemetry
//	3. Open the row store backend and the cache
//	4. Build the services and the websocket hub
//	5. Schedule background jobs when enabled
//	6. Set up middleware and routes, then create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
