// Package app wires the counsel finder together: configuration,
// logging, OpenTelemetry, the EDGAR search engine, the reference store,
// the WebSocket hub, and the HTTP server with its middleware chain.
//
// The initialization sequence:
//
//	1. Load configuration from environment and config file
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Resolve and create the working directories
//	4. Construct the domain services bottom-up
//	5. Build the Chi router and HTTP server
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests,
// stops the hub, and flushes telemetry. Initialization errors are
// returned to main rather than exiting directly.
package app
