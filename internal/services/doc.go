// Package services sits between the HTTP transport and the domain
// engines. SearchService runs the three search flows, resolves date
// windows, enriches rows with market caps from the reference store, and
// streams progress to WebSocket clients. ReferenceService and
// StockLoanService wrap their respective data sources for the API, and
// HealthService backs the health and readiness probes.
package services
