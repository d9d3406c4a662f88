// Package http implements the HTTP handlers for the counsel finder API.
// Handlers stay thin: they parse and validate requests, delegate to the
// service layer, and map service errors to RFC 7807 problem details.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                             ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// Search endpoints additionally support format=csv, which streams the
// result table as a UTF-8 BOM prefixed CSV attachment.
package http
