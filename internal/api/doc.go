// Package api serves the demo bank console over JSON HTTP.
//
// Routes live under /api/v1 and map one-to-one onto the bank services.
// Errors are rendered as
//
//	{"error":{"code":"INSUFFICIENT_FUNDS","message":"..."}}
//
// with the HTTP status taken from the error code, so presentation clients
// branch on the code and never parse messages. /health and /metrics sit
// outside the versioned prefix.
package api
