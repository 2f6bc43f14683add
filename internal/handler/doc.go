// Package handler implements the HTTP API for editing inspection settings.
//
// SettingsHandler maps REST routes onto SettingsService operations. Each
// edit persists immediately; the response never depends on whether the
// settings are valid. Clients read diagnostics from /api/validation.
//
// # Response Format
//
// Adds return 201 with {id}. Updates and removes return 204. Errors are
// JSON {error, details}: 404 for unknown ids, 409 when an item type group
// is full, 400 for malformed bodies.
//
// Middleware provides panic recovery, CORS and request logging.
package handler
