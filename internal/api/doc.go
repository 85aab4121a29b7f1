// ABOUTME: Package documentation for the REST API layer
// ABOUTME: Explains the route surface and the write-path authorization rule

// Package api implements the JSON REST surface of the site.
//
// A single Server value owns every handler and receives its dependencies
// (store, auth gate, uploader, mailer) at construction. Routes are registered
// on a standard ServeMux using method-scoped patterns.
//
// The authorization rule is uniform: every read is public, every write goes
// through Gate.RequireAdmin. The two exceptions are the auth endpoints
// themselves and POST /api/contact, which exists so anonymous visitors can
// reach the site owner.
//
// Handlers return a JSON object with an "error" key on failure. Messages for
// 4xx responses are stable strings that the admin UI matches on; 5xx
// responses carry a generic message while the cause goes to the log.
package api
