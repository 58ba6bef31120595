// Package http implements the v1 HTTP handlers of the indent desk API.
//
// Handlers stay thin: they decode and validate the request, call a service
// and render the result. Successful responses use the envelope
//
//	{"status": "success", "data": ...}
//
// and failures are RFC 7807 problem documents produced by the shared
// ErrorHandler. Service sentinel errors are translated to API errors in
// serviceError.
//
// Every handler exposes Routes() so the application router can mount it
// under /api/v1 behind the authentication middleware.
package http
