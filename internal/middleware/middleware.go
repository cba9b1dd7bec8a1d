// Package middleware stores global and endpoint-level middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request logging, New Relic tracing, rate limiting, panic
// recovery and the per-endpoint CORS header sets, and they own the global
// error handler that renders every failure.
package middleware
