// Package errs defines the error types rendered to API clients.
//
// Every failure that reaches the HTTP layer is an *HTTPError. It carries a
// machine-readable Kind, the status code, the client-facing message, an
// optional detail, and the body Format the endpoint answers with. The
// global error handler in the middleware package renders it.
package errs
