// Package handler is the first layer after the router.
//
// It applies each endpoint's CORS policy, parses and validates the
// request, calls the service layer and translates the outcome into the
// endpoint's response or into an *errs.HTTPError for the global error
// handler.
package handler
