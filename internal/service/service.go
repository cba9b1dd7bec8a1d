// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, talks to the expense store or to a
// third-party API, and returns domain values. Failures are returned as
// typed errors (*config.MissingSecretError, *upstream.Error, store errors)
// and translated into client responses by the handler layer.
package service
