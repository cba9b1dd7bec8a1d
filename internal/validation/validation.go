// Package validation contains the logic for validating request data.
//
// Request bodies are decoded into a generic JSON object first so the
// handlers can report the first missing or mistyped field in a fixed order,
// then mapped onto typed requests whose struct tags are checked with the
// `validator` library.
package validation
