package errs

import (
	"encoding/json"
	"strings"
)

// Kind is the machine-readable class of a failure.
type Kind string

const (
	// KindValidation is a malformed or incomplete request.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindConfig is a missing credential or setting.
	KindConfig Kind = "CONFIG_ERROR"
	// KindUpstream is a failed call to a third-party API.
	KindUpstream Kind = "UPSTREAM_ERROR"
	// KindUnexpectedShape is a third-party response missing expected fields.
	KindUnexpectedShape Kind = "UNEXPECTED_SHAPE_ERROR"
	// KindMethodNotAllowed is an unsupported HTTP method.
	KindMethodNotAllowed Kind = "METHOD_NOT_ALLOWED"
	// KindInternal is everything else, including store failures.
	KindInternal Kind = "INTERNAL_ERROR"
)

// Format selects the JSON body shape of an error response.
//
//	FormatMessage: {"message": "...", "error": "..."}   (error only when Detail is set)
//	FormatError:   {"error": "..."}
//	FormatText:    "..."
type Format int

const (
	FormatMessage Format = iota
	FormatError
	FormatText
)

// HTTPError is the main custom error type for API responses.
type HTTPError struct {
	Kind    Kind
	Status  int
	Message string

	// Detail is the underlying error text, only rendered in FormatMessage.
	Detail string

	Format Format
}

// Error makes *HTTPError satisfy the error interface.
func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Is reports whether target is also an *HTTPError, regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	c := *e
	c.Message = message
	return &c
}

// WithDetail returns a copy of e carrying the text of err as Detail.
func (e *HTTPError) WithDetail(err error) *HTTPError {
	c := *e
	if err != nil {
		c.Detail = err.Error()
	}
	return &c
}

// Body returns the value to serialize as the response body.
func (e *HTTPError) Body() any {
	switch e.Format {
	case FormatError:
		return map[string]string{"error": e.Message}
	case FormatText:
		return e.Message
	default:
		body := map[string]string{"message": e.Message}
		if e.Detail != "" {
			body["error"] = e.Detail
		}
		return body
	}
}

// MarshalJSON renders the error as its response body.
func (e *HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Body())
}

// MakeUpperCaseWithUnderscores converts "Method Not Allowed" to "METHOD_NOT_ALLOWED".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
