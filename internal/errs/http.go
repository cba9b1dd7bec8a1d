package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 validation failure.
func NewBadRequestError(message string, format Format) *HTTPError {
	return &HTTPError{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Format:  format,
	}
}

// NewMethodNotAllowedError creates a 405 with the standard status text.
func NewMethodNotAllowedError(format Format) *HTTPError {
	return &HTTPError{
		Kind:    KindMethodNotAllowed,
		Status:  http.StatusMethodNotAllowed,
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Format:  format,
	}
}

// NewConfigError creates a 500 for a missing credential or setting.
func NewConfigError(message string, format Format) *HTTPError {
	return &HTTPError{
		Kind:    KindConfig,
		Status:  http.StatusInternalServerError,
		Message: message,
		Format:  format,
	}
}

// NewUpstreamError creates a 500 for a failed third-party call.
//
// The upstream error text is never exposed; log it before returning.
func NewUpstreamError(message string, format Format) *HTTPError {
	return &HTTPError{
		Kind:    KindUpstream,
		Status:  http.StatusInternalServerError,
		Message: message,
		Format:  format,
	}
}

// NewUnexpectedShapeError creates a 500 for a third-party response missing fields.
func NewUnexpectedShapeError(message string, format Format) *HTTPError {
	return &HTTPError{
		Kind:    KindUnexpectedShape,
		Status:  http.StatusInternalServerError,
		Message: message,
		Format:  format,
	}
}

// NewInternalServerError creates a 500. A non-nil cause is exposed as Detail,
// which only FormatMessage bodies render.
func NewInternalServerError(message string, format Format, cause error) *HTTPError {
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}

	e := &HTTPError{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: message,
		Format:  format,
	}

	return e.WithDetail(cause)
}
