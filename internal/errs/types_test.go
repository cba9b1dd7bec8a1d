package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyFormats(t *testing.T) {
	tests := []struct {
		name string
		err  *HTTPError
		want string
	}{
		{
			name: "message without detail",
			err:  NewBadRequestError("Invalid JSON format.", FormatMessage),
			want: `{"message":"Invalid JSON format."}`,
		},
		{
			name: "message with detail",
			err:  NewInternalServerError("Error fetching expenses", FormatMessage, errors.New("boom")),
			want: `{"message":"Error fetching expenses","error":"boom"}`,
		},
		{
			name: "error key",
			err:  NewConfigError("GitHub PAT not found in environment variables.", FormatError),
			want: `{"error":"GitHub PAT not found in environment variables."}`,
		},
		{
			name: "detail hidden outside message format",
			err:  NewInternalServerError("An unexpected server error occurred.", FormatError, errors.New("secret")),
			want: `{"error":"An unexpected server error occurred."}`,
		},
		{
			name: "bare string",
			err:  NewBadRequestError("Missing request body.", FormatText),
			want: `"Missing request body."`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("x", FormatText).Status)
	assert.Equal(t, KindValidation, NewBadRequestError("x", FormatText).Kind)

	notAllowed := NewMethodNotAllowedError(FormatMessage)
	assert.Equal(t, http.StatusMethodNotAllowed, notAllowed.Status)
	assert.Equal(t, "Method Not Allowed", notAllowed.Message)

	assert.Equal(t, KindUpstream, NewUpstreamError("x", FormatError).Kind)
	assert.Equal(t, KindUnexpectedShape, NewUnexpectedShapeError("x", FormatText).Kind)

	internal := NewInternalServerError("", FormatMessage, nil)
	assert.Equal(t, "Internal Server Error", internal.Message)
	assert.Empty(t, internal.Detail)
}

func TestHTTPErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewConfigError("missing", FormatError))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, KindConfig, httpErr.Kind)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	assert.Equal(t, "missing", httpErr.Error())
	assert.Equal(t, "missing: cause", httpErr.WithDetail(errors.New("cause")).Error())
	assert.Equal(t, "other", httpErr.WithMessage("other").Message)
	assert.Equal(t, "missing", httpErr.Message)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "METHOD_NOT_ALLOWED", MakeUpperCaseWithUnderscores("Method Not Allowed"))
}
