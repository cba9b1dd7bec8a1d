package weatherapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
)

const base = "https://weather.test"

func TestCurrent(t *testing.T) {
	ctx := context.Background()
	query := map[string]string{"key": "w-key", "q": "London"}

	t.Run("extracts the four fields verbatim", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponderWithQuery(http.MethodGet, base+"/v1/current.json", query,
			httpmock.NewStringResponder(http.StatusOK, `{
				"location": {"name": "London", "country": "United Kingdom", "lat": 51.52},
				"current": {"temp_c": 11.0, "condition": {"text": "Partly cloudy", "code": 1003}}
			}`))

		snapshot, err := NewClient(&http.Client{Transport: transport}, base).Current(ctx, "w-key", "London")
		require.NoError(t, err)
		assert.JSONEq(t, `"London"`, string(snapshot.Location))
		assert.JSONEq(t, `"United Kingdom"`, string(snapshot.Country))
		assert.JSONEq(t, `11.0`, string(snapshot.TemperatureC))
		assert.JSONEq(t, `"Partly cloudy"`, string(snapshot.Condition))
	})

	tests := []struct {
		name      string
		responder httpmock.Responder
		kind      upstream.Kind
	}{
		{"network failure", httpmock.NewErrorResponder(errors.New("dial tcp: timeout")), upstream.KindTransport},
		{"bad status", httpmock.NewStringResponder(http.StatusBadRequest, `{"error":{"code":1006}}`), upstream.KindStatus},
		{"not json", httpmock.NewStringResponder(http.StatusOK, `not json`), upstream.KindMalformed},
		{"missing condition", httpmock.NewStringResponder(http.StatusOK, `{"location":{"name":"London","country":"UK"},"current":{"temp_c":11}}`), upstream.KindShape},
		{"location not an object", httpmock.NewStringResponder(http.StatusOK, `{"location":"London","current":{}}`), upstream.KindShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponderWithQuery(http.MethodGet, base+"/v1/current.json", query, tt.responder)

			_, err := NewClient(&http.Client{Transport: transport}, base).Current(ctx, "w-key", "London")
			kind, ok := upstream.KindOf(err)
			require.True(t, ok, "expected an upstream error, got %v", err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
