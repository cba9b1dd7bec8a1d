package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()

	transport := httpmock.NewMockTransport()
	return New(&http.Client{Transport: transport}, "https://api.example.test/"), transport
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a 2xx body and forwards query and headers", func(t *testing.T) {
		client, transport := newMockedClient(t)
		transport.RegisterResponderWithQuery(http.MethodGet, "https://api.example.test/v1/things", "q=a+b",
			func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
				return httpmock.NewStringResponse(http.StatusOK, `{"name":"thing"}`), nil
			})

		var out struct {
			Name string `json:"name"`
		}
		err := client.GetJSON(ctx, "/v1/things", url.Values{"q": {"a b"}},
			http.Header{"Authorization": {"Bearer tok"}}, &out)
		require.NoError(t, err)
		assert.Equal(t, "thing", out.Name)
	})

	tests := []struct {
		name      string
		responder httpmock.Responder
		kind      Kind
		status    int
	}{
		{
			name:      "transport failure",
			responder: httpmock.NewErrorResponder(errors.New("connection refused")),
			kind:      KindTransport,
		},
		{
			name:      "non-2xx status",
			responder: httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"bad key"}`),
			kind:      KindStatus,
			status:    http.StatusUnauthorized,
		},
		{
			name:      "malformed body",
			responder: httpmock.NewStringResponder(http.StatusOK, `<html>`),
			kind:      KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newMockedClient(t)
			transport.RegisterResponder(http.MethodGet, "https://api.example.test/v1/things", tt.responder)

			var out map[string]any
			err := client.GetJSON(ctx, "/v1/things", nil, nil, &out)
			require.Error(t, err)

			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)

			var upErr *Error
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, tt.status, upErr.StatusCode)
			assert.Equal(t, "https://api.example.test/v1/things", upErr.Endpoint)
		})
	}
}

func TestGetCarriesRequestContext(t *testing.T) {
	client, transport := newMockedClient(t)
	transport.RegisterResponder(http.MethodGet, "https://api.example.test/v1/slow",
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/v1/slow", nil, nil)
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKindOf(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)

	kind, ok := KindOf(ShapeError("https://api.example.test", errors.New("missing name")))
	assert.True(t, ok)
	assert.Equal(t, KindShape, kind)
}
