package newsapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
)

const base = "https://newsapi.test"

func TestTopHeadlines(t *testing.T) {
	ctx := context.Background()
	query := map[string]string{"country": "us", "category": "technology", "apiKey": "news-key"}

	t.Run("remaps articles with positional ids", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponderWithQuery(http.MethodGet, base+"/v2/top-headlines", query,
			httpmock.NewStringResponder(http.StatusOK, `{
				"status": "ok",
				"articles": [
					{"source": {"id": null, "name": "Wired"}, "title": "A", "description": "first", "url": "https://a", "publishedAt": "2024-05-01T00:00:00Z"},
					{"title": "B", "description": null, "url": "https://b", "publishedAt": "2024-05-02T00:00:00Z"}
				]
			}`))

		articles, err := NewClient(&http.Client{Transport: transport}, base).TopHeadlines(ctx, "news-key")
		require.NoError(t, err)
		require.Len(t, articles, 2)

		assert.Equal(t, 1, articles[0].ID)
		assert.Equal(t, "A", *articles[0].Title)
		assert.Equal(t, "first", *articles[0].Summary)
		assert.Equal(t, "Wired", *articles[0].Source)

		assert.Equal(t, 2, articles[1].ID)
		assert.Nil(t, articles[1].Summary)
		assert.Nil(t, articles[1].Source)
		assert.Equal(t, "https://b", *articles[1].URL)
	})

	t.Run("missing articles yields an empty list", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponderWithQuery(http.MethodGet, base+"/v2/top-headlines", query,
			httpmock.NewStringResponder(http.StatusOK, `{"status":"ok"}`))

		articles, err := NewClient(&http.Client{Transport: transport}, base).TopHeadlines(ctx, "news-key")
		require.NoError(t, err)
		assert.Empty(t, articles)
		assert.NotNil(t, articles)
	})

	t.Run("upstream rejection is a status failure", func(t *testing.T) {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponderWithQuery(http.MethodGet, base+"/v2/top-headlines", query,
			httpmock.NewStringResponder(http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid"}`))

		_, err := NewClient(&http.Client{Transport: transport}, base).TopHeadlines(ctx, "news-key")
		kind, ok := upstream.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, upstream.KindStatus, kind)
	})
}
