// Package newsapi fetches technology headlines from NewsAPI.
package newsapi

import (
	"context"
	"net/url"

	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/model"
)

// The dashboard only ever shows US technology headlines.
const (
	Country  = "us"
	Category = "technology"
)

type Client struct {
	api *upstream.Client
}

func NewClient(httpClient upstream.Doer, baseURL string) *Client {
	return &Client{api: upstream.New(httpClient, baseURL)}
}

type article struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Source      *struct {
		Name *string `json:"name"`
	} `json:"source"`
	PublishedAt *string `json:"publishedAt"`
	URL         *string `json:"url"`
}

type topHeadlinesResponse struct {
	Articles []article `json:"articles"`
}

// TopHeadlines fetches GET /v2/top-headlines and remaps the articles in order,
// numbering them from 1. A response without "articles" yields an empty list.
func (c *Client) TopHeadlines(ctx context.Context, apiKey string) ([]model.NewsArticle, error) {
	query := url.Values{
		"country":  {Country},
		"category": {Category},
		"apiKey":   {apiKey},
	}

	var resp topHeadlinesResponse
	if err := c.api.GetJSON(ctx, "/v2/top-headlines", query, nil, &resp); err != nil {
		return nil, err
	}

	articles := make([]model.NewsArticle, 0, len(resp.Articles))
	for i, a := range resp.Articles {
		out := model.NewsArticle{
			ID:          i + 1,
			Title:       a.Title,
			Summary:     a.Description,
			PublishedAt: a.PublishedAt,
			URL:         a.URL,
		}
		if a.Source != nil {
			out.Source = a.Source.Name
		}
		articles = append(articles, out)
	}

	return articles, nil
}
