package service

import (
	"context"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/lib/newsapi"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

type NewsService struct {
	server *server.Server
	client *newsapi.Client
}

func NewNewsService(s *server.Server) *NewsService {
	return &NewsService{
		server: s,
		client: newsapi.NewClient(s.HTTPClient, s.Config.Integration.News.BaseURL),
	}
}

// Headlines returns the current technology headlines.
func (s *NewsService) Headlines(ctx context.Context) ([]model.NewsArticle, error) {
	apiKey, err := config.RequireSecret(s.server.Secrets, config.SecretNewsAPIKey)
	if err != nil {
		return nil, err
	}

	return s.client.TopHeadlines(ctx, apiKey)
}
