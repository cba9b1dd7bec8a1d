package service

import (
	"context"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/lib/weatherapi"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

type WeatherService struct {
	server *server.Server
	client *weatherapi.Client
}

func NewWeatherService(s *server.Server) *WeatherService {
	return &WeatherService{
		server: s,
		client: weatherapi.NewClient(s.HTTPClient, s.Config.Integration.Weather.BaseURL),
	}
}

// APIKey returns the weather credential. It is checked before the request
// body is read.
func (s *WeatherService) APIKey() (string, error) {
	return config.RequireSecret(s.server.Secrets, config.SecretWeatherAPIKey)
}

// Current returns current conditions for req.Location.
func (s *WeatherService) Current(ctx context.Context, apiKey string, req *model.WeatherRequest) (*model.WeatherSnapshot, error) {
	return s.client.Current(ctx, apiKey, req.Location)
}
