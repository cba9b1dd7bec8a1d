package service

import (
	"context"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/lib/github"
	"github.com/deppfellow/personal-dashboard/internal/logger"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// ActivityService assembles the GitHub dashboard.
type ActivityService struct {
	server *server.Server
	client *github.Client
}

func NewActivityService(s *server.Server) *ActivityService {
	return &ActivityService{
		server: s,
		client: github.NewClient(s.HTTPClient, s.Config.Integration.GitHub.BaseURL),
	}
}

// Credentials returns the access token and username, token first.
// A missing one is reported as *config.MissingSecretError.
func (s *ActivityService) Credentials() (token, username string, err error) {
	if token, err = config.RequireSecret(s.server.Secrets, config.SecretGitHubPAT); err != nil {
		return "", "", err
	}
	if username, err = config.RequireSecret(s.server.Secrets, config.SecretGitHubUsername); err != nil {
		return "", "", err
	}
	return token, username, nil
}

// Dashboard fetches profile, events and repositories one after another.
//
// A failed section does not fail the dashboard: the profile falls back to
// null and the lists to empty.
func (s *ActivityService) Dashboard(ctx context.Context) (*model.GitHubDashboard, error) {
	token, username, err := s.Credentials()
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.server.Logger).With().
		Str("github_user", username).
		Logger()

	dashboard := &model.GitHubDashboard{
		RecentActivity: []model.GitHubActivity{},
		Repositories:   []model.GitHubRepository{},
	}

	if profile, err := s.client.Profile(ctx, username, token); err != nil {
		log.Warn().Err(err).Str("section", "profile").Msg("github section unavailable")
	} else {
		dashboard.Profile = profile
	}

	if events, err := s.client.PublicEvents(ctx, username, token); err != nil {
		log.Warn().Err(err).Str("section", "recent_activity").Msg("github section unavailable")
	} else {
		dashboard.RecentActivity = events
	}

	if repos, err := s.client.Repositories(ctx, username, token); err != nil {
		log.Warn().Err(err).Str("section", "repositories").Msg("github section unavailable")
	} else {
		dashboard.Repositories = repos
	}

	return dashboard, nil
}
