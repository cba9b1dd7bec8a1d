package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/service"
)

// activityMissingSecret maps each GitHub credential to its error message.
var activityMissingSecret = map[string]string{
	config.SecretGitHubPAT:      "GitHub PAT not found in environment variables.",
	config.SecretGitHubUsername: "GitHub username not found in environment variables.",
}

// ActivityHandler serves the GitHub activity dashboard.
type ActivityHandler struct {
	Handler
	activity *service.ActivityService

	cors      middleware.CORSPolicy
	preflight echo.HandlerFunc
	dashboard echo.HandlerFunc
}

func NewActivityHandler(s *server.Server, activity *service.ActivityService) *ActivityHandler {
	h := &ActivityHandler{
		Handler:  NewHandler(s),
		activity: activity,
		cors: middleware.CORSPolicy{
			AllowOrigin:  s.Config.Integration.GitHub.AllowedOrigin,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type,Authorization",
		},
	}

	h.preflight = HandleWith(h.Handler, h.cors, BindNothing, h.Preflight, EmptyResponseHandler{status: http.StatusOK})
	h.dashboard = HandleWith(h.Handler, h.cors, BindNothing, h.Dashboard, PrettyJSONResponseHandler{status: http.StatusOK, indent: "  "})

	return h
}

// Dispatch answers OPTIONS without touching credentials and serves the
// dashboard for every other method.
func (h *ActivityHandler) Dispatch(c echo.Context) error {
	if c.Request().Method == http.MethodOptions {
		return h.preflight(c)
	}
	return h.dashboard(c)
}

func (h *ActivityHandler) Preflight(c echo.Context, _ NoRequest) (any, error) {
	return nil, nil
}

func (h *ActivityHandler) Dashboard(c echo.Context, _ NoRequest) (*model.GitHubDashboard, error) {
	dashboard, err := h.activity.Dashboard(c.Request().Context())
	if err != nil {
		var missing *config.MissingSecretError
		if errors.As(err, &missing) {
			return nil, errs.NewConfigError(activityMissingSecret[missing.Name], errs.FormatError)
		}
		return nil, errs.NewInternalServerError(msgUnexpected, errs.FormatError, err)
	}

	return dashboard, nil
}
