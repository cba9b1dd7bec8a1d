package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/service"
)

const msgUnexpected = "An unexpected server error occurred."

var newsCORS = middleware.CORSPolicy{
	ContentType:  echo.MIMEApplicationJSON,
	AllowOrigin:  "*",
	AllowMethods: http.MethodGet,
	AllowHeaders: middleware.AllowHeadersBasic,
}

// NewsHandler serves technology headlines.
type NewsHandler struct {
	Handler
	news *service.NewsService
}

func NewNewsHandler(s *server.Server, news *service.NewsService) *NewsHandler {
	return &NewsHandler{
		Handler: NewHandler(s),
		news:    news,
	}
}

// Serve handles every method the same way.
func (h *NewsHandler) Serve() echo.HandlerFunc {
	return Handle(h.Handler, newsCORS, BindNothing, h.Headlines, http.StatusOK)
}

func (h *NewsHandler) Headlines(c echo.Context, _ NoRequest) (*model.NewsResponse, error) {
	articles, err := h.news.Headlines(c.Request().Context())
	if err == nil {
		return &model.NewsResponse{Articles: articles}, nil
	}

	var missing *config.MissingSecretError
	if errors.As(err, &missing) {
		return nil, errs.NewConfigError(
			"Configuration error: "+missing.Name+" environment variable is not set.", errs.FormatError)
	}

	switch kind, _ := upstream.KindOf(err); kind {
	case upstream.KindTransport, upstream.KindStatus, upstream.KindMalformed:
		return nil, errs.NewUpstreamError("Failed to fetch news data from external API.", errs.FormatError)
	default:
		return nil, errs.NewInternalServerError(msgUnexpected, errs.FormatError, err)
	}
}
