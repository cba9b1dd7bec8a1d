package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// GlobalMiddlewares groups the middleware installed on every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// statusOf returns the status the error handler will answer err with.
func statusOf(err error) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// RequestLogger writes one "API" line per request at a level chosen by status.
//
// When the handler returned an error the response is not written yet, so
// the status is derived from the error the same way GlobalErrorHandler does.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
//	*errs.HTTPError  its own status and body (see errs.Format)
//	*echo.HTTPError  its status and {"message": ...}
//	anything else    500 {"message": "Internal Server Error"}
//
// CORS headers an endpoint set before failing are kept on the response.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	var (
		httpErr *errs.HTTPError
		echoErr *echo.HTTPError
		status  int
		kind    string
		body    any
	)

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		kind = string(httpErr.Kind)
		body = httpErr.Body()

	case errors.As(err, &echoErr):
		status = echoErr.Code
		kind = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))

		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(status)
		}
		body = map[string]string{"message": message}

	default:
		status = http.StatusInternalServerError
		kind = string(errs.KindInternal)
		body = map[string]string{"message": http.StatusText(http.StatusInternalServerError)}
	}

	logger := GetLogger(c)

	var e *zerolog.Event
	if status >= 500 {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}
	e.Err(err).
		Int("status", status).
		Str("error_kind", kind).
		Msg("request failed")

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, body)
}
