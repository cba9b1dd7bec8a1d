package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/validation"
)

// Handler holds the shared application dependencies of every handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// Binder reads the request into Req. It returns an *errs.HTTPError whose
// message names the first problem found.
type Binder[Req any] func(c echo.Context) (Req, error)

// HandlerFunc runs an endpoint on a bound request.
type HandlerFunc[Req any, Res any] func(c echo.Context, req Req) (Res, error)

// NoRequest is the bound value of endpoints that read nothing from the request.
type NoRequest struct{}

// BindNothing is the Binder of endpoints without input.
func BindNothing(echo.Context) (NoRequest, error) {
	return NoRequest{}, nil
}

// ResponseHandler writes a successful result and describes it for logs and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes compact JSON.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// PrettyJSONResponseHandler writes indented JSON.
type PrettyJSONResponseHandler struct {
	status int
	indent string
}

func (h PrettyJSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSONPretty(h.status, result, h.indent)
}

func (h PrettyJSONResponseHandler) GetOperation() string {
	return "handler_pretty"
}

func (h PrettyJSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// EmptyResponseHandler writes a status with no body.
type EmptyResponseHandler struct {
	status int
}

func (h EmptyResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h EmptyResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h EmptyResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// handleRequest is the pipeline shared by every endpoint:
//
//   - apply the endpoint's CORS policy, so failures carry it too
//   - bind the request and run its Validate method when it has one
//   - run the handler
//   - log, time and trace each phase, then write the response
func handleRequest[Req any](
	c echo.Context,
	cors middleware.CORSPolicy,
	bind Binder[Req],
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	cors.Apply(c)

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	req, err := bind(c)
	if err == nil {
		if v, ok := any(req).(validation.Validatable); ok {
			if verr := v.Validate(); verr != nil {
				err = errs.NewBadRequestError(validation.FieldMessages(verr)[0], errs.FormatMessage)
			}
		}
	}

	validationDuration := time.Since(validationStart)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into an echo.HandlerFunc that answers with
// compact JSON and status on success.
func Handle[Req any, Res any](
	h Handler,
	cors middleware.CORSPolicy,
	bind Binder[Req],
	handler HandlerFunc[Req, Res],
	status int,
) echo.HandlerFunc {
	return HandleWith(h, cors, bind, handler, JSONResponseHandler{status: status})
}

// HandleWith is Handle with an explicit response writer.
func HandleWith[Req any, Res any](
	h Handler,
	cors middleware.CORSPolicy,
	bind Binder[Req],
	handler HandlerFunc[Req, Res],
	responseHandler ResponseHandler,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, cors, bind, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, responseHandler)
	}
}
