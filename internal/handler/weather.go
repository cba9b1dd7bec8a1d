package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/service"
	"github.com/deppfellow/personal-dashboard/internal/validation"
)

var weatherCORS = middleware.CORSPolicy{
	AllowOrigin:  "*",
	AllowHeaders: middleware.AllowHeadersGateway,
}

// Weather failures are answered as bare JSON strings.
const (
	msgWeatherKeyMissing  = "WEATHER_API_KEY not found in environment variables."
	msgWeatherNoBody      = "Missing request body."
	msgWeatherInvalidJSON = "Invalid JSON in the request body."
	msgWeatherNoLocation  = `Missing "location" key in the JSON body.`
	msgWeatherRetrieve    = "Error retrieving weather data."
	msgWeatherParse       = "Error parsing API response."
	msgWeatherShape       = "Unexpected data format from API."
)

// WeatherHandler serves current conditions for a location.
type WeatherHandler struct {
	Handler
	weather *service.WeatherService
}

func NewWeatherHandler(s *server.Server, weather *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		Handler: NewHandler(s),
		weather: weather,
	}
}

// weatherLookup is a location together with the credential checked before it.
type weatherLookup struct {
	model.WeatherRequest
	apiKey string
}

// Serve handles every method the same way.
func (h *WeatherHandler) Serve() echo.HandlerFunc {
	return Handle(h.Handler, weatherCORS, h.bind, h.Current, http.StatusOK)
}

// bind checks the credential first, then the body, then the location.
func (h *WeatherHandler) bind(c echo.Context) (*weatherLookup, error) {
	apiKey, err := h.weather.APIKey()
	if err != nil {
		return nil, errs.NewConfigError(msgWeatherKeyMissing, errs.FormatText)
	}

	body, err := readBody(c)
	if err != nil {
		return nil, errs.NewBadRequestError(msgWeatherNoBody, errs.FormatText)
	}

	obj, err := validation.DecodeObject(body)
	switch {
	case errors.Is(err, validation.ErrEmptyBody):
		return nil, errs.NewBadRequestError(msgWeatherNoBody, errs.FormatText)
	case errors.Is(err, validation.ErrNotObject):
		return nil, errs.NewBadRequestError(msgWeatherNoLocation, errs.FormatText)
	case err != nil:
		return nil, errs.NewBadRequestError(msgWeatherInvalidJSON, errs.FormatText)
	}

	value := obj["location"]
	if !validation.Truthy(value) {
		return nil, errs.NewBadRequestError(msgWeatherNoLocation, errs.FormatText)
	}
	location := locationQuery(value)

	return &weatherLookup{
		WeatherRequest: model.WeatherRequest{Location: location},
		apiKey:         apiKey,
	}, nil
}

// locationQuery renders a location value as the q parameter. Strings and
// numbers are sent as written, true as "True", containers as compact JSON.
func locationQuery(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return "True"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func (h *WeatherHandler) Current(c echo.Context, req *weatherLookup) (*model.WeatherSnapshot, error) {
	snapshot, err := h.weather.Current(c.Request().Context(), req.apiKey, &req.WeatherRequest)
	if err == nil {
		return snapshot, nil
	}

	switch kind, _ := upstream.KindOf(err); kind {
	case upstream.KindMalformed:
		return nil, errs.NewUpstreamError(msgWeatherParse, errs.FormatText)
	case upstream.KindShape:
		return nil, errs.NewUnexpectedShapeError(msgWeatherShape, errs.FormatText)
	default:
		return nil, errs.NewUpstreamError(msgWeatherRetrieve, errs.FormatText)
	}
}
