package model

import (
	"encoding/json"

	"github.com/deppfellow/personal-dashboard/internal/validation"
)

// WeatherRequest is a validated weather lookup.
type WeatherRequest struct {
	Location string `validate:"required"`
}

func (r *WeatherRequest) Validate() error {
	return validation.Struct(r)
}

// WeatherSnapshot is the current conditions for a location. Values are the
// upstream JSON values, copied verbatim.
type WeatherSnapshot struct {
	Location     json.RawMessage `json:"location"`
	Country      json.RawMessage `json:"country"`
	TemperatureC json.RawMessage `json:"temperature_c"`
	Condition    json.RawMessage `json:"condition"`
}
