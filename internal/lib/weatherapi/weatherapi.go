// Package weatherapi fetches current conditions from WeatherAPI.com.
package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/model"
)

const currentPath = "/v1/current.json"

type Client struct {
	api      *upstream.Client
	endpoint string
}

func NewClient(httpClient upstream.Doer, baseURL string) *Client {
	return &Client{
		api:      upstream.New(httpClient, baseURL),
		endpoint: strings.TrimRight(baseURL, "/") + currentPath,
	}
}

// Current fetches GET /v1/current.json for location.
//
// Failures are *upstream.Error: KindTransport or KindStatus when the call
// fails, KindMalformed when the body is not JSON, and KindShape when
// location.name, location.country, current.temp_c or current.condition.text
// is missing.
func (c *Client) Current(ctx context.Context, apiKey, location string) (*model.WeatherSnapshot, error) {
	query := url.Values{
		"key": {apiKey},
		"q":   {location},
	}

	var body json.RawMessage
	if err := c.api.GetJSON(ctx, currentPath, query, nil, &body); err != nil {
		return nil, err
	}

	var (
		snapshot model.WeatherSnapshot
		err      error
	)
	fields := []struct {
		dst  *json.RawMessage
		path []string
	}{
		{&snapshot.Location, []string{"location", "name"}},
		{&snapshot.Country, []string{"location", "country"}},
		{&snapshot.TemperatureC, []string{"current", "temp_c"}},
		{&snapshot.Condition, []string{"current", "condition", "text"}},
	}
	for _, f := range fields {
		if *f.dst, err = lookup(body, f.path...); err != nil {
			return nil, upstream.ShapeError(c.endpoint, err)
		}
	}

	return &snapshot, nil
}

// lookup walks nested objects along path and returns the raw value found.
func lookup(raw json.RawMessage, path ...string) (json.RawMessage, error) {
	current := raw
	for i, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(current, &obj); err != nil || obj == nil {
			parent := "response"
			if i > 0 {
				parent = strings.Join(path[:i], ".")
			}
			return nil, fmt.Errorf("%s is not an object", parent)
		}

		next, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("%s missing", strings.Join(path[:i+1], "."))
		}
		current = bytes.TrimSpace(next)
	}
	return current, nil
}
