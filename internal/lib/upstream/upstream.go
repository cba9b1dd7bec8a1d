// Package upstream issues GET requests to third-party JSON APIs and
// classifies every failure by Kind, so callers can pick a client message
// without inspecting error text.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport: the request could not be sent or the response not read.
	KindTransport Kind = iota + 1
	// KindStatus: the API answered with a non-2xx status.
	KindStatus
	// KindMalformed: the body is not valid JSON for the expected type.
	KindMalformed
	// KindShape: the JSON is valid but lacks a required field.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// Error is a failed upstream call.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s failure", http.MethodGet, e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr.Kind, true
	}
	return 0, false
}

// ShapeError reports a response from endpoint that lacks a required field.
func ShapeError(endpoint string, err error) *Error {
	return &Error{Kind: KindShape, Endpoint: endpoint, Err: err}
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls one API rooted at baseURL.
type Client struct {
	http    Doer
	baseURL string
}

func New(httpClient Doer, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Get sends GET baseURL+path and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string, query url.Values, header http.Header) ([]byte, error) {
	endpoint := c.baseURL + path

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindStatus, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	return body, nil
}

// GetJSON is Get followed by decoding the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, header http.Header, out any) error {
	body, err := c.Get(ctx, path, query, header)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindMalformed, Endpoint: c.baseURL + path, Err: err}
	}

	return nil
}
