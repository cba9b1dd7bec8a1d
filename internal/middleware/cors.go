package middleware

import (
	"github.com/labstack/echo/v4"
)

// Header values shared by several endpoints.
const (
	AllowHeadersGateway = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	AllowHeadersBasic   = "Content-Type"
)

// CORSPolicy is the fixed set of CORS headers an endpoint answers with.
//
// Each endpoint sends its own header set on every response, success or
// failure, so the policy is applied by the handler rather than by a shared
// middleware. Empty fields are not sent.
type CORSPolicy struct {
	AllowOrigin  string
	AllowHeaders string
	AllowMethods string

	// ContentType is set explicitly for endpoints that always declare it.
	ContentType string
}

// Apply writes the policy's headers onto the pending response.
func (p CORSPolicy) Apply(c echo.Context) {
	h := c.Response().Header()

	if p.ContentType != "" {
		h.Set(echo.HeaderContentType, p.ContentType)
	}
	if p.AllowOrigin != "" {
		h.Set(echo.HeaderAccessControlAllowOrigin, p.AllowOrigin)
	}
	if p.AllowHeaders != "" {
		h.Set(echo.HeaderAccessControlAllowHeaders, p.AllowHeaders)
	}
	if p.AllowMethods != "" {
		h.Set(echo.HeaderAccessControlAllowMethods, p.AllowMethods)
	}
}
