package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// contentSecurityPolicy allows inline scripts and styles for the label print
// fragment and the live filters.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"

// SecurityHeaders is echo's Secure middleware set up for screens that show
// patient data, plus no-store caching.
func SecurityHeaders() echo.MiddlewareFunc {
	secure := echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: contentSecurityPolicy,
		ReferrerPolicy:        "no-referrer",
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			// Pages carry patient details.
			c.Response().Header().Set("Cache-Control", "no-store")
			return h(c)
		}
	}
}
