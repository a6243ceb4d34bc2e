// Package echomw adapts smartparams validation to echo.
package echomw

import (
	"github.com/labstack/echo/v4"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/middleware"
)

// ValidateJSON validates request JSON via s, stores the payload in the
// request context on success, or responds with 422 or 400.
func ValidateJSON(s *sp.Schema, opt sp.ValidateOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := sp.ValidateSource(c.Request().Context(), s, sp.JSONReader(c.Request().Body), opt)
			if err != nil {
				code, body := middleware.Status(err)
				return c.JSON(code, body)
			}
			ctx := middleware.ContextWithPayload(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetPayload fetches the validated payload from echo.Context.
func GetPayload(c echo.Context) (*sp.Payload, bool) {
	return middleware.PayloadFromContext(c.Request().Context())
}
