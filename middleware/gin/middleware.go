// Package ginmw adapts smartparams validation to gin.
package ginmw

import (
	"github.com/gin-gonic/gin"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/middleware"
)

// ValidateJSON validates the request body against s using opt, stores the
// payload in the request context, and aborts with 422 (failures) or 400
// (undecodable body) otherwise.
func ValidateJSON(s *sp.Schema, opt sp.ValidateOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := sp.ValidateSource(c.Request.Context(), s, sp.JSONReader(c.Request.Body), opt)
		if err != nil {
			code, body := middleware.Status(err)
			c.AbortWithStatusJSON(code, body)
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithPayload(c.Request.Context(), p))
		c.Next()
	}
}

// GetPayload fetches the validated payload from gin.Context.
func GetPayload(c *gin.Context) (*sp.Payload, bool) {
	return middleware.PayloadFromContext(c.Request.Context())
}
