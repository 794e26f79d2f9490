package middleware

import (
	"sharespot/internal/pkg/requestid"

	"github.com/gin-gonic/gin"
)

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.Generate()
		}
		c.Set("request_id", id)
		c.Request = c.Request.WithContext(requestid.NewContext(c.Request.Context(), id))
		c.Writer.Header().Set(requestid.Header, id)
		c.Next()
	}
}
