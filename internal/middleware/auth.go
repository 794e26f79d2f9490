package middleware

import (
	"log"
	"net/http"
	"strings"

	"sharespot/internal/pkg/jwt"
	"sharespot/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer token and stores user_id and role on the context.
// Browsers cannot set headers on websocket upgrades, so GET requests may pass the
// token as ?access_token= instead.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, code, msg := bearerToken(c)
		if code != "" {
			response.Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			log.Printf("auth_failed path=%s client_ip=%s error=%v", c.Request.URL.Path, c.ClientIP(), err)
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (token, code, message string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if c.Request.Method == http.MethodGet {
			if q := c.Query("access_token"); q != "" {
				return q, "", ""
			}
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
	}
	return strings.TrimSpace(parts[1]), "", ""
}
