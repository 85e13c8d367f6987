package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
)

// CORS reflects the request origin when it is on the allow-list. An empty
// list means any origin is reflected.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = struct{}{}
	}
	reflectAny := len(allowed) == 0

	return func(c *gin.Context) {
		header := c.Writer.Header()

		if origin := c.GetHeader("Origin"); origin != "" {
			_, ok := allowed[origin]
			if reflectAny || ok {
				header.Set("Access-Control-Allow-Origin", origin)
			}
			header.Set("Vary", "Origin")
		}

		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Methods", corsAllowMethods)
		header.Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
