package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/web"
)

func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("panic recovered")
				web.AbortError(c, apperr.Internal("Internal server error.", fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
