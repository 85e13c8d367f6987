package middleware

import (
	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/security"
	"ngplus/api/internal/web"
)

const resetClaimsKey = "reset_claims"

// ResetAuth gates the password-reset endpoint on a valid reset token. Reset
// tokens are signed with their own secret, so neither access nor refresh
// tokens can pass this gate.
func ResetAuth(resetSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			web.AbortError(c, apperr.Unauthorized("Missing reset token."))
			return
		}

		claims, err := security.ParseToken(tokenStr, resetSecret)
		if err != nil {
			web.AbortError(c, apperr.Unauthorized("Invalid or expired reset token."))
			return
		}

		c.Set(resetClaimsKey, claims)
		c.Next()
	}
}

// ResetClaims returns the reset-token claims set by ResetAuth.
func ResetClaims(c *gin.Context) (*security.Claims, bool) {
	val, exists := c.Get(resetClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*security.Claims)
	return claims, ok
}
