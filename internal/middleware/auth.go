package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/models"
	"ngplus/api/internal/policy"
	"ngplus/api/internal/security"
	"ngplus/api/internal/web"
)

const currentUserKey = "current_user"

// UserLoader resolves the token subject to a live user row.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// Auth gates a route on a valid access token. The user row is reloaded on
// every request so deleted accounts lose access immediately, and the fresh
// row becomes the request's current user.
func Auth(accessSecret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			web.AbortError(c, apperr.Unauthorized("Missing access token."))
			return
		}

		claims, err := security.ParseToken(tokenStr, accessSecret)
		if err != nil {
			web.AbortError(c, apperr.Unauthorized("Invalid or expired token."))
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			web.AbortError(c, apperr.Unauthorized("Invalid or expired token."))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// CurrentActor projects the authenticated user into the policy principal.
func CurrentActor(c *gin.Context) (policy.Actor, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return policy.Actor{}, false
	}
	return policy.Actor{
		ID:          user.ID,
		Username:    user.Username,
		AccountType: user.AccountType,
	}, true
}
