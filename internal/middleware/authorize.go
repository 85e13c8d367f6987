package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/models"
	"ngplus/api/internal/web"
)

// RequireRoles restricts a route to the named account types. Attach it after
// Auth; routes without it are open to any authenticated caller.
func RequireRoles(roles ...models.AccountType) gin.HandlerFunc {
	roleSet := make(map[models.AccountType]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
		names = append(names, string(role))
	}
	allowed := strings.Join(names, ", ")

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			web.AbortError(c, apperr.Unauthorized("Missing access token."))
			return
		}

		if _, ok := roleSet[user.AccountType]; !ok {
			web.AbortError(c, apperr.Forbidden(fmt.Sprintf(
				"Access denied. This route is allowed only for the following account types: %s.", allowed)))
			return
		}

		c.Next()
	}
}
