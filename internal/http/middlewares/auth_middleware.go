package middlewares

import (
	"context"
	"net/http"

	"github.com/nmorales89/accounthub/internal/auth"
	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type RequestAuthorizer interface {
	Authorize(ctx context.Context, header string) auth.Decision
}

type AuthMiddleware struct {
	authorizer RequestAuthorizer
}

func NewAuthMiddleware(authorizer RequestAuthorizer) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer}
}

// RequireSession gates a route on the authorizer's allow/deny decision.
// On allow the principal id and the password-stripped record land on the
// request context for downstream handlers.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := m.authorizer.Authorize(c.Request.Context(), c.GetHeader("Authorization"))

		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized",
			})
			return
		}

		c.Set(CtxPrincipal, decision.PrincipalID)
		c.Set(CtxUser, decision.User)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func PrincipalFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}
