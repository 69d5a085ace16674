package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/retention-api/pkg/auth"
	"github.com/jwalitptl/retention-api/pkg/errors"
	"github.com/jwalitptl/retention-api/pkg/httputil"
)

const ContextActor = "actor"

type AuthMiddleware struct {
	tokens       *auth.JWTService
	requiredRole string
}

func NewAuthMiddleware(tokens *auth.JWTService, requiredRole string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:       tokens,
		requiredRole: requiredRole,
	}
}

// Authenticate verifies the bearer token and stores its subject as the actor
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, errors.Unauthorized(err))
			return
		}

		if m.requiredRole != "" && !claims.HasRole(m.requiredRole) {
			httputil.RespondWithError(c, errors.Forbidden(nil))
			return
		}

		c.Set(ContextActor, claims.Subject)
		c.Next()
	}
}

// Actor returns the authenticated operator, or "" when the request was not
// authenticated.
func Actor(c *gin.Context) string {
	return c.GetString(ContextActor)
}
