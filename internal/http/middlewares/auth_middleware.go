package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jujunior/juniorsworld/internal/auth"
)

// SessionResolver is the slice of auth.Manager the middleware needs; tests
// fake it.
type SessionResolver interface {
	RequireAuth(r *http.Request) auth.Session
}

type AuthMiddleware struct {
	sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth rejects the request with 401 unless a verifiable bearer token
// (header or cookie) resolves to an identity. The deny reason's text is
// decided here, at the boundary.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.sessions.RequireAuth(c.Request)

		if !sess.Authorized {
			code := "no_token"

			if sess.Reason == auth.DenyInvalidToken {
				code = "invalid_token"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": sess.Reason.Message(),
				"code":  code,
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(string(CtxUserID), sess.Identity.UserID)
		c.Set(string(CtxEmail), sess.Identity.Email)
		c.Set(string(CtxRole), sess.Identity.Role)

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxUserID))
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxEmail))
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxRole))
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
