package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// TokenCookieName is the session cookie set by the login handler.
const TokenCookieName = "token"

// DenyReason is the closed set of authorization failures. Handlers map a
// reason to response text at the boundary; nothing branches on the strings.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyNoToken
	DenyInvalidToken
)

func (r DenyReason) Message() string {
	switch r {
	case DenyNoToken:
		return "No token provided"
	case DenyInvalidToken:
		return "Invalid or expired token"
	default:
		return ""
	}
}

type Identity struct {
	UserID string
	Email  string
	Role   string
}

type Session struct {
	Authorized bool
	Identity   Identity
	Reason     DenyReason
}

// ExtractToken pulls a bearer token out of the request. The Authorization
// header wins over the cookie when both are present.
func ExtractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")

	if strings.HasPrefix(authHeader, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if raw != "" {
			return raw, true
		}
	}

	cookie, err := r.Cookie(TokenCookieName)

	if err != nil || cookie.Value == "" {
		return "", false
	}

	// cookie values arrive URL-encoded
	raw, err := url.QueryUnescape(cookie.Value)

	if err != nil || raw == "" {
		return "", false
	}

	return raw, true
}

// RequireAuth resolves the request to a verified identity. Pure function of
// the request: no I/O beyond in-memory token verification.
func (m *Manager) RequireAuth(r *http.Request) Session {
	raw, ok := ExtractToken(r)

	if !ok {
		return Session{Reason: DenyNoToken}
	}

	claims, err := m.VerifyToken(raw)

	if err != nil {
		return Session{Reason: DenyInvalidToken}
	}

	return Session{
		Authorized: true,
		Identity: Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		},
	}
}
