// Package middleware provides reusable HTTP middleware: the admin session
// guard, role enforcement, Redis rate limiting and public response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/auth"
)

// Context keys set by SessionAuth for downstream middleware and handlers.
const (
	ContextAccount      = "account"
	ContextRole         = "role"
	ContextSessionToken = "session_token"
	ContextGrant        = "auth_grant"
)

// SessionAuth guards admin routes. The client presents two credentials on
// every request: the auth grant as a bearer token and the opaque session
// token in X-Session-Token. CheckAuth validates both halves against each
// other and refreshes the session's activity timestamp; any failure yields
// a uniform 401.
func SessionAuth(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			grant := bearerToken(c)
			token := c.Request().Header.Get("X-Session-Token")

			acct, ok := m.CheckAuth(c.Request().Context(), token, grant)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}

			c.Set(ContextAccount, acct)
			c.Set(ContextRole, acct.Role)
			c.Set(ContextSessionToken, token)
			c.Set(ContextGrant, grant)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
