// Package handler defines the HTTP handlers. Auth endpoints translate the
// session manager's outcomes into the API contract: generic 401 for every
// credential failure, 429 with a countdown only for lockout.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/auth"
	"github.com/rawaz/digital-menu/internal/model"
)

// AuthHandler exposes the admin login/logout/session-check endpoints over
// the session manager.
type AuthHandler struct {
	Manager *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler {
	return &AuthHandler{Manager: m}
}

type loginReq struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}

type loginResp struct {
	User         *model.AdminUser `json:"user"`
	SessionToken string           `json:"session_token"`
	AuthToken    string           `json:"auth_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

// Login handles POST /v1/admin/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	res, err := h.Manager.Login(c.Request().Context(), req.Identifier, req.Password, c.Request().UserAgent())
	if err != nil {
		var lockout *auth.LockoutError
		if errors.As(err, &lockout) {
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many failed attempts",
				"retry_after": int(lockout.RetryAfter.Seconds()),
			})
		}
		// Wrong password, unknown identifier and inactive profile are
		// indistinguishable on the wire.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return c.JSON(http.StatusOK, loginResp{
		User:         res.Account,
		SessionToken: res.Token,
		AuthToken:    res.Grant,
		ExpiresAt:    res.ExpiresAt,
	})
}

// Logout handles POST /v1/admin/auth/logout. It succeeds even when the
// backing stores are unreachable; the session manager guarantees local
// state is cleared either way.
func (h *AuthHandler) Logout(c echo.Context) error {
	grant := ""
	if hdr := c.Request().Header.Get("Authorization"); strings.HasPrefix(hdr, "Bearer ") {
		grant = strings.TrimPrefix(hdr, "Bearer ")
	}
	token := c.Request().Header.Get("X-Session-Token")

	h.Manager.Logout(c.Request().Context(), token, grant)
	return c.NoContent(http.StatusNoContent)
}

// Check handles GET /v1/admin/auth/check: the startup/periodic probe the
// back office uses to decide whether it still holds a live session.
func (h *AuthHandler) Check(c echo.Context) error {
	grant := ""
	if hdr := c.Request().Header.Get("Authorization"); strings.HasPrefix(hdr, "Bearer ") {
		grant = strings.TrimPrefix(hdr, "Bearer ")
	}
	token := c.Request().Header.Get("X-Session-Token")

	acct, ok := h.Manager.CheckAuth(c.Request().Context(), token, grant)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true, "user": acct})
}

// Me handles GET /v1/admin/me on the guarded group.
func (h *AuthHandler) Me(c echo.Context) error {
	acct := currentAccount(c)
	if acct == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, acct)
}
