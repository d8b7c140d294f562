// Package middleware provides the request-processing chain: bearer
// token verification, role enforcement, correlation IDs, HTTP metrics
// and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/auth"
)

// Context keys under which the verified identity is stored.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// BearerAuth validates the Authorization bearer token and attaches the
// proven identity to the request context. Expired tokens report
// TOKEN_EXPIRED so clients know to refresh; everything else is
// INVALID_TOKEN.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				e := apperr.InvalidToken()
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": e.Code(), "message": "Missing or invalid Authorization header"})
			}
			ident, err := auth.VerifyAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				e := apperr.From(err)
				return c.JSON(e.Status(), echo.Map{"error": e.Code(), "message": e.Message})
			}
			c.Set(CtxUserID, ident.UserID)
			c.Set(CtxUsername, ident.Username)
			c.Set(CtxRole, ident.Role)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, zero when unauthenticated.
func UserID(c echo.Context) int64 {
	if v, ok := c.Get(CtxUserID).(int64); ok {
		return v
	}
	return 0
}

// Role returns the authenticated role, empty when unauthenticated.
func Role(c echo.Context) string {
	if v, ok := c.Get(CtxRole).(string); ok {
		return v
	}
	return ""
}
