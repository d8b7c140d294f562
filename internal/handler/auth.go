package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/middleware"
	"github.com/guildofheroes/goh-api/internal/service"
)

// AuthHandler exposes the auth orchestrator over HTTP.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type magicLinkReq struct {
	Email string `json:"email"`
}

type magicLoginReq struct {
	Token string `json:"token"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and returns the initial token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// Login authenticates with username + password, capturing client
// metadata on the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ua := c.Request().UserAgent()
	ip := c.RealIP()
	result, err := h.Auth.LoginPassword(ctx, req.Username, req.Password, optional(ua), optional(ip))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateMagicLink mints a passwordless login token and queues delivery.
func (h *AuthHandler) CreateMagicLink(c echo.Context) error {
	var req magicLinkReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return fail(c, apperr.Validation("email required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Auth.CreateMagicLink(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// VerifyMagicLink consumes a magic link and returns a token pair.
func (h *AuthHandler) VerifyMagicLink(c echo.Context) error {
	var req magicLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return fail(c, apperr.Validation("token required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Auth.LoginMagicLink(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Refresh rotates the refresh token and mints a fresh access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, apperr.Validation("refresh_token required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Logout revokes the supplied refresh token. Repeat calls are no-ops.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return fail(c, apperr.Validation("refresh_token required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's private profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Auth.WhoAmI(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
