package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/middleware"
	"github.com/guildofheroes/goh-api/internal/model"
	"github.com/guildofheroes/goh-api/internal/observability"
	"github.com/guildofheroes/goh-api/internal/repository"
)

// UserHandler serves public profiles and profile management.
type UserHandler struct {
	Users *repository.UserRepo
	Audit *repository.AuditRepo
}

func NewUserHandler(users *repository.UserRepo, audit *repository.AuditRepo) *UserHandler {
	return &UserHandler{Users: users, Audit: audit}
}

// GetProfile returns a user's public profile by id.
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid user id"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, apperr.NotFound("user", id))
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user.Public())
}

// Search finds users by username or display name prefix.
func (h *UserHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return fail(c, apperr.Validation("q required"))
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.Search(ctx, q, limit)
	if err != nil {
		return fail(c, err)
	}
	out := make([]model.PublicProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type updateProfileReq struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Avatar      *string `json:"avatar"`
}

// UpdateProfile patches the caller's own profile fields.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}
	if req.DisplayName == nil && req.Bio == nil && req.Avatar == nil {
		return fail(c, apperr.Validation("nothing to update"))
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return fail(c, apperr.Validation("display_name cannot be empty"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID := middleware.UserID(c)
	if err := h.Users.UpdateProfile(ctx, userID, req.DisplayName, req.Bio, req.Avatar); err != nil {
		return fail(c, err)
	}
	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user.Private())
}

type setRoleReq struct {
	Role string `json:"role"`
}

// SetRole changes a user's role. Admin only, enforced by route middleware.
func (h *UserHandler) SetRole(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid user id"))
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}
	switch req.Role {
	case model.RolePlayer, model.RoleDM, model.RoleAdmin:
	default:
		return fail(c, apperr.Validation("unknown role"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.FindByID(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, apperr.NotFound("user", id))
		}
		return fail(c, err)
	}
	if err := h.Users.SetRole(ctx, id, req.Role); err != nil {
		return fail(c, err)
	}

	actor := middleware.UserID(c)
	h.Audit.LogAction(ctx, &actor, "role_change", "user", &id,
		map[string]any{"role": req.Role}, observability.CorrelationID(ctx))

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user.Public())
}
