package handler

import (
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/middleware"
	"github.com/guildofheroes/goh-api/internal/model"
	"github.com/guildofheroes/goh-api/internal/observability"
	"github.com/guildofheroes/goh-api/internal/repository"
)

// CampaignHandler serves campaign creation, discovery and membership.
type CampaignHandler struct {
	Campaigns *repository.CampaignRepo
	Audit     *repository.AuditRepo
}

func NewCampaignHandler(campaigns *repository.CampaignRepo, audit *repository.AuditRepo) *CampaignHandler {
	return &CampaignHandler{Campaigns: campaigns, Audit: audit}
}

type createCampaignReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxPlayers  int    `json:"max_players"`
}

func (r createCampaignReq) validate() error {
	err := validation.Errors{
		"name":        validation.Validate(r.Name, validation.Required, validation.Length(1, 120)),
		"max_players": validation.Validate(r.MaxPlayers, validation.Min(1), validation.Max(20)),
	}.Filter()
	if err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

// Create opens a new campaign with the caller as DM.
func (h *CampaignHandler) Create(c echo.Context) error {
	var req createCampaignReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.MaxPlayers == 0 {
		req.MaxPlayers = 6
	}
	if err := req.validate(); err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	dmID := middleware.UserID(c)
	campaign, err := h.Campaigns.Create(ctx, dmID, req.Name, req.Description, req.MaxPlayers)
	if err != nil {
		return fail(c, err)
	}
	h.Audit.LogAction(ctx, &dmID, "campaign_create", "campaign", &campaign.ID, nil,
		observability.CorrelationID(ctx))
	return c.JSON(http.StatusCreated, campaign)
}

// Get returns a campaign with its member list.
func (h *CampaignHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid campaign id"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaign, err := h.Campaigns.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, apperr.NotFound("campaign", id))
		}
		return fail(c, err)
	}
	members, err := h.Campaigns.ListMembers(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"campaign": campaign, "members": members})
}

// ListActive returns open campaigns, newest first.
func (h *CampaignHandler) ListActive(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaigns, err := h.Campaigns.ListActive(ctx, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": campaigns})
}

// Join adds the caller as a player unless the table is full.
func (h *CampaignHandler) Join(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid campaign id"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaign, err := h.Campaigns.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, apperr.NotFound("campaign", id))
		}
		return fail(c, err)
	}
	if campaign.Status != model.CampaignActive {
		return fail(c, apperr.Validation("campaign is not accepting players"))
	}
	count, err := h.Campaigns.MemberCount(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if count >= campaign.MaxPlayers {
		return fail(c, apperr.Validation("campaign is full"))
	}

	userID := middleware.UserID(c)
	if err := h.Campaigns.AddMember(ctx, id, userID, model.RolePlayer); err != nil {
		return fail(c, err)
	}
	h.Audit.LogAction(ctx, &userID, "campaign_join", "campaign", &id, nil,
		observability.CorrelationID(ctx))
	return c.NoContent(http.StatusNoContent)
}

// Leave removes the caller from the member list.
func (h *CampaignHandler) Leave(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid campaign id"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID := middleware.UserID(c)
	if err := h.Campaigns.RemoveMember(ctx, id, userID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type campaignStatusReq struct {
	Status string `json:"status"`
}

// SetStatus transitions a campaign's lifecycle state. Only the owning
// DM may do this.
func (h *CampaignHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, apperr.Validation("invalid campaign id"))
	}
	var req campaignStatusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid body"))
	}
	switch req.Status {
	case model.CampaignActive, model.CampaignCompleted, model.CampaignOnHiatus:
	default:
		return fail(c, apperr.Validation("unknown status"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaign, err := h.Campaigns.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, apperr.NotFound("campaign", id))
		}
		return fail(c, err)
	}
	userID := middleware.UserID(c)
	if campaign.DMID != userID && middleware.Role(c) != model.RoleAdmin {
		return fail(c, apperr.Forbidden("only the campaign DM can change its status"))
	}
	if err := h.Campaigns.UpdateStatus(ctx, id, req.Status); err != nil {
		return fail(c, err)
	}
	h.Audit.LogAction(ctx, &userID, "campaign_status", "campaign", &id,
		map[string]any{"status": req.Status}, observability.CorrelationID(ctx))

	campaign, err = h.Campaigns.FindByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, campaign)
}
