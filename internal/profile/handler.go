package profile

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/api"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type PricingRequest struct {
	StreamingPricePerMinuteCents int64 `json:"streaming_price_per_minute_cents" binding:"gte=0"`
	SubscriptionPriceCents       int64 `json:"subscription_price_cents" binding:"gte=0"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Handler struct {
	repo      Repository
	jwtSecret string
}

func NewHandler(repo Repository, jwtSecret string) *Handler {
	return &Handler{repo: repo, jwtSecret: jwtSecret}
}

// Refresh rotates a refresh token into a new pair. The role is re-read from
// the profile so a changed user_type takes effect on the next refresh.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	claims, err := auth.ParseRefreshToken(req.RefreshToken, h.jwtSecret)
	if err != nil {
		api.Unauthorized(c)
		return
	}

	p, err := h.repo.FindByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, ErrProfileNotFound) {
		api.Unauthorized(c)
		return
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if p.AccountStatus == StatusSuspended {
		api.RespondError(c, apperr.Authorization("account is suspended"))
		return
	}

	access, refresh, err := auth.GenerateTokens(p.ID, p.UserType, h.jwtSecret)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(auth.AccessTokenTTL / time.Second),
	})
}

func (h *Handler) Me(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}
	h.respond(c, a.ID)
}

func (h *Handler) Get(c *gin.Context) {
	h.respond(c, c.Param("id"))
}

// SetPricing is mounted behind RequireRole(influencer).
func (h *Handler) SetPricing(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	var req PricingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	err := h.repo.SetPricing(c.Request.Context(), a.ID, req.StreamingPricePerMinuteCents, req.SubscriptionPriceCents)
	if errors.Is(err, ErrProfileNotFound) {
		err = apperr.NotFound("influencer profile")
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}

	h.respond(c, a.ID)
}

func (h *Handler) respond(c *gin.Context, id string) {
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if errors.Is(err, ErrProfileNotFound) {
		err = apperr.NotFound("profile")
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
