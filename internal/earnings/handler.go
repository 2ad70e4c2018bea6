package earnings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/api"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Mine lists the caller's ledger. Routed behind RequireRole(influencer).
func (h *Handler) Mine(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	total, err := h.repo.Total(c.Request.Context(), a.ID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	entries, err := h.repo.List(c.Request.Context(), a.ID, limit, offset)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Summary{InfluencerID: a.ID, TotalCents: total, Entries: entries})
}
