package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/api"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	item, err := h.service.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) ListByOwner(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	items, err := h.service.ListByOwner(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Purchase(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	item, err := h.service.Purchase(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
