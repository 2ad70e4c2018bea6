package subscription

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

// Subscribe answers 201 for a new subscription and 200 when one was already active.
func (h *Handler) Subscribe(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	sub, created, err := h.service.Subscribe(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sub)
}

func (h *Handler) ListMy(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	subs, err := h.service.ListMine(c.Request.Context(), a)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (h *Handler) Cancel(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
