package session

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

// Join is POST /bookings/:id/session.
func (h *Handler) Join(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	res, err := h.service.EnsureSession(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	status := http.StatusOK
	switch {
	case res.Created:
		status = http.StatusCreated
	case res.Waiting:
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

func (h *Handler) Tick(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	res, err := h.service.Tick(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) End(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	sess, err := h.service.End(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}
