package booking

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/api"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), a, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b.View())
}

func (h *Handler) List(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	bookings, err := h.service.List(c.Request.Context(), a, Status(c.Query("status")))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	views := make([]View, 0, len(bookings))
	for i := range bookings {
		views = append(views, bookings[i].View())
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) Get(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	b, err := h.service.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b.View())
}

func (h *Handler) Approve(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	b, err := h.service.Approve(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b.View())
}

func (h *Handler) Reject(c *gin.Context) {
	h.withReason(c, h.service.Reject)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.withReason(c, h.service.Cancel)
}

type reasonFunc func(ctx context.Context, a actor.Actor, id, reason string) (*Booking, error)

func (h *Handler) withReason(c *gin.Context, fn reasonFunc) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	var req ReasonRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := fn(c.Request.Context(), a, c.Param("id"), req.Reason)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b.View())
}
