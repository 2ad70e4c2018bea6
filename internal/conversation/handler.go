package conversation

import (
	"net/http"
	"strconv"

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

func (h *Handler) Open(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	var req OpenRequest
	if !api.BindJSON(c, &req) {
		return
	}

	conv, err := h.service.Open(c.Request.Context(), a, req.ParticipantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

func (h *Handler) ListMine(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	convs, err := h.service.ListMine(c.Request.Context(), a)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convs)
}

func (h *Handler) Messages(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.service.List(c.Request.Context(), a, c.Param("id"), limit)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) Send(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	var req SendRequest
	if !api.BindJSON(c, &req) {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), a, c.Param("id"), req.ID, req.Body)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}
