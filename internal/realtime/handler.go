package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/api"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve upgrades an authenticated request and holds the connection until the
// client goes away. Inbound frames are ignored; this is a push channel.
func (h *Handler) Serve(c *gin.Context) {
	a, ok := auth.GetActor(c)
	if !ok {
		api.Unauthorized(c)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade failed", "user_id", a.ID)
		return
	}

	h.hub.Register(a.ID, conn)
	defer h.hub.Unregister(a.ID, conn)

	_ = h.hub.SendToUser(a.ID, Message{Type: "hello", At: time.Now().UTC()})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
