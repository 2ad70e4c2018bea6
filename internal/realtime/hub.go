package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

const writeWait = 10 * time.Second

// Message is what a websocket client receives: the fresh row after a change.
type Message struct {
	Type  string      `json:"type"`
	Table Table       `json:"table,omitempty"`
	Op    Op          `json:"op,omitempty"`
	RowID string      `json:"row_id,omitempty"`
	At    time.Time   `json:"at"`
	Data  interface{} `json:"data,omitempty"`
}

type Sender interface {
	SendToUser(userID string, msg Message) error
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub keeps one connection per user; a newer connection replaces the older.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[userID]; ok {
		existing.conn.Close()
	}
	h.clients[userID] = &client{conn: conn}

	logger.Info("websocket connection registered", "user_id", userID)
}

// Unregister drops conn only if it is still the user's current connection.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[userID]; ok && c.conn == conn {
		c.conn.Close()
		delete(h.clients, userID)
		logger.Info("websocket connection unregistered", "user_id", userID)
	}
}

func (h *Hub) SendToUser(userID string, msg Message) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(userID, c.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
