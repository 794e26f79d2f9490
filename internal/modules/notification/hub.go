package notification

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client is one registered websocket connection.
type Client struct {
	ws *websocket.Conn
	mu sync.Mutex // gorilla allows one concurrent writer
}

func (c *Client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *Client) writeControl(messageType int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(messageType, nil, time.Now().Add(writeWait))
}

// Hub tracks one live websocket per user; a new connection replaces the old one.
type Hub struct {
	connections map[string]*Client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Client),
	}
}

func (h *Hub) Register(userID string, ws *websocket.Conn) *Client {
	c := &Client{ws: ws}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists {
		_ = old.ws.Close()
	}
	h.connections[userID] = c
	return c
}

// Unregister drops c only if it is still the user's current connection.
func (h *Hub) Unregister(userID string, c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.connections[userID]; exists && cur == c {
		_ = cur.ws.Close()
		delete(h.connections, userID)
	}
}

// SendToUser reports whether the message reached a live connection.
func (h *Hub) SendToUser(userID string, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}

	if err := c.writeJSON(message); err != nil {
		h.Unregister(userID, c)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		_ = c.ws.Close()
		delete(h.connections, userID)
	}
}
