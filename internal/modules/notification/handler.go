package notification

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"sharespot/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts websocket upgrades only from allowedOrigins; requests without an
// Origin header (non-browser clients) are always accepted.
func NewHandler(service *Service, hub *Hub, allowedOrigins ...string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// RegisterRoutes expects rg to sit behind JWT auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.GetNotifications)
	rg.GET("/notifications/unread-count", h.GetUnreadCount)
	rg.PATCH("/notifications/:id/read", h.MarkAsRead)
	rg.PATCH("/notifications/read-all", h.MarkAllAsRead)
	rg.GET("/ws", h.ServeWS)
}

type listResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
	Total         int64          `json:"total"`
}

func (h *Handler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	list, unread, total, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}
	if list == nil {
		list = []Notification{}
	}

	response.Success(c, http.StatusOK, listResponse{
		Notifications: list,
		UnreadCount:   unread,
		Total:         total,
	})
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	unread, err := h.service.UnreadCount(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get unread count")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread_count": unread})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, c.GetString("user_id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark notification as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	n, err := h.service.MarkAllAsRead(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark notifications as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// ServeWS upgrades to a websocket that receives Event frames for the caller.
// Client frames are read only to notice pongs and closes.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetString("user_id")

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%s error=%v", userID, err)
		return
	}

	client := h.hub.Register(userID, ws)
	log.Printf("ws_connected user_id=%s online=%d", userID, h.hub.OnlineCount())

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(userID, client)
		log.Printf("ws_disconnected user_id=%s", userID)
	}()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.writeControl(websocket.PingMessage); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%s error=%v", userID, err)
			}
			return
		}
	}
}
