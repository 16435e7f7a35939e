// Package ws pushes store events to connected browsers. One socket per
// tab; a broadcast event reaches everyone, a user-addressed event (new
// notification) reaches only that user's sockets.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/komi0929/myprompt/internal/domain/event"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Identify resolves the signed-in user behind a request. Guests report
// uuid.Nil and still receive broadcast events.
type Identify func(c *gin.Context) uuid.UUID

type Hub struct {
	identify Identify
	clients  map[*websocket.Conn]uuid.UUID
	mu       sync.RWMutex
}

func NewHub(identify Identify) *Hub {
	return &Hub{
		identify: identify,
		clients:  make(map[*websocket.Conn]uuid.UUID),
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) handleWS(c *gin.Context) {
	userID := h.identify(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = userID
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// The client never sends application messages; the read loop only
	// notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends the event to every connected client, or only to its
// addressed user's connections when the event names one.
func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, userID := range h.clients {
		if e.UserID != nil && *e.UserID != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Error("websocket write failed", "error", err)
		}
	}
}
