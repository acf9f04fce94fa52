package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendQueueSize  = 16
)

type EventType string

const (
	EventConnected   EventType = "connected"
	EventDogCreated  EventType = "dog_created"
	EventDogUpdated  EventType = "dog_updated"
	EventDogDeleted  EventType = "dog_deleted"
	EventDogsRemoved EventType = "dogs_removed"
)

// DogEvent is pushed to every feed subscriber after a listing changes.
// dogs_removed carries only the user whose listings were dropped with their
// account.
type DogEvent struct {
	Type           EventType          `json:"type"`
	DogID          uint               `json:"dog_id,omitempty"`
	UserID         uint               `json:"user_id,omitempty"`
	Dog            *types.DogResponse `json:"dog,omitempty"`
	PreviousStatus models.DogStatus   `json:"previous_status,omitempty"`
}

// feedClient owns a queue drained by its own writer goroutine, so a slow
// peer never holds up the request that broadcast the event.
type feedClient struct {
	conn *websocket.Conn
	send chan DogEvent
}

// Hub fans dog listing changes out to connected browsers.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*feedClient]bool
	subscribers []func(context.Context, DogEvent)
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHub accepts upgrades only from allowedOrigins. An empty list accepts
// same-host requests only.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Hub{
		clients: make(map[*feedClient]bool),
		logger:  logger,
	}

	if len(allowedOrigins) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		}
	}

	return h
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe registers fn to receive every broadcast event. fn runs on the
// broadcasting request's goroutine with that request's context.
func (h *Hub) Subscribe(fn func(context.Context, DogEvent)) {
	h.mu.Lock()
	h.subscribers = append(h.subscribers, fn)
	h.mu.Unlock()
}

// Broadcast hands event to every subscriber and queues it for every feed
// client. A client whose queue is full is dropped.
func (h *Hub) Broadcast(ctx context.Context, event DogEvent) {
	var slow []*feedClient

	h.mu.RLock()
	subscribers := slices.Clone(h.subscribers)
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow dog feed client", "type", event.Type)
		h.remove(c)
	}

	for _, fn := range subscribers {
		fn(ctx, event)
	}
}

func (h *Hub) add(c *feedClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

// remove closes the client's queue under the write lock, so Broadcast never
// sends on a closed channel.
func (h *Hub) remove(c *feedClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		c.conn.Close()
	}
}

// writePump is the connection's only writer. It stops when the queue is
// closed or a write fails.
func (h *Hub) writePump(c *feedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				h.logger.Warn("failed to push dog event", "type", event.Type, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// DogFeed upgrades the request and streams DogEvents until the client goes
// away. Incoming messages are read only to service pongs and close frames.
func (h *Handler) DogFeed(ctx *gin.Context) {
	h.hub.Serve(ctx)
}

func (h *Hub) Serve(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &feedClient{conn: conn, send: make(chan DogEvent, sendQueueSize)}
	client.send <- DogEvent{Type: EventConnected}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Warn("failed to set initial read deadline", "error", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.add(client)
	defer h.remove(client)

	go h.writePump(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("dog feed closed unexpectedly", "error", err)
			}
			return
		}
	}
}
