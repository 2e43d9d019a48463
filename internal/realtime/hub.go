package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Event is the frame pushed to clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan Event
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks live websocket connections per user. A user may hold several connections.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub builds a hub accepting upgrades from allowedOrigin. An empty origin accepts any.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

var _ services.Notifier = (*Hub)(nil)

// Serve upgrades the request and keeps the connection registered for userID until it closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warn("websocket upgrade failed", zap.Error(err), zap.String("user_id", userID.String()))
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan Event, sendBuffer)}
	h.register(c)
	logger.L().Info("websocket connected", zap.String("user_id", userID.String()))

	go c.writePump()
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	c.close()
}

// SendToUser queues an event on every connection of the user. Slow connections are dropped.
func (h *Hub) SendToUser(userID uuid.UUID, eventType string, data any) {
	ev := Event{Type: eventType, Data: data}
	var slow []*client

	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.send <- ev:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.L().Warn("dropping slow websocket client", zap.String("user_id", userID.String()))
		h.unregister(c)
	}
}

// Connected reports whether the user has at least one live connection.
func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, id)
	}
}

// readPump only services control frames; clients do not send events.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		logger.L().Info("websocket disconnected", zap.String("user_id", c.userID.String()))
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				logger.L().Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
