package feed

import (
	"sync"
	"time"

	"taskmanager/internal/pkg/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// client serialises writes; gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub holds at most one feed connection per user. A newer connection
// replaces and closes the older one.
type Hub struct {
	clients map[string]*client
	mutex   sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log.Named("feed"),
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[userID]; exists {
		_ = old.conn.Close()
		metrics.FeedConnections.Dec()
	}

	h.clients[userID] = &client{conn: conn}
	metrics.FeedConnections.Inc()
}

// Unregister removes conn if it is still the user's current connection.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cl, exists := h.clients[userID]; exists && cl.conn == conn {
		_ = cl.conn.Close()
		delete(h.clients, userID)
		metrics.FeedConnections.Dec()
	}
}

// Publish implements the task service's notifier. It reports whether the
// event reached an open connection.
func (h *Hub) Publish(userID string, event Event) bool {
	h.mutex.RLock()
	cl, exists := h.clients[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}

	if err := cl.writeJSON(event); err != nil {
		h.log.Debug("dropping feed connection", zap.String("user_id", userID), zap.Error(err))
		h.Unregister(userID, cl.conn)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) ping(userID string, conn *websocket.Conn) error {
	h.mutex.RLock()
	cl, exists := h.clients[userID]
	h.mutex.RUnlock()

	if !exists || cl.conn != conn {
		return websocket.ErrCloseSent
	}
	return cl.ping()
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, cl := range h.clients {
		_ = cl.conn.Close()
		delete(h.clients, userID)
		metrics.FeedConnections.Dec()
	}
}
