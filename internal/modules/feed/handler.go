package feed

import (
	"net/http"
	"net/url"
	"time"

	"taskmanager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	hub      *Hub
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler accepts browser connections from the same host or from one of
// allowedOrigins.
func NewHandler(hub *Hub, verifier middleware.TokenVerifier, allowedOrigins []string, log *zap.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub:      hub,
		verifier: verifier,
		log:      log.Named("feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

func (h *Handler) RegisterProtectedRoutes(api *gin.RouterGroup) {
	api.GET("/task/events", h.Subscribe)
}

// Subscribe upgrades to a WebSocket that receives the caller's task events.
// Browsers cannot set headers on WebSocket requests, so the access token may
// also come as ?token=.
func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var err error
		if token, err = middleware.BearerToken(c.GetHeader("Authorization")); err != nil {
			_ = c.Error(err)
			return
		}
	}

	identity, err := middleware.Authenticate(h.verifier, token)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the client
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Register(identity.UserID, conn)
	h.log.Info("feed connected", zap.String("user_id", identity.UserID))

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(identity.UserID, conn)
		h.log.Info("feed disconnected", zap.String("user_id", identity.UserID))
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(identity.UserID, conn, done)

	// the feed is one-way; reading only drives control frames and close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("feed read error", zap.String("user_id", identity.UserID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) pingLoop(userID string, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.hub.ping(userID, conn); err != nil {
				return
			}
		}
	}
}
