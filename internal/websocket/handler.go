package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"indentdesk/internal/auth"
	"indentdesk/internal/config"
)

// Handler upgrades HTTP requests to websocket connections on the hub
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	cfg      config.WebSocketConfig
	logger   *slog.Logger
}

// NewHandler builds the upgrade handler. An empty allowedOrigins list
// accepts same-origin handshakes only.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		cfg:    cfg,
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.hub.Running() {
		http.Error(w, "live updates unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	username := ""
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		username = claims.Username
	}

	client := NewClient(h.hub, WrapConn(conn), username, h.cfg.PingPeriod, h.cfg.PongWait)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
