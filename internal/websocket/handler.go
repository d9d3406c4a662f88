package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"counselfinder/internal/config"
)

// Handler upgrades HTTP requests to WebSocket connections and attaches
// them to the hub.
type Handler struct {
	hub      *Hub
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a WebSocket upgrade handler.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// The UI is served from the same origin; progress events
			// carry no sensitive data either way.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
}

// ServeHTTP handles GET /ws.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr),
		)
		return
	}
	ServeWS(h.hub, NewConnectionWrapper(conn), h.cfg, h.logger)
}

// ServeWS registers a connection with the hub and starts its pumps.
func ServeWS(hub *Hub, conn Connection, cfg config.WebSocketConfig, logger *slog.Logger) {
	client := NewClient(hub, conn, cfg, logger)
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
