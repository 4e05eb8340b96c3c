package websocket

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/transport/rest/middleware"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
	secret   string
}

func NewHandler(hub *Hub, log logger.Logger, cfg *config.Config) *Handler {
	log = log.With("component", "ws")

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// non-browser clients send no Origin
			if origin == "" || slices.Contains(cfg.AllowedOrigins, origin) {
				return true
			}

			log.Warn("websocket origin rejected", "origin", origin)
			return false
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		log:      log,
		secret:   cfg.JWTSecret,
	}
}

// Serve accepts the token as a bearer header, the login cookie, or a
// token query parameter for browsers that cannot set headers.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	if token == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := domain.ValidateToken(token, h.secret); err != nil {
		h.log.Warn("jwt verification failed", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	if !enqueue(h.hub, h.hub.register, client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.log.Info("client connected", "id", client.ID, "remote_addr", conn.RemoteAddr())
}
