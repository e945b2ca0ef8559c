package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mafia/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.RoomHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. A missing room is
// created on first join; a userKey query param marks a reconnect.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomKey := r.URL.Query().Get("roomKey")
	if roomKey == "" {
		http.Error(w, "roomKey is required", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	userKey := r.URL.Query().Get("userKey")
	isReconnect := userKey != ""
	if !isReconnect {
		userKey = "user_" + uuid.New().String()
	}

	session := h.hub.GetOrCreateSession(roomKey)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.hub, session, userKey, h.logger)
	session.RegisterClient(userKey, client)

	h.logger.Info("websocket connected",
		"roomKey", roomKey,
		"userKey", userKey,
		"isReconnect", isReconnect,
	)

	joined := false
	if isReconnect {
		joined = session.Reconnect(userKey)
	}
	if !joined {
		joined = session.AddUser(userKey, name)
	}

	if !joined {
		client.sendError(ErrCodeInvalidAction, "Cannot join this room")
		session.UnregisterClient(userKey)
		client.Close()
		return
	}

	client.sendConnected()
	client.Run()
}
