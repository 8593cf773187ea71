package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ErrHubStopped is returned when a connection arrives after shutdown
var ErrHubStopped = errors.New("websocket hub stopped")

// Handler upgrades HTTP requests and attaches the connection to a hub room
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins list
// accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
		logger: logger,
	}
}

// Hub returns the hub connections are attached to
func (h *Handler) Hub() *Hub {
	return h.hub
}

// Serve upgrades the request and registers the connection in roomID.
// Authorization must already have been checked by the caller.
func (h *Handler) Serve(c *gin.Context, userID, roomID int64, opts ...ClientOption) error {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("roomID", roomID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return err
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		roomID: roomID,
		logger: h.logger,
	}
	for _, opt := range opts {
		opt(client)
	}

	if !h.hub.Register(client) {
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()

	h.logger.Debug().
		Int64("roomID", roomID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
	return nil
}
