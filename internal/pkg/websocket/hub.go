package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types carried over the sockets
const (
	// MessageTypeText is a chat line typed by a connected client
	MessageTypeText = "text"
	// MessageTypeChatMessage is a chat line already stored through the REST API
	MessageTypeChatMessage  = "message"
	MessageTypeNotification = "notification"
	MessageTypeResults      = "results"
	MessageTypeError        = "error"
)

// Hub maintains the set of active clients grouped by room and broadcasts
// messages to the clients of a room
type Hub struct {
	// Registered clients organized by room ID
	clients map[int64]map[*Client]bool

	// Channel for outbound messages
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message: "text", "message", "notification", "results"
	Type string `json:"type"`

	// Room this message belongs to: a chat ID or a user ID
	RoomID int64 `json:"roomId"`

	SenderID int64 `json:"senderId,omitempty"`

	Content string `json:"content,omitempty"`

	// Structured body for server pushes
	Payload interface{} `json:"payload,omitempty"`

	Timestamp time.Time `json:"timestamp"`

	// Message ID from the database
	ID int64 `json:"id,omitempty"`

	// all delivers to every room
	all bool
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Message, 64),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		done:             make(chan struct{}),
		clients:          make(map[int64]map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run handles client registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("Hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID := client.roomID
	if _, ok := h.clients[roomID]; !ok {
		h.clients[roomID] = make(map[*Client]bool)
	}
	h.clients[roomID][client] = true

	h.logger.Debug().
		Int64("roomID", roomID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	roomID := client.roomID
	clients, ok := h.clients[roomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	client.close()
	if len(clients) == 0 {
		delete(h.clients, roomID)
	}

	h.logger.Debug().
		Int64("roomID", roomID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}

// broadcastMessage delivers a message to every client of its room
func (h *Hub) broadcastMessage(message *Message) {
	h.notifyMessageListeners(message)

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("roomID", message.RoomID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	var slow []*Client

	h.mu.RLock()
	delivered := 0
	for roomID, clients := range h.clients {
		if !message.all && roomID != message.RoomID {
			continue
		}
		for client := range clients {
			if client.Send(data) {
				delivered++
			} else {
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	// Clients whose send buffer is full are dropped
	if len(slow) > 0 {
		h.mu.Lock()
		for _, client := range slow {
			h.removeLocked(client)
		}
		h.mu.Unlock()
	}

	h.logger.Debug().
		Int64("roomID", message.RoomID).
		Bool("all", message.all).
		Int("clientCount", delivered).
		Msg("Message broadcasted")
}

// notifyMessageListeners sends a message to all registered message listeners
func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

func (h *Hub) enqueue(message *Message) bool {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- message:
		return true
	case <-h.done:
		return false
	}
}

// BroadcastToRoom sends a message to all connected clients of a room.
// It returns false once the hub has stopped.
func (h *Hub) BroadcastToRoom(message *Message) bool {
	return h.enqueue(message)
}

// BroadcastToAll sends a message to every connected client
func (h *Hub) BroadcastToAll(message *Message) bool {
	message.all = true
	return h.enqueue(message)
}

// Register adds a client to its room
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from its room
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// GetClientsCount returns the number of connected clients for a room
func (h *Hub) GetClientsCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[roomID])
}

// AddMessageListener registers a channel to receive all broadcast messages
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
