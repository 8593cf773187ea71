package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MessageStore persists chat lines typed over a socket
type MessageStore interface {
	SaveSocketMessage(ctx context.Context, roomID, senderID int64, content string) (int64, error)
}

// MessageHandler listens to the hub and persists client chat messages
type MessageHandler struct {
	store  MessageStore
	hub    *Hub
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(store MessageStore, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// Start processes hub messages until ctx is cancelled
func (h *MessageHandler) Start(ctx context.Context) {
	messageChan := make(chan *Message, 256)
	h.hub.AddMessageListener(messageChan)

	go func() {
		defer h.hub.RemoveMessageListener(messageChan)
		for {
			select {
			case <-ctx.Done():
				return
			case message := <-messageChan:
				// Lines sent through the REST API are stored already
				if message.Type == MessageTypeText {
					h.processTextMessage(ctx, message)
				}
			}
		}
	}()
}

// processTextMessage saves a text message to the database
func (h *MessageHandler) processTextMessage(ctx context.Context, message *Message) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	messageID, err := h.store.SaveSocketMessage(ctx, message.RoomID, message.SenderID, message.Content)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("roomID", message.RoomID).
			Int64("senderID", message.SenderID).
			Msg("Failed to save WebSocket message to database")
		return
	}

	h.logger.Debug().
		Int64("messageID", messageID).
		Int64("roomID", message.RoomID).
		Msg("WebSocket message saved to database")
}
