package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

const maxChatMessageLength = 4000

// ChatService defines the interface for matching chat operations
type ChatService interface {
	ListChats(ctx context.Context, userID int64) ([]*models.MatchingChat, error)
	GetChatForRequest(ctx context.Context, userID, requestID int64) (*models.MatchingChat, error)
	Authorize(ctx context.Context, userID, chatID int64) (*models.MatchingChat, error)
	GetMessages(ctx context.Context, userID, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error)
	SendMessage(ctx context.Context, userID, chatID int64, text string) (*models.MatchingMessage, error)
	MarkRead(ctx context.Context, userID, chatID int64) (int64, error)

	// SaveSocketMessage persists a line typed over the chat socket
	SaveSocketMessage(ctx context.Context, roomID, senderID int64, content string) (int64, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	chatRepo repositories.IChatRepository
	wsHub    LivePusher // chat hub, one room per chat
	logger   zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo repositories.IChatRepository, wsHub LivePusher, logger zerolog.Logger) ChatService {
	return &chatServiceImpl{
		chatRepo: chatRepo,
		wsHub:    wsHub,
		logger:   logger,
	}
}

var _ websocket.MessageStore = (*chatServiceImpl)(nil)

// ListChats lists the chats the user takes part in
func (s *chatServiceImpl) ListChats(ctx context.Context, userID int64) ([]*models.MatchingChat, error) {
	return s.chatRepo.ListChatsForUser(ctx, userID)
}

// GetChatForRequest returns the chat opened for an accepted request
func (s *chatServiceImpl) GetChatForRequest(ctx context.Context, userID, requestID int64) (*models.MatchingChat, error) {
	chat, err := s.chatRepo.GetChatByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, apperrors.NewForbiddenError("user is not a participant in this chat")
	}
	return chat, nil
}

// Authorize loads a chat and checks that userID is one of its two members
func (s *chatServiceImpl) Authorize(ctx context.Context, userID, chatID int64) (*models.MatchingChat, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, apperrors.NewForbiddenError("user is not a participant in this chat")
	}
	return chat, nil
}

// GetMessages returns a page of messages, oldest first
func (s *chatServiceImpl) GetMessages(ctx context.Context, userID, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error) {
	if _, err := s.Authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, chatID, before, limit)
}

// SendMessage stores a chat line and broadcasts it to the chat room
func (s *chatServiceImpl) SendMessage(ctx context.Context, userID, chatID int64, text string) (*models.MatchingMessage, error) {
	msg, err := s.store(ctx, userID, chatID, text)
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		wsMessage := &websocket.Message{
			Type:      websocket.MessageTypeChatMessage,
			RoomID:    chatID,
			SenderID:  userID,
			Content:   msg.Message,
			Payload:   msg,
			Timestamp: msg.CreatedAt,
			ID:        msg.ID,
		}
		s.wsHub.BroadcastToRoom(wsMessage)
		s.logger.Debug().
			Int64("chatID", chatID).
			Int64("messageID", msg.ID).
			Msg("Chat message broadcasted via WebSocket")
	}
	return msg, nil
}

func (s *chatServiceImpl) store(ctx context.Context, userID, chatID int64, text string) (*models.MatchingMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("message text is required")
	}
	if len([]rune(text)) > maxChatMessageLength {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("message is longer than %d characters", maxChatMessageLength))
	}

	chat, err := s.Authorize(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsActive {
		return nil, apperrors.NewConflictError("chat is closed")
	}

	msg := &models.MatchingMessage{
		ChatID:   chatID,
		SenderID: userID,
		Message:  text,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error().Err(err).Int64("chatID", chatID).Msg("Failed to create chat message")
		return nil, err
	}
	return msg, nil
}

// MarkRead marks the other party's messages as read
func (s *chatServiceImpl) MarkRead(ctx context.Context, userID, chatID int64) (int64, error) {
	if _, err := s.Authorize(ctx, userID, chatID); err != nil {
		return 0, err
	}
	return s.chatRepo.MarkRead(ctx, chatID, userID)
}

// SaveSocketMessage persists a line the hub already delivered to the room
func (s *chatServiceImpl) SaveSocketMessage(ctx context.Context, roomID, senderID int64, content string) (int64, error) {
	msg, err := s.store(ctx, senderID, roomID, content)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}
