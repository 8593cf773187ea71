package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/db"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/dberrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IChatRepository stores matching chats and their messages
type IChatRepository interface {
	CreateChat(ctx context.Context, chat *models.MatchingChat) error
	GetChatByID(ctx context.Context, id int64) (*models.MatchingChat, error)
	GetChatByRequestID(ctx context.Context, requestID int64) (*models.MatchingChat, error)
	ListChatsForUser(ctx context.Context, userID int64) ([]*models.MatchingChat, error)
	CreateMessage(ctx context.Context, msg *models.MatchingMessage) error
	ListMessages(ctx context.Context, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error)
	MarkRead(ctx context.Context, chatID, readerID int64) (int64, error)
}

// ChatRepository handles database operations for matching chats
type ChatRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var chatColumns = []string{"id", "matching_request_id", "supplier_user_id", "visitor_user_id", "is_active", "last_message_at", "created_at"}

func scanChat(row pgx.Row) (*models.MatchingChat, error) {
	var c models.MatchingChat
	if err := row.Scan(&c.ID, &c.MatchingRequestID, &c.SupplierUserID, &c.VisitorUserID,
		&c.IsActive, &c.LastMessageAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChat opens the chat of an accepted request. An existing chat for
// the same request is returned instead.
func (r *ChatRepository) CreateChat(ctx context.Context, chat *models.MatchingChat) error {
	chat.CreatedAt = time.Now()
	chat.IsActive = true
	sql, args, err := r.sb.Insert("matching_chats").
		Columns("matching_request_id", "supplier_user_id", "visitor_user_id", "is_active", "created_at").
		Values(chat.MatchingRequestID, chat.SupplierUserID, chat.VisitorUserID, chat.IsActive, chat.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create chat query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&chat.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "matching_chats_request_key") {
			existing, getErr := r.GetChatByRequestID(ctx, chat.MatchingRequestID)
			if getErr != nil {
				return getErr
			}
			*chat = *existing
			return nil
		}
		logger.Error().Err(err).Int64("requestID", chat.MatchingRequestID).Msg("Error creating chat")
		return fmt.Errorf("error creating chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) getChat(ctx context.Context, where squirrel.Sqlizer) (*models.MatchingChat, error) {
	sql, args, err := r.sb.Select(chatColumns...).From("matching_chats").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get chat query: %w", err)
	}

	chat, err := scanChat(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat: %w", err)
	}
	return chat, nil
}

// GetChatByID retrieves a chat
func (r *ChatRepository) GetChatByID(ctx context.Context, id int64) (*models.MatchingChat, error) {
	return r.getChat(ctx, squirrel.Eq{"id": id})
}

// GetChatByRequestID retrieves the chat of a request
func (r *ChatRepository) GetChatByRequestID(ctx context.Context, requestID int64) (*models.MatchingChat, error) {
	return r.getChat(ctx, squirrel.Eq{"matching_request_id": requestID})
}

// ListChatsForUser returns the chats a user takes part in, most recently active first
func (r *ChatRepository) ListChatsForUser(ctx context.Context, userID int64) ([]*models.MatchingChat, error) {
	q := r.sb.Select(chatColumns...).From("matching_chats").
		Where(squirrel.Or{squirrel.Eq{"supplier_user_id": userID}, squirrel.Eq{"visitor_user_id": userID}}).
		OrderBy("COALESCE(last_message_at, created_at) DESC")
	return queryList(ctx, r.db, q, "chats", scanChat)
}

// CreateMessage inserts a message and bumps the chat's last_message_at
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *models.MatchingMessage) error {
	msg.CreatedAt = time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("matching_messages").
			Columns("chat_id", "sender_id", "message", "is_read", "created_at").
			Values(msg.ChatID, msg.SenderID, msg.Message, false, msg.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create message query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&msg.ID); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrChatNotFound
			}
			logger.Error().Err(err).Int64("chatID", msg.ChatID).Msg("Error creating chat message")
			return fmt.Errorf("error creating chat message: %w", err)
		}

		_, err = exec(ctx, tx, r.sb.Update("matching_chats").
			Set("last_message_at", msg.CreatedAt).
			Where(squirrel.Eq{"id": msg.ChatID}), "touch chat")
		return err
	})
}

// ListMessages returns up to limit messages older than before, oldest first
func (r *ChatRepository) ListMessages(ctx context.Context, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := r.sb.Select("m.id", "m.chat_id", "m.sender_id", "m.message", "m.is_read", "m.created_at",
		"COALESCE(u.first_name || ' ' || u.last_name, '')").
		From("matching_messages m").
		LeftJoin("users u ON u.id = m.sender_id").
		Where(squirrel.Eq{"m.chat_id": chatID}).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(uint64(limit))
	if before != nil {
		q = q.Where(squirrel.Lt{"m.created_at": *before})
	}

	messages, err := queryList(ctx, r.db, q, "chat messages", func(row pgx.Row) (*models.MatchingMessage, error) {
		var m models.MatchingMessage
		if err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Message, &m.IsRead, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flags every message the reader did not send as read
func (r *ChatRepository) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	q := r.sb.Update("matching_messages").
		Set("is_read", true).
		Where(squirrel.Eq{"chat_id": chatID, "is_read": false}).
		Where(squirrel.NotEq{"sender_id": readerID})
	return exec(ctx, r.db, q, "mark messages read")
}
