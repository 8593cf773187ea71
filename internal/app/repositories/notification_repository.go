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
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationFilter narrows the admin notification list
type NotificationFilter struct {
	Page
	Search   string
	Type     string
	Priority string
	IsActive *bool
	UserID   *int64
}

// NotificationStats summarises the notification table
type NotificationStats struct {
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
	Unread int64            `json:"unread"` // personal rows only
	ByType map[string]int64 `json:"byType"`
}

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateMany(ctx context.Context, items []*models.Notification) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	Update(ctx context.Context, n *models.Notification) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter NotificationFilter) ([]*models.Notification, int64, error)
	ListForUser(ctx context.Context, userID int64, unreadOnly bool, page Page, now time.Time) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64, now time.Time) (int64, error)
	TrackClick(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*NotificationStats, error)
}

// NotificationRepository handles notification persistence
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var notificationColumns = []string{
	"id", "title", "message", "type", "priority", "is_active", "is_read", "read_count", "click_count",
	"user_id", "created_by_id", "expires_at", "action_url", "action_text", "created_at", "updated_at",
}

// priorityOrder sorts urgent > high > normal > low
const priorityOrder = "CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Priority, &n.IsActive, &n.IsRead, &n.ReadCount, &n.ClickCount,
		&n.UserID, &n.CreatedByID, &n.ExpiresAt, &n.ActionURL, &n.ActionText, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

var errNotificationNotFound = apperrors.NewResourceNotFoundError("notification not found")

func (r *NotificationRepository) insert(ctx context.Context, db Querier, n *models.Notification) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("notifications").
		Columns("title", "message", "type", "priority", "is_active", "user_id", "created_by_id",
			"expires_at", "action_url", "action_text", "created_at", "updated_at").
		Values(n.Title, n.Message, n.Type, n.Priority, n.IsActive, n.UserID, n.CreatedByID,
			n.ExpiresAt, n.ActionURL, n.ActionText, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := db.QueryRow(ctx, sql, args...).Scan(&n.ID); err != nil {
		logger.Error().Err(err).Str("title", n.Title).Msg("Error creating notification")
		return fmt.Errorf("error creating notification: %w", err)
	}
	n.CreatedAt, n.UpdatedAt = now, now
	return nil
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.insert(ctx, r.db, n)
}

// CreateMany inserts one row per item and returns how many succeeded.
// A failing row does not stop the rest.
func (r *NotificationRepository) CreateMany(ctx context.Context, items []*models.Notification) (int, error) {
	sent := 0
	var firstErr error
	for _, n := range items {
		if err := r.insert(ctx, r.db, n); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	return sent, firstErr
}

// GetByID retrieves a notification
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	sql, args, err := r.sb.Select(notificationColumns...).From("notifications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}

	n, err := scanNotification(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNotificationNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning notification row")
		return nil, fmt.Errorf("error retrieving notification: %w", err)
	}
	return n, nil
}

// Update rewrites the editable columns
func (r *NotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	n.UpdatedAt = time.Now()
	q := r.sb.Update("notifications").
		SetMap(map[string]interface{}{
			"title":       n.Title,
			"message":     n.Message,
			"type":        n.Type,
			"priority":    n.Priority,
			"is_active":   n.IsActive,
			"expires_at":  n.ExpiresAt,
			"action_url":  n.ActionURL,
			"action_text": n.ActionText,
			"updated_at":  n.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": n.ID})
	return r.mustAffect(ctx, q, "update notification")
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("notifications").Where(squirrel.Eq{"id": id}), "delete notification")
}

func (r *NotificationRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) filtered(q squirrel.SelectBuilder, f NotificationFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "title", "message"))
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": f.Type})
	}
	if f.Priority != "" {
		q = q.Where(squirrel.Eq{"priority": f.Priority})
	}
	if f.IsActive != nil {
		q = q.Where(squirrel.Eq{"is_active": *f.IsActive})
	}
	if f.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *f.UserID})
	}
	return q
}

// List returns one page for the admin panel
func (r *NotificationRepository) List(ctx context.Context, f NotificationFilter) ([]*models.Notification, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("notifications"), f), "notifications")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(notificationColumns...).From("notifications"), f).OrderBy("created_at DESC"))
	items, err := queryList(ctx, r.db, q, "notifications", scanNotification)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func visibleTo(userID int64, now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"is_active": true},
		squirrel.Or{squirrel.Eq{"user_id": nil}, squirrel.Eq{"user_id": userID}},
		squirrel.Or{squirrel.Eq{"expires_at": nil}, squirrel.Gt{"expires_at": now}},
	}
}

// readByUser is true once userID has read the row. Personal rows carry
// is_read themselves; broadcasts are read per user in notification_reads.
func readByUser(userID int64) squirrel.Sqlizer {
	return squirrel.Expr("(notifications.is_read OR EXISTS (SELECT 1 FROM notification_reads nr "+
		"WHERE nr.notification_id = notifications.id AND nr.user_id = ?))", userID)
}

func unreadByUser(userID int64) squirrel.Sqlizer {
	return squirrel.Expr("NOT notifications.is_read AND NOT EXISTS (SELECT 1 FROM notification_reads nr "+
		"WHERE nr.notification_id = notifications.id AND nr.user_id = ?)", userID)
}

// feedSelect selects notification columns with is_read resolved for userID
func (r *NotificationRepository) feedSelect(userID int64) squirrel.SelectBuilder {
	q := r.sb.Select()
	for _, col := range notificationColumns {
		if col == "is_read" {
			q = q.Column(squirrel.Alias(readByUser(userID), "is_read"))
			continue
		}
		q = q.Column("notifications." + col)
	}
	return q.From("notifications")
}

// ListForUser returns the user's feed: broadcasts plus personal rows
func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64, unreadOnly bool, page Page, now time.Time) ([]*models.Notification, int64, error) {
	where := squirrel.And{visibleTo(userID, now)}
	if unreadOnly {
		where = append(where, unreadByUser(userID))
	}

	total, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("notifications").Where(where), "user notifications")
	if err != nil {
		return nil, 0, err
	}

	q := page.apply(r.feedSelect(userID).
		Where(where).
		OrderBy(priorityOrder, "created_at DESC"))
	items, err := queryList(ctx, r.db, q, "user notifications", scanNotification)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MarkRead flags a notification the user can see as read. read_count grows
// only on a user's first read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("user_id").From("notifications").
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Or{squirrel.Eq{"user_id": nil}, squirrel.Eq{"user_id": userID}}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build notification owner query: %w", err)
		}

		var owner *int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&owner); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errNotificationNotFound
			}
			return fmt.Errorf("error reading notification owner: %w", err)
		}

		if owner != nil {
			_, err := exec(ctx, tx, r.sb.Update("notifications").
				Set("is_read", true).
				Set("read_count", squirrel.Expr("read_count + 1")).
				Where(squirrel.Eq{"id": id, "is_read": false}), "mark notification read")
			return err
		}

		n, err := exec(ctx, tx, broadcastReadQuery(r.sb, id, userID, time.Now()), "record broadcast read")
		if err != nil || n == 0 {
			return err
		}
		_, err = exec(ctx, tx, r.sb.Update("notifications").
			Set("read_count", squirrel.Expr("read_count + 1")).
			Where(squirrel.Eq{"id": id}), "count broadcast read")
		return err
	})
}

func broadcastReadQuery(sb squirrel.StatementBuilderType, id, userID int64, at time.Time) squirrel.InsertBuilder {
	return sb.Insert("notification_reads").
		Columns("notification_id", "user_id", "read_at").
		Values(id, userID, at).
		Suffix("ON CONFLICT (notification_id, user_id) DO NOTHING")
}

// MarkAllRead flags every unread notification the user can see as read and
// returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var marked int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		n, err := exec(ctx, tx, r.sb.Update("notifications").
			Set("is_read", true).
			Set("read_count", squirrel.Expr("read_count + 1")).
			Where(squirrel.Eq{"user_id": userID, "is_read": false}), "mark all notifications read")
		if err != nil {
			return err
		}
		marked = n

		sql, args, err := broadcastReadAllQuery(r.sb, userID, time.Now()).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build broadcast read query: %w", err)
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("userID", userID).Msg("Error recording broadcast reads")
			return fmt.Errorf("error recording broadcast reads: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("error scanning broadcast reads: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		marked += int64(len(ids))

		_, err = exec(ctx, tx, r.sb.Update("notifications").
			Set("read_count", squirrel.Expr("read_count + 1")).
			Where(squirrel.Eq{"id": ids}), "count broadcast reads")
		return err
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// broadcastReadAllQuery records a read for every visible broadcast the user
// has not read yet, returning the ids it recorded
func broadcastReadAllQuery(sb squirrel.StatementBuilderType, userID int64, now time.Time) squirrel.InsertBuilder {
	unread := squirrel.Select("notifications.id").
		Column(squirrel.Expr("?::bigint", userID)).
		Column(squirrel.Expr("?::timestamptz", now)).
		From("notifications").
		Where(squirrel.Eq{"user_id": nil, "is_active": true}).
		Where(squirrel.Or{squirrel.Eq{"expires_at": nil}, squirrel.Gt{"expires_at": now}}).
		Where(unreadByUser(userID))
	return sb.Insert("notification_reads").
		Columns("notification_id", "user_id", "read_at").
		Select(unread).
		Suffix("ON CONFLICT (notification_id, user_id) DO NOTHING RETURNING notification_id")
}

// UnreadCount counts the unread notifications in the user's feed
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64, now time.Time) (int64, error) {
	q := r.sb.Select("COUNT(*)").From("notifications").
		Where(visibleTo(userID, now)).
		Where(unreadByUser(userID))
	return count(ctx, r.db, q, "unread notifications")
}

// TrackClick counts one click on the notification's action
func (r *NotificationRepository) TrackClick(ctx context.Context, id int64) error {
	q := r.sb.Update("notifications").
		Set("click_count", squirrel.Expr("click_count + 1")).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "track notification click")
}

// Stats returns totals and a per-type breakdown
func (r *NotificationRepository) Stats(ctx context.Context) (*NotificationStats, error) {
	sql, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE is_active)",
		"COUNT(*) FILTER (WHERE is_active AND user_id IS NOT NULL AND NOT is_read)",
	).From("notifications").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build notification stats query: %w", err)
	}

	stats := &NotificationStats{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&stats.Total, &stats.Active, &stats.Unread); err != nil {
		logger.Error().Err(err).Msg("Error reading notification stats")
		return nil, fmt.Errorf("error reading notification stats: %w", err)
	}

	stats.ByType, err = countByStatus(ctx, r.db, r.sb, "notifications", "type")
	if err != nil {
		return nil, err
	}
	return stats, nil
}
