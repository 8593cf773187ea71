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

// TicketFilter narrows ticket lists. UserID limits the list to one user's tickets.
type TicketFilter struct {
	Page
	Search   string
	UserID   *int64
	Status   models.TicketStatus
	Priority models.TicketPriority
	Category models.TicketCategory
}

// ISupportTicketRepository defines support ticket persistence
type ISupportTicketRepository interface {
	Create(ctx context.Context, t *models.SupportTicket, first *models.SupportTicketMessage) error
	GetByID(ctx context.Context, id int64) (*models.SupportTicket, error)
	Update(ctx context.Context, t *models.SupportTicket) error
	UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.TicketStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter TicketFilter) ([]*models.SupportTicket, int64, error)
	AddMessage(ctx context.Context, m *models.SupportTicketMessage, status models.TicketStatus) error
	ListMessages(ctx context.Context, ticketID int64) ([]*models.SupportTicketMessage, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// SupportTicketRepository handles support ticket persistence
type SupportTicketRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSupportTicketRepository creates a new SupportTicketRepository
func NewSupportTicketRepository(db *pgxpool.Pool) *SupportTicketRepository {
	return &SupportTicketRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var ticketColumns = []string{
	"t.id", "t.user_id", "t.title", "t.description", "t.priority", "t.status", "t.category",
	"t.created_at", "t.updated_at",
	"COALESCE(u.first_name || ' ' || u.last_name, '')", "COALESCE(u.email, '')",
}

func scanTicket(row pgx.Row) (*models.SupportTicket, error) {
	var t models.SupportTicket
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.Category,
		&t.CreatedAt, &t.UpdatedAt, &t.UserName, &t.UserEmail)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var errTicketNotFound = apperrors.NewResourceNotFoundError("support ticket not found")

func (r *SupportTicketRepository) selectTickets(cols ...string) squirrel.SelectBuilder {
	return r.sb.Select(cols...).From("support_tickets t").LeftJoin("users u ON u.id = t.user_id")
}

// Create inserts a ticket and its opening message together
func (r *SupportTicketRepository) Create(ctx context.Context, t *models.SupportTicket, first *models.SupportTicketMessage) error {
	now := time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("support_tickets").
			Columns("user_id", "title", "description", "priority", "status", "category", "created_at", "updated_at").
			Values(t.UserID, t.Title, t.Description, t.Priority, t.Status, t.Category, now, now).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create ticket query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&t.ID); err != nil {
			logger.Error().Err(err).Int64("userID", t.UserID).Msg("Error creating support ticket")
			return fmt.Errorf("error creating support ticket: %w", err)
		}
		t.CreatedAt, t.UpdatedAt = now, now

		if first == nil {
			return nil
		}
		first.TicketID = t.ID
		return r.insertMessage(ctx, tx, first, now)
	})
}

func (r *SupportTicketRepository) insertMessage(ctx context.Context, q Querier, m *models.SupportTicketMessage, at time.Time) error {
	sql, args, err := r.sb.Insert("support_ticket_messages").
		Columns("ticket_id", "sender_id", "message", "is_admin", "created_at").
		Values(m.TicketID, m.SenderID, m.Message, m.IsAdmin, at).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create ticket message query: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return errTicketNotFound
		}
		logger.Error().Err(err).Int64("ticketID", m.TicketID).Msg("Error creating ticket message")
		return fmt.Errorf("error creating ticket message: %w", err)
	}
	m.CreatedAt = at
	return nil
}

// GetByID retrieves a ticket with its owner's name
func (r *SupportTicketRepository) GetByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	sql, args, err := r.selectTickets(ticketColumns...).Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get ticket query: %w", err)
	}

	t, err := scanTicket(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errTicketNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning support ticket row")
		return nil, fmt.Errorf("error retrieving support ticket: %w", err)
	}
	return t, nil
}

// Update rewrites title, description, priority and category
func (r *SupportTicketRepository) Update(ctx context.Context, t *models.SupportTicket) error {
	t.UpdatedAt = time.Now()
	q := r.sb.Update("support_tickets").
		SetMap(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"priority":    t.Priority,
			"category":    t.Category,
			"updated_at":  t.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": t.ID})
	return r.mustAffect(ctx, q, "update ticket")
}

// UpdateStatus sets a ticket's status
func (r *SupportTicketRepository) UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) error {
	q := r.sb.Update("support_tickets").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update ticket status")
}

// Delete removes a ticket and its messages
func (r *SupportTicketRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("support_tickets").Where(squirrel.Eq{"id": id}), "delete ticket")
}

func (r *SupportTicketRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return errTicketNotFound
	}
	return nil
}

// BulkUpdateStatus sets status on many tickets
func (r *SupportTicketRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.TicketStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "support_tickets", ids, string(status))
}

// BulkDelete removes many tickets
func (r *SupportTicketRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "support_tickets", ids)
}

func ticketFiltered(q squirrel.SelectBuilder, f TicketFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "t.title", "t.description", "u.email"))
	}
	if f.UserID != nil {
		q = q.Where(squirrel.Eq{"t.user_id": *f.UserID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"t.status": f.Status})
	}
	if f.Priority != "" {
		q = q.Where(squirrel.Eq{"t.priority": f.Priority})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"t.category": f.Category})
	}
	return q
}

// List returns one page, newest first
func (r *SupportTicketRepository) List(ctx context.Context, f TicketFilter) ([]*models.SupportTicket, int64, error) {
	total, err := count(ctx, r.db, ticketFiltered(r.selectTickets("COUNT(*)"), f), "support tickets")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(ticketFiltered(r.selectTickets(ticketColumns...), f).OrderBy("t.created_at DESC", "t.id DESC"))
	items, err := queryList(ctx, r.db, q, "support tickets", scanTicket)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AddMessage appends a message and moves the ticket to status
func (r *SupportTicketRepository) AddMessage(ctx context.Context, m *models.SupportTicketMessage, status models.TicketStatus) error {
	now := time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.insertMessage(ctx, tx, m, now); err != nil {
			return err
		}
		n, err := exec(ctx, tx, r.sb.Update("support_tickets").
			Set("status", status).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": m.TicketID}), "touch ticket")
		if err != nil {
			return err
		}
		if n == 0 {
			return errTicketNotFound
		}
		return nil
	})
}

// ListMessages returns a ticket's conversation, oldest first
func (r *SupportTicketRepository) ListMessages(ctx context.Context, ticketID int64) ([]*models.SupportTicketMessage, error) {
	q := r.sb.Select("m.id", "m.ticket_id", "m.sender_id", "m.message", "m.is_admin", "m.created_at",
		"COALESCE(u.first_name || ' ' || u.last_name, '')").
		From("support_ticket_messages m").
		LeftJoin("users u ON u.id = m.sender_id").
		Where(squirrel.Eq{"m.ticket_id": ticketID}).
		OrderBy("m.created_at ASC", "m.id ASC")

	return queryList(ctx, r.db, q, "ticket messages", func(row pgx.Row) (*models.SupportTicketMessage, error) {
		var m models.SupportTicketMessage
		if err := row.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.Message, &m.IsAdmin, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

// CountByStatus groups tickets by status
func (r *SupportTicketRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "support_tickets", "status")
}
