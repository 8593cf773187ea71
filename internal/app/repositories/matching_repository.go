package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchingFilter narrows matching request lists
type MatchingFilter struct {
	Page
	Search     string
	Status     string
	SupplierID int64
}

// IMatchingRepository defines matching request persistence
type IMatchingRepository interface {
	Create(ctx context.Context, req *models.MatchingRequest) error
	GetByID(ctx context.Context, id int64) (*models.MatchingRequest, error)
	Update(ctx context.Context, req *models.MatchingRequest) error
	UpdateStatus(ctx context.Context, id int64, status models.MatchingStatus) error
	UpdateMatchResult(ctx context.Context, id int64, matched int, status models.MatchingStatus) error
	Extend(ctx context.Context, id int64, expiresAt time.Time, status models.MatchingStatus) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.MatchingStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter MatchingFilter) ([]*models.MatchingRequest, int64, error)
	ListAvailable(ctx context.Context, now time.Time, page Page) ([]*models.MatchingRequest, int64, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// MatchingRepository handles matching request persistence
type MatchingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMatchingRepository creates a new MatchingRepository
func NewMatchingRepository(db *pgxpool.Pool) *MatchingRepository {
	return &MatchingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var matchingColumns = []string{
	"id", "supplier_id", "user_id", "product_id", "product_name", "quantity", "unit",
	"destination_countries", "price", "currency", "payment_terms", "delivery_time", "description",
	"expires_at", "status", "matched_visitor_count", "accepted_visitor_id", "accepted_at",
	"created_at", "updated_at",
}

func scanMatchingRequest(row pgx.Row) (*models.MatchingRequest, error) {
	var m models.MatchingRequest
	err := row.Scan(&m.ID, &m.SupplierID, &m.UserID, &m.ProductID, &m.ProductName, &m.Quantity, &m.Unit,
		&m.DestinationCountries, &m.Price, &m.Currency, &m.PaymentTerms, &m.DeliveryTime, &m.Description,
		&m.ExpiresAt, &m.Status, &m.MatchedVisitorCount, &m.AcceptedVisitorID, &m.AcceptedAt,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a matching request
func (r *MatchingRepository) Create(ctx context.Context, m *models.MatchingRequest) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("matching_requests").
		Columns("supplier_id", "user_id", "product_id", "product_name", "quantity", "unit",
			"destination_countries", "price", "currency", "payment_terms", "delivery_time", "description",
			"expires_at", "status", "created_at", "updated_at").
		Values(m.SupplierID, m.UserID, m.ProductID, m.ProductName, m.Quantity, m.Unit,
			m.DestinationCountries, m.Price, m.Currency, m.PaymentTerms, m.DeliveryTime, m.Description,
			m.ExpiresAt, m.Status, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create matching request SQL")
		return fmt.Errorf("failed to build create matching request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		logger.Error().Err(err).Int64("supplierID", m.SupplierID).Msg("Error creating matching request")
		return fmt.Errorf("error creating matching request: %w", err)
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

// GetByID retrieves a matching request
func (r *MatchingRepository) GetByID(ctx context.Context, id int64) (*models.MatchingRequest, error) {
	sql, args, err := r.sb.Select(matchingColumns...).From("matching_requests").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get matching request query: %w", err)
	}

	m, err := scanMatchingRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMatchingRequestNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning matching request row")
		return nil, fmt.Errorf("error retrieving matching request: %w", err)
	}
	return m, nil
}

// Update rewrites the editable fields of a request
func (r *MatchingRepository) Update(ctx context.Context, m *models.MatchingRequest) error {
	m.UpdatedAt = time.Now()
	q := r.sb.Update("matching_requests").
		Set("product_name", m.ProductName).
		Set("quantity", m.Quantity).
		Set("unit", m.Unit).
		Set("destination_countries", m.DestinationCountries).
		Set("price", m.Price).
		Set("currency", m.Currency).
		Set("payment_terms", m.PaymentTerms).
		Set("delivery_time", m.DeliveryTime).
		Set("description", m.Description).
		Set("expires_at", m.ExpiresAt).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID})
	return r.mustAffect(ctx, q, "update matching request")
}

// UpdateStatus sets the lifecycle status
func (r *MatchingRepository) UpdateStatus(ctx context.Context, id int64, status models.MatchingStatus) error {
	q := r.sb.Update("matching_requests").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update matching status")
}

// UpdateMatchResult stores how many visitors were notified
func (r *MatchingRepository) UpdateMatchResult(ctx context.Context, id int64, matched int, status models.MatchingStatus) error {
	q := r.sb.Update("matching_requests").
		Set("matched_visitor_count", matched).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update match result")
}

// Extend moves the deadline and sets the status
func (r *MatchingRepository) Extend(ctx context.Context, id int64, expiresAt time.Time, status models.MatchingStatus) error {
	q := r.sb.Update("matching_requests").
		Set("expires_at", expiresAt).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "extend matching request")
}

// Delete removes a request; responses, ratings and chats cascade
func (r *MatchingRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("matching_requests").Where(squirrel.Eq{"id": id}), "delete matching request")
}

func (r *MatchingRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrMatchingRequestNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many requests
func (r *MatchingRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.MatchingStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "matching_requests", ids, string(status))
}

// BulkDelete removes many requests
func (r *MatchingRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "matching_requests", ids)
}

func (r *MatchingRepository) filtered(q squirrel.SelectBuilder, f MatchingFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "product_name", "destination_countries"))
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.SupplierID > 0 {
		q = q.Where(squirrel.Eq{"supplier_id": f.SupplierID})
	}
	return q
}

// List returns one page of requests, newest first
func (r *MatchingRepository) List(ctx context.Context, f MatchingFilter) ([]*models.MatchingRequest, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("matching_requests"), f), "matching requests")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(matchingColumns...).From("matching_requests"), f).OrderBy("created_at DESC"))
	items, err := queryList(ctx, r.db, q, "matching requests", scanMatchingRequest)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func openAt(now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"status": []string{string(models.MatchingPending), string(models.MatchingActive)}},
		squirrel.Gt{"expires_at": now},
		squirrel.Eq{"accepted_visitor_id": nil},
	}
}

// ListAvailable returns requests visitors can still answer, soonest deadline first
func (r *MatchingRepository) ListAvailable(ctx context.Context, now time.Time, page Page) ([]*models.MatchingRequest, int64, error) {
	total, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("matching_requests").Where(openAt(now)), "available requests")
	if err != nil {
		return nil, 0, err
	}

	q := page.apply(r.sb.Select(matchingColumns...).From("matching_requests").
		Where(openAt(now)).
		OrderBy("expires_at ASC"))
	items, err := queryList(ctx, r.db, q, "available requests", scanMatchingRequest)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExpireOverdue marks pending and active requests past their deadline as expired
func (r *MatchingRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	q := r.sb.Update("matching_requests").
		Set("status", models.MatchingExpired).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": []string{string(models.MatchingPending), string(models.MatchingActive)}}).
		Where(squirrel.Lt{"expires_at": now})
	return exec(ctx, r.db, q, "expire matching requests")
}

// CountByStatus groups requests by status
func (r *MatchingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "matching_requests", "status")
}
