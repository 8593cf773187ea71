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

// PopupFilter narrows popup lists. Status is the derived display status.
type PopupFilter struct {
	Page
	Search string
	Status models.PopupStatus
	Now    time.Time
}

// IPopupRepository defines marketing popup persistence
type IPopupRepository interface {
	Create(ctx context.Context, p *models.MarketingPopup) error
	GetByID(ctx context.Context, id int64) (*models.MarketingPopup, error)
	Update(ctx context.Context, p *models.MarketingPopup) error
	Delete(ctx context.Context, id int64) error
	BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter PopupFilter) ([]*models.MarketingPopup, int64, error)
	GetActive(ctx context.Context, now time.Time) (*models.MarketingPopup, error)
	TrackShow(ctx context.Context, id int64) error
	TrackClick(ctx context.Context, id int64) error
	CountActive(ctx context.Context, now time.Time) (int64, int64, error)
}

// PopupRepository handles marketing popup persistence
type PopupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPopupRepository creates a new PopupRepository
func NewPopupRepository(db *pgxpool.Pool) *PopupRepository {
	return &PopupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var popupColumns = []string{
	"id", "title", "message", "discount_url", "button_text", "popup_type", "is_active",
	"start_date", "end_date", "show_count", "click_count", "priority", "added_by_id", "created_at", "updated_at",
}

func scanPopup(row pgx.Row) (*models.MarketingPopup, error) {
	var p models.MarketingPopup
	err := row.Scan(&p.ID, &p.Title, &p.Message, &p.DiscountURL, &p.ButtonText, &p.PopupType, &p.IsActive,
		&p.StartDate, &p.EndDate, &p.ShowCount, &p.ClickCount, &p.Priority, &p.AddedByID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var errPopupNotFound = apperrors.NewResourceNotFoundError("popup not found")

// Create inserts a popup
func (r *PopupRepository) Create(ctx context.Context, p *models.MarketingPopup) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("marketing_popups").
		Columns("title", "message", "discount_url", "button_text", "popup_type", "is_active",
			"start_date", "end_date", "priority", "added_by_id", "created_at", "updated_at").
		Values(p.Title, p.Message, p.DiscountURL, p.ButtonText, p.PopupType, p.IsActive,
			p.StartDate, p.EndDate, p.Priority, p.AddedByID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create popup query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		logger.Error().Err(err).Str("title", p.Title).Msg("Error creating popup")
		return fmt.Errorf("error creating popup: %w", err)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *PopupRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.MarketingPopup, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get popup query: %w", err)
	}

	p, err := scanPopup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errPopupNotFound
		}
		logger.Error().Err(err).Msg("Error scanning popup row")
		return nil, fmt.Errorf("error retrieving popup: %w", err)
	}
	return p, nil
}

// GetByID retrieves a popup
func (r *PopupRepository) GetByID(ctx context.Context, id int64) (*models.MarketingPopup, error) {
	return r.getOne(ctx, r.sb.Select(popupColumns...).From("marketing_popups").Where(squirrel.Eq{"id": id}))
}

// Update rewrites the editable columns
func (r *PopupRepository) Update(ctx context.Context, p *models.MarketingPopup) error {
	p.UpdatedAt = time.Now()
	q := r.sb.Update("marketing_popups").
		SetMap(map[string]interface{}{
			"title":        p.Title,
			"message":      p.Message,
			"discount_url": p.DiscountURL,
			"button_text":  p.ButtonText,
			"popup_type":   p.PopupType,
			"is_active":    p.IsActive,
			"start_date":   p.StartDate,
			"end_date":     p.EndDate,
			"priority":     p.Priority,
			"updated_at":   p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID})
	return r.mustAffect(ctx, q, "update popup")
}

// Delete removes a popup
func (r *PopupRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("marketing_popups").Where(squirrel.Eq{"id": id}), "delete popup")
}

func (r *PopupRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return errPopupNotFound
	}
	return nil
}

// BulkSetActive switches many popups on or off
func (r *PopupRepository) BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.sb.Update("marketing_popups").
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": ids})
	return exec(ctx, r.db, q, "bulk activate popups")
}

// BulkDelete removes many popups
func (r *PopupRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "marketing_popups", ids)
}

func inWindow(now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"is_active": true},
		squirrel.Or{squirrel.Eq{"start_date": nil}, squirrel.LtOrEq{"start_date": now}},
		squirrel.Or{squirrel.Eq{"end_date": nil}, squirrel.Gt{"end_date": now}},
	}
}

func (r *PopupRepository) filtered(q squirrel.SelectBuilder, f PopupFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "title", "message"))
	}
	switch f.Status {
	case models.PopupActive:
		q = q.Where(inWindow(f.Now))
	case models.PopupScheduled:
		q = q.Where(squirrel.Eq{"is_active": true}).Where(squirrel.Gt{"start_date": f.Now})
	case models.PopupInactive:
		q = q.Where(squirrel.Or{
			squirrel.Eq{"is_active": false},
			squirrel.LtOrEq{"end_date": f.Now},
		})
	}
	return q
}

// List returns one page ordered by priority then recency
func (r *PopupRepository) List(ctx context.Context, f PopupFilter) ([]*models.MarketingPopup, int64, error) {
	if f.Now.IsZero() {
		f.Now = time.Now()
	}
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("marketing_popups"), f), "popups")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(popupColumns...).From("marketing_popups"), f).
		OrderBy("priority DESC", "created_at DESC"))
	items, err := queryList(ctx, r.db, q, "popups", scanPopup)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetActive returns the highest priority popup showing at now
func (r *PopupRepository) GetActive(ctx context.Context, now time.Time) (*models.MarketingPopup, error) {
	return r.getOne(ctx, r.sb.Select(popupColumns...).From("marketing_popups").
		Where(inWindow(now)).
		OrderBy("priority DESC", "created_at DESC").
		Limit(1))
}

// TrackShow counts one impression
func (r *PopupRepository) TrackShow(ctx context.Context, id int64) error {
	q := r.sb.Update("marketing_popups").Set("show_count", squirrel.Expr("show_count + 1")).Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "track popup show")
}

// TrackClick counts one click
func (r *PopupRepository) TrackClick(ctx context.Context, id int64) error {
	q := r.sb.Update("marketing_popups").Set("click_count", squirrel.Expr("click_count + 1")).Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "track popup click")
}

// CountActive returns the total popup count and how many are showing at now
func (r *PopupRepository) CountActive(ctx context.Context, now time.Time) (int64, int64, error) {
	total, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("marketing_popups"), "popups")
	if err != nil {
		return 0, 0, err
	}
	active, err := count(ctx, r.db, r.sb.Select("COUNT(*)").From("marketing_popups").Where(inWindow(now)), "active popups")
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
