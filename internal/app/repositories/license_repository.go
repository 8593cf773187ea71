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

// LicenseFilter narrows the admin license list
type LicenseFilter struct {
	Page
	Search string
	Used   *bool
	Type   models.LicenseType
}

// LicenseStats counts licenses by state
type LicenseStats struct {
	Total     int64 `json:"total"`
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
}

// ILicenseRepository defines license persistence
type ILicenseRepository interface {
	Create(ctx context.Context, l *models.License) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.License, error)
	GetByCode(ctx context.Context, code string) (*models.License, error)
	GetLatestForUser(ctx context.Context, userID int64) (*models.License, error)
	Activate(ctx context.Context, l *models.License) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter LicenseFilter) ([]*models.License, int64, error)
	Stats(ctx context.Context) (*LicenseStats, error)
}

// LicenseRepository handles license persistence
type LicenseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLicenseRepository creates a new LicenseRepository
func NewLicenseRepository(db *pgxpool.Pool) *LicenseRepository {
	return &LicenseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var licenseColumns = []string{
	"id", "code", "type", "duration", "is_used", "used_by", "used_at", "expires_at",
	"generated_by", "created_at", "updated_at",
}

func scanLicense(row pgx.Row) (*models.License, error) {
	var l models.License
	err := row.Scan(&l.ID, &l.Code, &l.Type, &l.Duration, &l.IsUsed, &l.UsedBy, &l.UsedAt, &l.ExpiresAt,
		&l.GeneratedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

var errLicenseNotFound = apperrors.NewResourceNotFoundError("license not found")

// Create inserts a license. It reports false without error when the code is taken.
func (r *LicenseRepository) Create(ctx context.Context, l *models.License) (bool, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("licenses").
		Columns("code", "type", "duration", "generated_by", "created_at", "updated_at").
		Values(l.Code, l.Type, l.Duration, l.GeneratedBy, now, now).
		Suffix("ON CONFLICT (code) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create license query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Msg("Error creating license")
		return false, fmt.Errorf("error creating license: %w", err)
	}
	l.CreatedAt, l.UpdatedAt = now, now
	return true, nil
}

func (r *LicenseRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.License, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get license query: %w", err)
	}

	l, err := scanLicense(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errLicenseNotFound
		}
		logger.Error().Err(err).Msg("Error scanning license row")
		return nil, fmt.Errorf("error retrieving license: %w", err)
	}
	return l, nil
}

// GetByID retrieves a license
func (r *LicenseRepository) GetByID(ctx context.Context, id int64) (*models.License, error) {
	return r.getOne(ctx, r.sb.Select(licenseColumns...).From("licenses").Where(squirrel.Eq{"id": id}))
}

// GetByCode retrieves a license by its code
func (r *LicenseRepository) GetByCode(ctx context.Context, code string) (*models.License, error) {
	return r.getOne(ctx, r.sb.Select(licenseColumns...).From("licenses").Where(squirrel.Eq{"code": code}))
}

// GetLatestForUser returns the license the user activated last
func (r *LicenseRepository) GetLatestForUser(ctx context.Context, userID int64) (*models.License, error) {
	return r.getOne(ctx, r.sb.Select(licenseColumns...).From("licenses").
		Where(squirrel.Eq{"used_by": userID, "is_used": true}).
		OrderBy("used_at DESC").
		Limit(1))
}

// Activate stores l's activation. It fails with ErrLicenseInvalid when
// someone else activated the code first.
func (r *LicenseRepository) Activate(ctx context.Context, l *models.License) error {
	n, err := exec(ctx, r.db, activateQuery(r.sb, l), "activate license")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrLicenseInvalid
	}
	return nil
}

func activateQuery(sb squirrel.StatementBuilderType, l *models.License) squirrel.UpdateBuilder {
	return sb.Update("licenses").
		Set("is_used", true).
		Set("used_by", l.UsedBy).
		Set("used_at", l.UsedAt).
		Set("expires_at", l.ExpiresAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": l.ID, "is_used": false})
}

// Delete removes a license that was never activated
func (r *LicenseRepository) Delete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.db, r.sb.Delete("licenses").Where(squirrel.Eq{"id": id, "is_used": false}), "delete license")
	if err != nil {
		return err
	}
	if n == 0 {
		return errLicenseNotFound
	}
	return nil
}

func licenseFiltered(q squirrel.SelectBuilder, f LicenseFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "code"))
	}
	if f.Used != nil {
		q = q.Where(squirrel.Eq{"is_used": *f.Used})
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": f.Type})
	}
	return q
}

// List returns one page, newest first
func (r *LicenseRepository) List(ctx context.Context, f LicenseFilter) ([]*models.License, int64, error) {
	total, err := count(ctx, r.db, licenseFiltered(r.sb.Select("COUNT(*)").From("licenses"), f), "licenses")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(licenseFiltered(r.sb.Select(licenseColumns...).From("licenses"), f).OrderBy("created_at DESC", "id DESC"))
	items, err := queryList(ctx, r.db, q, "licenses", scanLicense)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats counts all, used and available licenses
func (r *LicenseRepository) Stats(ctx context.Context) (*LicenseStats, error) {
	sql, args, err := r.sb.Select("COUNT(*)", "COUNT(*) FILTER (WHERE is_used)").From("licenses").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build license stats query: %w", err)
	}

	stats := &LicenseStats{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&stats.Total, &stats.Used); err != nil {
		logger.Error().Err(err).Msg("Error reading license stats")
		return nil, fmt.Errorf("error reading license stats: %w", err)
	}
	stats.Available = stats.Total - stats.Used
	return stats, nil
}
