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

// EducationFilter narrows education lists
type EducationFilter struct {
	Page
	Search   string
	Category string
	Level    string
	Status   string
	IsFree   *bool
}

// IEducationRepository defines education persistence
type IEducationRepository interface {
	Create(ctx context.Context, e *models.Education) error
	GetByID(ctx context.Context, id int64) (*models.Education, error)
	Update(ctx context.Context, e *models.Education) error
	UpdateThumbnail(ctx context.Context, id int64, url string) error
	IncrementViews(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.EducationStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter EducationFilter) ([]*models.Education, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// EducationRepository handles education persistence
type EducationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEducationRepository creates a new EducationRepository
func NewEducationRepository(db *pgxpool.Pool) *EducationRepository {
	return &EducationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var educationColumns = []string{
	"id", "title", "description", "category", "level", "duration", "video_url", "thumbnail_url",
	"content", "tags", "status", "is_free", "price", "views", "likes", "created_by", "created_at", "updated_at",
}

func scanEducation(row pgx.Row) (*models.Education, error) {
	var e models.Education
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Level, &e.Duration, &e.VideoURL, &e.ThumbnailURL,
		&e.Content, &e.Tags, &e.Status, &e.IsFree, &e.Price, &e.Views, &e.Likes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

var errEducationNotFound = apperrors.NewResourceNotFoundError("education not found")

// Create inserts educational content
func (r *EducationRepository) Create(ctx context.Context, e *models.Education) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("education").
		Columns("title", "description", "category", "level", "duration", "video_url", "thumbnail_url",
			"content", "tags", "status", "is_free", "price", "created_by", "created_at", "updated_at").
		Values(e.Title, e.Description, e.Category, e.Level, e.Duration, e.VideoURL, e.ThumbnailURL,
			e.Content, nonNil(e.Tags), e.Status, e.IsFree, e.Price, e.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create education SQL")
		return fmt.Errorf("failed to build create education query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		logger.Error().Err(err).Str("title", e.Title).Msg("Error creating education")
		return fmt.Errorf("error creating education: %w", err)
	}
	e.Tags = nonNil(e.Tags)
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

// GetByID retrieves educational content
func (r *EducationRepository) GetByID(ctx context.Context, id int64) (*models.Education, error) {
	sql, args, err := r.sb.Select(educationColumns...).From("education").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get education query: %w", err)
	}

	e, err := scanEducation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errEducationNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning education row")
		return nil, fmt.Errorf("error retrieving education: %w", err)
	}
	return e, nil
}

// Update rewrites the editable columns
func (r *EducationRepository) Update(ctx context.Context, e *models.Education) error {
	e.UpdatedAt = time.Now()
	q := r.sb.Update("education").
		SetMap(map[string]interface{}{
			"title":         e.Title,
			"description":   e.Description,
			"category":      e.Category,
			"level":         e.Level,
			"duration":      e.Duration,
			"video_url":     e.VideoURL,
			"thumbnail_url": e.ThumbnailURL,
			"content":       e.Content,
			"tags":          nonNil(e.Tags),
			"status":        e.Status,
			"is_free":       e.IsFree,
			"price":         e.Price,
			"updated_at":    e.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": e.ID})
	return r.mustAffect(ctx, q, "update education")
}

// UpdateThumbnail stores an uploaded thumbnail URL
func (r *EducationRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	q := r.sb.Update("education").
		Set("thumbnail_url", url).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update education thumbnail")
}

// IncrementViews counts one view
func (r *EducationRepository) IncrementViews(ctx context.Context, id int64) error {
	q := r.sb.Update("education").Set("views", squirrel.Expr("views + 1")).Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "increment education views")
}

// IncrementLikes counts one like and returns the new total
func (r *EducationRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	sql, args, err := r.sb.Update("education").
		Set("likes", squirrel.Expr("likes + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING likes").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build like query: %w", err)
	}

	var likes int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errEducationNotFound
		}
		return 0, fmt.Errorf("error liking education: %w", err)
	}
	return likes, nil
}

// Delete removes educational content
func (r *EducationRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("education").Where(squirrel.Eq{"id": id}), "delete education")
}

func (r *EducationRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return errEducationNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many items
func (r *EducationRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.EducationStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "education", ids, string(status))
}

// BulkDelete removes many items
func (r *EducationRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "education", ids)
}

func (r *EducationRepository) filtered(q squirrel.SelectBuilder, f EducationFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "title", "description"))
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Level != "" {
		q = q.Where(squirrel.Eq{"level": f.Level})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.IsFree != nil {
		q = q.Where(squirrel.Eq{"is_free": *f.IsFree})
	}
	return q
}

// List returns one page, newest first
func (r *EducationRepository) List(ctx context.Context, f EducationFilter) ([]*models.Education, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("education"), f), "education")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(educationColumns...).From("education"), f).OrderBy("created_at DESC"))
	items, err := queryList(ctx, r.db, q, "education", scanEducation)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByStatus groups educational content by status
func (r *EducationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "education", "status")
}
