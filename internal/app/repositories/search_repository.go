package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ISearchRepository runs the global search, one query per entity
type ISearchRepository interface {
	SearchSuppliers(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
	SearchVisitors(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
	SearchResearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
	SearchEducation(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
}

// SearchRepository queries the publicly visible rows of each entity
type SearchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// hits selects id, title, subtitle, category and scans them
func (r *SearchRepository) hits(ctx context.Context, q squirrel.SelectBuilder, what string) ([]dto.SearchHit, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s search query: %w", what, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error executing search query")
		return nil, fmt.Errorf("failed to search %s: %w", what, err)
	}
	defer rows.Close()

	hits := make([]dto.SearchHit, 0)
	for rows.Next() {
		var h dto.SearchHit
		if err := rows.Scan(&h.ID, &h.Title, &h.Subtitle, &h.Category); err != nil {
			return nil, fmt.Errorf("failed to scan %s search hit: %w", what, err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// SearchSuppliers matches approved suppliers
func (r *SearchRepository) SearchSuppliers(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	q := r.sb.Select("id", "COALESCE(NULLIF(brand_name, ''), full_name)", "city", "'supplier'").
		From("suppliers").
		Where(squirrel.Eq{"status": models.RegistrationApproved}).
		Where(searchAny(term, "brand_name", "full_name", "city", "mobile")).
		OrderBy("is_featured DESC", "created_at DESC").
		Limit(uint64(limit))
	return r.hits(ctx, q, "suppliers")
}

// SearchVisitors matches approved visitors
func (r *SearchRepository) SearchVisitors(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	q := r.sb.Select("id", "full_name", "destination_cities", "'visitor'").
		From("visitors").
		Where(squirrel.Eq{"status": models.RegistrationApproved}).
		Where(searchAny(term, "full_name", "city_province", "destination_cities")).
		OrderBy("is_featured DESC", "created_at DESC").
		Limit(uint64(limit))
	return r.hits(ctx, q, "visitors")
}

// SearchResearchProducts matches active research products
func (r *SearchRepository) SearchResearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	q := r.sb.Select("id", "name", "category", "'research_product'").
		From("research_products").
		Where(squirrel.Eq{"status": models.ResearchActive}).
		Where(searchAny(term, "name", "description", "category", "hs_code")).
		OrderBy("priority DESC", "created_at DESC").
		Limit(uint64(limit))
	return r.hits(ctx, q, "research products")
}

// SearchProducts matches sellable products
func (r *SearchRepository) SearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	q := r.sb.Select("id", "name", "category", "'product'").
		From("products").
		Where(squirrel.Eq{"status": []string{string(models.ProductActive), string(models.ProductOutOfStock)}}).
		Where(searchAny(term, "name", "description", "sku")).
		OrderBy("sales DESC", "created_at DESC").
		Limit(uint64(limit))
	return r.hits(ctx, q, "products")
}

// SearchEducation matches published educational content
func (r *SearchRepository) SearchEducation(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	q := r.sb.Select("id", "title", "category", "'education'").
		From("education").
		Where(squirrel.Eq{"status": models.EducationPublished}).
		Where(searchAny(term, "title", "description")).
		OrderBy("views DESC", "created_at DESC").
		Limit(uint64(limit))
	return r.hits(ctx, q, "education")
}
