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

// ResearchProductFilter narrows research product lists
type ResearchProductFilter struct {
	Page
	Search   string
	Category string
	Status   string
	HSCode   string
}

// IResearchProductRepository defines research product persistence
type IResearchProductRepository interface {
	Create(ctx context.Context, p *models.ResearchProduct) error
	GetByID(ctx context.Context, id int64) (*models.ResearchProduct, error)
	Update(ctx context.Context, p *models.ResearchProduct) error
	UpdateStatus(ctx context.Context, id int64, status models.ResearchProductStatus) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.ResearchProductStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter ResearchProductFilter) ([]*models.ResearchProduct, int64, error)
	Categories(ctx context.Context) ([]string, error)
	NameExists(ctx context.Context, name string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ResearchProductRepository handles research product persistence
type ResearchProductRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResearchProductRepository creates a new ResearchProductRepository
func NewResearchProductRepository(db *pgxpool.Pool) *ResearchProductRepository {
	return &ResearchProductRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var researchColumns = []string{
	"id", "name", "hs_code", "category", "description", "export_value", "import_value",
	"market_demand", "profit_potential", "competition_level", "target_country",
	"iran_purchase_price", "target_country_price", "price_currency", "profit_margin",
	"target_countries", "seasonal_factors", "required_licenses", "quality_standards",
	"status", "priority", "added_by", "created_at", "updated_at",
}

func scanResearchProduct(row pgx.Row) (*models.ResearchProduct, error) {
	var p models.ResearchProduct
	err := row.Scan(&p.ID, &p.Name, &p.HSCode, &p.Category, &p.Description, &p.ExportValue, &p.ImportValue,
		&p.MarketDemand, &p.ProfitPotential, &p.CompetitionLevel, &p.TargetCountry,
		&p.IranPurchasePrice, &p.TargetCountryPrice, &p.PriceCurrency, &p.ProfitMargin,
		&p.TargetCountries, &p.SeasonalFactors, &p.RequiredLicenses, &p.QualityStandards,
		&p.Status, &p.Priority, &p.AddedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a research product
func (r *ResearchProductRepository) Create(ctx context.Context, p *models.ResearchProduct) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("research_products").
		Columns(researchColumns[1:22]...).
		Columns("created_at", "updated_at").
		Values(p.Name, p.HSCode, p.Category, p.Description, p.ExportValue, p.ImportValue,
			p.MarketDemand, p.ProfitPotential, p.CompetitionLevel, p.TargetCountry,
			p.IranPurchasePrice, p.TargetCountryPrice, p.PriceCurrency, p.ProfitMargin,
			p.TargetCountries, p.SeasonalFactors, p.RequiredLicenses, p.QualityStandards,
			p.Status, p.Priority, p.AddedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create research product SQL")
		return fmt.Errorf("failed to build create research product query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		logger.Error().Err(err).Str("name", p.Name).Msg("Error creating research product")
		return fmt.Errorf("error creating research product: %w", err)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

// GetByID retrieves a research product
func (r *ResearchProductRepository) GetByID(ctx context.Context, id int64) (*models.ResearchProduct, error) {
	sql, args, err := r.sb.Select(researchColumns...).From("research_products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get research product query: %w", err)
	}

	p, err := scanResearchProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("research product not found")
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning research product row")
		return nil, fmt.Errorf("error retrieving research product: %w", err)
	}
	return p, nil
}

// Update rewrites every editable column
func (r *ResearchProductRepository) Update(ctx context.Context, p *models.ResearchProduct) error {
	p.UpdatedAt = time.Now()
	q := r.sb.Update("research_products").
		SetMap(map[string]interface{}{
			"name":                 p.Name,
			"hs_code":              p.HSCode,
			"category":             p.Category,
			"description":          p.Description,
			"export_value":         p.ExportValue,
			"import_value":         p.ImportValue,
			"market_demand":        p.MarketDemand,
			"profit_potential":     p.ProfitPotential,
			"competition_level":    p.CompetitionLevel,
			"target_country":       p.TargetCountry,
			"iran_purchase_price":  p.IranPurchasePrice,
			"target_country_price": p.TargetCountryPrice,
			"price_currency":       p.PriceCurrency,
			"profit_margin":        p.ProfitMargin,
			"target_countries":     p.TargetCountries,
			"seasonal_factors":     p.SeasonalFactors,
			"required_licenses":    p.RequiredLicenses,
			"quality_standards":    p.QualityStandards,
			"status":               p.Status,
			"priority":             p.Priority,
			"updated_at":           p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID})
	return r.mustAffect(ctx, q, "update research product")
}

// UpdateStatus toggles visibility
func (r *ResearchProductRepository) UpdateStatus(ctx context.Context, id int64, status models.ResearchProductStatus) error {
	q := r.sb.Update("research_products").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update research product status")
}

// Delete removes a research product
func (r *ResearchProductRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("research_products").Where(squirrel.Eq{"id": id}), "delete research product")
}

func (r *ResearchProductRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewResourceNotFoundError("research product not found")
	}
	return nil
}

// BulkUpdateStatus changes the status of many research products
func (r *ResearchProductRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.ResearchProductStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "research_products", ids, string(status))
}

// BulkDelete removes many research products
func (r *ResearchProductRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "research_products", ids)
}

func (r *ResearchProductRepository) filtered(q squirrel.SelectBuilder, f ResearchProductFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "name", "description"))
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.HSCode != "" {
		q = q.Where(squirrel.Like{"hs_code": f.HSCode + "%"})
	}
	return q
}

// List returns one page ordered by priority then recency
func (r *ResearchProductRepository) List(ctx context.Context, f ResearchProductFilter) ([]*models.ResearchProduct, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("research_products"), f), "research products")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(researchColumns...).From("research_products"), f).
		OrderBy("priority DESC", "created_at DESC"))
	items, err := queryList(ctx, r.db, q, "research products", scanResearchProduct)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Categories returns the distinct categories of active research products
func (r *ResearchProductRepository) Categories(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT category").From("research_products").
		Where(squirrel.Eq{"status": models.ResearchActive}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing research categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// NameExists reports whether a research product with this name exists
func (r *ResearchProductRepository) NameExists(ctx context.Context, name string) (bool, error) {
	sql, args, err := r.sb.Select("1").From("research_products").
		Where(squirrel.Eq{"name": name}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build name exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking research product name: %w", err)
	}
	return exists, nil
}

// CountByStatus groups research products by status
func (r *ResearchProductRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "research_products", "status")
}
