package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/dberrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductFilter narrows product lists
type ProductFilter struct {
	Page
	Search   string
	Category string
	// Statuses matches any of the listed statuses when non-empty
	Statuses []string
}

// IProductRepository defines catalogue product persistence
type IProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.ProductStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ProductRepository handles catalogue product persistence
type ProductRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var productColumns = []string{
	"id", "name", "description", "price", "category", "stock", "status", "tags",
	"image_url", "discount", "sku", "sales", "created_at", "updated_at",
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.Status, &p.Tags,
		&p.ImageURL, &p.Discount, &p.SKU, &p.Sales, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var errProductNotFound = apperrors.NewResourceNotFoundError("product not found")

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("products").
		Columns("name", "description", "price", "category", "stock", "status", "tags",
			"image_url", "discount", "sku", "sales", "created_at", "updated_at").
		Values(p.Name, p.Description, p.Price, p.Category, p.Stock, p.Status, nonNil(p.Tags),
			p.ImageURL, p.Discount, p.SKU, p.Sales, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create product SQL")
		return fmt.Errorf("failed to build create product query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "products_sku_key") {
			return apperrors.ErrSKUAlreadyExists
		}
		logger.Error().Err(err).Str("name", p.Name).Msg("Error creating product")
		return fmt.Errorf("error creating product: %w", err)
	}
	p.Tags = nonNil(p.Tags)
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

// GetByID retrieves a product
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	sql, args, err := r.sb.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get product query: %w", err)
	}

	p, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errProductNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning product row")
		return nil, fmt.Errorf("error retrieving product: %w", err)
	}
	return p, nil
}

// Update rewrites the editable columns
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	q := r.sb.Update("products").
		SetMap(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category":    p.Category,
			"stock":       p.Stock,
			"status":      p.Status,
			"tags":        nonNil(p.Tags),
			"image_url":   p.ImageURL,
			"discount":    p.Discount,
			"sku":         p.SKU,
			"updated_at":  p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID})

	n, err := exec(ctx, r.db, q, "update product")
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "products_sku_key") {
			return apperrors.ErrSKUAlreadyExists
		}
		return err
	}
	if n == 0 {
		return errProductNotFound
	}
	return nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.db, r.sb.Delete("products").Where(squirrel.Eq{"id": id}), "delete product")
	if err != nil {
		return err
	}
	if n == 0 {
		return errProductNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many products
// Activating a product without stock stores it as out_of_stock, as NormalizeStock does on save.
func (r *ProductRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.ProductStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return exec(ctx, r.db, r.bulkStatusQuery(ids, status), "bulk status products")
}

func (r *ProductRepository) bulkStatusQuery(ids []int64, status models.ProductStatus) squirrel.UpdateBuilder {
	q := r.sb.Update("products")
	if status == models.ProductActive {
		q = q.Set("status", squirrel.Expr("CASE WHEN stock = 0 THEN ? ELSE ? END",
			string(models.ProductOutOfStock), string(models.ProductActive)))
	} else {
		q = q.Set("status", string(status))
	}
	return q.Set("updated_at", time.Now()).Where(squirrel.Eq{"id": ids})
}

// BulkDelete removes many products
func (r *ProductRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "products", ids)
}

func (r *ProductRepository) filtered(q squirrel.SelectBuilder, f ProductFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "name", "description", "sku"))
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if len(f.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": f.Statuses})
	}
	return q
}

// List returns one page, newest first
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]*models.Product, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("products"), f), "products")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(productColumns...).From("products"), f).OrderBy("created_at DESC"))
	items, err := queryList(ctx, r.db, q, "products", scanProduct)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByStatus groups products by status
func (r *ProductRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "products", "status")
}
