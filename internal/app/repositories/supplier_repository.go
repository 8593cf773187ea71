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

// SupplierFilter narrows supplier lists
type SupplierFilter struct {
	Page
	Search     string
	Status     string
	IsFeatured *bool
}

// ISupplierRepository defines supplier persistence
type ISupplierRepository interface {
	CreateWithProducts(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	UpdateDocumentPath(ctx context.Context, id int64, path string) error
	Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error
	SetFeatured(ctx context.Context, id int64, featured bool) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter SupplierFilter) ([]*models.Supplier, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// SupplierRepository handles supplier and supplier product persistence
type SupplierRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSupplierRepository creates a new SupplierRepository
func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var supplierColumns = []string{
	"id", "user_id", "full_name", "mobile", "brand_name", "image_url", "city", "address",
	"has_registered_business", "business_registration_num", "business_document_path",
	"has_export_experience", "export_price", "wholesale_min_price", "wholesale_high_volume_price",
	"can_produce_private_label", "status", "admin_notes", "approved_at", "approved_by",
	"is_featured", "created_at", "updated_at",
}

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.UserID, &s.FullName, &s.Mobile, &s.BrandName, &s.ImageURL, &s.City, &s.Address,
		&s.HasRegisteredBusiness, &s.BusinessRegistrationNum, &s.BusinessDocumentPath,
		&s.HasExportExperience, &s.ExportPrice, &s.WholesaleMinPrice, &s.WholesaleHighVolumePrice,
		&s.CanProducePrivateLabel, &s.Status, &s.AdminNotes, &s.ApprovedAt, &s.ApprovedBy,
		&s.IsFeatured, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSupplierProduct(row pgx.Row) (*models.SupplierProduct, error) {
	var p models.SupplierProduct
	err := row.Scan(&p.ID, &p.SupplierID, &p.ProductName, &p.ProductType, &p.Description,
		&p.NeedsExportLicense, &p.RequiredLicenseType, &p.MonthlyProductionMin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWithProducts inserts the supplier and its products in one transaction
func (r *SupplierRepository) CreateWithProducts(ctx context.Context, s *models.Supplier) error {
	now := time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("suppliers").
			Columns("user_id", "full_name", "mobile", "brand_name", "image_url", "city", "address",
				"has_registered_business", "business_registration_num", "business_document_path",
				"has_export_experience", "export_price", "wholesale_min_price", "wholesale_high_volume_price",
				"can_produce_private_label", "status", "created_at", "updated_at").
			Values(s.UserID, s.FullName, s.Mobile, s.BrandName, s.ImageURL, s.City, s.Address,
				s.HasRegisteredBusiness, s.BusinessRegistrationNum, s.BusinessDocumentPath,
				s.HasExportExperience, s.ExportPrice, s.WholesaleMinPrice, s.WholesaleHighVolumePrice,
				s.CanProducePrivateLabel, s.Status, now, now).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create supplier query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "suppliers_user_id_key") {
				return apperrors.ErrAlreadyRegistered
			}
			logger.Error().Err(err).Int64("userID", s.UserID).Msg("Error creating supplier")
			return fmt.Errorf("error creating supplier: %w", err)
		}

		for i := range s.Products {
			p := &s.Products[i]
			p.SupplierID = s.ID
			sql, args, err := r.sb.Insert("supplier_products").
				Columns("supplier_id", "product_name", "product_type", "description", "needs_export_license",
					"required_license_type", "monthly_production_min", "created_at", "updated_at").
				Values(p.SupplierID, p.ProductName, p.ProductType, p.Description, p.NeedsExportLicense,
					p.RequiredLicenseType, p.MonthlyProductionMin, now, now).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create supplier product query: %w", err)
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
				logger.Error().Err(err).Int64("supplierID", s.ID).Msg("Error creating supplier product")
				return fmt.Errorf("error creating supplier product: %w", err)
			}
			p.CreatedAt, p.UpdatedAt = now, now
		}

		s.CreatedAt, s.UpdatedAt = now, now
		return nil
	})
}

func (r *SupplierRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Supplier, error) {
	sql, args, err := r.sb.Select(supplierColumns...).From("suppliers").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get supplier query: %w", err)
	}

	s, err := scanSupplier(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSupplierNotFound
		}
		logger.Error().Err(err).Msg("Error scanning supplier row")
		return nil, fmt.Errorf("error retrieving supplier: %w", err)
	}

	products, err := r.products(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Products = products
	return s, nil
}

func (r *SupplierRepository) products(ctx context.Context, supplierID int64) ([]models.SupplierProduct, error) {
	q := r.sb.Select("id", "supplier_id", "product_name", "product_type", "description", "needs_export_license",
		"required_license_type", "monthly_production_min", "created_at", "updated_at").
		From("supplier_products").
		Where(squirrel.Eq{"supplier_id": supplierID}).
		OrderBy("id")
	items, err := queryList(ctx, r.db, q, "supplier products", scanSupplierProduct)
	if err != nil {
		return nil, err
	}
	products := make([]models.SupplierProduct, 0, len(items))
	for _, p := range items {
		products = append(products, *p)
	}
	return products, nil
}

// GetByID retrieves a supplier with its products
func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUserID retrieves the supplier registration of a user
func (r *SupplierRepository) GetByUserID(ctx context.Context, userID int64) (*models.Supplier, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID})
}

// Update rewrites the editable registration fields and status
func (r *SupplierRepository) Update(ctx context.Context, s *models.Supplier) error {
	s.UpdatedAt = time.Now()
	q := r.sb.Update("suppliers").
		Set("full_name", s.FullName).
		Set("mobile", s.Mobile).
		Set("brand_name", s.BrandName).
		Set("image_url", s.ImageURL).
		Set("city", s.City).
		Set("address", s.Address).
		Set("has_registered_business", s.HasRegisteredBusiness).
		Set("business_registration_num", s.BusinessRegistrationNum).
		Set("has_export_experience", s.HasExportExperience).
		Set("export_price", s.ExportPrice).
		Set("wholesale_min_price", s.WholesaleMinPrice).
		Set("wholesale_high_volume_price", s.WholesaleHighVolumePrice).
		Set("can_produce_private_label", s.CanProducePrivateLabel).
		Set("status", s.Status).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})
	return r.mustAffect(ctx, q, "update supplier")
}

// UpdateDocumentPath stores the uploaded business document URL
func (r *SupplierRepository) UpdateDocumentPath(ctx context.Context, id int64, path string) error {
	q := r.sb.Update("suppliers").
		Set("business_document_path", path).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "update supplier document")
}

// Review records an admin decision. approved_at is only set on approval.
func (r *SupplierRepository) Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error {
	now := time.Now()
	q := r.sb.Update("suppliers").
		Set("status", status).
		Set("admin_notes", notes).
		Set("approved_by", adminID).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id})
	if status == models.RegistrationApproved {
		q = q.Set("approved_at", now)
	}
	return r.mustAffect(ctx, q, "review supplier")
}

// SetFeatured toggles the featured flag
func (r *SupplierRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	q := r.sb.Update("suppliers").
		Set("is_featured", featured).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "feature supplier")
}

// Delete removes a supplier; products cascade
func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("suppliers").Where(squirrel.Eq{"id": id}), "delete supplier")
}

func (r *SupplierRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrSupplierNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many suppliers
func (r *SupplierRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "suppliers", ids, string(status))
}

// BulkDelete removes many suppliers
func (r *SupplierRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "suppliers", ids)
}

func (r *SupplierRepository) filtered(q squirrel.SelectBuilder, f SupplierFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "brand_name", "full_name", "city", "mobile"))
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.IsFeatured != nil {
		q = q.Where(squirrel.Eq{"is_featured": *f.IsFeatured})
	}
	return q
}

// List returns one page of suppliers, newest first
func (r *SupplierRepository) List(ctx context.Context, f SupplierFilter) ([]*models.Supplier, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("suppliers"), f), "suppliers")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(supplierColumns...).From("suppliers"), f).
		OrderBy("is_featured DESC", "created_at DESC"))
	suppliers, err := queryList(ctx, r.db, q, "suppliers", scanSupplier)
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

// CountByStatus groups suppliers by status
func (r *SupplierRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "suppliers", "status")
}
