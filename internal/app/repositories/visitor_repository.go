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

// VisitorFilter narrows visitor lists
type VisitorFilter struct {
	Page
	Search     string
	Status     string
	IsFeatured *bool
}

// IVisitorRepository defines visitor persistence
type IVisitorRepository interface {
	Create(ctx context.Context, visitor *models.Visitor) error
	GetByID(ctx context.Context, id int64) (*models.Visitor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Visitor, error)
	Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error
	SetFeatured(ctx context.Context, id int64, featured bool) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, filter VisitorFilter) ([]*models.Visitor, int64, error)
	ListApproved(ctx context.Context) ([]*models.Visitor, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// VisitorRepository handles visitor persistence
type VisitorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewVisitorRepository creates a new VisitorRepository
func NewVisitorRepository(db *pgxpool.Pool) *VisitorRepository {
	return &VisitorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var visitorColumns = []string{
	"id", "user_id", "full_name", "national_id", "passport_number", "birth_date", "mobile",
	"whatsapp_number", "email", "residence_address", "city_province", "destination_cities",
	"has_local_contact", "local_contact_details", "bank_account_iban", "bank_name",
	"account_holder_name", "has_marketing_experience", "marketing_experience_desc",
	"language_level", "special_skills", "interested_products",
	"agrees_to_use_approved_products", "agrees_to_violation_consequences", "agrees_to_submit_reports",
	"digital_signature", "signature_date", "status", "admin_notes", "approved_at", "approved_by",
	"is_featured", "created_at", "updated_at",
}

func scanVisitor(row pgx.Row) (*models.Visitor, error) {
	var v models.Visitor
	err := row.Scan(&v.ID, &v.UserID, &v.FullName, &v.NationalID, &v.PassportNumber, &v.BirthDate, &v.Mobile,
		&v.WhatsappNumber, &v.Email, &v.ResidenceAddress, &v.CityProvince, &v.DestinationCities,
		&v.HasLocalContact, &v.LocalContactDetails, &v.BankAccountIBAN, &v.BankName,
		&v.AccountHolderName, &v.HasMarketingExperience, &v.MarketingExperienceDesc,
		&v.LanguageLevel, &v.SpecialSkills, &v.InterestedProducts,
		&v.AgreesToUseApproved, &v.AgreesToViolations, &v.AgreesToSubmitReports,
		&v.DigitalSignature, &v.SignatureDate, &v.Status, &v.AdminNotes, &v.ApprovedAt, &v.ApprovedBy,
		&v.IsFeatured, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a visitor registration
func (r *VisitorRepository) Create(ctx context.Context, v *models.Visitor) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("visitors").
		Columns(visitorColumns[1:27]...).
		Columns("status", "created_at", "updated_at").
		Values(v.UserID, v.FullName, v.NationalID, v.PassportNumber, v.BirthDate, v.Mobile,
			v.WhatsappNumber, v.Email, v.ResidenceAddress, v.CityProvince, v.DestinationCities,
			v.HasLocalContact, v.LocalContactDetails, v.BankAccountIBAN, v.BankName,
			v.AccountHolderName, v.HasMarketingExperience, v.MarketingExperienceDesc,
			v.LanguageLevel, v.SpecialSkills, v.InterestedProducts,
			v.AgreesToUseApproved, v.AgreesToViolations, v.AgreesToSubmitReports,
			v.DigitalSignature, v.SignatureDate, v.Status, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create visitor SQL")
		return fmt.Errorf("failed to build create visitor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&v.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "visitors_user_id_key") {
			return apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Int64("userID", v.UserID).Msg("Error creating visitor")
		return fmt.Errorf("error creating visitor: %w", err)
	}
	v.CreatedAt, v.UpdatedAt = now, now
	return nil
}

func (r *VisitorRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Visitor, error) {
	sql, args, err := r.sb.Select(visitorColumns...).From("visitors").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get visitor query: %w", err)
	}

	v, err := scanVisitor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVisitorNotFound
		}
		logger.Error().Err(err).Msg("Error scanning visitor row")
		return nil, fmt.Errorf("error retrieving visitor: %w", err)
	}
	return v, nil
}

// GetByID retrieves a visitor by ID
func (r *VisitorRepository) GetByID(ctx context.Context, id int64) (*models.Visitor, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUserID retrieves the visitor registration of a user
func (r *VisitorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Visitor, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID})
}

// Review records an admin decision
func (r *VisitorRepository) Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error {
	now := time.Now()
	q := r.sb.Update("visitors").
		Set("status", status).
		Set("admin_notes", notes).
		Set("approved_by", adminID).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id})
	if status == models.RegistrationApproved {
		q = q.Set("approved_at", now)
	}
	return r.mustAffect(ctx, q, "review visitor")
}

// SetFeatured toggles the featured flag
func (r *VisitorRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	q := r.sb.Update("visitors").
		Set("is_featured", featured).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.mustAffect(ctx, q, "feature visitor")
}

// Delete removes a visitor
func (r *VisitorRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, r.sb.Delete("visitors").Where(squirrel.Eq{"id": id}), "delete visitor")
}

func (r *VisitorRepository) mustAffect(ctx context.Context, q squirrel.Sqlizer, what string) error {
	n, err := exec(ctx, r.db, q, what)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrVisitorNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many visitors
func (r *VisitorRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "visitors", ids, string(status))
}

// BulkDelete removes many visitors
func (r *VisitorRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return bulkDelete(ctx, r.db, r.sb, "visitors", ids)
}

func (r *VisitorRepository) filtered(q squirrel.SelectBuilder, f VisitorFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "full_name", "city_province", "destination_cities", "mobile"))
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.IsFeatured != nil {
		q = q.Where(squirrel.Eq{"is_featured": *f.IsFeatured})
	}
	return q
}

// List returns one page of visitors
func (r *VisitorRepository) List(ctx context.Context, f VisitorFilter) ([]*models.Visitor, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("visitors"), f), "visitors")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(visitorColumns...).From("visitors"), f).
		OrderBy("is_featured DESC", "created_at DESC"))
	visitors, err := queryList(ctx, r.db, q, "visitors", scanVisitor)
	if err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

// ListApproved returns every approved visitor, the candidate pool for matching
func (r *VisitorRepository) ListApproved(ctx context.Context) ([]*models.Visitor, error) {
	q := r.sb.Select(visitorColumns...).From("visitors").
		Where(squirrel.Eq{"status": models.RegistrationApproved}).
		OrderBy("id")
	return queryList(ctx, r.db, q, "approved visitors", scanVisitor)
}

// CountByStatus groups visitors by status
func (r *VisitorRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "visitors", "status")
}
