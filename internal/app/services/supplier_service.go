package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/filestorage"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// SupplierListQuery filters supplier lists
type SupplierListQuery struct {
	ListQuery
	IsFeatured *bool
}

// SupplierService handles supplier registration and review
type SupplierService interface {
	Register(ctx context.Context, userID int64, req *dto.RegisterSupplierRequest) (*models.Supplier, error)
	GetMine(ctx context.Context, userID int64) (*models.Supplier, error)
	UpdateMine(ctx context.Context, userID int64, req *dto.UpdateSupplierRequest) (*models.Supplier, error)
	UploadDocument(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.Supplier, error)
	ListApproved(ctx context.Context, query SupplierListQuery) (*dto.PaginatedResponse, error)

	// admin
	List(ctx context.Context, query SupplierListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.Supplier, error)
	Approve(ctx context.Context, id, adminID int64, notes string) (*models.Supplier, error)
	Reject(ctx context.Context, id, adminID int64, notes string) (*models.Supplier, error)
	SetFeatured(ctx context.Context, id int64, featured bool) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
}

type supplierServiceImpl struct {
	repo     repositories.ISupplierRepository
	storage  filestorage.FileStorage
	notifier Notifier
	logger   zerolog.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	repo repositories.ISupplierRepository,
	storage filestorage.FileStorage,
	notifier Notifier,
	logger zerolog.Logger,
) SupplierService {
	return &supplierServiceImpl{
		repo:     repo,
		storage:  storage,
		notifier: notifier,
		logger:   logger,
	}
}

func applySupplierDetails(s *models.Supplier, d *dto.SupplierDetails) {
	s.FullName = strings.TrimSpace(d.FullName)
	s.Mobile = strings.TrimSpace(d.Mobile)
	s.BrandName = strings.TrimSpace(d.BrandName)
	s.ImageURL = strings.TrimSpace(d.ImageURL)
	s.City = strings.TrimSpace(d.City)
	s.Address = strings.TrimSpace(d.Address)
	s.HasRegisteredBusiness = d.HasRegisteredBusiness
	s.BusinessRegistrationNum = strings.TrimSpace(d.BusinessRegistrationNum)
	s.HasExportExperience = d.HasExportExperience
	s.ExportPrice = strings.TrimSpace(d.ExportPrice)
	s.WholesaleMinPrice = strings.TrimSpace(d.WholesaleMinPrice)
	s.WholesaleHighVolumePrice = strings.TrimSpace(d.WholesaleHighVolumePrice)
	s.CanProducePrivateLabel = d.CanProducePrivateLabel
}

// Register stores the user's supplier registration with its products
func (s *supplierServiceImpl) Register(ctx context.Context, userID int64, req *dto.RegisterSupplierRequest) (*models.Supplier, error) {
	if len(req.Products) == 0 {
		return nil, validationError("at least one product is required")
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.ErrAlreadyRegistered
	} else if !errors.Is(err, apperrors.ErrSupplierNotFound) {
		return nil, err
	}

	supplier := &models.Supplier{
		UserID: userID,
		Status: models.RegistrationPending,
	}
	applySupplierDetails(supplier, &req.SupplierDetails)

	for _, p := range req.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			return nil, validationError("product name is required")
		}
		supplier.Products = append(supplier.Products, models.SupplierProduct{
			ProductName:          strings.TrimSpace(p.ProductName),
			ProductType:          models.ProductType(p.ProductType),
			Description:          strings.TrimSpace(p.Description),
			NeedsExportLicense:   p.NeedsExportLicense,
			RequiredLicenseType:  strings.TrimSpace(p.RequiredLicenseType),
			MonthlyProductionMin: strings.TrimSpace(p.MonthlyProductionMin),
		})
	}

	if err := s.repo.CreateWithProducts(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("supplierID", supplier.ID).Int64("userID", userID).Msg("Supplier registered")
	return supplier, nil
}

// GetMine returns the caller's registration
func (s *supplierServiceImpl) GetMine(ctx context.Context, userID int64) (*models.Supplier, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// UpdateMine edits the caller's registration; a rejected one goes back to review
func (s *supplierServiceImpl) UpdateMine(ctx context.Context, userID int64, req *dto.UpdateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applySupplierDetails(supplier, &req.SupplierDetails)
	if supplier.Status == models.RegistrationRejected {
		supplier.Status = models.RegistrationPending
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UploadDocument stores the business registration document
func (s *supplierServiceImpl) UploadDocument(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.Supplier, error) {
	if err := filestorage.ValidateUpload(file, filestorage.DocumentExtensions, filestorage.MaxDocumentSize); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	supplier, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("suppliers/%d", supplier.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if err := s.repo.UpdateDocumentPath(ctx, supplier.ID, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned document")
		}
		return nil, err
	}

	if old := supplier.BusinessDocumentPath; old != "" && old != url {
		if err := s.storage.DeleteFile(old); err != nil {
			s.logger.Warn().Err(err).Str("url", old).Msg("Failed to remove previous document")
		}
	}

	supplier.BusinessDocumentPath = url
	return supplier, nil
}

// ListApproved is the public directory
func (s *supplierServiceImpl) ListApproved(ctx context.Context, query SupplierListQuery) (*dto.PaginatedResponse, error) {
	query.Status = string(models.RegistrationApproved)
	return s.List(ctx, query)
}

// List returns a filtered page of suppliers
func (s *supplierServiceImpl) List(ctx context.Context, query SupplierListQuery) (*dto.PaginatedResponse, error) {
	status := helpers.NormalizeStatusFilter(query.Status)
	if status != "" && !models.RegistrationStatus(status).IsValid() {
		return nil, validationError("invalid status filter: %s", query.Status)
	}

	items, total, err := s.repo.List(ctx, repositories.SupplierFilter{
		Page:       query.page(),
		Search:     query.Search,
		Status:     status,
		IsFeatured: query.IsFeatured,
	})
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// Get returns a supplier with its products
func (s *supplierServiceImpl) Get(ctx context.Context, id int64) (*models.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve marks a registration approved and tells its owner
func (s *supplierServiceImpl) Approve(ctx context.Context, id, adminID int64, notes string) (*models.Supplier, error) {
	return s.review(ctx, id, adminID, models.RegistrationApproved, notes)
}

// Reject marks a registration rejected and tells its owner
func (s *supplierServiceImpl) Reject(ctx context.Context, id, adminID int64, notes string) (*models.Supplier, error) {
	return s.review(ctx, id, adminID, models.RegistrationRejected, notes)
}

func (s *supplierServiceImpl) review(ctx context.Context, id, adminID int64, status models.RegistrationStatus, notes string) (*models.Supplier, error) {
	if err := s.repo.Review(ctx, id, status, strings.TrimSpace(notes), adminID); err != nil {
		return nil, err
	}

	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n := reviewNotification(registrationKindSupplier, supplier.UserID, status, notes)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("supplierID", id).Msg("Failed to notify supplier about review")
	}

	s.logger.Info().Int64("supplierID", id).Int64("adminID", adminID).Str("status", string(status)).Msg("Supplier reviewed")
	return supplier, nil
}

// SetFeatured toggles the featured flag
func (s *supplierServiceImpl) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return s.repo.SetFeatured(ctx, id, featured)
}

// Delete removes a supplier and its products
func (s *supplierServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus sets the status of many suppliers
func (s *supplierServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.RegistrationStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid status: %s", status)
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many suppliers
func (s *supplierServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}
