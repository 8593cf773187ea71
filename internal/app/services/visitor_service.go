package services

import (
	"context"
	"errors"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// VisitorListQuery filters visitor lists
type VisitorListQuery struct {
	ListQuery
	IsFeatured *bool
}

// VisitorService handles visitor registration and review
type VisitorService interface {
	Register(ctx context.Context, userID int64, req *dto.RegisterVisitorRequest) (*models.Visitor, error)
	GetMine(ctx context.Context, userID int64) (*models.Visitor, error)
	DeleteMine(ctx context.Context, userID int64) error
	ListApproved(ctx context.Context, query VisitorListQuery) (*dto.PaginatedResponse, error)

	// admin
	List(ctx context.Context, query VisitorListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.Visitor, error)
	Approve(ctx context.Context, id, adminID int64, notes string) (*models.Visitor, error)
	Reject(ctx context.Context, id, adminID int64, notes string) (*models.Visitor, error)
	SetFeatured(ctx context.Context, id int64, featured bool) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
}

type visitorServiceImpl struct {
	repo     repositories.IVisitorRepository
	notifier Notifier
	logger   zerolog.Logger
}

// NewVisitorService creates a new VisitorService
func NewVisitorService(repo repositories.IVisitorRepository, notifier Notifier, logger zerolog.Logger) VisitorService {
	return &visitorServiceImpl{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// validateVisitorLocations checks that the visitor lives and works in Arabic countries
func validateVisitorLocations(cityProvince, destinations string) error {
	if !validation.IsAcceptedVisitorLocation(cityProvince) {
		return validationError("city/province must be in an Arabic country and not in Iran")
	}
	cities := helpers.SplitList(destinations)
	if len(cities) == 0 {
		return validationError("at least one destination city is required")
	}
	for _, c := range cities {
		if !validation.IsAcceptedVisitorLocation(c) {
			return validationError("destination %q must be in an Arabic country and not in Iran", c)
		}
	}
	return nil
}

// Register stores the user's visitor registration
func (s *visitorServiceImpl) Register(ctx context.Context, userID int64, req *dto.RegisterVisitorRequest) (*models.Visitor, error) {
	if !req.AgreesToUseApprovedProducts || !req.AgreesToViolationConsequences || !req.AgreesToSubmitReports {
		return nil, validationError("all agreements must be accepted")
	}
	if err := validateVisitorLocations(req.CityProvince, req.DestinationCities); err != nil {
		return nil, err
	}
	if req.HasLocalContact && strings.TrimSpace(req.LocalContactDetails) == "" {
		return nil, validationError("local contact details are required")
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.ErrAlreadyRegistered
	} else if !errors.Is(err, apperrors.ErrVisitorNotFound) {
		return nil, err
	}

	visitor := &models.Visitor{
		UserID:                  userID,
		FullName:                strings.TrimSpace(req.FullName),
		NationalID:              strings.TrimSpace(req.NationalID),
		PassportNumber:          strings.TrimSpace(req.PassportNumber),
		BirthDate:               strings.TrimSpace(req.BirthDate),
		Mobile:                  strings.TrimSpace(req.Mobile),
		WhatsappNumber:          strings.TrimSpace(req.WhatsappNumber),
		Email:                   strings.ToLower(strings.TrimSpace(req.Email)),
		ResidenceAddress:        strings.TrimSpace(req.ResidenceAddress),
		CityProvince:            strings.TrimSpace(req.CityProvince),
		DestinationCities:       strings.TrimSpace(req.DestinationCities),
		HasLocalContact:         req.HasLocalContact,
		LocalContactDetails:     strings.TrimSpace(req.LocalContactDetails),
		BankAccountIBAN:         strings.ToUpper(strings.ReplaceAll(req.BankAccountIBAN, " ", "")),
		BankName:                strings.TrimSpace(req.BankName),
		AccountHolderName:       strings.TrimSpace(req.AccountHolderName),
		HasMarketingExperience:  req.HasMarketingExperience,
		MarketingExperienceDesc: strings.TrimSpace(req.MarketingExperienceDesc),
		LanguageLevel:           models.LanguageLevel(req.LanguageLevel),
		SpecialSkills:           strings.TrimSpace(req.SpecialSkills),
		InterestedProducts:      strings.TrimSpace(req.InterestedProducts),
		AgreesToUseApproved:     true,
		AgreesToViolations:      true,
		AgreesToSubmitReports:   true,
		DigitalSignature:        req.DigitalSignature,
		SignatureDate:           strings.TrimSpace(req.SignatureDate),
		Status:                  models.RegistrationPending,
	}

	if err := s.repo.Create(ctx, visitor); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("visitorID", visitor.ID).Int64("userID", userID).Msg("Visitor registered")
	return visitor, nil
}

// GetMine returns the caller's registration
func (s *visitorServiceImpl) GetMine(ctx context.Context, userID int64) (*models.Visitor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// DeleteMine withdraws the caller's registration
func (s *visitorServiceImpl) DeleteMine(ctx context.Context, userID int64) error {
	visitor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, visitor.ID)
}

// ListApproved is the public directory
func (s *visitorServiceImpl) ListApproved(ctx context.Context, query VisitorListQuery) (*dto.PaginatedResponse, error) {
	query.Status = string(models.RegistrationApproved)
	return s.List(ctx, query)
}

// List returns a filtered page of visitors
func (s *visitorServiceImpl) List(ctx context.Context, query VisitorListQuery) (*dto.PaginatedResponse, error) {
	status := helpers.NormalizeStatusFilter(query.Status)
	if status != "" && !models.RegistrationStatus(status).IsValid() {
		return nil, validationError("invalid status filter: %s", query.Status)
	}

	items, total, err := s.repo.List(ctx, repositories.VisitorFilter{
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

// Get returns a visitor
func (s *visitorServiceImpl) Get(ctx context.Context, id int64) (*models.Visitor, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve marks a registration approved and tells its owner
func (s *visitorServiceImpl) Approve(ctx context.Context, id, adminID int64, notes string) (*models.Visitor, error) {
	return s.review(ctx, id, adminID, models.RegistrationApproved, notes)
}

// Reject marks a registration rejected and tells its owner
func (s *visitorServiceImpl) Reject(ctx context.Context, id, adminID int64, notes string) (*models.Visitor, error) {
	return s.review(ctx, id, adminID, models.RegistrationRejected, notes)
}

func (s *visitorServiceImpl) review(ctx context.Context, id, adminID int64, status models.RegistrationStatus, notes string) (*models.Visitor, error) {
	if err := s.repo.Review(ctx, id, status, strings.TrimSpace(notes), adminID); err != nil {
		return nil, err
	}

	visitor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n := reviewNotification(registrationKindVisitor, visitor.UserID, status, notes)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("visitorID", id).Msg("Failed to notify visitor about review")
	}

	s.logger.Info().Int64("visitorID", id).Int64("adminID", adminID).Str("status", string(status)).Msg("Visitor reviewed")
	return visitor, nil
}

// SetFeatured toggles the featured flag
func (s *visitorServiceImpl) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return s.repo.SetFeatured(ctx, id, featured)
}

// Delete removes a visitor
func (s *visitorServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus sets the status of many visitors
func (s *visitorServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
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

// BulkDelete removes many visitors
func (s *visitorServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}
