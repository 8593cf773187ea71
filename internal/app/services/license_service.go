package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// LicenseListQuery adds the plan filter to ListQuery. Status is used, available or empty.
type LicenseListQuery struct {
	ListQuery
	Type string
}

// LicenseService issues and activates plan licenses
type LicenseService interface {
	Verify(ctx context.Context, userID int64, req *dto.VerifyLicenseRequest) (*dto.LicenseStatusResponse, error)
	Status(ctx context.Context, userID int64) (*dto.LicenseStatusResponse, error)

	// admin
	Generate(ctx context.Context, adminID int64, req *dto.GenerateLicensesRequest) (*dto.GenerateLicensesResponse, error)
	List(ctx context.Context, query LicenseListQuery) (*dto.LicenseListResponse, error)
	Revoke(ctx context.Context, id int64) error
}

type licenseServiceImpl struct {
	repo     repositories.ILicenseRepository
	notifier Notifier
	logger   zerolog.Logger
	clock    clock
	newCode  func() (string, error)
}

// NewLicenseService creates a new LicenseService
func NewLicenseService(repo repositories.ILicenseRepository, notifier Notifier, logger zerolog.Logger) LicenseService {
	return &licenseServiceImpl{repo: repo, notifier: notifier, logger: logger, newCode: models.NewLicenseCode}
}

// maxCodeAttempts bounds retries when a generated code collides
const maxCodeAttempts = 3

// Verify activates a code for the user. A user holds one running license at a time.
func (s *licenseServiceImpl) Verify(ctx context.Context, userID int64, req *dto.VerifyLicenseRequest) (*dto.LicenseStatusResponse, error) {
	now := s.clock.now()
	code := models.NormalizeLicenseCode(req.License)
	if code == "" {
		return nil, validationError("license code is required")
	}

	current, err := s.repo.GetLatestForUser(ctx, userID)
	switch {
	case err == nil && current.ActiveAt(now):
		return nil, apperrors.ErrLicenseActive
	case err != nil && !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}

	l, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrLicenseInvalid
		}
		return nil, err
	}
	if l.IsUsed {
		return nil, apperrors.ErrLicenseInvalid
	}
	if l.Duration <= 0 {
		l.Duration = l.Type.DurationMonths()
	}

	l.Activate(userID, now)
	if err := s.repo.Activate(ctx, l); err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:   int64Ptr(userID),
		Title:    "لایسنس شما فعال شد",
		Message:  fmt.Sprintf("لایسنس %s شما تا %s معتبر است", l.Type, l.ExpiresAt.Format("2006-01-02")),
		Type:     models.NotificationSuccess,
		Priority: models.PriorityNormal,
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to notify license activation")
	}

	s.logger.Info().Int64("userID", userID).Int64("licenseID", l.ID).Str("type", string(l.Type)).Msg("License activated")
	return licenseStatus(l, now), nil
}

// Status describes the user's latest license, running or not
func (s *licenseServiceImpl) Status(ctx context.Context, userID int64) (*dto.LicenseStatusResponse, error) {
	l, err := s.repo.GetLatestForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return &dto.LicenseStatusResponse{}, nil
		}
		return nil, err
	}
	return licenseStatus(l, s.clock.now()), nil
}

func licenseStatus(l *models.License, now time.Time) *dto.LicenseStatusResponse {
	resp := &dto.LicenseStatusResponse{
		HasLicense:  true,
		IsActive:    l.ActiveAt(now),
		Code:        l.Code,
		Type:        l.Type,
		Duration:    l.Duration,
		ActivatedAt: l.UsedAt,
		ExpiresAt:   l.ExpiresAt,
	}
	if resp.IsActive {
		left := l.ExpiresAt.Sub(now)
		resp.RemainingDays = int(left.Hours() / 24)
		resp.RemainingHours = int(left.Hours()) % 24
	}
	return resp
}

// Generate creates count fresh codes of one plan
func (s *licenseServiceImpl) Generate(ctx context.Context, adminID int64, req *dto.GenerateLicensesRequest) (*dto.GenerateLicensesResponse, error) {
	if req.Count < 1 || req.Count > 100 {
		return nil, validationError("count must be between 1 and 100")
	}
	licenseType := models.LicenseType(req.Type)
	if licenseType == "" {
		licenseType = models.LicensePlus
	}
	if !licenseType.IsValid() {
		return nil, validationError("invalid license type: %s", req.Type)
	}

	codes := make([]string, 0, req.Count)
	for len(codes) < req.Count {
		code, err := s.createOne(ctx, adminID, licenseType)
		if err != nil {
			if len(codes) > 0 {
				s.logger.Error().Err(err).Int("created", len(codes)).Int("requested", req.Count).Msg("License generation stopped early")
			}
			return nil, err
		}
		codes = append(codes, code)
	}

	s.logger.Info().Int64("adminID", adminID).Int("count", len(codes)).Str("type", string(licenseType)).Msg("Licenses generated")
	return &dto.GenerateLicensesResponse{
		Count:    len(codes),
		Type:     licenseType,
		Duration: licenseType.DurationMonths(),
		Licenses: codes,
	}, nil
}

func (s *licenseServiceImpl) createOne(ctx context.Context, adminID int64, licenseType models.LicenseType) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate license code: %w", err)
		}
		l := &models.License{
			Code:        code,
			Type:        licenseType,
			Duration:    licenseType.DurationMonths(),
			GeneratedBy: int64Ptr(adminID),
		}
		created, err := s.repo.Create(ctx, l)
		if err != nil {
			return "", err
		}
		if created {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free license code after %d attempts", maxCodeAttempts)
}

// List returns a page of licenses with overall used and available counts
func (s *licenseServiceImpl) List(ctx context.Context, query LicenseListQuery) (*dto.LicenseListResponse, error) {
	filter := repositories.LicenseFilter{
		Page:   query.page(),
		Search: query.Search,
		Type:   models.LicenseType(helpers.NormalizeStatusFilter(query.Type)),
	}
	switch helpers.NormalizeStatusFilter(query.Status) {
	case "":
	case "used":
		filter.Used = boolPtr(true)
	case "available":
		filter.Used = boolPtr(false)
	default:
		return nil, validationError("invalid status filter: %s", query.Status)
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, validationError("invalid license type: %s", query.Type)
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.LicenseListResponse{
		PaginatedResponse: paginate(items, total, query.Page, query.Size),
		Total:             stats.Total,
		Used:              stats.Used,
		Available:         stats.Available,
	}, nil
}

// Revoke deletes a code nobody has activated
func (s *licenseServiceImpl) Revoke(ctx context.Context, id int64) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.IsUsed {
		return apperrors.ErrLicenseUsed
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("licenseID", id).Msg("License revoked")
	return nil
}
