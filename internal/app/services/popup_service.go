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
	"github.com/rs/zerolog"
)

// PopupService manages marketing popups
type PopupService interface {
	Create(ctx context.Context, req *dto.PopupRequest, adminID int64) (*dto.PopupResponse, error)
	Get(ctx context.Context, id int64) (*dto.PopupResponse, error)
	Update(ctx context.Context, id int64, req *dto.PopupRequest) (*dto.PopupResponse, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
	List(ctx context.Context, query ListQuery) (*dto.PaginatedResponse, error)

	// public
	Active(ctx context.Context) (*dto.PopupResponse, error)
	TrackShow(ctx context.Context, id int64) error
	TrackClick(ctx context.Context, id int64) error
}

type popupServiceImpl struct {
	repo   repositories.IPopupRepository
	logger zerolog.Logger
	clock  clock
}

// NewPopupService creates a new PopupService
func NewPopupService(repo repositories.IPopupRepository, logger zerolog.Logger) PopupService {
	return &popupServiceImpl{repo: repo, logger: logger}
}

func (s *popupServiceImpl) view(p *models.MarketingPopup) *dto.PopupResponse {
	return &dto.PopupResponse{MarketingPopup: p, DisplayStatus: p.StatusAt(s.clock.now())}
}

func applyPopupRequest(p *models.MarketingPopup, req *dto.PopupRequest) error {
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return validationError("end date must be after start date")
	}
	p.Title = strings.TrimSpace(req.Title)
	p.Message = strings.TrimSpace(req.Message)
	p.DiscountURL = strings.TrimSpace(req.DiscountURL)
	p.ButtonText = strings.TrimSpace(req.ButtonText)
	p.PopupType = req.PopupType
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.Priority = req.Priority
	p.ApplyDefaults()
	return nil
}

// Create adds a popup; it is active unless stated otherwise
func (s *popupServiceImpl) Create(ctx context.Context, req *dto.PopupRequest, adminID int64) (*dto.PopupResponse, error) {
	p := &models.MarketingPopup{IsActive: true, AddedByID: int64Ptr(adminID)}
	if err := applyPopupRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// Get returns a popup
func (s *popupServiceImpl) Get(ctx context.Context, id int64) (*dto.PopupResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// Update replaces a popup's fields
func (s *popupServiceImpl) Update(ctx context.Context, id int64, req *dto.PopupRequest) (*dto.PopupResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPopupRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// Delete removes a popup
func (s *popupServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus switches many popups on or off
func (s *popupServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	var active bool
	switch models.PopupStatus(status) {
	case models.PopupActive:
		active = true
	case models.PopupInactive:
	default:
		return nil, validationError("status must be active or inactive")
	}
	n, err := s.repo.BulkSetActive(ctx, ids, active)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many popups
func (s *popupServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// List returns a page of popups filtered by derived status
func (s *popupServiceImpl) List(ctx context.Context, query ListQuery) (*dto.PaginatedResponse, error) {
	status := models.PopupStatus(helpers.NormalizeStatusFilter(query.Status))
	switch status {
	case "", models.PopupActive, models.PopupInactive, models.PopupScheduled:
	default:
		return nil, validationError("invalid status filter: %s", query.Status)
	}

	items, total, err := s.repo.List(ctx, repositories.PopupFilter{
		Page:   query.page(),
		Search: query.Search,
		Status: status,
		Now:    s.clock.now(),
	})
	if err != nil {
		return nil, err
	}

	views := make([]*dto.PopupResponse, 0, len(items))
	for _, p := range items {
		views = append(views, s.view(p))
	}
	return paginate(views, total, query.Page, query.Size), nil
}

// Active returns the popup to show now, or nil when there is none
func (s *popupServiceImpl) Active(ctx context.Context) (*dto.PopupResponse, error) {
	p, err := s.repo.GetActive(ctx, s.clock.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.view(p), nil
}

// TrackShow counts an impression
func (s *popupServiceImpl) TrackShow(ctx context.Context, id int64) error {
	return s.repo.TrackShow(ctx, id)
}

// TrackClick counts a click
func (s *popupServiceImpl) TrackClick(ctx context.Context, id int64) error {
	return s.repo.TrackClick(ctx, id)
}
