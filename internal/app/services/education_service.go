package services

import (
	"context"
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

const defaultEducationLevel = "beginner"

// EducationListQuery filters education lists
type EducationListQuery struct {
	ListQuery
	Category string
	Level    string
	IsFree   *bool
}

// EducationService manages training content
type EducationService interface {
	Create(ctx context.Context, req *dto.EducationRequest, adminID int64) (*models.Education, error)
	Get(ctx context.Context, id int64) (*models.Education, error)
	Update(ctx context.Context, id int64, req *dto.EducationRequest) (*models.Education, error)
	UploadThumbnail(ctx context.Context, id int64, file *multipart.FileHeader) (*models.Education, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
	List(ctx context.Context, query EducationListQuery) (*dto.PaginatedResponse, error)

	// public
	ListPublished(ctx context.Context, query EducationListQuery) (*dto.PaginatedResponse, error)
	View(ctx context.Context, id int64) (*models.Education, error)
	Like(ctx context.Context, id int64) (*dto.LikeResponse, error)
}

type educationServiceImpl struct {
	repo    repositories.IEducationRepository
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewEducationService creates a new EducationService
func NewEducationService(repo repositories.IEducationRepository, storage filestorage.FileStorage, logger zerolog.Logger) EducationService {
	return &educationServiceImpl{repo: repo, storage: storage, logger: logger}
}

func applyEducationRequest(e *models.Education, req *dto.EducationRequest) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = strings.TrimSpace(req.Description)
	e.Category = req.Category
	e.Level = req.Level
	if e.Level == "" {
		e.Level = defaultEducationLevel
	}
	e.Duration = req.Duration
	e.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.ThumbnailURL != "" {
		e.ThumbnailURL = strings.TrimSpace(req.ThumbnailURL)
	}
	e.Content = req.Content
	e.Tags = cleanTags(req.Tags)
	e.Status = models.EducationStatus(req.Status)
	if e.Status == "" {
		e.Status = models.EducationDraft
	}
	if req.IsFree != nil {
		e.IsFree = *req.IsFree
	}
	e.Price = req.Price
	if e.IsFree {
		e.Price = 0
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateEducation(e *models.Education) error {
	if n := len([]rune(e.Title)); n < 5 || n > 200 {
		return validationError("title must be 5 to 200 characters")
	}
	if n := len([]rune(e.Description)); n < 10 || n > 5000 {
		return validationError("description must be 10 to 5000 characters")
	}
	if e.Duration < 0 || e.Duration > 1000 {
		return validationError("duration must be between 0 and 1000 minutes")
	}
	if e.Price < 0 {
		return validationError("price cannot be negative")
	}
	if !e.Status.IsValid() {
		return validationError("invalid status: %s", e.Status)
	}
	return nil
}

// Create adds educational content; new items are free unless stated otherwise
func (s *educationServiceImpl) Create(ctx context.Context, req *dto.EducationRequest, adminID int64) (*models.Education, error) {
	e := &models.Education{IsFree: true, CreatedBy: int64Ptr(adminID)}
	applyEducationRequest(e, req)
	if err := validateEducation(e); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns any content item
func (s *educationServiceImpl) Get(ctx context.Context, id int64) (*models.Education, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces a content item's fields
func (s *educationServiceImpl) Update(ctx context.Context, id int64, req *dto.EducationRequest) (*models.Education, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEducationRequest(e, req)
	if err := validateEducation(e); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UploadThumbnail stores a new thumbnail image
func (s *educationServiceImpl) UploadThumbnail(ctx context.Context, id int64, file *multipart.FileHeader) (*models.Education, error) {
	if err := filestorage.ValidateUpload(file, filestorage.ImageExtensions, filestorage.MaxImageSize); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("education/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}
	if err := s.repo.UpdateThumbnail(ctx, id, url); err != nil {
		_ = s.storage.DeleteFile(url)
		return nil, err
	}

	// only files this service stored are removed
	if old := e.ThumbnailURL; old != "" && old != url {
		if err := s.storage.DeleteFile(old); err != nil {
			s.logger.Debug().Err(err).Str("url", old).Msg("Previous thumbnail not removed")
		}
	}

	e.ThumbnailURL = url
	return e, nil
}

// Delete removes a content item
func (s *educationServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus sets the status of many content items
func (s *educationServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.EducationStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid status: %s", status)
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many content items
func (s *educationServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// List returns a filtered page of content
func (s *educationServiceImpl) List(ctx context.Context, query EducationListQuery) (*dto.PaginatedResponse, error) {
	items, total, err := s.repo.List(ctx, repositories.EducationFilter{
		Page:     query.page(),
		Search:   query.Search,
		Category: helpers.NormalizeStatusFilter(query.Category),
		Level:    helpers.NormalizeStatusFilter(query.Level),
		Status:   helpers.NormalizeStatusFilter(query.Status),
		IsFree:   query.IsFree,
	})
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// ListPublished is the public content list
func (s *educationServiceImpl) ListPublished(ctx context.Context, query EducationListQuery) (*dto.PaginatedResponse, error) {
	query.Status = string(models.EducationPublished)
	return s.List(ctx, query)
}

// View returns published content and counts the view
func (s *educationServiceImpl) View(ctx context.Context, id int64) (*models.Education, error) {
	e, err := s.published(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("educationID", id).Msg("Failed to count view")
	} else {
		e.Views++
	}
	return e, nil
}

// Like adds a like to published content
func (s *educationServiceImpl) Like(ctx context.Context, id int64) (*dto.LikeResponse, error) {
	if _, err := s.published(ctx, id); err != nil {
		return nil, err
	}
	likes, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Likes: likes}, nil
}

func (s *educationServiceImpl) published(ctx context.Context, id int64) (*models.Education, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != models.EducationPublished {
		return nil, errEducationHidden
	}
	return e, nil
}
