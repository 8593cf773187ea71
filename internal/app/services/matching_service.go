package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// MatchingListQuery filters matching request lists
type MatchingListQuery struct {
	ListQuery
	SupplierID int64
}

// MatchingService runs the supplier/visitor matching workflow
type MatchingService interface {
	// supplier side
	Create(ctx context.Context, userID int64, input *dto.MatchingRequestInput) (*dto.CreateMatchingResponse, error)
	ListMine(ctx context.Context, userID int64, query ListQuery) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, userID, id int64) (*dto.MatchingRequestResponse, error)
	Update(ctx context.Context, userID, id int64, input *dto.MatchingRequestInput) (*dto.MatchingRequestResponse, error)
	Cancel(ctx context.Context, userID, id int64) error
	Extend(ctx context.Context, userID, id int64, expiresAt time.Time) (*dto.MatchingRequestResponse, error)
	Complete(ctx context.Context, userID, id int64) error
	Responses(ctx context.Context, userID, id int64) ([]*models.MatchingResponse, error)

	// visitor side
	Available(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error)
	Respond(ctx context.Context, userID, id int64, req *dto.RespondMatchingRequest) (*models.MatchingResponse, error)

	// both parties
	Rate(ctx context.Context, userID, id int64, req *dto.RateMatchingRequest) (*models.MatchingRating, error)
	Ratings(ctx context.Context, id int64) ([]*models.MatchingRating, error)
	UserRating(ctx context.Context, userID int64) (*dto.UserRating, error)

	// expiry
	ExpireOverdue(ctx context.Context) (int64, error)
	RunExpiryJob(ctx context.Context, interval time.Duration)

	// admin
	AdminList(ctx context.Context, query MatchingListQuery) (*dto.PaginatedResponse, error)
	AdminGet(ctx context.Context, id int64) (*dto.MatchingRequestResponse, error)
	AdminUpdateStatus(ctx context.Context, id int64, status string) error
	AdminDelete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
	Stats(ctx context.Context) (*dto.MatchingStats, error)
}

type matchingServiceImpl struct {
	repo         repositories.IMatchingRepository
	responseRepo repositories.IMatchingResponseRepository
	chatRepo     repositories.IChatRepository
	supplierRepo repositories.ISupplierRepository
	visitorRepo  repositories.IVisitorRepository
	notifier     Notifier
	maxResults   int
	logger       zerolog.Logger
	clock        clock
}

// NewMatchingService creates a new MatchingService.
// maxResults caps how many visitors are notified per request.
func NewMatchingService(
	repo repositories.IMatchingRepository,
	responseRepo repositories.IMatchingResponseRepository,
	chatRepo repositories.IChatRepository,
	supplierRepo repositories.ISupplierRepository,
	visitorRepo repositories.IVisitorRepository,
	notifier Notifier,
	maxResults int,
	logger zerolog.Logger,
) MatchingService {
	return &matchingServiceImpl{
		repo:         repo,
		responseRepo: responseRepo,
		chatRepo:     chatRepo,
		supplierRepo: supplierRepo,
		visitorRepo:  visitorRepo,
		notifier:     notifier,
		maxResults:   maxResults,
		logger:       logger,
	}
}

func (s *matchingServiceImpl) view(req *models.MatchingRequest) *dto.MatchingRequestResponse {
	now := s.clock.now()
	return &dto.MatchingRequestResponse{
		MatchingRequest:  req,
		RemainingSeconds: helpers.RemainingSeconds(req.ExpiresAt, now),
		IsExpired:        req.IsExpired(now),
	}
}

func (s *matchingServiceImpl) views(items []*models.MatchingRequest) []*dto.MatchingRequestResponse {
	out := make([]*dto.MatchingRequestResponse, 0, len(items))
	for _, it := range items {
		out = append(out, s.view(it))
	}
	return out
}

// approvedSupplier returns the caller's supplier registration if it is approved
func (s *matchingServiceImpl) approvedSupplier(ctx context.Context, userID int64) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if supplier.Status != models.RegistrationApproved {
		return nil, apperrors.ErrNotApproved
	}
	return supplier, nil
}

// approvedVisitor returns the caller's visitor registration if it is approved
func (s *matchingServiceImpl) approvedVisitor(ctx context.Context, userID int64) (*models.Visitor, error) {
	visitor, err := s.visitorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if visitor.Status != models.RegistrationApproved {
		return nil, apperrors.ErrNotApproved
	}
	return visitor, nil
}

// owned loads a request and checks that userID posted it
func (s *matchingServiceImpl) owned(ctx context.Context, userID, id int64) (*models.MatchingRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, apperrors.NewForbiddenError("matching request belongs to another supplier")
	}
	return req, nil
}

func applyMatchingInput(req *models.MatchingRequest, input *dto.MatchingRequestInput) {
	req.ProductName = strings.TrimSpace(input.ProductName)
	req.ProductID = input.ProductID
	req.Quantity = strings.TrimSpace(input.Quantity)
	req.Unit = strings.TrimSpace(input.Unit)
	req.DestinationCountries = strings.TrimSpace(input.DestinationCountries)
	req.Price = strings.TrimSpace(input.Price)
	req.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if req.Currency == "" {
		req.Currency = "USD"
	}
	req.PaymentTerms = strings.TrimSpace(input.PaymentTerms)
	req.DeliveryTime = strings.TrimSpace(input.DeliveryTime)
	req.Description = strings.TrimSpace(input.Description)
	req.ExpiresAt = input.ExpiresAt.UTC()
}

// Create posts a request and notifies the best matching visitors
func (s *matchingServiceImpl) Create(ctx context.Context, userID int64, input *dto.MatchingRequestInput) (*dto.CreateMatchingResponse, error) {
	now := s.clock.now()
	if !input.ExpiresAt.After(now) {
		return nil, validationError("expiresAt must be in the future")
	}

	supplier, err := s.approvedSupplier(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &models.MatchingRequest{
		SupplierID: supplier.ID,
		UserID:     userID,
		Status:     models.MatchingPending,
	}
	applyMatchingInput(req, input)

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	matched, err := s.match(ctx, req, now)
	if err != nil {
		// the request stays pending and can still be found through the available list
		s.logger.Error().Err(err).Int64("requestID", req.ID).Msg("Matching engine failed")
		matched = []dto.MatchedVisitor{}
	}

	s.logger.Info().
		Int64("requestID", req.ID).
		Int64("supplierID", supplier.ID).
		Int("matched", len(matched)).
		Msg("Matching request created")

	return &dto.CreateMatchingResponse{Request: *s.view(req), MatchedVisitor: matched}, nil
}

// match scores approved visitors, notifies the selected ones and records the outcome
func (s *matchingServiceImpl) match(ctx context.Context, req *models.MatchingRequest, now time.Time) ([]dto.MatchedVisitor, error) {
	visitors, err := s.visitorRepo.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load visitors: %w", err)
	}

	matched := RankVisitors(req, visitors, now, s.maxResults)
	for _, m := range matched {
		if err := s.notifier.Notify(ctx, matchingNotification(req, m.UserID)); err != nil {
			s.logger.Warn().Err(err).Int64("requestID", req.ID).Int64("visitorID", m.VisitorID).Msg("Failed to notify matched visitor")
		}
	}

	status := req.Status
	if status == models.MatchingPending {
		status = models.MatchingActive
	}
	if err := s.repo.UpdateMatchResult(ctx, req.ID, len(matched), status); err != nil {
		return nil, err
	}
	req.MatchedVisitorCount = len(matched)
	req.Status = status
	return matched, nil
}

func matchingNotification(req *models.MatchingRequest, userID int64) *models.Notification {
	return &models.Notification{
		UserID:    int64Ptr(userID),
		Title:     "درخواست Matching جدید",
		Message:   fmt.Sprintf("درخواست جدید برای فروش %s در %s", req.ProductName, req.DestinationCountries),
		Type:      models.NotificationMatching,
		Priority:  models.PriorityHigh,
		ActionURL: fmt.Sprintf("/matching/requests/%d", req.ID),
	}
}

// ListMine lists the caller's requests
func (s *matchingServiceImpl) ListMine(ctx context.Context, userID int64, query ListQuery) (*dto.PaginatedResponse, error) {
	supplier, err := s.supplierRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.AdminList(ctx, MatchingListQuery{ListQuery: query, SupplierID: supplier.ID})
}

// Get returns a request to its owner, its accepted visitor, or any approved
// visitor while it is open
func (s *matchingServiceImpl) Get(ctx context.Context, userID, id int64) (*dto.MatchingRequestResponse, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID == userID {
		return s.view(req), nil
	}

	visitor, err := s.approvedVisitor(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrVisitorNotFound) || errors.Is(err, apperrors.ErrNotApproved) {
			return nil, apperrors.NewForbiddenError("no access to this matching request")
		}
		return nil, err
	}
	if req.AcceptedVisitorID != nil && *req.AcceptedVisitorID == visitor.ID {
		return s.view(req), nil
	}
	if !req.IsOpen(s.clock.now()) {
		return nil, apperrors.NewForbiddenError("no access to this matching request")
	}
	return s.view(req), nil
}

// Update edits an open request
func (s *matchingServiceImpl) Update(ctx context.Context, userID, id int64, input *dto.MatchingRequestInput) (*dto.MatchingRequestResponse, error) {
	req, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	if req.Status != models.MatchingPending && req.Status != models.MatchingActive {
		return nil, apperrors.ErrRequestNotOpen
	}
	if req.IsExpired(now) {
		return nil, apperrors.ErrRequestExpired
	}
	if !input.ExpiresAt.After(now) {
		return nil, validationError("expiresAt must be in the future")
	}

	applyMatchingInput(req, input)
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return s.view(req), nil
}

// Cancel withdraws a request that has not been accepted
func (s *matchingServiceImpl) Cancel(ctx context.Context, userID, id int64) error {
	req, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	switch req.Status {
	case models.MatchingAccepted, models.MatchingCompleted:
		return apperrors.NewConflictError("an accepted or completed request cannot be cancelled")
	case models.MatchingCancelled:
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, models.MatchingCancelled)
}

// Extend moves the deadline; an expired request opens again
func (s *matchingServiceImpl) Extend(ctx context.Context, userID, id int64, expiresAt time.Time) (*dto.MatchingRequestResponse, error) {
	if !expiresAt.After(s.clock.now()) {
		return nil, validationError("expiresAt must be in the future")
	}

	req, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	switch status {
	case models.MatchingPending, models.MatchingActive:
	case models.MatchingExpired:
		status = models.MatchingActive
	default:
		return nil, apperrors.ErrRequestNotOpen
	}

	if err := s.repo.Extend(ctx, id, expiresAt.UTC(), status); err != nil {
		return nil, err
	}
	req.ExpiresAt = expiresAt.UTC()
	req.Status = status
	return s.view(req), nil
}

// Complete closes an accepted deal
func (s *matchingServiceImpl) Complete(ctx context.Context, userID, id int64) error {
	req, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if req.Status != models.MatchingAccepted {
		return apperrors.NewConflictError("only an accepted request can be completed")
	}
	return s.repo.UpdateStatus(ctx, id, models.MatchingCompleted)
}

// Responses lists the visitor answers to the caller's request
func (s *matchingServiceImpl) Responses(ctx context.Context, userID, id int64) ([]*models.MatchingResponse, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.responseRepo.ListResponses(ctx, id)
}

// Available lists the open requests an approved visitor can answer
func (s *matchingServiceImpl) Available(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	if _, err := s.approvedVisitor(ctx, userID); err != nil {
		return nil, err
	}
	items, total, err := s.repo.ListAvailable(ctx, s.clock.now(), repositories.Page{Page: page, Size: size})
	if err != nil {
		return nil, err
	}
	return paginate(s.views(items), total, page, size), nil
}

// Respond records a visitor's answer; an acceptance closes the request
func (s *matchingServiceImpl) Respond(ctx context.Context, userID, id int64, in *dto.RespondMatchingRequest) (*models.MatchingResponse, error) {
	responseType := models.ResponseType(in.ResponseType)
	switch responseType {
	case models.ResponseAccepted, models.ResponseRejected:
	case models.ResponseQuestion:
		if strings.TrimSpace(in.Message) == "" {
			return nil, validationError("message is required for a question")
		}
	default:
		return nil, validationError("invalid response type: %s", in.ResponseType)
	}

	visitor, err := s.approvedVisitor(ctx, userID)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	if req.IsExpired(now) {
		return nil, apperrors.ErrRequestExpired
	}
	if !req.IsOpen(now) {
		return nil, apperrors.ErrRequestNotOpen
	}

	resp := &models.MatchingResponse{
		MatchingRequestID: id,
		VisitorID:         visitor.ID,
		UserID:            userID,
		ResponseType:      responseType,
		Message:           strings.TrimSpace(in.Message),
	}
	if responseType != models.ResponseAccepted {
		if err := s.responseRepo.CreateResponse(ctx, resp); err != nil {
			return nil, err
		}
		resp.VisitorName = visitor.FullName
		return resp, nil
	}

	if err := s.responseRepo.AcceptRequest(ctx, resp, now); err != nil {
		return nil, err
	}
	resp.VisitorName = visitor.FullName

	chat := &models.MatchingChat{
		MatchingRequestID: id,
		SupplierUserID:    req.UserID,
		VisitorUserID:     userID,
		IsActive:          true,
	}
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		s.logger.Error().Err(err).Int64("requestID", id).Msg("Failed to open matching chat")
	}

	n := &models.Notification{
		UserID:    int64Ptr(req.UserID),
		Title:     "درخواست Matching شما پذیرفته شد",
		Message:   fmt.Sprintf("ویزیتور %s درخواست شما برای %s را پذیرفته است", visitor.FullName, req.ProductName),
		Type:      models.NotificationMatching,
		Priority:  models.PriorityHigh,
		ActionURL: fmt.Sprintf("/matching/requests/%d", id),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("requestID", id).Msg("Failed to notify supplier about acceptance")
	}

	s.logger.Info().Int64("requestID", id).Int64("visitorID", visitor.ID).Msg("Matching request accepted")
	return resp, nil
}

// Rate stores one party's rating of the other
func (s *matchingServiceImpl) Rate(ctx context.Context, userID, id int64, in *dto.RateMatchingRequest) (*models.MatchingRating, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if (req.Status != models.MatchingAccepted && req.Status != models.MatchingCompleted) || req.AcceptedVisitorID == nil {
		return nil, apperrors.NewConflictError("only accepted or completed requests can be rated")
	}

	visitor, err := s.visitorRepo.GetByID(ctx, *req.AcceptedVisitorID)
	if err != nil {
		return nil, err
	}

	rating := &models.MatchingRating{
		MatchingRequestID: id,
		RaterID:           userID,
		Rating:            in.Rating,
		Comment:           strings.TrimSpace(in.Comment),
	}
	switch userID {
	case req.UserID:
		rating.RaterType, rating.RatedType = models.PartySupplier, models.PartyVisitor
		rating.RatedID = visitor.UserID
	case visitor.UserID:
		rating.RaterType, rating.RatedType = models.PartyVisitor, models.PartySupplier
		rating.RatedID = req.UserID
	default:
		return nil, apperrors.NewForbiddenError("only the parties of the deal can rate it")
	}

	if err := s.responseRepo.CreateRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Ratings lists the ratings of a request
func (s *matchingServiceImpl) Ratings(ctx context.Context, id int64) ([]*models.MatchingRating, error) {
	return s.responseRepo.ListRatings(ctx, id)
}

// UserRating returns the average rating a user received
func (s *matchingServiceImpl) UserRating(ctx context.Context, userID int64) (*dto.UserRating, error) {
	avg, n, err := s.responseRepo.AverageRating(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserRating{UserID: userID, Average: avg, Count: n}, nil
}

// ExpireOverdue moves open requests past their deadline to expired
func (s *matchingServiceImpl) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.clock.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("expired", n).Msg("Expired overdue matching requests")
	}
	return n, nil
}

// RunExpiryJob expires overdue requests now and then every interval until ctx ends
func (s *matchingServiceImpl) RunExpiryJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	run := func() {
		if _, err := s.ExpireOverdue(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("Matching expiry job failed")
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

// AdminList returns a filtered page of requests
func (s *matchingServiceImpl) AdminList(ctx context.Context, query MatchingListQuery) (*dto.PaginatedResponse, error) {
	status := helpers.NormalizeStatusFilter(query.Status)
	if status != "" && !models.MatchingStatus(status).IsValid() {
		return nil, validationError("invalid status filter: %s", query.Status)
	}
	items, total, err := s.repo.List(ctx, repositories.MatchingFilter{
		Page:       query.page(),
		Search:     query.Search,
		Status:     status,
		SupplierID: query.SupplierID,
	})
	if err != nil {
		return nil, err
	}
	return paginate(s.views(items), total, query.Page, query.Size), nil
}

// AdminGet returns any request
func (s *matchingServiceImpl) AdminGet(ctx context.Context, id int64) (*dto.MatchingRequestResponse, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(req), nil
}

// AdminUpdateStatus forces a status
func (s *matchingServiceImpl) AdminUpdateStatus(ctx context.Context, id int64, status string) error {
	st := models.MatchingStatus(status)
	if !st.IsValid() {
		return validationError("invalid status: %s", status)
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

// AdminDelete removes a request
func (s *matchingServiceImpl) AdminDelete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus forces the status of many requests
func (s *matchingServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.MatchingStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid status: %s", status)
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many requests
func (s *matchingServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// Stats counts requests per status
func (s *matchingServiceImpl) Stats(ctx context.Context) (*dto.MatchingStats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &dto.MatchingStats{ByStatus: byStatus}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}
