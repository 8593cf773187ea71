package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// TicketListQuery adds the admin ticket filters to ListQuery
type TicketListQuery struct {
	ListQuery
	Priority string
	Category string

	userID *int64
}

// SupportService runs support tickets between users and admins
type SupportService interface {
	// user side
	Create(ctx context.Context, userID int64, req *dto.CreateTicketRequest) (*dto.TicketResponse, error)
	ListMine(ctx context.Context, userID int64, query ListQuery) (*dto.PaginatedResponse, error)
	GetMine(ctx context.Context, userID, id int64) (*dto.TicketResponse, error)
	AddMessage(ctx context.Context, userID, id int64, req *dto.TicketMessageRequest) (*dto.TicketResponse, error)
	Close(ctx context.Context, userID, id int64) error

	// admin
	AdminList(ctx context.Context, query TicketListQuery) (*dto.PaginatedResponse, error)
	AdminGet(ctx context.Context, id int64) (*dto.TicketResponse, error)
	AdminUpdate(ctx context.Context, id int64, req *dto.UpdateTicketRequest) (*dto.TicketResponse, error)
	Reply(ctx context.Context, adminID, id int64, req *dto.TicketMessageRequest) (*dto.TicketResponse, error)
	UpdateStatus(ctx context.Context, adminID, id int64, req *dto.TicketStatusRequest) (*dto.TicketResponse, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
}

type supportServiceImpl struct {
	repo     repositories.ISupportTicketRepository
	notifier Notifier
	logger   zerolog.Logger
}

// NewSupportService creates a new SupportService
func NewSupportService(repo repositories.ISupportTicketRepository, notifier Notifier, logger zerolog.Logger) SupportService {
	return &supportServiceImpl{repo: repo, notifier: notifier, logger: logger}
}

var errTicketHidden = apperrors.NewResourceNotFoundError("support ticket not found")

func (s *supportServiceImpl) withMessages(ctx context.Context, t *models.SupportTicket) (*dto.TicketResponse, error) {
	messages, err := s.repo.ListMessages(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TicketResponse{SupportTicket: t, Messages: messages}, nil
}

// owned loads a ticket of userID; other users' tickets look missing
func (s *supportServiceImpl) owned(ctx context.Context, userID, id int64) (*models.SupportTicket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, errTicketHidden
	}
	return t, nil
}

// Create opens a ticket; its description becomes the first message
func (s *supportServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, validationError("title and description are required")
	}

	t := &models.SupportTicket{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    models.TicketPriority(req.Priority),
		Category:    models.TicketCategory(req.Category),
		Status:      models.TicketOpen,
	}
	if t.Priority == "" {
		t.Priority = models.TicketPriorityMedium
	}
	if t.Category == "" {
		t.Category = models.TicketGeneral
	}
	if err := validateTicketLabels(t); err != nil {
		return nil, err
	}
	first := &models.SupportTicketMessage{SenderID: int64Ptr(userID), Message: description}

	if err := s.repo.Create(ctx, t, first); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("ticketID", t.ID).Int64("userID", userID).Str("category", string(t.Category)).Msg("Support ticket opened")
	return &dto.TicketResponse{SupportTicket: t, Messages: []*models.SupportTicketMessage{first}}, nil
}

// ListMine lists the caller's tickets
func (s *supportServiceImpl) ListMine(ctx context.Context, userID int64, query ListQuery) (*dto.PaginatedResponse, error) {
	return s.AdminList(ctx, TicketListQuery{ListQuery: query, userID: &userID})
}

// GetMine returns one of the caller's tickets with its conversation
func (s *supportServiceImpl) GetMine(ctx context.Context, userID, id int64) (*dto.TicketResponse, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.withMessages(ctx, t)
}

// AddMessage posts the user's message; the ticket then waits on support
func (s *supportServiceImpl) AddMessage(ctx context.Context, userID, id int64, req *dto.TicketMessageRequest) (*dto.TicketResponse, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, apperrors.ErrTicketClosed
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, validationError("message is required")
	}
	m := &models.SupportTicketMessage{TicketID: id, SenderID: int64Ptr(userID), Message: message}
	if err := s.repo.AddMessage(ctx, m, models.TicketWaitingResponse); err != nil {
		return nil, err
	}
	t.Status = models.TicketWaitingResponse
	return s.withMessages(ctx, t)
}

// Close lets the owner close a ticket
func (s *supportServiceImpl) Close(ctx context.Context, userID, id int64) error {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if t.IsClosed() {
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, id, models.TicketClosed); err != nil {
		return err
	}
	s.logger.Info().Int64("ticketID", id).Int64("userID", userID).Msg("Support ticket closed by user")
	return nil
}

func validateTicketLabels(t *models.SupportTicket) error {
	if !t.Priority.IsValid() {
		return validationError("invalid ticket priority: %s", t.Priority)
	}
	if !t.Category.IsValid() {
		return validationError("invalid ticket category: %s", t.Category)
	}
	return nil
}

func parseTicketFilter(q TicketListQuery) (repositories.TicketFilter, error) {
	f := repositories.TicketFilter{
		Page:     q.page(),
		Search:   q.Search,
		UserID:   q.userID,
		Status:   models.TicketStatus(helpers.NormalizeStatusFilter(q.Status)),
		Priority: models.TicketPriority(helpers.NormalizeStatusFilter(q.Priority)),
		Category: models.TicketCategory(helpers.NormalizeStatusFilter(q.Category)),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return f, validationError("invalid status filter: %s", q.Status)
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return f, validationError("invalid priority filter: %s", q.Priority)
	}
	if f.Category != "" && !f.Category.IsValid() {
		return f, validationError("invalid category filter: %s", q.Category)
	}
	return f, nil
}

// AdminList returns a page of tickets, newest first
func (s *supportServiceImpl) AdminList(ctx context.Context, query TicketListQuery) (*dto.PaginatedResponse, error) {
	filter, err := parseTicketFilter(query)
	if err != nil {
		return nil, err
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// AdminGet returns any ticket with its conversation
func (s *supportServiceImpl) AdminGet(ctx context.Context, id int64) (*dto.TicketResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withMessages(ctx, t)
}

// AdminUpdate edits the fields that are set
func (s *supportServiceImpl) AdminUpdate(ctx context.Context, id int64, req *dto.UpdateTicketRequest) (*dto.TicketResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		t.Priority = models.TicketPriority(*req.Priority)
	}
	if req.Category != nil {
		t.Category = models.TicketCategory(*req.Category)
	}
	if t.Title == "" || t.Description == "" {
		return nil, validationError("title and description cannot be empty")
	}
	if err := validateTicketLabels(t); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.withMessages(ctx, t)
}

// Reply posts an admin message and tells the owner
func (s *supportServiceImpl) Reply(ctx context.Context, adminID, id int64, req *dto.TicketMessageRequest) (*dto.TicketResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, validationError("message is required")
	}

	status := t.StatusAfterAdminReply()
	m := &models.SupportTicketMessage{TicketID: id, SenderID: int64Ptr(adminID), Message: message, IsAdmin: true}
	if err := s.repo.AddMessage(ctx, m, status); err != nil {
		return nil, err
	}
	t.Status = status

	s.notifyOwner(ctx, t)
	return s.withMessages(ctx, t)
}

// UpdateStatus moves a ticket; a note, when given, is posted as an admin message
func (s *supportServiceImpl) UpdateStatus(ctx context.Context, adminID, id int64, req *dto.TicketStatusRequest) (*dto.TicketResponse, error) {
	status := models.TicketStatus(req.Status)
	if !status.IsValid() {
		return nil, validationError("invalid ticket status: %s", req.Status)
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	note := strings.TrimSpace(req.Message)
	if note == "" {
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
	} else {
		m := &models.SupportTicketMessage{TicketID: id, SenderID: int64Ptr(adminID), Message: note, IsAdmin: true}
		if err := s.repo.AddMessage(ctx, m, status); err != nil {
			return nil, err
		}
	}
	t.Status = status

	if note != "" {
		s.notifyOwner(ctx, t)
	}
	s.logger.Info().Int64("ticketID", id).Str("status", string(status)).Int64("adminID", adminID).Msg("Support ticket status updated")
	return s.withMessages(ctx, t)
}

func (s *supportServiceImpl) notifyOwner(ctx context.Context, t *models.SupportTicket) {
	n := &models.Notification{
		UserID:    int64Ptr(t.UserID),
		Title:     "پاسخ جدید به تیکت پشتیبانی",
		Message:   fmt.Sprintf("پشتیبانی به تیکت «%s» پاسخ داد", t.Title),
		Type:      models.NotificationSystem,
		Priority:  models.PriorityNormal,
		ActionURL: fmt.Sprintf("/support/tickets/%d", t.ID),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("ticketID", t.ID).Msg("Failed to notify ticket owner")
	}
}

// Delete removes a ticket and its conversation
func (s *supportServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus moves many tickets
func (s *supportServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.TicketStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid ticket status: %s", status)
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many tickets
func (s *supportServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}
