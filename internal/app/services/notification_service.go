package services

import (
	"context"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/email"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// NotificationListQuery filters the admin notification list
type NotificationListQuery struct {
	ListQuery
	Type     string
	Priority string
	IsActive *bool
	UserID   *int64
}

// NotificationService manages in-app notifications and their live delivery
type NotificationService interface {
	Notifier

	// user feed
	Feed(ctx context.Context, userID int64, unreadOnly bool, page, size int) (*dto.PaginatedResponse, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	TrackClick(ctx context.Context, id int64) error

	// admin
	Create(ctx context.Context, req *dto.CreateNotificationRequest, adminID int64) (*models.Notification, error)
	Get(ctx context.Context, id int64) (*models.Notification, error)
	Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*models.Notification, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query NotificationListQuery) (*dto.PaginatedResponse, error)
	Stats(ctx context.Context) (*repositories.NotificationStats, error)
	BulkSend(ctx context.Context, req *dto.BulkSendRequest, adminID int64) (*dto.BulkSendResult, error)
}

type notificationServiceImpl struct {
	repo         repositories.INotificationRepository
	userRepo     repositories.IUserRepository
	pusher       LivePusher
	emailService email.EmailService
	logger       zerolog.Logger
	clock        clock
}

// NewNotificationService creates a new NotificationService.
// pusher delivers to per-user rooms of the notification hub.
func NewNotificationService(
	repo repositories.INotificationRepository,
	userRepo repositories.IUserRepository,
	pusher LivePusher,
	emailService email.EmailService,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		repo:         repo,
		userRepo:     userRepo,
		pusher:       pusher,
		emailService: emailService,
		logger:       logger,
	}
}

func applyNotificationDefaults(n *models.Notification) {
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
}

// Notify stores n and pushes it live
func (s *notificationServiceImpl) Notify(ctx context.Context, n *models.Notification) error {
	applyNotificationDefaults(n)
	n.IsActive = true
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

// push sends n to its recipient room, or to everyone for a broadcast
func (s *notificationServiceImpl) push(n *models.Notification) {
	if s.pusher == nil {
		return
	}
	msg := &websocket.Message{
		Type:    websocket.MessageTypeNotification,
		Payload: n,
		ID:      n.ID,
	}
	if n.UserID == nil {
		s.pusher.BroadcastToAll(msg)
		return
	}
	msg.RoomID = *n.UserID
	if !s.pusher.BroadcastToRoom(msg) {
		s.logger.Warn().Int64("notificationID", n.ID).Int64("userID", *n.UserID).Msg("Live notification push dropped")
	}
}

// Feed lists the notifications visible to userID
func (s *notificationServiceImpl) Feed(ctx context.Context, userID int64, unreadOnly bool, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.repo.ListForUser(ctx, userID, unreadOnly, repositories.Page{Page: page, Size: size}, s.clock.now())
	if err != nil {
		return nil, err
	}
	return paginate(items, total, page, size), nil
}

// GetForUser returns a notification if userID may see it
func (s *notificationServiceImpl) GetForUser(ctx context.Context, id, userID int64) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != nil && *n.UserID != userID {
		return nil, errNotificationHidden
	}
	return n, nil
}

// MarkRead marks one notification of the user as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks the user's whole feed as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// UnreadCount returns the unread badge count
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID, s.clock.now())
}

// TrackClick counts a click on the notification's action
func (s *notificationServiceImpl) TrackClick(ctx context.Context, id int64) error {
	return s.repo.TrackClick(ctx, id)
}

// Create stores a single notification written by an admin
func (s *notificationServiceImpl) Create(ctx context.Context, req *dto.CreateNotificationRequest, adminID int64) (*models.Notification, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, validationError("title and message are required")
	}

	n := &models.Notification{
		Title:       strings.TrimSpace(req.Title),
		Message:     strings.TrimSpace(req.Message),
		Type:        models.NotificationType(req.Type),
		Priority:    models.NotificationPriority(req.Priority),
		IsActive:    true,
		UserID:      req.UserID,
		CreatedByID: int64Ptr(adminID),
		ExpiresAt:   req.ExpiresAt,
		ActionURL:   req.ActionURL,
		ActionText:  req.ActionText,
	}
	if req.IsActive != nil {
		n.IsActive = *req.IsActive
	}
	applyNotificationDefaults(n)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	if n.IsActive {
		s.push(n)
	}
	return n, nil
}

// Get returns any notification
func (s *notificationServiceImpl) Get(ctx context.Context, id int64) (*models.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the fields set in req
func (s *notificationServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Message != nil {
		n.Message = strings.TrimSpace(*req.Message)
	}
	if req.Type != nil {
		n.Type = models.NotificationType(*req.Type)
	}
	if req.Priority != nil {
		n.Priority = models.NotificationPriority(*req.Priority)
	}
	if req.IsActive != nil {
		n.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		n.ExpiresAt = req.ExpiresAt
	}
	if req.ActionURL != nil {
		n.ActionURL = *req.ActionURL
	}
	if req.ActionText != nil {
		n.ActionText = *req.ActionText
	}
	if n.Title == "" || n.Message == "" {
		return nil, validationError("title and message cannot be empty")
	}
	applyNotificationDefaults(n)

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes a notification
func (s *notificationServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List returns a filtered page of notifications
func (s *notificationServiceImpl) List(ctx context.Context, query NotificationListQuery) (*dto.PaginatedResponse, error) {
	items, total, err := s.repo.List(ctx, repositories.NotificationFilter{
		Page:     query.page(),
		Search:   query.Search,
		Type:     helpers.NormalizeStatusFilter(query.Type),
		Priority: helpers.NormalizeStatusFilter(query.Priority),
		IsActive: query.IsActive,
		UserID:   query.UserID,
	})
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// Stats returns the dashboard counters
func (s *notificationServiceImpl) Stats(ctx context.Context) (*repositories.NotificationStats, error) {
	return s.repo.Stats(ctx)
}

// BulkSend fans a notification out to its recipients
func (s *notificationServiceImpl) BulkSend(ctx context.Context, req *dto.BulkSendRequest, adminID int64) (*dto.BulkSendResult, error) {
	template := models.Notification{
		Title:       strings.TrimSpace(req.Title),
		Message:     strings.TrimSpace(req.Message),
		Type:        models.NotificationType(req.Type),
		Priority:    models.NotificationPriority(req.Priority),
		IsActive:    true,
		CreatedByID: int64Ptr(adminID),
		ExpiresAt:   req.ExpiresAt,
		ActionURL:   req.ActionURL,
		ActionText:  req.ActionText,
	}
	if template.Title == "" || template.Message == "" {
		return nil, validationError("title and message are required")
	}
	applyNotificationDefaults(&template)

	var recipients []int64
	switch req.RecipientType {
	case dto.RecipientAll:
		// a single broadcast row reaches every user
		n := template
		if err := s.repo.Create(ctx, &n); err != nil {
			return nil, err
		}
		s.push(&n)
		result := &dto.BulkSendResult{Total: 1, Sent: 1}
		if n.Type == models.NotificationEmail {
			ids, err := s.userRepo.ListActiveIDs(ctx)
			if err != nil {
				return nil, err
			}
			s.email(ctx, ids, &n)
		}
		return result, nil
	case dto.RecipientSpecific:
		if len(req.UserIDs) == 0 {
			return nil, validationError("userIds are required for specific recipients")
		}
		recipients = uniqueIDs(req.UserIDs)
	case dto.RecipientGroup:
		if req.Role == "" {
			return nil, validationError("role is required for group recipients")
		}
		ids, err := s.userRepo.ListIDsByRole(ctx, models.RoleType(req.Role))
		if err != nil {
			return nil, err
		}
		recipients = ids
	default:
		return nil, validationError("unknown recipient type: %s", req.RecipientType)
	}

	items := make([]*models.Notification, 0, len(recipients))
	for _, uid := range recipients {
		n := template
		n.UserID = int64Ptr(uid)
		items = append(items, &n)
	}

	sent, err := s.repo.CreateMany(ctx, items)
	if err != nil {
		if sent == 0 {
			return nil, err
		}
		s.logger.Warn().Err(err).Int("failed", len(items)-sent).Msg("Some notifications could not be stored")
	}

	var delivered []int64
	for _, n := range items {
		if n.ID == 0 {
			continue
		}
		s.push(n)
		delivered = append(delivered, *n.UserID)
	}
	if template.Type == models.NotificationEmail {
		s.email(ctx, delivered, &template)
	}

	s.logger.Info().
		Str("recipientType", req.RecipientType).
		Int("total", len(items)).
		Int("sent", sent).
		Msg("Bulk notification sent")

	return &dto.BulkSendResult{Total: len(items), Sent: sent, Failed: len(items) - sent}, nil
}

// email mails n to the given users; failures are logged only
func (s *notificationServiceImpl) email(ctx context.Context, userIDs []int64, n *models.Notification) {
	if len(userIDs) == 0 || s.emailService == nil {
		return
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load email recipients")
		return
	}
	for _, u := range users {
		if err := s.emailService.SendNotificationEmail(u.Email, u.FullName(), n.Title, n.Message, n.ActionURL); err != nil {
			s.logger.Warn().Err(err).Int64("userID", u.ID).Msg("Failed to send notification email")
		}
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
