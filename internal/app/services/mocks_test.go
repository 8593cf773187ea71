package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/stretchr/testify/mock"
)

// --- users & tokens ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, userID int64, status models.UserStatus) error {
	return m.Called(ctx, userID, status).Error(0)
}

func (m *MockUserRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.UserStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ListIDsByRole(ctx context.Context, role models.RoleType) ([]int64, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockTokenRepository struct{ mock.Mock }

func (m *MockTokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	return m.Called(ctx, token, userID, expiryDate).Error(0)
}

func (m *MockTokenRepository) GetUserIDByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockTokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- suppliers & visitors ---

type MockSupplierRepository struct{ mock.Mock }

func (m *MockSupplierRepository) CreateWithProducts(ctx context.Context, supplier *models.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByUserID(ctx context.Context, userID int64) (*models.Supplier, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockSupplierRepository) UpdateDocumentPath(ctx context.Context, id int64, path string) error {
	return m.Called(ctx, id, path).Error(0)
}

func (m *MockSupplierRepository) Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error {
	return m.Called(ctx, id, status, notes, adminID).Error(0)
}

func (m *MockSupplierRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return m.Called(ctx, id, featured).Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSupplierRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, filter repositories.SupplierFilter) ([]*models.Supplier, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockVisitorRepository struct{ mock.Mock }

func (m *MockVisitorRepository) Create(ctx context.Context, visitor *models.Visitor) error {
	return m.Called(ctx, visitor).Error(0)
}

func (m *MockVisitorRepository) GetByID(ctx context.Context, id int64) (*models.Visitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Visitor), args.Error(1)
}

func (m *MockVisitorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Visitor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Visitor), args.Error(1)
}

func (m *MockVisitorRepository) Review(ctx context.Context, id int64, status models.RegistrationStatus, notes string, adminID int64) error {
	return m.Called(ctx, id, status, notes, adminID).Error(0)
}

func (m *MockVisitorRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return m.Called(ctx, id, featured).Error(0)
}

func (m *MockVisitorRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVisitorRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.RegistrationStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVisitorRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVisitorRepository) List(ctx context.Context, filter repositories.VisitorFilter) ([]*models.Visitor, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Visitor), args.Get(1).(int64), args.Error(2)
}

func (m *MockVisitorRepository) ListApproved(ctx context.Context) ([]*models.Visitor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Visitor), args.Error(1)
}

func (m *MockVisitorRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// --- matching ---

type MockMatchingRepository struct{ mock.Mock }

func (m *MockMatchingRepository) Create(ctx context.Context, req *models.MatchingRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockMatchingRepository) GetByID(ctx context.Context, id int64) (*models.MatchingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchingRequest), args.Error(1)
}

func (m *MockMatchingRepository) Update(ctx context.Context, req *models.MatchingRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockMatchingRepository) UpdateStatus(ctx context.Context, id int64, status models.MatchingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockMatchingRepository) UpdateMatchResult(ctx context.Context, id int64, matched int, status models.MatchingStatus) error {
	return m.Called(ctx, id, matched, status).Error(0)
}

func (m *MockMatchingRepository) Extend(ctx context.Context, id int64, expiresAt time.Time, status models.MatchingStatus) error {
	return m.Called(ctx, id, expiresAt, status).Error(0)
}

func (m *MockMatchingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMatchingRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.MatchingStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchingRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchingRepository) List(ctx context.Context, filter repositories.MatchingFilter) ([]*models.MatchingRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.MatchingRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockMatchingRepository) ListAvailable(ctx context.Context, now time.Time, page repositories.Page) ([]*models.MatchingRequest, int64, error) {
	args := m.Called(ctx, now, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.MatchingRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockMatchingRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockMatchingResponseRepository struct{ mock.Mock }

func (m *MockMatchingResponseRepository) CreateResponse(ctx context.Context, resp *models.MatchingResponse) error {
	return m.Called(ctx, resp).Error(0)
}

func (m *MockMatchingResponseRepository) AcceptRequest(ctx context.Context, resp *models.MatchingResponse, at time.Time) error {
	return m.Called(ctx, resp, at).Error(0)
}

func (m *MockMatchingResponseRepository) ListResponses(ctx context.Context, requestID int64) ([]*models.MatchingResponse, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchingResponse), args.Error(1)
}

func (m *MockMatchingResponseRepository) CreateRating(ctx context.Context, rating *models.MatchingRating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockMatchingResponseRepository) ListRatings(ctx context.Context, requestID int64) ([]*models.MatchingRating, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchingRating), args.Error(1)
}

func (m *MockMatchingResponseRepository) AverageRating(ctx context.Context, userID int64) (float64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type MockChatRepository struct{ mock.Mock }

func (m *MockChatRepository) CreateChat(ctx context.Context, chat *models.MatchingChat) error {
	return m.Called(ctx, chat).Error(0)
}

func (m *MockChatRepository) GetChatByID(ctx context.Context, id int64) (*models.MatchingChat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchingChat), args.Error(1)
}

func (m *MockChatRepository) GetChatByRequestID(ctx context.Context, requestID int64) (*models.MatchingChat, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchingChat), args.Error(1)
}

func (m *MockChatRepository) ListChatsForUser(ctx context.Context, userID int64) ([]*models.MatchingChat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchingChat), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *models.MatchingMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, chatID int64, before *time.Time, limit int) ([]*models.MatchingMessage, error) {
	args := m.Called(ctx, chatID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchingMessage), args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// --- content ---

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) CreateMany(ctx context.Context, items []*models.Notification) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, filter repositories.NotificationFilter) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID int64, unreadOnly bool, page repositories.Page, now time.Time) ([]*models.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, page, now)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) TrackClick(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationRepository) Stats(ctx context.Context) (*repositories.NotificationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.NotificationStats), args.Error(1)
}

type MockPopupRepository struct{ mock.Mock }

func (m *MockPopupRepository) Create(ctx context.Context, p *models.MarketingPopup) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPopupRepository) GetByID(ctx context.Context, id int64) (*models.MarketingPopup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketingPopup), args.Error(1)
}

func (m *MockPopupRepository) Update(ctx context.Context, p *models.MarketingPopup) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPopupRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPopupRepository) BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	args := m.Called(ctx, ids, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPopupRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPopupRepository) List(ctx context.Context, filter repositories.PopupFilter) ([]*models.MarketingPopup, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.MarketingPopup), args.Get(1).(int64), args.Error(2)
}

func (m *MockPopupRepository) GetActive(ctx context.Context, now time.Time) (*models.MarketingPopup, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketingPopup), args.Error(1)
}

func (m *MockPopupRepository) TrackShow(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPopupRepository) TrackClick(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPopupRepository) CountActive(ctx context.Context, now time.Time) (int64, int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Create(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.ProductStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]*models.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockResearchProductRepository struct{ mock.Mock }

func (m *MockResearchProductRepository) Create(ctx context.Context, p *models.ResearchProduct) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockResearchProductRepository) GetByID(ctx context.Context, id int64) (*models.ResearchProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResearchProduct), args.Error(1)
}

func (m *MockResearchProductRepository) Update(ctx context.Context, p *models.ResearchProduct) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockResearchProductRepository) UpdateStatus(ctx context.Context, id int64, status models.ResearchProductStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockResearchProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockResearchProductRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.ResearchProductStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResearchProductRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResearchProductRepository) List(ctx context.Context, filter repositories.ResearchProductFilter) ([]*models.ResearchProduct, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ResearchProduct), args.Get(1).(int64), args.Error(2)
}

func (m *MockResearchProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockResearchProductRepository) NameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockResearchProductRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockEducationRepository struct{ mock.Mock }

func (m *MockEducationRepository) Create(ctx context.Context, e *models.Education) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEducationRepository) GetByID(ctx context.Context, id int64) (*models.Education, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Education), args.Error(1)
}

func (m *MockEducationRepository) Update(ctx context.Context, e *models.Education) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEducationRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *MockEducationRepository) IncrementViews(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEducationRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEducationRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEducationRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.EducationStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEducationRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEducationRepository) List(ctx context.Context, filter repositories.EducationFilter) ([]*models.Education, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Education), args.Get(1).(int64), args.Error(2)
}

func (m *MockEducationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockSearchRepository struct{ mock.Mock }

func (m *MockSearchRepository) hits(ctx context.Context, name string, term string, limit int) ([]dto.SearchHit, error) {
	args := m.MethodCalled(name, ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SearchHit), args.Error(1)
}

func (m *MockSearchRepository) SearchSuppliers(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	return m.hits(ctx, "SearchSuppliers", term, limit)
}

func (m *MockSearchRepository) SearchVisitors(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	return m.hits(ctx, "SearchVisitors", term, limit)
}

func (m *MockSearchRepository) SearchResearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	return m.hits(ctx, "SearchResearchProducts", term, limit)
}

func (m *MockSearchRepository) SearchProducts(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	return m.hits(ctx, "SearchProducts", term, limit)
}

func (m *MockSearchRepository) SearchEducation(ctx context.Context, term string, limit int) ([]dto.SearchHit, error) {
	return m.hits(ctx, "SearchEducation", term, limit)
}

type MockSupportTicketRepository struct{ mock.Mock }

func (m *MockSupportTicketRepository) Create(ctx context.Context, t *models.SupportTicket, first *models.SupportTicketMessage) error {
	return m.Called(ctx, t, first).Error(0)
}

func (m *MockSupportTicketRepository) GetByID(ctx context.Context, id int64) (*models.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *MockSupportTicketRepository) Update(ctx context.Context, t *models.SupportTicket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockSupportTicketRepository) UpdateStatus(ctx context.Context, id int64, status models.TicketStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockSupportTicketRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSupportTicketRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.TicketStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupportTicketRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupportTicketRepository) List(ctx context.Context, filter repositories.TicketFilter) ([]*models.SupportTicket, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.SupportTicket), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupportTicketRepository) AddMessage(ctx context.Context, msg *models.SupportTicketMessage, status models.TicketStatus) error {
	return m.Called(ctx, msg, status).Error(0)
}

func (m *MockSupportTicketRepository) ListMessages(ctx context.Context, ticketID int64) ([]*models.SupportTicketMessage, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupportTicketMessage), args.Error(1)
}

func (m *MockSupportTicketRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockLicenseRepository struct{ mock.Mock }

func (m *MockLicenseRepository) Create(ctx context.Context, l *models.License) (bool, error) {
	args := m.Called(ctx, l)
	return args.Bool(0), args.Error(1)
}

func (m *MockLicenseRepository) license(args mock.Arguments) (*models.License, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockLicenseRepository) GetByID(ctx context.Context, id int64) (*models.License, error) {
	return m.license(m.Called(ctx, id))
}

func (m *MockLicenseRepository) GetByCode(ctx context.Context, code string) (*models.License, error) {
	return m.license(m.Called(ctx, code))
}

func (m *MockLicenseRepository) GetLatestForUser(ctx context.Context, userID int64) (*models.License, error) {
	return m.license(m.Called(ctx, userID))
}

func (m *MockLicenseRepository) Activate(ctx context.Context, l *models.License) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLicenseRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLicenseRepository) List(ctx context.Context, filter repositories.LicenseFilter) ([]*models.License, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.License), args.Get(1).(int64), args.Error(2)
}

func (m *MockLicenseRepository) Stats(ctx context.Context) (*repositories.LicenseStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.LicenseStats), args.Error(1)
}

// --- collaborators ---

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockPusher struct{ mock.Mock }

func (m *MockPusher) BroadcastToRoom(message *websocket.Message) bool {
	return m.Called(message).Bool(0)
}

func (m *MockPusher) BroadcastToAll(message *websocket.Message) bool {
	return m.Called(message).Bool(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendNotificationEmail(toEmail, toName, title, message, actionURL string) error {
	return m.Called(toEmail, toName, title, message, actionURL).Error(0)
}

func (m *MockEmailService) SendWelcomeEmail(toEmail, toName string) error {
	return m.Called(toEmail, toName).Error(0)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	args := m.Called(fileHeader, path)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(fileURL string) error {
	return m.Called(fileURL).Error(0)
}

func (m *MockFileStorage) GetFullPath(fileURL string) (string, error) {
	args := m.Called(fileURL)
	return args.String(0), args.Error(1)
}

var (
	_ repositories.IUserRepository             = (*MockUserRepository)(nil)
	_ repositories.ITokenRepository            = (*MockTokenRepository)(nil)
	_ repositories.ISupplierRepository         = (*MockSupplierRepository)(nil)
	_ repositories.IVisitorRepository          = (*MockVisitorRepository)(nil)
	_ repositories.IMatchingRepository         = (*MockMatchingRepository)(nil)
	_ repositories.IMatchingResponseRepository = (*MockMatchingResponseRepository)(nil)
	_ repositories.IChatRepository             = (*MockChatRepository)(nil)
	_ repositories.INotificationRepository     = (*MockNotificationRepository)(nil)
	_ repositories.IPopupRepository            = (*MockPopupRepository)(nil)
	_ repositories.IProductRepository          = (*MockProductRepository)(nil)
	_ repositories.IResearchProductRepository  = (*MockResearchProductRepository)(nil)
	_ repositories.IEducationRepository        = (*MockEducationRepository)(nil)
	_ repositories.ISearchRepository           = (*MockSearchRepository)(nil)
	_ repositories.ISupportTicketRepository    = (*MockSupportTicketRepository)(nil)
	_ repositories.ILicenseRepository          = (*MockLicenseRepository)(nil)
	_ Notifier                                 = (*MockNotifier)(nil)
	_ LivePusher                               = (*MockPusher)(nil)
)
