package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notificationFixture struct {
	repo   *MockNotificationRepository
	users  *MockUserRepository
	pusher *MockPusher
	mail   *MockEmailService
	svc    NotificationService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		repo:   new(MockNotificationRepository),
		users:  new(MockUserRepository),
		pusher: new(MockPusher),
		mail:   new(MockEmailService),
	}
	f.svc = NewNotificationService(f.repo, f.users, f.pusher, f.mail, zerolog.Nop())
	return f
}

// assignIDs mimics CreateMany filling in IDs for the first n items
func assignIDs(n int) func(mock.Arguments) {
	return func(args mock.Arguments) {
		for i, item := range args.Get(1).([]*models.Notification) {
			if i < n {
				item.ID = int64(100 + i)
			}
		}
	}
}

func TestNotify_PushesToRecipientRoom(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Notification).ID = 9
	}).Return(nil)
	f.pusher.On("BroadcastToRoom", mock.MatchedBy(func(m *websocket.Message) bool {
		return m.Type == websocket.MessageTypeNotification && m.RoomID == 4 && m.ID == 9
	})).Return(true)

	n := &models.Notification{UserID: int64Ptr(4), Title: "t", Message: "m"}
	require.NoError(t, f.svc.Notify(ctx, n))

	assert.Equal(t, models.NotificationInfo, n.Type)
	assert.Equal(t, models.PriorityNormal, n.Priority)
	assert.True(t, n.IsActive)
	f.pusher.AssertExpectations(t)
}

func TestBulkSend_All(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()
	f.repo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == nil && n.Title == "News"
	})).Return(nil)
	f.pusher.On("BroadcastToAll", mock.AnythingOfType("*websocket.Message")).Return(true)

	res, err := f.svc.BulkSend(ctx, &dto.BulkSendRequest{Title: "News", Message: "body", RecipientType: dto.RecipientAll}, 1)

	require.NoError(t, err)
	assert.Equal(t, &dto.BulkSendResult{Total: 1, Sent: 1}, res)
	f.repo.AssertNumberOfCalls(t, "Create", 1)
	f.users.AssertNotCalled(t, "ListActiveIDs", mock.Anything)
	f.pusher.AssertExpectations(t)
}

func TestBulkSend_SpecificDeduplicatesAndEmails(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()
	f.repo.On("CreateMany", ctx, mock.MatchedBy(func(items []*models.Notification) bool {
		return len(items) == 2 && *items[0].UserID == 3 && *items[1].UserID == 5
	})).Run(assignIDs(2)).Return(2, nil)
	f.pusher.On("BroadcastToRoom", mock.AnythingOfType("*websocket.Message")).Return(true).Twice()
	f.users.On("GetByIDs", ctx, []int64{3, 5}).Return([]*models.User{
		{ID: 3, Email: "a@x.io", FirstName: "A"},
		{ID: 5, Email: "b@x.io", FirstName: "B"},
	}, nil)
	f.mail.On("SendNotificationEmail", "a@x.io", "A", "Hi", "body", "").Return(nil)
	f.mail.On("SendNotificationEmail", "b@x.io", "B", "Hi", "body", "").Return(errors.New("bounce"))

	res, err := f.svc.BulkSend(ctx, &dto.BulkSendRequest{
		Title: "Hi", Message: "body", Type: "email", RecipientType: dto.RecipientSpecific, UserIDs: []int64{3, 5, 3},
	}, 1)

	require.NoError(t, err)
	assert.Equal(t, &dto.BulkSendResult{Total: 2, Sent: 2, Failed: 0}, res)
	f.repo.AssertExpectations(t)
	f.pusher.AssertExpectations(t)
	f.mail.AssertExpectations(t)
}

func TestBulkSend_GroupPartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()
	f.users.On("ListIDsByRole", ctx, models.RoleAdmin).Return([]int64{1, 2, 3}, nil)
	f.repo.On("CreateMany", ctx, mock.Anything).Run(assignIDs(2)).Return(2, errors.New("constraint"))
	f.pusher.On("BroadcastToRoom", mock.AnythingOfType("*websocket.Message")).Return(false).Twice()

	res, err := f.svc.BulkSend(ctx, &dto.BulkSendRequest{Title: "x", Message: "y", RecipientType: dto.RecipientGroup, Role: "admin"}, 1)

	require.NoError(t, err)
	assert.Equal(t, &dto.BulkSendResult{Total: 3, Sent: 2, Failed: 1}, res)
	f.pusher.AssertExpectations(t)
}

func TestBulkSend_Validation(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()

	_, err := f.svc.BulkSend(ctx, &dto.BulkSendRequest{Title: "x", Message: "y", RecipientType: dto.RecipientSpecific}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.BulkSend(ctx, &dto.BulkSendRequest{Title: "x", Message: "y", RecipientType: dto.RecipientGroup}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.BulkSend(ctx, &dto.BulkSendRequest{Title: " ", Message: "y", RecipientType: dto.RecipientAll}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetForUser_HidesOtherUsersNotification(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture()
	f.repo.On("GetByID", ctx, int64(1)).Return(&models.Notification{ID: 1, UserID: int64Ptr(8)}, nil)
	f.repo.On("GetByID", ctx, int64(2)).Return(&models.Notification{ID: 2}, nil)

	_, err := f.svc.GetForUser(ctx, 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	n, err := f.svc.GetForUser(ctx, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.ID)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{4, 1, 9}, uniqueIDs([]int64{4, 1, 4, 9, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
