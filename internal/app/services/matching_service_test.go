package services

import (
	"context"
	"testing"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type matchingFixture struct {
	repo      *MockMatchingRepository
	responses *MockMatchingResponseRepository
	chats     *MockChatRepository
	suppliers *MockSupplierRepository
	visitors  *MockVisitorRepository
	notifier  *MockNotifier
	now       time.Time
	svc       *matchingServiceImpl
}

func newMatchingFixture() *matchingFixture {
	f := &matchingFixture{
		repo:      new(MockMatchingRepository),
		responses: new(MockMatchingResponseRepository),
		chats:     new(MockChatRepository),
		suppliers: new(MockSupplierRepository),
		visitors:  new(MockVisitorRepository),
		notifier:  new(MockNotifier),
		now:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewMatchingService(f.repo, f.responses, f.chats, f.suppliers, f.visitors, f.notifier, 2, zerolog.Nop()).(*matchingServiceImpl)
	f.svc.clock = func() time.Time { return f.now }
	return f
}

func (f *matchingFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.responses.AssertExpectations(t)
	f.chats.AssertExpectations(t)
	f.suppliers.AssertExpectations(t)
	f.visitors.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestMatchingCreate_NotifiesRankedVisitors(t *testing.T) {
	f := newMatchingFixture()
	ctx := context.Background()

	f.suppliers.On("GetByUserID", ctx, int64(7)).Return(&models.Supplier{ID: 70, UserID: 7, Status: models.RegistrationApproved}, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.MatchingRequest")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.MatchingRequest).ID = 100
	}).Return(nil)
	f.visitors.On("ListApproved", ctx).Return([]*models.Visitor{
		{ID: 1, UserID: 11, DestinationCities: "Iraq"},
		{ID: 2, UserID: 12, DestinationCities: "UAE", InterestedProducts: "saffron"},
		{ID: 3, UserID: 13, DestinationCities: "UAE"},
		{ID: 4, UserID: 14, DestinationCities: "UAE", LanguageLevel: models.LanguageGood},
	}, nil)
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotificationMatching && n.UserID != nil && (*n.UserID == 12 || *n.UserID == 14)
	})).Return(nil).Twice()
	f.repo.On("UpdateMatchResult", ctx, int64(100), 2, models.MatchingActive).Return(nil)

	out, err := f.svc.Create(ctx, 7, &dto.MatchingRequestInput{
		ProductName:          " Saffron ",
		DestinationCountries: "UAE",
		Quantity:             "100",
		Unit:                 "kg",
		Price:                "1200",
		ExpiresAt:            f.now.Add(48 * time.Hour),
	})

	require.NoError(t, err)
	require.Len(t, out.MatchedVisitor, 2)
	assert.Equal(t, int64(2), out.MatchedVisitor[0].VisitorID)
	assert.Equal(t, int64(4), out.MatchedVisitor[1].VisitorID)
	assert.Equal(t, models.MatchingActive, out.Request.Status)
	assert.Equal(t, "USD", out.Request.Currency)
	assert.Equal(t, "Saffron", out.Request.ProductName)
	assert.Equal(t, int64(48*3600), out.Request.RemainingSeconds)
	f.assertExpectations(t)
}

func TestMatchingCreate_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("past deadline", func(t *testing.T) {
		f := newMatchingFixture()
		_, err := f.svc.Create(ctx, 7, &dto.MatchingRequestInput{ExpiresAt: f.now.Add(-time.Minute)})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		f.assertExpectations(t)
	})

	t.Run("supplier not approved", func(t *testing.T) {
		f := newMatchingFixture()
		f.suppliers.On("GetByUserID", ctx, int64(7)).Return(&models.Supplier{ID: 70, Status: models.RegistrationPending}, nil)
		_, err := f.svc.Create(ctx, 7, &dto.MatchingRequestInput{ExpiresAt: f.now.Add(time.Hour)})
		assert.ErrorIs(t, err, apperrors.ErrNotApproved)
		f.assertExpectations(t)
	})
}

func TestMatchingRespond_AcceptOpensChat(t *testing.T) {
	f := newMatchingFixture()
	ctx := context.Background()

	f.visitors.On("GetByUserID", ctx, int64(12)).Return(&models.Visitor{ID: 2, UserID: 12, FullName: "Sara", Status: models.RegistrationApproved}, nil)
	f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{
		ID: 100, UserID: 7, ProductName: "Saffron", Status: models.MatchingActive, ExpiresAt: f.now.Add(time.Hour),
	}, nil)
	f.responses.On("AcceptRequest", ctx, mock.MatchedBy(func(r *models.MatchingResponse) bool {
		return r.MatchingRequestID == 100 && r.VisitorID == 2 && r.ResponseType == models.ResponseAccepted
	}), f.now).Return(nil)
	f.chats.On("CreateChat", ctx, mock.MatchedBy(func(c *models.MatchingChat) bool {
		return c.SupplierUserID == 7 && c.VisitorUserID == 12 && c.IsActive
	})).Return(nil)
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return *n.UserID == 7 && n.Title == "درخواست Matching شما پذیرفته شد"
	})).Return(nil)

	resp, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "accepted"})

	require.NoError(t, err)
	assert.Equal(t, "Sara", resp.VisitorName)
	f.assertExpectations(t)
}

func TestMatchingRespond_Rejections(t *testing.T) {
	ctx := context.Background()
	approved := &models.Visitor{ID: 2, UserID: 12, Status: models.RegistrationApproved}

	t.Run("question without message", func(t *testing.T) {
		f := newMatchingFixture()
		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "question", Message: "  "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		f.assertExpectations(t)
	})

	t.Run("expired", func(t *testing.T) {
		f := newMatchingFixture()
		f.visitors.On("GetByUserID", ctx, int64(12)).Return(approved, nil)
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{
			ID: 100, Status: models.MatchingActive, ExpiresAt: f.now.Add(-time.Second),
		}, nil)
		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "rejected"})
		assert.ErrorIs(t, err, apperrors.ErrRequestExpired)
		f.assertExpectations(t)
	})

	t.Run("already accepted", func(t *testing.T) {
		f := newMatchingFixture()
		f.visitors.On("GetByUserID", ctx, int64(12)).Return(approved, nil)
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{
			ID: 100, Status: models.MatchingAccepted, AcceptedVisitorID: int64Ptr(9), ExpiresAt: f.now.Add(time.Hour),
		}, nil)
		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "accepted"})
		assert.ErrorIs(t, err, apperrors.ErrRequestNotOpen)
		f.assertExpectations(t)
	})

	t.Run("lost a concurrent acceptance", func(t *testing.T) {
		f := newMatchingFixture()
		f.visitors.On("GetByUserID", ctx, int64(12)).Return(approved, nil)
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{
			ID: 100, UserID: 7, Status: models.MatchingActive, ExpiresAt: f.now.Add(time.Hour),
		}, nil)
		f.responses.On("AcceptRequest", ctx, mock.AnythingOfType("*models.MatchingResponse"), f.now).
			Return(apperrors.ErrRequestNotOpen)

		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "accepted"})

		assert.ErrorIs(t, err, apperrors.ErrRequestNotOpen)
		f.responses.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
		f.chats.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("rejection is stored without accepting", func(t *testing.T) {
		f := newMatchingFixture()
		f.visitors.On("GetByUserID", ctx, int64(12)).Return(approved, nil)
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{
			ID: 100, UserID: 7, Status: models.MatchingActive, ExpiresAt: f.now.Add(time.Hour),
		}, nil)
		f.responses.On("CreateResponse", ctx, mock.MatchedBy(func(r *models.MatchingResponse) bool {
			return r.ResponseType == models.ResponseRejected
		})).Return(nil)

		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "rejected"})

		require.NoError(t, err)
		f.responses.AssertNotCalled(t, "AcceptRequest", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("visitor pending", func(t *testing.T) {
		f := newMatchingFixture()
		f.visitors.On("GetByUserID", ctx, int64(12)).Return(&models.Visitor{ID: 2, Status: models.RegistrationPending}, nil)
		_, err := f.svc.Respond(ctx, 12, 100, &dto.RespondMatchingRequest{ResponseType: "rejected"})
		assert.ErrorIs(t, err, apperrors.ErrNotApproved)
		f.assertExpectations(t)
	})
}

func TestMatchingRate(t *testing.T) {
	ctx := context.Background()
	accepted := &models.MatchingRequest{ID: 100, UserID: 7, Status: models.MatchingCompleted, AcceptedVisitorID: int64Ptr(2)}

	t.Run("supplier rates visitor", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(accepted, nil)
		f.visitors.On("GetByID", ctx, int64(2)).Return(&models.Visitor{ID: 2, UserID: 12}, nil)
		f.responses.On("CreateRating", ctx, mock.AnythingOfType("*models.MatchingRating")).Return(nil)

		rating, err := f.svc.Rate(ctx, 7, 100, &dto.RateMatchingRequest{Rating: 5, Comment: " great "})

		require.NoError(t, err)
		assert.Equal(t, models.PartySupplier, rating.RaterType)
		assert.Equal(t, models.PartyVisitor, rating.RatedType)
		assert.Equal(t, int64(12), rating.RatedID)
		assert.Equal(t, "great", rating.Comment)
		f.assertExpectations(t)
	})

	t.Run("outsider", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(accepted, nil)
		f.visitors.On("GetByID", ctx, int64(2)).Return(&models.Visitor{ID: 2, UserID: 12}, nil)

		_, err := f.svc.Rate(ctx, 99, 100, &dto.RateMatchingRequest{Rating: 3})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		f.assertExpectations(t)
	})

	t.Run("open request", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{ID: 100, Status: models.MatchingActive}, nil)

		_, err := f.svc.Rate(ctx, 7, 100, &dto.RateMatchingRequest{Rating: 3})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.assertExpectations(t)
	})

	t.Run("out of range", func(t *testing.T) {
		f := newMatchingFixture()
		_, err := f.svc.Rate(ctx, 7, 100, &dto.RateMatchingRequest{Rating: 6})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestMatchingExtend_ReopensExpired(t *testing.T) {
	f := newMatchingFixture()
	ctx := context.Background()
	until := f.now.Add(72 * time.Hour)

	f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{ID: 100, UserID: 7, Status: models.MatchingExpired}, nil)
	f.repo.On("Extend", ctx, int64(100), until, models.MatchingActive).Return(nil)

	out, err := f.svc.Extend(ctx, 7, 100, until)

	require.NoError(t, err)
	assert.Equal(t, models.MatchingActive, out.Status)
	assert.False(t, out.IsExpired)
	f.assertExpectations(t)
}

func TestMatchingCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("other supplier", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{ID: 100, UserID: 8, Status: models.MatchingActive}, nil)
		assert.ErrorIs(t, f.svc.Cancel(ctx, 7, 100), apperrors.ErrPermissionDenied)
	})

	t.Run("accepted", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{ID: 100, UserID: 7, Status: models.MatchingAccepted}, nil)
		assert.ErrorIs(t, f.svc.Cancel(ctx, 7, 100), apperrors.ErrConflict)
	})

	t.Run("active", func(t *testing.T) {
		f := newMatchingFixture()
		f.repo.On("GetByID", ctx, int64(100)).Return(&models.MatchingRequest{ID: 100, UserID: 7, Status: models.MatchingActive}, nil)
		f.repo.On("UpdateStatus", ctx, int64(100), models.MatchingCancelled).Return(nil)
		require.NoError(t, f.svc.Cancel(ctx, 7, 100))
		f.assertExpectations(t)
	})
}

func TestMatchingExpireOverdue(t *testing.T) {
	f := newMatchingFixture()
	ctx := context.Background()
	f.repo.On("ExpireOverdue", ctx, f.now).Return(int64(3), nil)

	n, err := f.svc.ExpireOverdue(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	f.assertExpectations(t)
}

func TestMatchingRunExpiryJob_StopsWithContext(t *testing.T) {
	f := newMatchingFixture()
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	f.repo.On("ExpireOverdue", ctx, f.now).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}).Return(int64(0), nil)

	done := make(chan struct{})
	go func() {
		f.svc.RunExpiryJob(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expiry job did not run immediately")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry job did not stop")
	}
}
