package services

import (
	"context"
	"testing"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validVisitorRequest() *dto.RegisterVisitorRequest {
	return &dto.RegisterVisitorRequest{
		FullName:                      "Hassan",
		CityProvince:                  "Dubai, UAE",
		DestinationCities:             "Qatar، Kuwait",
		BankAccountIBAN:               "ir06 0170 0000 0012 3456 7890 01",
		LanguageLevel:                 "good",
		AgreesToUseApprovedProducts:   true,
		AgreesToViolationConsequences: true,
		AgreesToSubmitReports:         true,
	}
}

func TestVisitorRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores pending registration", func(t *testing.T) {
		repo := new(MockVisitorRepository)
		svc := NewVisitorService(repo, new(MockNotifier), zerolog.Nop())
		repo.On("GetByUserID", ctx, int64(4)).Return(nil, apperrors.ErrVisitorNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*models.Visitor")).Return(nil)

		v, err := svc.Register(ctx, 4, validVisitorRequest())

		require.NoError(t, err)
		assert.Equal(t, models.RegistrationPending, v.Status)
		assert.Equal(t, "IR060170000000123456789001", v.BankAccountIBAN)
		assert.True(t, v.AgreesToSubmitReports)
		repo.AssertExpectations(t)
	})

	rejections := []struct {
		name   string
		mutate func(r *dto.RegisterVisitorRequest)
	}{
		{"missing agreement", func(r *dto.RegisterVisitorRequest) { r.AgreesToSubmitReports = false }},
		{"iranian residence", func(r *dto.RegisterVisitorRequest) { r.CityProvince = "Tehran" }},
		{"non arabic residence", func(r *dto.RegisterVisitorRequest) { r.CityProvince = "Istanbul" }},
		{"iranian destination", func(r *dto.RegisterVisitorRequest) { r.DestinationCities = "Oman, Shiraz" }},
		{"empty destinations", func(r *dto.RegisterVisitorRequest) { r.DestinationCities = " , " }},
		{"local contact without details", func(r *dto.RegisterVisitorRequest) { r.HasLocalContact = true }},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockVisitorRepository)
			svc := NewVisitorService(repo, new(MockNotifier), zerolog.Nop())
			req := validVisitorRequest()
			tt.mutate(req)

			_, err := svc.Register(ctx, 4, req)

			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("already registered", func(t *testing.T) {
		repo := new(MockVisitorRepository)
		svc := NewVisitorService(repo, new(MockNotifier), zerolog.Nop())
		repo.On("GetByUserID", ctx, int64(4)).Return(&models.Visitor{ID: 1}, nil)

		_, err := svc.Register(ctx, 4, validVisitorRequest())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	})
}

func TestVisitorApprove_NotifiesOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVisitorRepository)
	notifier := new(MockNotifier)
	svc := NewVisitorService(repo, notifier, zerolog.Nop())

	repo.On("Review", ctx, int64(2), models.RegistrationApproved, "ok", int64(1)).Return(nil)
	repo.On("GetByID", ctx, int64(2)).Return(&models.Visitor{ID: 2, UserID: 12, Status: models.RegistrationApproved}, nil)
	notifier.On("Notify", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return *n.UserID == 12 && n.Type == models.NotificationSuccess && n.Priority == models.PriorityHigh
	})).Return(nil)

	v, err := svc.Approve(ctx, 2, 1, " ok ")

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, v.Status)
	notifier.AssertExpectations(t)
}

func TestSupplierRegister(t *testing.T) {
	ctx := context.Background()
	req := &dto.RegisterSupplierRequest{
		SupplierDetails: dto.SupplierDetails{FullName: " Reza ", City: "Shiraz", WholesaleMinPrice: "10"},
		Products:        []dto.SupplierProductRequest{{ProductName: "Saffron", ProductType: "food"}},
	}

	t.Run("creates pending supplier with products", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo, new(MockFileStorage), new(MockNotifier), zerolog.Nop())
		repo.On("GetByUserID", ctx, int64(4)).Return(nil, apperrors.ErrSupplierNotFound)
		repo.On("CreateWithProducts", ctx, mock.MatchedBy(func(s *models.Supplier) bool {
			return len(s.Products) == 1 && s.Products[0].ProductType == models.ProductTypeFood
		})).Return(nil)

		s, err := svc.Register(ctx, 4, req)

		require.NoError(t, err)
		assert.Equal(t, "Reza", s.FullName)
		assert.Equal(t, models.RegistrationPending, s.Status)
		repo.AssertExpectations(t)
	})

	t.Run("no products", func(t *testing.T) {
		svc := NewSupplierService(new(MockSupplierRepository), new(MockFileStorage), new(MockNotifier), zerolog.Nop())
		_, err := svc.Register(ctx, 4, &dto.RegisterSupplierRequest{})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("already registered", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo, new(MockFileStorage), new(MockNotifier), zerolog.Nop())
		repo.On("GetByUserID", ctx, int64(4)).Return(&models.Supplier{ID: 3}, nil)

		_, err := svc.Register(ctx, 4, req)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	})
}

func TestSupplierUpdateMine_ResubmitsRejected(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, new(MockFileStorage), new(MockNotifier), zerolog.Nop())
	repo.On("GetByUserID", ctx, int64(4)).Return(&models.Supplier{ID: 3, Status: models.RegistrationRejected}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(s *models.Supplier) bool {
		return s.Status == models.RegistrationPending
	})).Return(nil)

	s, err := svc.UpdateMine(ctx, 4, &dto.UpdateSupplierRequest{SupplierDetails: dto.SupplierDetails{FullName: "Reza"}})

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, s.Status)
	repo.AssertExpectations(t)
}

func TestSupplierReject_WarnsOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	notifier := new(MockNotifier)
	svc := NewSupplierService(repo, new(MockFileStorage), notifier, zerolog.Nop())

	repo.On("Review", ctx, int64(3), models.RegistrationRejected, "missing docs", int64(1)).Return(nil)
	repo.On("GetByID", ctx, int64(3)).Return(&models.Supplier{ID: 3, UserID: 4, Status: models.RegistrationRejected}, nil)
	notifier.On("Notify", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return *n.UserID == 4 && n.Type == models.NotificationWarning
	})).Return(nil)

	_, err := svc.Reject(ctx, 3, 1, "missing docs")

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestBulkUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewVisitorService(new(MockVisitorRepository), new(MockNotifier), zerolog.Nop())
	_, err := svc.BulkUpdateStatus(ctx, []int64{1}, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
