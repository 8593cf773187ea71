package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type licenseFixture struct {
	repo     *MockLicenseRepository
	notifier *MockNotifier
	now      time.Time
	svc      *licenseServiceImpl
}

func newLicenseFixture() *licenseFixture {
	f := &licenseFixture{
		repo:     new(MockLicenseRepository),
		notifier: new(MockNotifier),
		now:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewLicenseService(f.repo, f.notifier, zerolog.Nop()).(*licenseServiceImpl)
	f.svc.clock = func() time.Time { return f.now }
	return f
}

func TestLicenseVerify_ActivatesCode(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	f.repo.On("GetLatestForUser", ctx, int64(5)).Return(nil, apperrors.ErrResourceNotFound)
	f.repo.On("GetByCode", ctx, "ASL-AAAA-BBBB-CCCC-DDDD").Return(&models.License{ID: 4, Code: "ASL-AAAA-BBBB-CCCC-DDDD", Type: models.LicensePlus4}, nil)
	f.repo.On("Activate", ctx, mock.MatchedBy(func(l *models.License) bool {
		return l.ID == 4 && l.IsUsed && l.UsedBy != nil && *l.UsedBy == 5 && l.Duration == 4
	})).Return(nil)
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotificationSuccess && n.UserID != nil && *n.UserID == 5
	})).Return(nil)

	status, err := f.svc.Verify(ctx, 5, &dto.VerifyLicenseRequest{License: " asl-aaaa-bbbb-cccc-dddd "})

	require.NoError(t, err)
	assert.True(t, status.HasLicense)
	assert.True(t, status.IsActive)
	require.NotNil(t, status.ExpiresAt)
	assert.Equal(t, time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC), *status.ExpiresAt)
	assert.Equal(t, 122, status.RemainingDays)
	assert.Zero(t, status.RemainingHours)
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestLicenseVerify_RunningLicenseBlocksAnother(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()
	expires := f.now.Add(24 * time.Hour)

	f.repo.On("GetLatestForUser", ctx, int64(5)).Return(&models.License{ID: 1, IsUsed: true, ExpiresAt: &expires}, nil)

	_, err := f.svc.Verify(ctx, 5, &dto.VerifyLicenseRequest{License: "ASL-AAAA-BBBB-CCCC-DDDD"})

	assert.ErrorIs(t, err, apperrors.ErrLicenseActive)
	f.repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestLicenseVerify_ExpiredLicenseAllowsAnother(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()
	expired := f.now.Add(-time.Hour)

	f.repo.On("GetLatestForUser", ctx, int64(5)).Return(&models.License{ID: 1, IsUsed: true, ExpiresAt: &expired}, nil)
	f.repo.On("GetByCode", ctx, "ASL-1").Return(&models.License{ID: 2, Type: models.LicensePro, Duration: 30}, nil)
	f.repo.On("Activate", ctx, mock.AnythingOfType("*models.License")).Return(nil)
	f.notifier.On("Notify", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	status, err := f.svc.Verify(ctx, 5, &dto.VerifyLicenseRequest{License: "asl-1"})

	require.NoError(t, err)
	assert.Equal(t, models.LicensePro, status.Type)
}

func TestLicenseVerify_RejectsUnusableCodes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		license *models.License
		err     error
	}{
		{"unknown code", nil, apperrors.ErrResourceNotFound},
		{"already used", &models.License{ID: 3, IsUsed: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLicenseFixture()
			f.repo.On("GetLatestForUser", ctx, int64(5)).Return(nil, apperrors.ErrResourceNotFound)
			f.repo.On("GetByCode", ctx, "ASL-X").Return(tt.license, tt.err)

			_, err := f.svc.Verify(ctx, 5, &dto.VerifyLicenseRequest{License: "ASL-X"})

			assert.ErrorIs(t, err, apperrors.ErrLicenseInvalid)
			f.repo.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
		})
	}
}

func TestLicenseStatus_NoLicense(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	f.repo.On("GetLatestForUser", ctx, int64(5)).Return(nil, apperrors.ErrResourceNotFound)

	status, err := f.svc.Status(ctx, 5)

	require.NoError(t, err)
	assert.False(t, status.HasLicense)
	assert.False(t, status.IsActive)
}

func TestLicenseGenerate_RetriesTakenCodes(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	var n int
	f.svc.newCode = func() (string, error) {
		n++
		return fmt.Sprintf("ASL-%04d", n), nil
	}
	f.repo.On("Create", ctx, mock.MatchedBy(func(l *models.License) bool { return l.Code == "ASL-0001" })).Return(false, nil).Once()
	f.repo.On("Create", ctx, mock.MatchedBy(func(l *models.License) bool {
		return l.Code != "ASL-0001" && l.Type == models.LicensePlus && l.Duration == 12 &&
			l.GeneratedBy != nil && *l.GeneratedBy == 1
	})).Return(true, nil).Twice()

	out, err := f.svc.Generate(ctx, 1, &dto.GenerateLicensesRequest{Count: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"ASL-0002", "ASL-0003"}, out.Licenses)
	assert.Equal(t, models.LicensePlus, out.Type)
	f.repo.AssertExpectations(t)
}

func TestLicenseGenerate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	f.svc.newCode = func() (string, error) { return "ASL-SAME", nil }
	f.repo.On("Create", ctx, mock.AnythingOfType("*models.License")).Return(false, nil).Times(maxCodeAttempts)

	_, err := f.svc.Generate(ctx, 1, &dto.GenerateLicensesRequest{Count: 1, Type: "pro"})

	assert.Error(t, err)
	f.repo.AssertExpectations(t)
}

func TestLicenseGenerate_Validation(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, 1, &dto.GenerateLicensesRequest{Count: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Generate(ctx, 1, &dto.GenerateLicensesRequest{Count: 101})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Generate(ctx, 1, &dto.GenerateLicensesRequest{Count: 1, Type: "gold"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLicenseList_StatusFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		f := newLicenseFixture()
		f.repo.On("List", ctx, mock.MatchedBy(func(lf repositories.LicenseFilter) bool {
			return lf.Used != nil && !*lf.Used && lf.Type == models.LicensePro
		})).Return([]*models.License{{ID: 1}}, int64(1), nil)
		f.repo.On("Stats", ctx).Return(&repositories.LicenseStats{Total: 10, Used: 4, Available: 6}, nil)

		out, err := f.svc.List(ctx, LicenseListQuery{ListQuery: ListQuery{Status: "Available"}, Type: "pro"})

		require.NoError(t, err)
		assert.Equal(t, int64(6), out.Available)
		assert.Equal(t, int64(1), out.Pagination.TotalItems)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newLicenseFixture()
		_, err := f.svc.List(ctx, LicenseListQuery{ListQuery: ListQuery{Status: "expired"}})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestLicenseRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("used license", func(t *testing.T) {
		f := newLicenseFixture()
		f.repo.On("GetByID", ctx, int64(3)).Return(&models.License{ID: 3, IsUsed: true}, nil)

		assert.ErrorIs(t, f.svc.Revoke(ctx, 3), apperrors.ErrLicenseUsed)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused license", func(t *testing.T) {
		f := newLicenseFixture()
		f.repo.On("GetByID", ctx, int64(3)).Return(&models.License{ID: 3}, nil)
		f.repo.On("Delete", ctx, int64(3)).Return(nil)

		require.NoError(t, f.svc.Revoke(ctx, 3))
		f.repo.AssertExpectations(t)
	})
}
