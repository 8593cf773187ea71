package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validEducationRequest() *dto.EducationRequest {
	return &dto.EducationRequest{
		Title:       "Export basics",
		Description: "How to price goods for Gulf markets",
		Category:    "course",
		Tags:        []string{" export ", "", "export", "gulf"},
	}
}

func TestEducationCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())
	repo.On("Create", ctx, mock.AnythingOfType("*models.Education")).Return(nil).Once()

	req := validEducationRequest()
	req.Price = 150000
	e, err := svc.Create(ctx, req, 3)

	require.NoError(t, err)
	assert.Equal(t, models.EducationDraft, e.Status)
	assert.Equal(t, "beginner", e.Level)
	assert.True(t, e.IsFree)
	assert.Zero(t, e.Price)
	assert.Equal(t, []string{"export", "gulf"}, e.Tags)
	require.NotNil(t, e.CreatedBy)
	assert.Equal(t, int64(3), *e.CreatedBy)
	repo.AssertExpectations(t)
}

func TestEducationCreate_PaidKeepsPrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())
	repo.On("Create", ctx, mock.AnythingOfType("*models.Education")).Return(nil).Once()

	paid := false
	req := validEducationRequest()
	req.IsFree = &paid
	req.Price = 150000
	req.Level = "advanced"
	e, err := svc.Create(ctx, req, 3)

	require.NoError(t, err)
	assert.False(t, e.IsFree)
	assert.Equal(t, int64(150000), e.Price)
	assert.Equal(t, "advanced", e.Level)
}

func TestEducationCreate_InvalidIsNotStored(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())

	req := validEducationRequest()
	req.Title = "Hi"
	_, err := svc.Create(ctx, req, 3)

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEducationUpdate_FreeForcesZeroPrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())
	repo.On("GetByID", ctx, int64(4)).Return(&models.Education{ID: 4, IsFree: false, Price: 90000, Status: models.EducationPublished}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(e *models.Education) bool {
		return e.ID == 4 && e.IsFree && e.Price == 0
	})).Return(nil)

	free := true
	req := validEducationRequest()
	req.IsFree = &free
	req.Price = 90000
	req.Status = "published"
	e, err := svc.Update(ctx, 4, req)

	require.NoError(t, err)
	assert.Equal(t, models.EducationPublished, e.Status)
	repo.AssertExpectations(t)
}

func TestEducationView_CountsViews(t *testing.T) {
	ctx := context.Background()

	t.Run("published", func(t *testing.T) {
		repo := new(MockEducationRepository)
		svc := NewEducationService(repo, nil, zerolog.Nop())
		repo.On("GetByID", ctx, int64(1)).Return(&models.Education{ID: 1, Status: models.EducationPublished, Views: 9}, nil)
		repo.On("IncrementViews", ctx, int64(1)).Return(nil).Once()

		e, err := svc.View(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(10), e.Views)
		repo.AssertExpectations(t)
	})

	t.Run("counter failure still returns the item", func(t *testing.T) {
		repo := new(MockEducationRepository)
		svc := NewEducationService(repo, nil, zerolog.Nop())
		repo.On("GetByID", ctx, int64(1)).Return(&models.Education{ID: 1, Status: models.EducationPublished, Views: 9}, nil)
		repo.On("IncrementViews", ctx, int64(1)).Return(errors.New("db down"))

		e, err := svc.View(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(9), e.Views)
	})

	t.Run("draft is hidden", func(t *testing.T) {
		repo := new(MockEducationRepository)
		svc := NewEducationService(repo, nil, zerolog.Nop())
		repo.On("GetByID", ctx, int64(2)).Return(&models.Education{ID: 2, Status: models.EducationDraft}, nil)

		_, err := svc.View(ctx, 2)

		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestEducationLike(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())
	repo.On("GetByID", ctx, int64(1)).Return(&models.Education{ID: 1, Status: models.EducationPublished, Likes: 4}, nil)
	repo.On("IncrementLikes", ctx, int64(1)).Return(int64(5), nil)

	res, err := svc.Like(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, &dto.LikeResponse{Likes: 5}, res)
}

func TestEducationBulkUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEducationRepository)
	svc := NewEducationService(repo, nil, zerolog.Nop())
	repo.On("BulkUpdateStatus", ctx, []int64{1, 2, 3}, models.EducationArchived).Return(int64(2), nil)

	res, err := svc.BulkUpdateStatus(ctx, []int64{1, 2, 3}, "archived")
	require.NoError(t, err)
	assert.Equal(t, &dto.BulkResult{Requested: 3, Affected: 2}, res)

	_, err = svc.BulkUpdateStatus(ctx, []int64{1}, "deleted")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
