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

func TestResearchCreate_ComputesProfitMargin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResearchProductRepository)
	svc := NewResearchProductService(repo, zerolog.Nop())
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.ResearchProduct) bool {
		return p.ProfitMargin == "50.00%"
	})).Return(nil).Once()

	p, err := svc.Create(ctx, &dto.ResearchProductRequest{
		Name:               " Saffron ",
		Category:           "Spices",
		IranPurchasePrice:  "1000",
		TargetCountryPrice: "1500",
		PriceCurrency:      "usd",
	}, 4)

	require.NoError(t, err)
	assert.Equal(t, "Saffron", p.Name)
	assert.Equal(t, "USD", p.PriceCurrency)
	assert.Equal(t, models.ResearchActive, p.Status)
	assert.Equal(t, models.LevelMedium, p.MarketDemand)
	require.NotNil(t, p.AddedBy)
	assert.Equal(t, int64(4), *p.AddedBy)
	repo.AssertExpectations(t)
}

func TestResearchCreate_MissingCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResearchProductRepository)
	svc := NewResearchProductService(repo, zerolog.Nop())

	_, err := svc.Create(ctx, &dto.ResearchProductRequest{Name: "Saffron", Category: "  "}, 4)

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResearchUpdate_RecomputesProfitMargin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		iran       string
		target     string
		wantMargin string
	}{
		{"new prices", "200", "150", "-25.00%"},
		{"zero purchase price clears margin", "0", "150", ""},
		{"unparsable price clears margin", "n/a", "150", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockResearchProductRepository)
			svc := NewResearchProductService(repo, zerolog.Nop())
			repo.On("GetByID", ctx, int64(6)).Return(&models.ResearchProduct{
				ID: 6, Name: "Dates", Category: "Fruit",
				IranPurchasePrice: "100", TargetCountryPrice: "300", ProfitMargin: "200.00%",
			}, nil)
			repo.On("Update", ctx, mock.AnythingOfType("*models.ResearchProduct")).Return(nil)

			p, err := svc.Update(ctx, 6, &dto.ResearchProductRequest{
				Name: "Dates", Category: "Fruit", IranPurchasePrice: tt.iran, TargetCountryPrice: tt.target,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantMargin, p.ProfitMargin)
			repo.AssertExpectations(t)
		})
	}
}

func TestResearchGetActive_HidesInactive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResearchProductRepository)
	svc := NewResearchProductService(repo, zerolog.Nop())
	repo.On("GetByID", ctx, int64(2)).Return(&models.ResearchProduct{ID: 2, Status: models.ResearchInactive}, nil)

	_, err := svc.GetActive(ctx, 2)

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
