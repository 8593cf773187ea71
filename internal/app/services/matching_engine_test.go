package services

import (
	"testing"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"UAE", "Qatar"}, splitTerms(" UAE , Qatar ,"))
	assert.Equal(t, []string{"Iraq", "Oman"}, splitTerms("Iraq  Oman"))
	assert.Empty(t, splitTerms("   "))
}

func TestScoreVisitor(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-90 * 24 * time.Hour)
	req := &models.MatchingRequest{ProductName: "Saffron", DestinationCountries: "UAE, Oman"}

	tests := []struct {
		name    string
		visitor *models.Visitor
		want    int
	}{
		{
			name:    "no country overlap",
			visitor: &models.Visitor{DestinationCities: "Iraq", InterestedProducts: "saffron", LanguageLevel: models.LanguageExcellent},
			want:    0,
		},
		{
			name:    "country only",
			visitor: &models.Visitor{DestinationCities: "uae", LanguageLevel: models.LanguageNone},
			want:    scoreCountry,
		},
		{
			name: "everything",
			visitor: &models.Visitor{
				DestinationCities:      "Qatar, Oman",
				InterestedProducts:     "dates, premium saffron",
				LanguageLevel:          models.LanguageExcellent,
				HasMarketingExperience: true,
				IsFeatured:             true,
				ApprovedAt:             &recent,
			},
			want: scoreCountry + scoreProductInterest + scoreLanguageExcellent + scoreMarketing + scoreFeatured + scoreRecentlyApproved,
		},
		{
			name:    "old approval and good language",
			visitor: &models.Visitor{DestinationCities: "Oman", LanguageLevel: "Good", ApprovedAt: &old},
			want:    scoreCountry + scoreLanguageGood,
		},
		{
			name:    "weak language",
			visitor: &models.Visitor{DestinationCities: "Oman", LanguageLevel: models.LanguageWeak},
			want:    scoreCountry + scoreLanguageWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreVisitor(req, tt.visitor, now))
		})
	}
}

func TestRankVisitors(t *testing.T) {
	now := time.Now()
	req := &models.MatchingRequest{ProductName: "dates", DestinationCountries: "Kuwait"}
	visitors := []*models.Visitor{
		{ID: 1, UserID: 11, FullName: "a", DestinationCities: "Kuwait"},
		{ID: 2, UserID: 12, FullName: "b", DestinationCities: "Bahrain"},
		{ID: 3, UserID: 13, FullName: "c", DestinationCities: "Kuwait", InterestedProducts: "dates"},
		{ID: 4, UserID: 14, FullName: "d", DestinationCities: "Kuwait"},
	}

	ranked := RankVisitors(req, visitors, now, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(3), ranked[0].VisitorID)
	// equal scores keep their input order
	assert.Equal(t, int64(1), ranked[1].VisitorID)
	assert.Equal(t, int64(4), ranked[2].VisitorID)

	capped := RankVisitors(req, visitors, now, 2)
	require.Len(t, capped, 2)
	assert.Equal(t, int64(13), capped[0].UserID)

	assert.Empty(t, RankVisitors(req, nil, now, 5))
}
