package services

import (
	"sort"
	"strings"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
)

// Score weights of the visitor matching
const (
	scoreCountry           = 50
	scoreProductInterest   = 30
	scoreLanguageExcellent = 20
	scoreLanguageGood      = 15
	scoreLanguageWeak      = 10
	scoreMarketing         = 10
	scoreFeatured          = 5
	scoreRecentlyApproved  = 5

	recentApprovalWindow = 30 * 24 * time.Hour
)

// splitTerms splits on commas, or on whitespace when there is no comma
func splitTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	if len(parts) == 1 {
		parts = strings.Fields(raw)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ScoreVisitor rates how well v fits req at now. Zero means no country overlap.
func ScoreVisitor(req *models.MatchingRequest, v *models.Visitor, now time.Time) int {
	if !sharesCountry(splitTerms(req.DestinationCountries), splitTerms(v.DestinationCities)) {
		return 0
	}
	score := scoreCountry

	product := strings.ToLower(strings.TrimSpace(req.ProductName))
	if product != "" {
		for _, interest := range splitTerms(v.InterestedProducts) {
			interest = strings.ToLower(interest)
			if strings.Contains(interest, product) || strings.Contains(product, interest) {
				score += scoreProductInterest
				break
			}
		}
	}

	switch models.LanguageLevel(strings.ToLower(string(v.LanguageLevel))) {
	case models.LanguageExcellent:
		score += scoreLanguageExcellent
	case models.LanguageGood:
		score += scoreLanguageGood
	case models.LanguageWeak:
		score += scoreLanguageWeak
	}

	if v.HasMarketingExperience {
		score += scoreMarketing
	}
	if v.IsFeatured {
		score += scoreFeatured
	}
	if v.ApprovedAt != nil && now.Sub(*v.ApprovedAt) < recentApprovalWindow {
		score += scoreRecentlyApproved
	}
	return score
}

func sharesCountry(requested, covered []string) bool {
	for _, r := range requested {
		for _, c := range covered {
			if strings.EqualFold(r, c) {
				return true
			}
		}
	}
	return false
}

// RankVisitors scores every visitor, drops non-matches and returns the best
// maxResults by descending score. maxResults <= 0 means no cap.
func RankVisitors(req *models.MatchingRequest, visitors []*models.Visitor, now time.Time, maxResults int) []dto.MatchedVisitor {
	matched := make([]dto.MatchedVisitor, 0, len(visitors))
	for _, v := range visitors {
		score := ScoreVisitor(req, v, now)
		if score == 0 {
			continue
		}
		matched = append(matched, dto.MatchedVisitor{
			VisitorID: v.ID,
			UserID:    v.UserID,
			FullName:  v.FullName,
			Score:     score,
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	if maxResults > 0 && len(matched) > maxResults {
		matched = matched[:maxResults]
	}
	return matched
}
