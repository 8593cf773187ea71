package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Level is a coarse high/medium/low rating
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// ResearchProductStatus toggles visibility of a research record
type ResearchProductStatus string

const (
	ResearchActive   ResearchProductStatus = "active"
	ResearchInactive ResearchProductStatus = "inactive"
)

// DefaultResearchCategory is used when no category can be inferred
const DefaultResearchCategory = "سایر محصولات"

// ResearchProduct is an internal market-research record
type ResearchProduct struct {
	ID                 int64                 `json:"id" db:"id"`
	Name               string                `json:"name" db:"name"`
	HSCode             string                `json:"hsCode" db:"hs_code"`
	Category           string                `json:"category" db:"category"`
	Description        string                `json:"description" db:"description"`
	ExportValue        string                `json:"exportValue" db:"export_value"`
	ImportValue        string                `json:"importValue" db:"import_value"`
	MarketDemand       Level                 `json:"marketDemand" db:"market_demand"`
	ProfitPotential    Level                 `json:"profitPotential" db:"profit_potential"`
	CompetitionLevel   Level                 `json:"competitionLevel" db:"competition_level"`
	TargetCountry      string                `json:"targetCountry" db:"target_country"`
	IranPurchasePrice  string                `json:"iranPurchasePrice" db:"iran_purchase_price"`
	TargetCountryPrice string                `json:"targetCountryPrice" db:"target_country_price"`
	PriceCurrency      string                `json:"priceCurrency" db:"price_currency"`
	ProfitMargin       string                `json:"profitMargin" db:"profit_margin"`
	TargetCountries    string                `json:"targetCountries" db:"target_countries"`
	SeasonalFactors    string                `json:"seasonalFactors" db:"seasonal_factors"`
	RequiredLicenses   string                `json:"requiredLicenses" db:"required_licenses"`
	QualityStandards   string                `json:"qualityStandards" db:"quality_standards"`
	Status             ResearchProductStatus `json:"status" db:"status"`
	Priority           int                   `json:"priority" db:"priority"`
	AddedBy            *int64                `json:"addedBy,omitempty" db:"added_by"`
	CreatedAt          time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time             `json:"updatedAt" db:"updated_at"`
}

// ProfitMargin returns ((target-iran)/iran)*100 as "12.50%", or "" when
// either price is missing, unparsable, or iran is not positive.
func ProfitMargin(iranPrice, targetPrice string) string {
	iran, err := strconv.ParseFloat(strings.TrimSpace(iranPrice), 64)
	if err != nil || iran <= 0 {
		return ""
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(targetPrice), 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.2f%%", (target-iran)/iran*100)
}

// RecomputeProfitMargin refreshes ProfitMargin from the two prices
func (p *ResearchProduct) RecomputeProfitMargin() {
	p.ProfitMargin = ProfitMargin(p.IranPurchasePrice, p.TargetCountryPrice)
}
