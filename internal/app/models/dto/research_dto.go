package dto

// ResearchProductRequest creates or replaces a research product
type ResearchProductRequest struct {
	Name               string `json:"name" binding:"required,max=255"`
	HSCode             string `json:"hsCode" binding:"omitempty,hs_code"`
	Category           string `json:"category" binding:"required,max=100"`
	Description        string `json:"description" binding:"max=5000"`
	ExportValue        string `json:"exportValue" binding:"max=100"`
	ImportValue        string `json:"importValue" binding:"max=100"`
	MarketDemand       string `json:"marketDemand" binding:"omitempty,oneof=high medium low"`
	ProfitPotential    string `json:"profitPotential" binding:"omitempty,oneof=high medium low"`
	CompetitionLevel   string `json:"competitionLevel" binding:"omitempty,oneof=high medium low"`
	TargetCountry      string `json:"targetCountry" binding:"max=100"`
	IranPurchasePrice  string `json:"iranPurchasePrice" binding:"max=50"`
	TargetCountryPrice string `json:"targetCountryPrice" binding:"max=50"`
	PriceCurrency      string `json:"priceCurrency" binding:"omitempty,len=3"`
	TargetCountries    string `json:"targetCountries" binding:"max=1000"`
	SeasonalFactors    string `json:"seasonalFactors" binding:"max=2000"`
	RequiredLicenses   string `json:"requiredLicenses" binding:"max=2000"`
	QualityStandards   string `json:"qualityStandards" binding:"max=2000"`
	Status             string `json:"status" binding:"omitempty,oneof=active inactive"`
	Priority           int    `json:"priority" binding:"min=0,max=1000"`
}
