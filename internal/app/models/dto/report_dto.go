package dto

import "time"

// EntityCounts is a total with a per-status breakdown
type EntityCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// NewEntityCounts sums byStatus into a total
func NewEntityCounts(byStatus map[string]int64) EntityCounts {
	var total int64
	for _, n := range byStatus {
		total += n
	}
	if byStatus == nil {
		byStatus = map[string]int64{}
	}
	return EntityCounts{Total: total, ByStatus: byStatus}
}

// SummaryReport is the admin dashboard
type SummaryReport struct {
	Users            EntityCounts `json:"users"`
	Suppliers        EntityCounts `json:"suppliers"`
	Visitors         EntityCounts `json:"visitors"`
	MatchingRequests EntityCounts `json:"matchingRequests"`
	ResearchProducts EntityCounts `json:"researchProducts"`
	Education        EntityCounts `json:"education"`
	Products         EntityCounts `json:"products"`
	Notifications    EntityCounts `json:"notifications"`
	Popups           EntityCounts `json:"popups"`
	SupportTickets   EntityCounts `json:"supportTickets"`
	GeneratedAt      time.Time    `json:"generatedAt"`
}
