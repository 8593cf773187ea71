package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name   string
		iran   string
		target string
		want   string
	}{
		{name: "profit", iran: "100", target: "150", want: "50.00%"},
		{name: "loss", iran: "200", target: "150", want: "-25.00%"},
		{name: "fraction", iran: "3", target: "4", want: "33.33%"},
		{name: "zero iran", iran: "0", target: "10", want: ""},
		{name: "missing target", iran: "10", target: "", want: ""},
		{name: "not a number", iran: "ten", target: "20", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfitMargin(tt.iran, tt.target))
		})
	}
}

func TestMatchingRequestOpen(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	req := &MatchingRequest{Status: MatchingActive, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, req.IsOpen(now))

	req.ExpiresAt = now
	assert.True(t, req.IsExpired(now))
	assert.False(t, req.IsOpen(now))

	req.ExpiresAt = now.Add(time.Hour)
	visitorID := int64(3)
	req.AcceptedVisitorID = &visitorID
	assert.False(t, req.IsOpen(now))

	req.AcceptedVisitorID = nil
	req.Status = MatchingCancelled
	assert.False(t, req.IsOpen(now))
}

func TestPopupStatusAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, PopupInactive, (&MarketingPopup{IsActive: false}).StatusAt(now))
	assert.Equal(t, PopupActive, (&MarketingPopup{IsActive: true}).StatusAt(now))
	assert.Equal(t, PopupScheduled, (&MarketingPopup{IsActive: true, StartDate: &future}).StatusAt(now))
	assert.Equal(t, PopupActive, (&MarketingPopup{IsActive: true, StartDate: &past, EndDate: &future}).StatusAt(now))
	assert.Equal(t, PopupInactive, (&MarketingPopup{IsActive: true, EndDate: &past}).StatusAt(now))
}

func TestPopupApplyDefaults(t *testing.T) {
	p := &MarketingPopup{}
	p.ApplyDefaults()
	assert.Equal(t, DefaultPopupButtonText, p.ButtonText)
	assert.Equal(t, "modal", p.PopupType)
	assert.Equal(t, 1, p.Priority)

	p = &MarketingPopup{ButtonText: "خرید", Priority: 7, PopupType: "banner"}
	p.ApplyDefaults()
	assert.Equal(t, "خرید", p.ButtonText)
	assert.Equal(t, 7, p.Priority)
}

func TestProductNormalizeStock(t *testing.T) {
	p := &Product{Status: ProductActive, Stock: 0}
	p.NormalizeStock()
	assert.Equal(t, ProductOutOfStock, p.Status)

	p = &Product{Status: ProductInactive, Stock: 0}
	p.NormalizeStock()
	assert.Equal(t, ProductInactive, p.Status)
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityNormal.Rank())
	assert.Greater(t, PriorityNormal.Rank(), PriorityLow.Rank())
}

func TestTicketStatusAfterAdminReply(t *testing.T) {
	tests := []struct {
		from TicketStatus
		want TicketStatus
	}{
		{TicketOpen, TicketWaitingResponse},
		{TicketInProgress, TicketWaitingResponse},
		{TicketWaitingResponse, TicketWaitingResponse},
		{TicketClosed, TicketClosed},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			ticket := &SupportTicket{Status: tt.from}
			assert.Equal(t, tt.want, ticket.StatusAfterAdminReply())
		})
	}
	assert.False(t, TicketStatus("pending").IsValid())
	assert.True(t, TicketPriorityUrgent.IsValid())
	assert.False(t, TicketPriority("normal").IsValid())
	assert.True(t, TicketLicense.IsValid())
	assert.False(t, TicketCategory("").IsValid())
}

func TestLicenseTerms(t *testing.T) {
	assert.Equal(t, 12, LicensePlus.DurationMonths())
	assert.Equal(t, 4, LicensePlus4.DurationMonths())
	assert.Equal(t, 30, LicensePro.DurationMonths())
	assert.False(t, LicenseType("gold").IsValid())

	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	l := &License{Type: LicensePlus4, Duration: LicensePlus4.DurationMonths()}
	assert.False(t, l.ActiveAt(now))

	l.Activate(9, now)
	assert.True(t, l.IsUsed)
	assert.Equal(t, int64(9), *l.UsedBy)
	assert.Equal(t, now.AddDate(0, 4, 0), *l.ExpiresAt)
	assert.True(t, l.ActiveAt(now.Add(24*time.Hour)))
	assert.False(t, l.ActiveAt(*l.ExpiresAt))
}

func TestNewLicenseCode(t *testing.T) {
	code, err := NewLicenseCode()
	assert.NoError(t, err)
	assert.Regexp(t, `^ASL-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`, code)

	other, err := NewLicenseCode()
	assert.NoError(t, err)
	assert.NotEqual(t, code, other)

	assert.Equal(t, "ASL-AB12-0000-0000-0000", NormalizeLicenseCode("  asl-ab12-0000-0000-0000 "))
}
