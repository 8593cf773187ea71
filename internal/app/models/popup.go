package models

import "time"

// PopupStatus is derived from is_active and the display window
type PopupStatus string

const (
	PopupScheduled PopupStatus = "scheduled"
	PopupActive    PopupStatus = "active"
	PopupInactive  PopupStatus = "inactive"
)

const (
	DefaultPopupButtonText = "مشاهده تخفیف"
	DefaultPopupType       = "modal"
)

// MarketingPopup is a discount popup shown on the public site
type MarketingPopup struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Message     string     `json:"message" db:"message"`
	DiscountURL string     `json:"discountUrl" db:"discount_url"`
	ButtonText  string     `json:"buttonText" db:"button_text"`
	PopupType   string     `json:"popupType" db:"popup_type"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	ShowCount   int64      `json:"showCount" db:"show_count"`
	ClickCount  int64      `json:"clickCount" db:"click_count"`
	Priority    int        `json:"priority" db:"priority"`
	AddedByID   *int64     `json:"addedById,omitempty" db:"added_by_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// ApplyDefaults fills the button text, type and priority left empty
func (p *MarketingPopup) ApplyDefaults() {
	if p.ButtonText == "" {
		p.ButtonText = DefaultPopupButtonText
	}
	if p.PopupType == "" {
		p.PopupType = DefaultPopupType
	}
	if p.Priority == 0 {
		p.Priority = 1
	}
}

// StatusAt derives the display status at now
func (p *MarketingPopup) StatusAt(now time.Time) PopupStatus {
	if !p.IsActive {
		return PopupInactive
	}
	if p.StartDate != nil && p.StartDate.After(now) {
		return PopupScheduled
	}
	if p.EndDate != nil && !p.EndDate.After(now) {
		return PopupInactive
	}
	return PopupActive
}
