package dto

import (
	"time"

	"github.com/aslmarket/backend/internal/app/models"
)

// PopupRequest creates or replaces a marketing popup
type PopupRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Message     string     `json:"message" binding:"required,max=2000"`
	DiscountURL string     `json:"discountUrl" binding:"omitempty,max=1000"`
	ButtonText  string     `json:"buttonText" binding:"max=100"`
	PopupType   string     `json:"popupType" binding:"omitempty,oneof=modal banner toast slide_in"`
	IsActive    *bool      `json:"isActive"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Priority    int        `json:"priority" binding:"min=0,max=1000"`
}

// PopupResponse adds the derived display status
type PopupResponse struct {
	*models.MarketingPopup
	DisplayStatus models.PopupStatus `json:"displayStatus"`
}
