package dto

import (
	"time"

	"github.com/aslmarket/backend/internal/app/models"
)

// CreateTicketRequest opens a support ticket
type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required,max=5000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category    string `json:"category" binding:"omitempty,oneof=general technical billing license other"`
}

// UpdateTicketRequest lets an admin change only the fields that are set
type UpdateTicketRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,min=1,max=5000"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category    *string `json:"category" binding:"omitempty,oneof=general technical billing license other"`
}

// TicketMessageRequest adds a message to a ticket
type TicketMessageRequest struct {
	Message string `json:"message" binding:"required,max=5000"`
}

// TicketStatusRequest sets a ticket's status, optionally with an admin note
type TicketStatusRequest struct {
	Status  string `json:"status" binding:"required,oneof=open in_progress waiting_response closed"`
	Message string `json:"message" binding:"max=5000"`
}

// TicketResponse is a ticket with its conversation
type TicketResponse struct {
	*models.SupportTicket
	Messages []*models.SupportTicketMessage `json:"messages"`
}

// GenerateLicensesRequest creates a batch of license codes
type GenerateLicensesRequest struct {
	Count int    `json:"count" binding:"required,min=1,max=100"`
	Type  string `json:"type" binding:"omitempty,oneof=plus plus4 pro"`
}

// GenerateLicensesResponse lists the codes just created
type GenerateLicensesResponse struct {
	Count    int                `json:"count"`
	Type     models.LicenseType `json:"type"`
	Duration int                `json:"duration"`
	Licenses []string           `json:"licenses"`
}

// VerifyLicenseRequest activates a license for the caller
type VerifyLicenseRequest struct {
	License string `json:"license" binding:"required,max=32"`
}

// LicenseStatusResponse describes the caller's license
type LicenseStatusResponse struct {
	HasLicense     bool               `json:"hasLicense"`
	IsActive       bool               `json:"isActive"`
	Code           string             `json:"code,omitempty"`
	Type           models.LicenseType `json:"type,omitempty"`
	Duration       int                `json:"duration,omitempty"`
	ActivatedAt    *time.Time         `json:"activatedAt,omitempty"`
	ExpiresAt      *time.Time         `json:"expiresAt,omitempty"`
	RemainingDays  int                `json:"remainingDays"`
	RemainingHours int                `json:"remainingHours"`
}

// LicenseListResponse is a license page with overall counts
type LicenseListResponse struct {
	*PaginatedResponse
	Total     int64 `json:"total"`
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
}
