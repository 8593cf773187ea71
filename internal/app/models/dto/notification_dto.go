package dto

import "time"

// CreateNotificationRequest creates a single notification
type CreateNotificationRequest struct {
	Title      string     `json:"title" binding:"required,max=255"`
	Message    string     `json:"message" binding:"required,max=5000"`
	Type       string     `json:"type" binding:"omitempty,oneof=info success warning error matching system email sms telegram push"`
	Priority   string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	UserID     *int64     `json:"userId" binding:"omitempty,gt=0"`
	IsActive   *bool      `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	ActionURL  string     `json:"actionUrl" binding:"max=1000"`
	ActionText string     `json:"actionText" binding:"max=100"`
}

// UpdateNotificationRequest changes only the fields that are set
type UpdateNotificationRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Message    *string    `json:"message" binding:"omitempty,min=1,max=5000"`
	Type       *string    `json:"type" binding:"omitempty,oneof=info success warning error matching system email sms telegram push"`
	Priority   *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	IsActive   *bool      `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	ActionURL  *string    `json:"actionUrl" binding:"omitempty,max=1000"`
	ActionText *string    `json:"actionText" binding:"omitempty,max=100"`
}

// Recipient types of a bulk send
const (
	RecipientAll      = "all"
	RecipientSpecific = "specific"
	RecipientGroup    = "group"
)

// BulkSendRequest sends one notification to many users
type BulkSendRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Message       string     `json:"message" binding:"required,max=5000"`
	Type          string     `json:"type" binding:"omitempty,oneof=info success warning error matching system email sms telegram push"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	RecipientType string     `json:"recipientType" binding:"required,oneof=all specific group"`
	UserIDs       []int64    `json:"userIds" binding:"omitempty,dive,gt=0"`
	Role          string     `json:"role" binding:"omitempty,oneof=user admin"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	ActionURL     string     `json:"actionUrl" binding:"max=1000"`
	ActionText    string     `json:"actionText" binding:"max=100"`
}

// BulkSendResult reports the delivery counters of a bulk send
type BulkSendResult struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// UnreadCountResponse is the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
