package models

import "time"

// NotificationType is the channel or tone of a notification
type NotificationType string

const (
	NotificationInfo     NotificationType = "info"
	NotificationSuccess  NotificationType = "success"
	NotificationWarning  NotificationType = "warning"
	NotificationError    NotificationType = "error"
	NotificationMatching NotificationType = "matching"
	NotificationSystem   NotificationType = "system"
	NotificationEmail    NotificationType = "email"
	NotificationSMS      NotificationType = "sms"
	NotificationTelegram NotificationType = "telegram"
	NotificationPush     NotificationType = "push"
)

// NotificationPriority orders the feed
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Rank maps a priority onto its sort weight
func (p NotificationPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Notification is an in-app message; a nil UserID means broadcast
type Notification struct {
	ID          int64                `json:"id" db:"id"`
	Title       string               `json:"title" db:"title"`
	Message     string               `json:"message" db:"message"`
	Type        NotificationType     `json:"type" db:"type"`
	Priority    NotificationPriority `json:"priority" db:"priority"`
	IsActive    bool                 `json:"isActive" db:"is_active"`
	IsRead      bool                 `json:"isRead" db:"is_read"`
	ReadCount   int64                `json:"readCount" db:"read_count"`
	ClickCount  int64                `json:"clickCount" db:"click_count"`
	UserID      *int64               `json:"userId,omitempty" db:"user_id"`
	CreatedByID *int64               `json:"createdById,omitempty" db:"created_by_id"`
	ExpiresAt   *time.Time           `json:"expiresAt,omitempty" db:"expires_at"`
	ActionURL   string               `json:"actionUrl" db:"action_url"`
	ActionText  string               `json:"actionText" db:"action_text"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" db:"updated_at"`
}
