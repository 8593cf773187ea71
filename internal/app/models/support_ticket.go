package models

import "time"

// TicketStatus tracks who owes the next reply
type TicketStatus string

const (
	TicketOpen            TicketStatus = "open"
	TicketInProgress      TicketStatus = "in_progress"
	TicketWaitingResponse TicketStatus = "waiting_response"
	TicketClosed          TicketStatus = "closed"
)

// IsValid reports whether s is a known ticket status
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketWaitingResponse, TicketClosed:
		return true
	}
	return false
}

// TicketPriority orders the support queue
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// IsValid reports whether p is a known priority
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketCategory is the topic a user files a ticket under
type TicketCategory string

const (
	TicketGeneral   TicketCategory = "general"
	TicketTechnical TicketCategory = "technical"
	TicketBilling   TicketCategory = "billing"
	TicketLicense   TicketCategory = "license"
	TicketOther     TicketCategory = "other"
)

func (c TicketCategory) IsValid() bool {
	switch c {
	case TicketGeneral, TicketTechnical, TicketBilling, TicketLicense, TicketOther:
		return true
	}
	return false
}

// SupportTicket is a user's support conversation with the admins
type SupportTicket struct {
	ID          int64          `json:"id" db:"id"`
	UserID      int64          `json:"userId" db:"user_id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Priority    TicketPriority `json:"priority" db:"priority"`
	Status      TicketStatus   `json:"status" db:"status"`
	Category    TicketCategory `json:"category" db:"category"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	// joined
	UserName  string `json:"userName,omitempty" db:"-"`
	UserEmail string `json:"userEmail,omitempty" db:"-"`
}

// IsClosed reports whether the ticket no longer takes messages
func (t *SupportTicket) IsClosed() bool {
	return t.Status == TicketClosed
}

// StatusAfterAdminReply is where an admin reply moves the ticket.
// Open and in-progress tickets start waiting on the user; others keep their status.
func (t *SupportTicket) StatusAfterAdminReply() TicketStatus {
	switch t.Status {
	case TicketOpen, TicketInProgress:
		return TicketWaitingResponse
	}
	return t.Status
}

// SupportTicketMessage is one message on a ticket
type SupportTicketMessage struct {
	ID        int64     `json:"id" db:"id"`
	TicketID  int64     `json:"ticketId" db:"ticket_id"`
	SenderID  *int64    `json:"senderId,omitempty" db:"sender_id"`
	Message   string    `json:"message" db:"message"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// joined
	SenderName string `json:"senderName,omitempty" db:"-"`
}
