package models

import "time"

// MatchingStatus is the lifecycle state of a matching request
type MatchingStatus string

const (
	MatchingPending   MatchingStatus = "pending"
	MatchingActive    MatchingStatus = "active"
	MatchingAccepted  MatchingStatus = "accepted"
	MatchingExpired   MatchingStatus = "expired"
	MatchingCancelled MatchingStatus = "cancelled"
	MatchingCompleted MatchingStatus = "completed"
)

// IsValid reports whether s is a known matching status
func (s MatchingStatus) IsValid() bool {
	switch s {
	case MatchingPending, MatchingActive, MatchingAccepted, MatchingExpired, MatchingCancelled, MatchingCompleted:
		return true
	}
	return false
}

// MatchingRequest is a supplier's posted intent to sell, open until expiry
type MatchingRequest struct {
	ID                   int64          `json:"id" db:"id"`
	SupplierID           int64          `json:"supplierId" db:"supplier_id"`
	UserID               int64          `json:"userId" db:"user_id"`
	ProductID            *int64         `json:"productId,omitempty" db:"product_id"`
	ProductName          string         `json:"productName" db:"product_name"`
	Quantity             string         `json:"quantity" db:"quantity"`
	Unit                 string         `json:"unit" db:"unit"`
	DestinationCountries string         `json:"destinationCountries" db:"destination_countries"`
	Price                string         `json:"price" db:"price"`
	Currency             string         `json:"currency" db:"currency"`
	PaymentTerms         string         `json:"paymentTerms" db:"payment_terms"`
	DeliveryTime         string         `json:"deliveryTime" db:"delivery_time"`
	Description          string         `json:"description" db:"description"`
	ExpiresAt            time.Time      `json:"expiresAt" db:"expires_at"`
	Status               MatchingStatus `json:"status" db:"status"`
	MatchedVisitorCount  int            `json:"matchedVisitorCount" db:"matched_visitor_count"`
	AcceptedVisitorID    *int64         `json:"acceptedVisitorId,omitempty" db:"accepted_visitor_id"`
	AcceptedAt           *time.Time     `json:"acceptedAt,omitempty" db:"accepted_at"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsExpired reports whether the request's deadline has passed at now
func (r *MatchingRequest) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// IsOpen reports whether visitors can still respond at now
func (r *MatchingRequest) IsOpen(now time.Time) bool {
	return (r.Status == MatchingPending || r.Status == MatchingActive) &&
		r.AcceptedVisitorID == nil && !r.IsExpired(now)
}

// ResponseType is a visitor's answer to a request
type ResponseType string

const (
	ResponseAccepted ResponseType = "accepted"
	ResponseRejected ResponseType = "rejected"
	ResponseQuestion ResponseType = "question"
)

// MatchingResponse is one visitor's answer to a request
type MatchingResponse struct {
	ID                int64        `json:"id" db:"id"`
	MatchingRequestID int64        `json:"matchingRequestId" db:"matching_request_id"`
	VisitorID         int64        `json:"visitorId" db:"visitor_id"`
	UserID            int64        `json:"userId" db:"user_id"`
	ResponseType      ResponseType `json:"responseType" db:"response_type"`
	Message           string       `json:"message" db:"message"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`

	VisitorName string `json:"visitorName,omitempty"`
}

// PartyType identifies which side of a deal a user is on
type PartyType string

const (
	PartySupplier PartyType = "supplier"
	PartyVisitor  PartyType = "visitor"
)

// MatchingRating is one party's rating of the other after a deal
type MatchingRating struct {
	ID                int64     `json:"id" db:"id"`
	MatchingRequestID int64     `json:"matchingRequestId" db:"matching_request_id"`
	RaterID           int64     `json:"raterId" db:"rater_id"`
	RatedID           int64     `json:"ratedId" db:"rated_id"`
	RaterType         PartyType `json:"raterType" db:"rater_type"`
	RatedType         PartyType `json:"ratedType" db:"rated_type"`
	Rating            int       `json:"rating" db:"rating"`
	Comment           string    `json:"comment" db:"comment"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// MatchingChat links the supplier and the accepted visitor of a request
type MatchingChat struct {
	ID                int64      `json:"id" db:"id"`
	MatchingRequestID int64      `json:"matchingRequestId" db:"matching_request_id"`
	SupplierUserID    int64      `json:"supplierUserId" db:"supplier_user_id"`
	VisitorUserID     int64      `json:"visitorUserId" db:"visitor_user_id"`
	IsActive          bool       `json:"isActive" db:"is_active"`
	LastMessageAt     *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
}

// HasParticipant reports whether userID is one of the two chat members
func (c *MatchingChat) HasParticipant(userID int64) bool {
	return c.SupplierUserID == userID || c.VisitorUserID == userID
}

// MatchingMessage is a single chat line
type MatchingMessage struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    int64     `json:"chatId" db:"chat_id"`
	SenderID  int64     `json:"senderId" db:"sender_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	SenderName string `json:"senderName,omitempty"`
}
