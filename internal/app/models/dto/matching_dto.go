package dto

import (
	"time"

	"github.com/aslmarket/backend/internal/app/models"
)

// MatchingRequestInput holds the supplier-editable fields of a request
type MatchingRequestInput struct {
	ProductName          string    `json:"productName" binding:"required,max=200"`
	ProductID            *int64    `json:"productId" binding:"omitempty,gt=0"`
	Quantity             string    `json:"quantity" binding:"required,max=100"`
	Unit                 string    `json:"unit" binding:"required,max=50"`
	DestinationCountries string    `json:"destinationCountries" binding:"required,max=1000"`
	Price                string    `json:"price" binding:"required,max=100"`
	Currency             string    `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms         string    `json:"paymentTerms" binding:"max=1000"`
	DeliveryTime         string    `json:"deliveryTime" binding:"max=100"`
	Description          string    `json:"description" binding:"max=5000"`
	ExpiresAt            time.Time `json:"expiresAt" binding:"required"`
}

// ExtendMatchingRequest moves a request's deadline
type ExtendMatchingRequest struct {
	ExpiresAt time.Time `json:"expiresAt" binding:"required"`
}

// RespondMatchingRequest is a visitor's answer
type RespondMatchingRequest struct {
	ResponseType string `json:"responseType" binding:"required,oneof=accepted rejected question"`
	Message      string `json:"message" binding:"max=2000"`
}

// RateMatchingRequest rates the other party of a deal
type RateMatchingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// SendChatMessageRequest posts a chat line
type SendChatMessageRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// MatchingRequestResponse adds the computed deadline fields to a request
type MatchingRequestResponse struct {
	*models.MatchingRequest
	RemainingSeconds int64 `json:"remainingSeconds"`
	IsExpired        bool  `json:"isExpired"`
}

// MatchedVisitor is one scored candidate for a request
type MatchedVisitor struct {
	VisitorID int64  `json:"visitorId"`
	UserID    int64  `json:"userId"`
	FullName  string `json:"fullName"`
	Score     int    `json:"score"`
}

// CreateMatchingResponse is returned when a supplier posts a request
type CreateMatchingResponse struct {
	Request        MatchingRequestResponse `json:"request"`
	MatchedVisitor []MatchedVisitor        `json:"matchedVisitors"`
}

// MatchingStats counts requests per status
type MatchingStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// UserRating is the average rating a user received
type UserRating struct {
	UserID  int64   `json:"userId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
