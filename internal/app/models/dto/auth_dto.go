package dto

import "github.com/aslmarket/backend/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a marketplace account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,ir_mobile"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// UserProfile is the signed-in user with their marketplace registrations
type UserProfile struct {
	*models.User
	SupplierStatus *models.RegistrationStatus `json:"supplierStatus,omitempty"`
	VisitorStatus  *models.RegistrationStatus `json:"visitorStatus,omitempty"`
	AverageRating  float64                    `json:"averageRating"`
	RatingCount    int64                      `json:"ratingCount"`
}
