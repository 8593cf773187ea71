package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/auth"
	"github.com/aslmarket/backend/internal/pkg/email"
	"github.com/aslmarket/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AuthService handles authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID int64) (*dto.UserProfile, error)
}

type authServiceImpl struct {
	userRepo     repositories.IUserRepository
	tokenRepo    repositories.ITokenRepository
	supplierRepo repositories.ISupplierRepository
	visitorRepo  repositories.IVisitorRepository
	ratingRepo   repositories.IMatchingResponseRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	supplierRepo repositories.ISupplierRepository,
	visitorRepo repositories.IVisitorRepository,
	ratingRepo repositories.IMatchingResponseRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		supplierRepo: supplierRepo,
		visitorRepo:  visitorRepo,
		ratingRepo:   ratingRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return validationError("password must be at least %d characters long", validation.PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return validationError("password must contain at least one letter")
	}
	if !hasDigit {
		return validationError("password must contain at least one digit")
	}
	return nil
}

// Register creates a user account and signs it in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsEmail(email) {
		return nil, validationError("invalid email format")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, validationError("first and last name are required")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      models.RoleUser,
		Status:    models.UserStatusActive,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}

	return s.authResponse(ctx, user)
}

// Login authenticates a user
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Password == "" {
		return nil, validationError("password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	return s.authResponse(ctx, user)
}

// RefreshToken rotates a refresh token into a new pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.tokenRepo.GetUserIDByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			_ = s.tokenRepo.RevokeToken(ctx, refreshToken)
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// the old token must not be usable twice
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// GetProfile retrieves the user with their registration states
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserProfile, error) {
	if userID <= 0 {
		return nil, validationError("user ID must be positive")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfile{User: user}

	if supplier, err := s.supplierRepo.GetByUserID(ctx, userID); err == nil {
		profile.SupplierStatus = &supplier.Status
	} else if !errors.Is(err, apperrors.ErrSupplierNotFound) {
		return nil, err
	}

	if visitor, err := s.visitorRepo.GetByUserID(ctx, userID); err == nil {
		profile.VisitorStatus = &visitor.Status
	} else if !errors.Is(err, apperrors.ErrVisitorNotFound) {
		return nil, err
	}

	avg, n, err := s.ratingRepo.AverageRating(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Could not load rating for profile")
	} else {
		profile.AverageRating, profile.RatingCount = avg, n
	}

	return profile, nil
}

func (s *authServiceImpl) authResponse(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: *token, User: user}, nil
}

// generateTokenResponse issues a pair and stores the refresh token
func (s *authServiceImpl) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
