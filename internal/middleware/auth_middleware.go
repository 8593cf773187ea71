package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).
		WithDetails(details).
		WithSeverity(dto.ErrorSeverityError)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// tokenFromRequest reads the token from the Authorization header, falling
// back to the token query parameter used by browser websocket clients
func tokenFromRequest(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if queryToken := c.Query("token"); queryToken != "" {
			return strings.Trim(queryToken, "\"'"), true
		}
		return "", false
	}

	// Swagger UI sometimes sends the raw token
	if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader, true
	}

	tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
	if err != nil {
		return "", false
	}
	return tokenString, true
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing or malformed")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"

			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			} else if errors.Is(err, auth.ErrInvalidFormat) {
				errorDetails = "Invalid token format"
			}

			abortUnauthorized(c, errorCode, "Authentication failed", errorDetails)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// ActiveAccountRequired rejects tokens whose account was banned or
// deactivated after the token was issued
func (m *AuthMiddleware) ActiveAccountRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User information not found")
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrResourceNotFound) {
				abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Account no longer exists")
				return
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
				WithDetails("Failed to load account")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		if user.Status != models.UserStatusActive {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled").
				WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}

		roleStr, ok := role.(string)
		if !ok || models.RoleType(roleStr) != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation").
				WithSeverity(dto.ErrorSeverityError)

			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// AdminRequired is RoleRequired for the admin role
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return m.RoleRequired(models.RoleAdmin)
}

// UserIDFromContext returns the user id stored by JWTAuth
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
