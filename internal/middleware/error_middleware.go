package middleware

import (
	"errors"
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleAPIError maps service errors to status codes and the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	detail := dto.NewErrorDetail(code, message)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled API error")
	} else {
		detail = detail.WithDetails(err.Error())
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrLicenseInvalid):
		return http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Bad request"

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"

	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account disabled"
	case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrNotApproved):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"

	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrSupplierNotFound,
		apperrors.ErrVisitorNotFound,
		apperrors.ErrMatchingRequestNotFound,
		apperrors.ErrChatNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"

	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrAlreadyRegistered,
		apperrors.ErrSKUAlreadyExists,
		apperrors.ErrAlreadyResponded,
		apperrors.ErrAlreadyRated):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrRequestNotOpen,
		apperrors.ErrTicketClosed,
		apperrors.ErrLicenseActive,
		apperrors.ErrLicenseUsed):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"

	case errors.Is(err, apperrors.ErrRequestExpired):
		return http.StatusGone, dto.ErrorCodeResourceGone, "Resource expired"
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
}
