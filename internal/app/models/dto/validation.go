package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts binding errors into an ErrorDetail
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: FormatFieldError(fe),
			})
		}
		detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
		if len(fields) == 1 {
			detail = detail.WithField(fields[0].Field)
		}
		return detail
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "lte":
		return e.Field() + " must be less than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "ir_mobile":
		return e.Field() + " must be an Iranian mobile number (09xxxxxxxxx)"
	case "ir_national_id":
		return e.Field() + " must be a valid 10 digit national id"
	case "ir_iban":
		return e.Field() + " must be a valid IR IBAN"
	case "hs_code":
		return e.Field() + " must be a valid HS code"
	default:
		return fmt.Sprintf("%s validation failed: %s", e.Field(), e.Tag())
	}
}
