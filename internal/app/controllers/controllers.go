// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// parseIDParam reads a positive int64 path parameter, answering 400 when it is not one
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, ok := parsePositiveInt64(ctx.Param(paramName))
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID format").
			WithField(paramName)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func parsePositiveInt64(raw string) (int64, bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	return n, err == nil && n > 0
}

// currentUserID reads the authenticated user, answering 401 when missing
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}

// bindJSON binds the body into obj, answering 400 with field errors on failure
func bindJSON(ctx *gin.Context, log zerolog.Logger, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Invalid request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for bodies the client may omit
func bindOptionalJSON(ctx *gin.Context, log zerolog.Logger, obj interface{}) bool {
	if ctx.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(ctx, log, obj)
}

// listQuery parses page, size, search and status
func listQuery(ctx *gin.Context) services.ListQuery {
	page, size := helpers.ParsePaginationParams(ctx)
	return services.ListQuery{
		Page:   page,
		Size:   size,
		Search: strings.TrimSpace(ctx.Query("search")),
		Status: helpers.NormalizeStatusFilter(ctx.Query("status")),
	}
}

type bulkStatusFunc func(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)

type bulkDeleteFunc func(ctx context.Context, ids []int64) (*dto.BulkResult, error)

func handleBulkStatus(ctx *gin.Context, log zerolog.Logger, fn bulkStatusFunc) {
	var req dto.BulkStatusRequest
	if !bindJSON(ctx, log, &req) {
		return
	}

	result, err := fn(ctx.Request.Context(), req.IDs, req.Status)
	if err != nil {
		log.Warn().Err(err).Int("count", len(req.IDs)).Str("status", req.Status).Msg("Bulk status update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

func handleBulkDelete(ctx *gin.Context, log zerolog.Logger, fn bulkDeleteFunc) {
	var req dto.BulkDeleteRequest
	if !bindJSON(ctx, log, &req) {
		return
	}

	result, err := fn(ctx.Request.Context(), req.IDs)
	if err != nil {
		log.Warn().Err(err).Int("count", len(req.IDs)).Msg("Bulk delete failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

func respondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, dto.NewAPIResponse(dto.SuccessResponse{Message: message}))
}
