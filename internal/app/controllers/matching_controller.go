package controllers

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MatchingController handles matching requests for suppliers, visitors and admins
type MatchingController struct {
	matchingService services.MatchingService
	logger          zerolog.Logger
}

// NewMatchingController creates a new MatchingController
func NewMatchingController(matchingService services.MatchingService, logger zerolog.Logger) *MatchingController {
	return &MatchingController{
		matchingService: matchingService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Post a matching request
// @Description Approved suppliers only. Scores approved visitors and notifies the matches.
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MatchingRequestInput true "Matching request"
// @Success 201 {object} dto.APIResponse{data=dto.CreateMatchingResponse} "Request with matched visitors"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or deadline in the past"
// @Failure 403 {object} dto.ErrorResponse "Supplier not approved"
// @Router /matching/requests [post]
func (c *MatchingController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.MatchingRequestInput
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	resp, err := c.matchingService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Matching request creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("requestID", resp.Request.ID).
		Int("matched", len(resp.MatchedVisitor)).
		Msg("Matching request created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// ListMine godoc
// @Summary My matching requests
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "Status filter"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Requests"
// @Router /matching/requests [get]
func (c *MatchingController) ListMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	result, err := c.matchingService.ListMine(ctx.Request.Context(), userID, listQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Get godoc
// @Summary Get a matching request
// @Description Visible to the owning supplier and to approved visitors
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.MatchingRequestResponse} "Request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /matching/requests/{id} [get]
func (c *MatchingController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.matchingService.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Update godoc
// @Summary Edit a matching request
// @Description Only while pending or active and not expired
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.MatchingRequestInput true "Matching request"
// @Success 200 {object} dto.APIResponse{data=dto.MatchingRequestResponse} "Updated request"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 409 {object} dto.ErrorResponse "Request is not open"
// @Router /matching/requests/{id} [put]
func (c *MatchingController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MatchingRequestInput
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	resp, err := c.matchingService.Update(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Cancel godoc
// @Summary Cancel a matching request
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Cancelled"
// @Failure 409 {object} dto.ErrorResponse "Already accepted or completed"
// @Router /matching/requests/{id}/cancel [post]
func (c *MatchingController) Cancel(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.matchingService.Cancel(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Matching request cancelled")
}

// Extend godoc
// @Summary Extend a matching request's deadline
// @Description An expired request becomes active again
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ExtendMatchingRequest true "New deadline"
// @Success 200 {object} dto.APIResponse{data=dto.MatchingRequestResponse} "Extended request"
// @Failure 400 {object} dto.ErrorResponse "Deadline in the past"
// @Router /matching/requests/{id}/extend [post]
func (c *MatchingController) Extend(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ExtendMatchingRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	resp, err := c.matchingService.Extend(ctx.Request.Context(), userID, id, req.ExpiresAt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Complete godoc
// @Summary Mark an accepted request completed
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Completed"
// @Failure 409 {object} dto.ErrorResponse "Request not accepted"
// @Router /matching/requests/{id}/complete [post]
func (c *MatchingController) Complete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.matchingService.Complete(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Matching request completed")
}

// Responses godoc
// @Summary Visitor responses to my request
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=[]models.MatchingResponse} "Responses"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /matching/requests/{id}/responses [get]
func (c *MatchingController) Responses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	responses, err := c.matchingService.Responses(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(responses))
}

// Available godoc
// @Summary Open requests for visitors
// @Description Pending or active, unexpired and not yet accepted
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Requests"
// @Failure 403 {object} dto.ErrorResponse "Visitor not approved"
// @Router /matching/available [get]
func (c *MatchingController) Available(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.matchingService.Available(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Respond godoc
// @Summary Answer a matching request
// @Description accepted, rejected or question. One answer per visitor per request.
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.RespondMatchingRequest true "Response"
// @Success 201 {object} dto.APIResponse{data=models.MatchingResponse} "Response recorded"
// @Failure 409 {object} dto.ErrorResponse "Already responded or request not open"
// @Failure 410 {object} dto.ErrorResponse "Request expired"
// @Router /matching/requests/{id}/respond [post]
func (c *MatchingController) Respond(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondMatchingRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	resp, err := c.matchingService.Respond(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("requestID", id).Int64("userID", userID).Msg("Matching response rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Rate godoc
// @Summary Rate the other party of a deal
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.RateMatchingRequest true "Rating"
// @Success 201 {object} dto.APIResponse{data=models.MatchingRating} "Rating saved"
// @Failure 403 {object} dto.ErrorResponse "Not a party of the deal"
// @Failure 409 {object} dto.ErrorResponse "Already rated"
// @Router /matching/requests/{id}/rate [post]
func (c *MatchingController) Rate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RateMatchingRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	rating, err := c.matchingService.Rate(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rating))
}

// Ratings godoc
// @Summary Ratings of a request
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=[]models.MatchingRating} "Ratings"
// @Router /matching/requests/{id}/ratings [get]
func (c *MatchingController) Ratings(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	ratings, err := c.matchingService.Ratings(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ratings))
}

// UserRating godoc
// @Summary Average rating of a user
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserRating} "Average rating"
// @Router /matching/users/{id}/rating [get]
func (c *MatchingController) UserRating(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	rating, err := c.matchingService.UserRating(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rating))
}

// AdminList godoc
// @Summary List all matching requests
// @Tags admin-matching
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on product name"
// @Param status query string false "Status filter"
// @Param supplier_id query int false "Supplier ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Requests"
// @Router /admin/matching/requests [get]
func (c *MatchingController) AdminList(ctx *gin.Context) {
	query := services.MatchingListQuery{ListQuery: listQuery(ctx)}
	if raw := ctx.Query("supplier_id"); raw != "" {
		id, ok := parsePositiveInt64(raw)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid supplier_id").WithField("supplier_id")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		query.SupplierID = id
	}

	result, err := c.matchingService.AdminList(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminGet godoc
// @Summary Get any matching request
// @Tags admin-matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.MatchingRequestResponse} "Request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /admin/matching/requests/{id} [get]
func (c *MatchingController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.matchingService.AdminGet(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// AdminUpdateStatus godoc
// @Summary Set a matching request's status
// @Tags admin-matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.StatusUpdateRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /admin/matching/requests/{id}/status [patch]
func (c *MatchingController) AdminUpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	if err := c.matchingService.AdminUpdateStatus(ctx.Request.Context(), id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Matching request updated")
}

// AdminDelete godoc
// @Summary Delete a matching request
// @Tags admin-matching
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/matching/requests/{id} [delete]
func (c *MatchingController) AdminDelete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.matchingService.AdminDelete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Matching request deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many matching requests
// @Tags admin-matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/matching/requests/bulk-status [post]
func (c *MatchingController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.matchingService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many matching requests
// @Tags admin-matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/matching/requests/bulk-delete [post]
func (c *MatchingController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.matchingService.BulkDelete)
}

// Stats godoc
// @Summary Matching request counts per status
// @Tags admin-matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MatchingStats} "Stats"
// @Router /admin/matching/stats [get]
func (c *MatchingController) Stats(ctx *gin.Context) {
	stats, err := c.matchingService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}
