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

// VisitorController handles visitor registration and review
type VisitorController struct {
	visitorService services.VisitorService
	logger         zerolog.Logger
}

// NewVisitorController creates a new VisitorController
func NewVisitorController(visitorService services.VisitorService, logger zerolog.Logger) *VisitorController {
	return &VisitorController{
		visitorService: visitorService,
		logger:         logger,
	}
}

func visitorListQuery(ctx *gin.Context) services.VisitorListQuery {
	return services.VisitorListQuery{
		ListQuery:  listQuery(ctx),
		IsFeatured: helpers.QueryBoolPtr(ctx, "featured"),
	}
}

// Register godoc
// @Summary Register as a visitor
// @Description Residence and destinations must be Arabic countries; all three agreements must be accepted
// @Tags visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterVisitorRequest true "Visitor registration"
// @Success 201 {object} dto.APIResponse{data=models.Visitor} "Registration submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /visitors/register [post]
func (c *VisitorController) Register(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RegisterVisitorRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	visitor, err := c.visitorService.Register(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Visitor registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(visitor))
}

// GetMine godoc
// @Summary My visitor registration
// @Tags visitors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Visitor} "Registration"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /visitors/me [get]
func (c *VisitorController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	visitor, err := c.visitorService.GetMine(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(visitor))
}

// DeleteMine godoc
// @Summary Withdraw my visitor registration
// @Tags visitors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /visitors/me [delete]
func (c *VisitorController) DeleteMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.visitorService.DeleteMine(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Visitor registration deleted")
}

// ListApproved godoc
// @Summary Approved visitors
// @Tags visitors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param featured query bool false "Only featured"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Visitors"
// @Router /visitors [get]
func (c *VisitorController) ListApproved(ctx *gin.Context) {
	result, err := c.visitorService.ListApproved(ctx.Request.Context(), visitorListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminList godoc
// @Summary List visitor registrations
// @Tags admin-visitors
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "pending, approved, rejected, suspended or all"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Visitors"
// @Router /admin/visitors [get]
func (c *VisitorController) AdminList(ctx *gin.Context) {
	result, err := c.visitorService.List(ctx.Request.Context(), visitorListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminGet godoc
// @Summary Get visitor registration
// @Tags admin-visitors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visitor ID"
// @Success 200 {object} dto.APIResponse{data=models.Visitor} "Visitor"
// @Failure 404 {object} dto.ErrorResponse "Visitor not found"
// @Router /admin/visitors/{id} [get]
func (c *VisitorController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	visitor, err := c.visitorService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(visitor))
}

// Approve godoc
// @Summary Approve visitor
// @Tags admin-visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visitor ID"
// @Param request body dto.ReviewRequest false "Admin notes"
// @Success 200 {object} dto.APIResponse{data=models.Visitor} "Approved visitor"
// @Failure 404 {object} dto.ErrorResponse "Visitor not found"
// @Router /admin/visitors/{id}/approve [post]
func (c *VisitorController) Approve(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if !bindOptionalJSON(ctx, c.logger, &req) {
		return
	}

	visitor, err := c.visitorService.Approve(ctx.Request.Context(), id, adminID, req.AdminNotes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("visitorID", id).Int64("adminID", adminID).Msg("Visitor approved")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(visitor))
}

// Reject godoc
// @Summary Reject visitor
// @Tags admin-visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visitor ID"
// @Param request body dto.ReviewRequest false "Admin notes"
// @Success 200 {object} dto.APIResponse{data=models.Visitor} "Rejected visitor"
// @Failure 404 {object} dto.ErrorResponse "Visitor not found"
// @Router /admin/visitors/{id}/reject [post]
func (c *VisitorController) Reject(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if !bindOptionalJSON(ctx, c.logger, &req) {
		return
	}

	visitor, err := c.visitorService.Reject(ctx.Request.Context(), id, adminID, req.AdminNotes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("visitorID", id).Int64("adminID", adminID).Msg("Visitor rejected")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(visitor))
}

// SetFeatured godoc
// @Summary Toggle featured visitor
// @Tags admin-visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visitor ID"
// @Param request body dto.FeaturedRequest true "Featured flag"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Router /admin/visitors/{id}/featured [patch]
func (c *VisitorController) SetFeatured(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.FeaturedRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	if err := c.visitorService.SetFeatured(ctx.Request.Context(), id, req.IsFeatured); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Visitor updated")
}

// Delete godoc
// @Summary Delete visitor
// @Tags admin-visitors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visitor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Visitor not found"
// @Router /admin/visitors/{id} [delete]
func (c *VisitorController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.visitorService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Visitor deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many visitors
// @Tags admin-visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/visitors/bulk-status [post]
func (c *VisitorController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.visitorService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many visitors
// @Tags admin-visitors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/visitors/bulk-delete [post]
func (c *VisitorController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.visitorService.BulkDelete)
}
