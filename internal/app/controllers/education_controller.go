package controllers

import (
	"net/http"
	"strings"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EducationController handles training content
type EducationController struct {
	educationService services.EducationService
	logger           zerolog.Logger
}

// NewEducationController creates a new EducationController
func NewEducationController(educationService services.EducationService, logger zerolog.Logger) *EducationController {
	return &EducationController{
		educationService: educationService,
		logger:           logger,
	}
}

func educationListQuery(ctx *gin.Context) services.EducationListQuery {
	return services.EducationListQuery{
		ListQuery: listQuery(ctx),
		Category:  strings.TrimSpace(ctx.Query("category")),
		Level:     strings.TrimSpace(ctx.Query("level")),
		IsFree:    helpers.QueryBoolPtr(ctx, "is_free"),
	}
}

// ListPublished godoc
// @Summary Published training content
// @Tags education
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on title and description"
// @Param category query string false "Category"
// @Param level query string false "beginner, intermediate or advanced"
// @Param is_free query bool false "Only free or only paid"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Content"
// @Router /education [get]
func (c *EducationController) ListPublished(ctx *gin.Context) {
	result, err := c.educationService.ListPublished(ctx.Request.Context(), educationListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// View godoc
// @Summary View training content
// @Description Returns published content and counts the view
// @Tags education
// @Produce json
// @Param id path int true "Education ID"
// @Success 200 {object} dto.APIResponse{data=models.Education} "Content"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /education/{id} [get]
func (c *EducationController) View(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	item, err := c.educationService.View(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(item))
}

// Like godoc
// @Summary Like training content
// @Tags education
// @Produce json
// @Param id path int true "Education ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse} "New like total"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /education/{id}/like [post]
func (c *EducationController) Like(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	likes, err := c.educationService.Like(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(likes))
}

// List godoc
// @Summary List training content
// @Tags admin-education
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "draft, published, archived or all"
// @Param category query string false "Category"
// @Param level query string false "Level"
// @Param is_free query bool false "Free flag"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Content"
// @Router /admin/education [get]
func (c *EducationController) List(ctx *gin.Context) {
	result, err := c.educationService.List(ctx.Request.Context(), educationListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Get godoc
// @Summary Get training content
// @Tags admin-education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Success 200 {object} dto.APIResponse{data=models.Education} "Content"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/education/{id} [get]
func (c *EducationController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	item, err := c.educationService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(item))
}

// Create godoc
// @Summary Create training content
// @Tags admin-education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EducationRequest true "Content"
// @Success 201 {object} dto.APIResponse{data=models.Education} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/education [post]
func (c *EducationController) Create(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.EducationRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	item, err := c.educationService.Create(ctx.Request.Context(), &req, adminID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(item))
}

// Update godoc
// @Summary Update training content
// @Tags admin-education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Param request body dto.EducationRequest true "Content"
// @Success 200 {object} dto.APIResponse{data=models.Education} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/education/{id} [put]
func (c *EducationController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EducationRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	item, err := c.educationService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(item))
}

// UploadThumbnail godoc
// @Summary Upload a thumbnail
// @Tags admin-education
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Param thumbnail formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=models.Education} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/education/{id}/thumbnail [post]
func (c *EducationController) UploadThumbnail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("thumbnail")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Thumbnail is required").WithField("thumbnail")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	item, err := c.educationService.UploadThumbnail(ctx.Request.Context(), id, file)
	if err != nil {
		c.logger.Error().Err(err).Int64("educationID", id).Msg("Thumbnail upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(item))
}

// Delete godoc
// @Summary Delete training content
// @Tags admin-education
// @Produce json
// @Security BearerAuth
// @Param id path int true "Education ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/education/{id} [delete]
func (c *EducationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.educationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Education deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many education items
// @Tags admin-education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/education/bulk-status [post]
func (c *EducationController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.educationService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many education items
// @Tags admin-education
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/education/bulk-delete [post]
func (c *EducationController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.educationService.BulkDelete)
}
