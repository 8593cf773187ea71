package controllers

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PopupController handles marketing popups
type PopupController struct {
	popupService services.PopupService
	logger       zerolog.Logger
}

// NewPopupController creates a new PopupController
func NewPopupController(popupService services.PopupService, logger zerolog.Logger) *PopupController {
	return &PopupController{
		popupService: popupService,
		logger:       logger,
	}
}

// Active godoc
// @Summary Popup to show now
// @Description Highest priority active popup inside its display window. data is null when there is none.
// @Tags popups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PopupResponse} "Popup or null"
// @Router /popups/active [get]
func (c *PopupController) Active(ctx *gin.Context) {
	popup, err := c.popupService.Active(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(popup))
}

// TrackShow godoc
// @Summary Record that a popup was shown
// @Tags popups
// @Produce json
// @Param id path int true "Popup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Recorded"
// @Failure 404 {object} dto.ErrorResponse "Popup not found"
// @Router /popups/{id}/show [post]
func (c *PopupController) TrackShow(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.popupService.TrackShow(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Show recorded")
}

// TrackClick godoc
// @Summary Record a click on a popup
// @Tags popups
// @Produce json
// @Param id path int true "Popup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Recorded"
// @Failure 404 {object} dto.ErrorResponse "Popup not found"
// @Router /popups/{id}/click [post]
func (c *PopupController) TrackClick(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.popupService.TrackClick(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Click recorded")
}

// List godoc
// @Summary List popups
// @Tags admin-popups
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on title and message"
// @Param status query string false "active, inactive or all"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Popups"
// @Router /admin/popups [get]
func (c *PopupController) List(ctx *gin.Context) {
	result, err := c.popupService.List(ctx.Request.Context(), listQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Get godoc
// @Summary Get popup
// @Tags admin-popups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Popup ID"
// @Success 200 {object} dto.APIResponse{data=dto.PopupResponse} "Popup"
// @Failure 404 {object} dto.ErrorResponse "Popup not found"
// @Router /admin/popups/{id} [get]
func (c *PopupController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	popup, err := c.popupService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(popup))
}

// Create godoc
// @Summary Create popup
// @Tags admin-popups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PopupRequest true "Popup"
// @Success 201 {object} dto.APIResponse{data=dto.PopupResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/popups [post]
func (c *PopupController) Create(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.PopupRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	popup, err := c.popupService.Create(ctx.Request.Context(), &req, adminID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(popup))
}

// Update godoc
// @Summary Update popup
// @Tags admin-popups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Popup ID"
// @Param request body dto.PopupRequest true "Popup"
// @Success 200 {object} dto.APIResponse{data=dto.PopupResponse} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Popup not found"
// @Router /admin/popups/{id} [put]
func (c *PopupController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PopupRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	popup, err := c.popupService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(popup))
}

// Delete godoc
// @Summary Delete popup
// @Tags admin-popups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Popup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/popups/{id} [delete]
func (c *PopupController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.popupService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Popup deleted")
}

// BulkUpdateStatus godoc
// @Summary Activate or deactivate many popups
// @Tags admin-popups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status (active or inactive)"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/popups/bulk-status [post]
func (c *PopupController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.popupService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many popups
// @Tags admin-popups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/popups/bulk-delete [post]
func (c *PopupController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.popupService.BulkDelete)
}
