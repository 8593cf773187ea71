package controllers

import (
	"net/http"
	"strings"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LicenseController handles plan licenses
type LicenseController struct {
	licenseService services.LicenseService
	logger         zerolog.Logger
}

// NewLicenseController creates a new LicenseController
func NewLicenseController(licenseService services.LicenseService, logger zerolog.Logger) *LicenseController {
	return &LicenseController{
		licenseService: licenseService,
		logger:         logger,
	}
}

// Verify godoc
// @Summary Activate a license code
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyLicenseRequest true "License code"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseStatusResponse} "Activated"
// @Failure 400 {object} dto.ErrorResponse "Invalid or used code"
// @Failure 409 {object} dto.ErrorResponse "A license is already running"
// @Router /license/verify [post]
func (c *LicenseController) Verify(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.VerifyLicenseRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	status, err := c.licenseService.Verify(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("License activation refused")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status))
}

// Status godoc
// @Summary My license status
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.LicenseStatusResponse} "Status"
// @Router /license/status [get]
func (c *LicenseController) Status(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	status, err := c.licenseService.Status(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status))
}

// List godoc
// @Summary List licenses
// @Tags admin-licenses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on code"
// @Param status query string false "used, available or all"
// @Param type query string false "plus, plus4 or pro"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseListResponse} "Licenses"
// @Router /admin/licenses [get]
func (c *LicenseController) List(ctx *gin.Context) {
	query := services.LicenseListQuery{
		ListQuery: listQuery(ctx),
		Type:      strings.TrimSpace(ctx.Query("type")),
	}

	result, err := c.licenseService.List(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Generate godoc
// @Summary Generate license codes
// @Tags admin-licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateLicensesRequest true "Count and plan"
// @Success 201 {object} dto.APIResponse{data=dto.GenerateLicensesResponse} "Codes"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/licenses/generate [post]
func (c *LicenseController) Generate(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.GenerateLicensesRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	result, err := c.licenseService.Generate(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(result))
}

// Revoke godoc
// @Summary Delete an unused license
// @Tags admin-licenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Revoked"
// @Failure 409 {object} dto.ErrorResponse "License already activated"
// @Router /admin/licenses/{id} [delete]
func (c *LicenseController) Revoke(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.licenseService.Revoke(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "License revoked")
}
