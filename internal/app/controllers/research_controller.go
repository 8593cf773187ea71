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

// ResearchProductController handles the market-research catalogue
type ResearchProductController struct {
	researchService services.ResearchProductService
	logger          zerolog.Logger
}

// NewResearchProductController creates a new ResearchProductController
func NewResearchProductController(researchService services.ResearchProductService, logger zerolog.Logger) *ResearchProductController {
	return &ResearchProductController{
		researchService: researchService,
		logger:          logger,
	}
}

func researchListQuery(ctx *gin.Context) services.ResearchListQuery {
	return services.ResearchListQuery{
		ListQuery: listQuery(ctx),
		Category:  strings.TrimSpace(ctx.Query("category")),
		HSCode:    strings.TrimSpace(ctx.Query("hs_code")),
	}
}

// ListActive godoc
// @Summary Research products
// @Tags research-products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on names, category and HS code"
// @Param category query string false "Category"
// @Param hs_code query string false "HS code prefix"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Research products"
// @Router /research-products [get]
func (c *ResearchProductController) ListActive(ctx *gin.Context) {
	result, err := c.researchService.ListActive(ctx.Request.Context(), researchListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetActive godoc
// @Summary Research product
// @Tags research-products
// @Produce json
// @Param id path int true "Research product ID"
// @Success 200 {object} dto.APIResponse{data=models.ResearchProduct} "Research product"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /research-products/{id} [get]
func (c *ResearchProductController) GetActive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	product, err := c.researchService.GetActive(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// Categories godoc
// @Summary Research categories
// @Description Distinct categories of active research products
// @Tags research-products
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Categories"
// @Router /research-products/categories [get]
func (c *ResearchProductController) Categories(ctx *gin.Context) {
	categories, err := c.researchService.Categories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(categories))
}

// List godoc
// @Summary List research products
// @Tags admin-research-products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "active, inactive or all"
// @Param category query string false "Category"
// @Param hs_code query string false "HS code prefix"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Research products"
// @Router /admin/research-products [get]
func (c *ResearchProductController) List(ctx *gin.Context) {
	result, err := c.researchService.List(ctx.Request.Context(), researchListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Get godoc
// @Summary Get research product
// @Tags admin-research-products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research product ID"
// @Success 200 {object} dto.APIResponse{data=models.ResearchProduct} "Research product"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/research-products/{id} [get]
func (c *ResearchProductController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	product, err := c.researchService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// Create godoc
// @Summary Create research product
// @Tags admin-research-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResearchProductRequest true "Research product"
// @Success 201 {object} dto.APIResponse{data=models.ResearchProduct} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/research-products [post]
func (c *ResearchProductController) Create(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.ResearchProductRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	product, err := c.researchService.Create(ctx.Request.Context(), &req, adminID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(product))
}

// Update godoc
// @Summary Update research product
// @Tags admin-research-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research product ID"
// @Param request body dto.ResearchProductRequest true "Research product"
// @Success 200 {object} dto.APIResponse{data=models.ResearchProduct} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/research-products/{id} [put]
func (c *ResearchProductController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ResearchProductRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	product, err := c.researchService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// UpdateStatus godoc
// @Summary Activate or deactivate a research product
// @Tags admin-research-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research product ID"
// @Param request body dto.StatusUpdateRequest true "active or inactive"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/research-products/{id}/status [patch]
func (c *ResearchProductController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	if err := c.researchService.UpdateStatus(ctx.Request.Context(), id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Research product status updated")
}

// Delete godoc
// @Summary Delete research product
// @Tags admin-research-products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Research product ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/research-products/{id} [delete]
func (c *ResearchProductController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.researchService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Research product deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many research products
// @Tags admin-research-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/research-products/bulk-status [post]
func (c *ResearchProductController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.researchService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many research products
// @Tags admin-research-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/research-products/bulk-delete [post]
func (c *ResearchProductController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.researchService.BulkDelete)
}

// ImportExcel godoc
// @Summary Import research products from Excel
// @Description The first sheet is read; the first row holds the headers
// @Tags admin-research-products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "XLSX file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /admin/research-products/import [post]
func (c *ResearchProductController) ImportExcel(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	file, ok := openUpload(ctx, "file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := c.researchService.ImportExcel(ctx.Request.Context(), file, adminID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Research products imported")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
