package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProductController handles the sellable catalogue
type ProductController struct {
	productService services.ProductService
	logger         zerolog.Logger
}

// NewProductController creates a new ProductController
func NewProductController(productService services.ProductService, logger zerolog.Logger) *ProductController {
	return &ProductController{
		productService: productService,
		logger:         logger,
	}
}

func productListQuery(ctx *gin.Context) services.ProductListQuery {
	return services.ProductListQuery{
		ListQuery: listQuery(ctx),
		Category:  strings.TrimSpace(ctx.Query("category")),
	}
}

// openUpload opens a required multipart file field and answers 400 when it is missing
func openUpload(ctx *gin.Context, field string) (multipart.File, bool) {
	header, err := ctx.FormFile(field)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").WithField(field)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "File could not be read").WithField(field)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return file, true
}

// ListPublic godoc
// @Summary Catalogue products
// @Description Active and out-of-stock products
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on name and description"
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Products"
// @Router /products [get]
func (c *ProductController) ListPublic(ctx *gin.Context) {
	result, err := c.productService.ListPublic(ctx.Request.Context(), productListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetPublic godoc
// @Summary Catalogue product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Product"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /products/{id} [get]
func (c *ProductController) GetPublic(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	product, err := c.productService.GetPublic(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// List godoc
// @Summary List products
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "active, inactive, out_of_stock or all"
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Products"
// @Router /admin/products [get]
func (c *ProductController) List(ctx *gin.Context) {
	result, err := c.productService.List(ctx.Request.Context(), productListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Get godoc
// @Summary Get product
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Product"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /admin/products/{id} [get]
func (c *ProductController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	product, err := c.productService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// Create godoc
// @Summary Create product
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProductRequest true "Product"
// @Success 201 {object} dto.APIResponse{data=models.Product} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "SKU already exists"
// @Router /admin/products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	product, err := c.productService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(product))
}

// Update godoc
// @Summary Update product
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body dto.ProductRequest true "Product"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 409 {object} dto.ErrorResponse "SKU already exists"
// @Router /admin/products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	product, err := c.productService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(product))
}

// Delete godoc
// @Summary Delete product
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/products/{id} [delete]
func (c *ProductController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.productService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Product deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many products
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/products/bulk-status [post]
func (c *ProductController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.productService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many products
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/products/bulk-delete [post]
func (c *ProductController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.productService.BulkDelete)
}

// ImportCSV godoc
// @Summary Import products from CSV
// @Description Rows are validated one by one; failed rows are reported and skipped
// @Tags admin-products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /admin/products/import [post]
func (c *ProductController) ImportCSV(ctx *gin.Context) {
	file, ok := openUpload(ctx, "file")
	if !ok {
		return
	}
	defer file.Close()

	result, err := c.productService.ImportCSV(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int("imported", result.Imported).Int("failed", result.Failed).Msg("Product CSV imported")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
