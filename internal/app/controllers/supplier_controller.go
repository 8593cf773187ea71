package controllers

import (
	"context"
	"net/http"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SupplierController handles supplier registration and review
type SupplierController struct {
	supplierService services.SupplierService
	logger          zerolog.Logger
}

// NewSupplierController creates a new SupplierController
func NewSupplierController(supplierService services.SupplierService, logger zerolog.Logger) *SupplierController {
	return &SupplierController{
		supplierService: supplierService,
		logger:          logger,
	}
}

func supplierListQuery(ctx *gin.Context) services.SupplierListQuery {
	return services.SupplierListQuery{
		ListQuery:  listQuery(ctx),
		IsFeatured: helpers.QueryBoolPtr(ctx, "featured"),
	}
}

// Register godoc
// @Summary Register as a supplier
// @Description Submits the signed-in user's supplier registration with at least one product. Starts as pending.
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterSupplierRequest true "Supplier registration"
// @Success 201 {object} dto.APIResponse{data=models.Supplier} "Registration submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Router /suppliers/register [post]
func (c *SupplierController) Register(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RegisterSupplierRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	supplier, err := c.supplierService.Register(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Supplier registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(supplier))
}

// GetMine godoc
// @Summary My supplier registration
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Registration with products"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /suppliers/me [get]
func (c *SupplierController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	supplier, err := c.supplierService.GetMine(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(supplier))
}

// UpdateMine godoc
// @Summary Edit my supplier registration
// @Description A rejected registration goes back to pending review
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSupplierRequest true "Supplier details"
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Updated registration"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /suppliers/me [put]
func (c *SupplierController) UpdateMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSupplierRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	supplier, err := c.supplierService.UpdateMine(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(supplier))
}

// UploadDocument godoc
// @Summary Upload business registration document
// @Tags suppliers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param document formData file true "PDF or image"
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Updated registration"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /suppliers/me/document [post]
func (c *SupplierController) UploadDocument(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("document")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No file provided").WithField("document")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	supplier, err := c.supplierService.UploadDocument(ctx.Request.Context(), userID, file)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Document upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(supplier))
}

// ListApproved godoc
// @Summary Approved suppliers
// @Description Public list of approved suppliers with search on brand, name and city
// @Tags suppliers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param featured query bool false "Only featured"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Suppliers"
// @Router /suppliers [get]
func (c *SupplierController) ListApproved(ctx *gin.Context) {
	result, err := c.supplierService.ListApproved(ctx.Request.Context(), supplierListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminList godoc
// @Summary List supplier registrations
// @Tags admin-suppliers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "pending, approved, rejected, suspended or all"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Suppliers"
// @Router /admin/suppliers [get]
func (c *SupplierController) AdminList(ctx *gin.Context) {
	result, err := c.supplierService.List(ctx.Request.Context(), supplierListQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminGet godoc
// @Summary Get supplier registration
// @Tags admin-suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Supplier with products"
// @Failure 404 {object} dto.ErrorResponse "Supplier not found"
// @Router /admin/suppliers/{id} [get]
func (c *SupplierController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	supplier, err := c.supplierService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(supplier))
}

// Approve godoc
// @Summary Approve supplier
// @Description Approves the registration and notifies the supplier
// @Tags admin-suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param request body dto.ReviewRequest false "Admin notes"
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Approved supplier"
// @Failure 404 {object} dto.ErrorResponse "Supplier not found"
// @Router /admin/suppliers/{id}/approve [post]
func (c *SupplierController) Approve(ctx *gin.Context) {
	c.review(ctx, c.supplierService.Approve)
}

// Reject godoc
// @Summary Reject supplier
// @Description Rejects the registration and notifies the supplier
// @Tags admin-suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param request body dto.ReviewRequest false "Admin notes"
// @Success 200 {object} dto.APIResponse{data=models.Supplier} "Rejected supplier"
// @Failure 404 {object} dto.ErrorResponse "Supplier not found"
// @Router /admin/suppliers/{id}/reject [post]
func (c *SupplierController) Reject(ctx *gin.Context) {
	c.review(ctx, c.supplierService.Reject)
}

func (c *SupplierController) review(ctx *gin.Context, decide func(context.Context, int64, int64, string) (*models.Supplier, error)) {
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

	supplier, err := decide(ctx.Request.Context(), id, adminID, req.AdminNotes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("supplierID", id).Str("status", string(supplier.Status)).Int64("adminID", adminID).Msg("Supplier reviewed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(supplier))
}

// SetFeatured godoc
// @Summary Toggle featured supplier
// @Tags admin-suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param request body dto.FeaturedRequest true "Featured flag"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Supplier not found"
// @Router /admin/suppliers/{id}/featured [patch]
func (c *SupplierController) SetFeatured(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.FeaturedRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	if err := c.supplierService.SetFeatured(ctx.Request.Context(), id, req.IsFeatured); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Supplier updated")
}

// Delete godoc
// @Summary Delete supplier
// @Tags admin-suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Supplier not found"
// @Router /admin/suppliers/{id} [delete]
func (c *SupplierController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.supplierService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Supplier deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many suppliers
// @Tags admin-suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/suppliers/bulk-status [post]
func (c *SupplierController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.supplierService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many suppliers
// @Tags admin-suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/suppliers/bulk-delete [post]
func (c *SupplierController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.supplierService.BulkDelete)
}
