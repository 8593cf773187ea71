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

// SupportController handles support tickets
type SupportController struct {
	supportService services.SupportService
	logger         zerolog.Logger
}

// NewSupportController creates a new SupportController
func NewSupportController(supportService services.SupportService, logger zerolog.Logger) *SupportController {
	return &SupportController{
		supportService: supportService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Open a support ticket
// @Description The description is stored as the ticket's first message.
// @Tags support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTicketRequest true "Ticket"
// @Success 201 {object} dto.APIResponse{data=dto.TicketResponse} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /support/tickets [post]
func (c *SupportController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	ticket, err := c.supportService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(ticket))
}

// ListMine godoc
// @Summary List my support tickets
// @Tags support
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "open, in_progress, waiting_response, closed or all"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Tickets"
// @Router /support/tickets [get]
func (c *SupportController) ListMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	result, err := c.supportService.ListMine(ctx.Request.Context(), userID, listQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetMine godoc
// @Summary Get one of my tickets with its messages
// @Tags support
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Failure 404 {object} dto.ErrorResponse "Ticket not found"
// @Router /support/tickets/{id} [get]
func (c *SupportController) GetMine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	ticket, err := c.supportService.GetMine(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// AddMessage godoc
// @Summary Add a message to my ticket
// @Tags support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body dto.TicketMessageRequest true "Message"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Failure 409 {object} dto.ErrorResponse "Ticket is closed"
// @Router /support/tickets/{id}/messages [post]
func (c *SupportController) AddMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.TicketMessageRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	ticket, err := c.supportService.AddMessage(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// Close godoc
// @Summary Close my ticket
// @Tags support
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Closed"
// @Failure 404 {object} dto.ErrorResponse "Ticket not found"
// @Router /support/tickets/{id}/close [post]
func (c *SupportController) Close(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.supportService.Close(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Ticket closed")
}

// AdminList godoc
// @Summary List all support tickets
// @Tags admin-support
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on title, description and user email"
// @Param status query string false "Status filter"
// @Param priority query string false "low, medium, high or urgent"
// @Param category query string false "general, technical, billing, license or other"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Tickets"
// @Router /admin/support/tickets [get]
func (c *SupportController) AdminList(ctx *gin.Context) {
	query := services.TicketListQuery{
		ListQuery: listQuery(ctx),
		Priority:  strings.TrimSpace(ctx.Query("priority")),
		Category:  strings.TrimSpace(ctx.Query("category")),
	}

	result, err := c.supportService.AdminList(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminGet godoc
// @Summary Get any ticket with its messages
// @Tags admin-support
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Failure 404 {object} dto.ErrorResponse "Ticket not found"
// @Router /admin/support/tickets/{id} [get]
func (c *SupportController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	ticket, err := c.supportService.AdminGet(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// AdminUpdate godoc
// @Summary Edit a ticket's title, description, priority or category
// @Tags admin-support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body dto.UpdateTicketRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Router /admin/support/tickets/{id} [put]
func (c *SupportController) AdminUpdate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTicketRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	ticket, err := c.supportService.AdminUpdate(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// Reply godoc
// @Summary Reply to a ticket as support
// @Description Open and in-progress tickets move to waiting_response. The owner is notified.
// @Tags admin-support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body dto.TicketMessageRequest true "Message"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Router /admin/support/tickets/{id}/messages [post]
func (c *SupportController) Reply(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.TicketMessageRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	ticket, err := c.supportService.Reply(ctx.Request.Context(), adminID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// UpdateStatus godoc
// @Summary Change a ticket's status
// @Tags admin-support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body dto.TicketStatusRequest true "Status and optional note"
// @Success 200 {object} dto.APIResponse{data=dto.TicketResponse} "Ticket"
// @Router /admin/support/tickets/{id}/status [patch]
func (c *SupportController) UpdateStatus(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.TicketStatusRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	ticket, err := c.supportService.UpdateStatus(ctx.Request.Context(), adminID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ticket))
}

// Delete godoc
// @Summary Delete a ticket
// @Tags admin-support
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Router /admin/support/tickets/{id} [delete]
func (c *SupportController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.supportService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Ticket deleted")
}

// BulkUpdateStatus godoc
// @Summary Change the status of many tickets
// @Tags admin-support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/support/tickets/bulk-status [post]
func (c *SupportController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.supportService.BulkUpdateStatus)
}

// BulkDelete godoc
// @Summary Delete many tickets
// @Tags admin-support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Router /admin/support/tickets/bulk-delete [post]
func (c *SupportController) BulkDelete(ctx *gin.Context) {
	handleBulkDelete(ctx, c.logger, c.supportService.BulkDelete)
}
