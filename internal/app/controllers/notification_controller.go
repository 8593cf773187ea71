package controllers

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NotificationController handles the notification feed and the admin notification screens
type NotificationController struct {
	notificationService services.NotificationService
	wsHandler           *websocket.Handler
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService, wsHandler *websocket.Handler, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		wsHandler:           wsHandler,
		logger:              logger,
	}
}

// Feed godoc
// @Summary My notifications
// @Description Active broadcast and personal notifications, most urgent first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param unread query bool false "Only unread"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Notifications"
// @Router /notifications [get]
func (c *NotificationController) Feed(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	unreadOnly := helpers.QueryBool(ctx, "unread", false)

	result, err := c.notificationService.Feed(ctx.Request.Context(), userID, unreadOnly, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Count"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	n, err := c.notificationService.UnreadCount(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UnreadCountResponse{Count: n}))
}

// Get godoc
// @Summary Get one of my notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=models.Notification} "Notification"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [get]
func (c *NotificationController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	n, err := c.notificationService.GetForUser(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(n))
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Notification marked as read")
}

// MarkAllRead godoc
// @Summary Mark all my notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Number marked"
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	n, err := c.notificationService.MarkAllRead(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UnreadCountResponse{Count: n}))
}

// TrackClick godoc
// @Summary Record a click on a notification action
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Recorded"
// @Router /notifications/{id}/click [post]
func (c *NotificationController) TrackClick(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.TrackClick(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Click recorded")
}

// Connect godoc
// @Summary Notification websocket
// @Description Server push only. Frames are {type:"notification", payload:{...}}.
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "Access token for browser clients"
// @Success 101 "Switching protocols"
// @Router /notifications/ws [get]
func (c *NotificationController) Connect(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.wsHandler.Serve(ctx, userID, userID, websocket.WithInbound(websocket.DiscardInbound)); err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Notification websocket not established")
	}
}

// AdminList godoc
// @Summary List notifications
// @Tags admin-notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search on title and message"
// @Param type query string false "Type filter"
// @Param priority query string false "Priority filter"
// @Param is_active query bool false "Active flag"
// @Param user_id query int false "Recipient"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Notifications"
// @Router /admin/notifications [get]
func (c *NotificationController) AdminList(ctx *gin.Context) {
	query := services.NotificationListQuery{
		ListQuery: listQuery(ctx),
		Type:      ctx.Query("type"),
		Priority:  ctx.Query("priority"),
		IsActive:  helpers.QueryBoolPtr(ctx, "is_active"),
	}
	if raw := ctx.Query("user_id"); raw != "" {
		if uid, ok := parsePositiveInt64(raw); ok {
			query.UserID = &uid
		}
	}

	result, err := c.notificationService.List(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// AdminGet godoc
// @Summary Get notification
// @Tags admin-notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=models.Notification} "Notification"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /admin/notifications/{id} [get]
func (c *NotificationController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	n, err := c.notificationService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(n))
}

// Create godoc
// @Summary Create notification
// @Description Without userId the notification is a broadcast
// @Tags admin-notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNotificationRequest true "Notification"
// @Success 201 {object} dto.APIResponse{data=models.Notification} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/notifications [post]
func (c *NotificationController) Create(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateNotificationRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	n, err := c.notificationService.Create(ctx.Request.Context(), &req, adminID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(n))
}

// Update godoc
// @Summary Update notification
// @Description Only the fields present in the body change
// @Tags admin-notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Param request body dto.UpdateNotificationRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=models.Notification} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /admin/notifications/{id} [put]
func (c *NotificationController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateNotificationRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	n, err := c.notificationService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(n))
}

// Delete godoc
// @Summary Delete notification
// @Tags admin-notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /admin/notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondMessage(ctx, http.StatusOK, "Notification deleted")
}

// Stats godoc
// @Summary Notification statistics
// @Tags admin-notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=repositories.NotificationStats} "Stats"
// @Router /admin/notifications/stats [get]
func (c *NotificationController) Stats(ctx *gin.Context) {
	stats, err := c.notificationService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// BulkSend godoc
// @Summary Send a notification to many users
// @Description recipientType all (one broadcast row), specific (userIds) or group (role). type=email also emails each recipient.
// @Tags admin-notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkSendRequest true "Notification and recipients"
// @Success 200 {object} dto.APIResponse{data=dto.BulkSendResult} "Delivery counters"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/notifications/bulk-send [post]
func (c *NotificationController) BulkSend(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkSendRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	result, err := c.notificationService.BulkSend(ctx.Request.Context(), &req, adminID)
	if err != nil {
		c.logger.Warn().Err(err).Str("recipientType", req.RecipientType).Msg("Bulk send failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("recipientType", req.RecipientType).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("Bulk notification sent")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}
