package controllers

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserController handles the admin user screens
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Paginated users with search on name, email and phone
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "active, inactive, banned or all"
// @Param role query string false "user or admin"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Users"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	query := services.UserListQuery{
		ListQuery: listQuery(ctx),
		Role:      ctx.Query("role"),
	}

	users, err := c.userService.ListUsers(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(users))
}

// GetUser godoc
// @Summary Get user
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// UpdateStatus godoc
// @Summary Change a user's status
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.StatusUpdateRequest true "active, inactive or banned"
// @Success 200 {object} dto.APIResponse{data=models.User} "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/status [patch]
func (c *UserController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	user, err := c.userService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", id).Str("status", req.Status).Msg("User status changed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// BulkUpdateStatus godoc
// @Summary Change the status of many users
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStatusRequest true "IDs and status"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /admin/users/bulk-status [post]
func (c *UserController) BulkUpdateStatus(ctx *gin.Context) {
	handleBulkStatus(ctx, c.logger, c.userService.BulkUpdateStatus)
}
