package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	defaultChatPageSize = 50
	maxChatPageSize     = 100
)

// ChatController handles the supplier/visitor chat of accepted requests
type ChatController struct {
	chatService services.ChatService
	wsHandler   *websocket.Handler
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService, wsHandler *websocket.Handler, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		wsHandler:   wsHandler,
		logger:      logger,
	}
}

// ListChats godoc
// @Summary My chats
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.MatchingChat} "Chats"
// @Router /matching/chats [get]
func (c *ChatController) ListChats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	chats, err := c.chatService.ListChats(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(chats))
}

// GetChatForRequest godoc
// @Summary Chat of an accepted request
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.MatchingChat} "Chat"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "No chat for this request"
// @Router /matching/requests/{id}/chat [get]
func (c *ChatController) GetChatForRequest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	chat, err := c.chatService.GetChatForRequest(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(chat))
}

// GetMessages godoc
// @Summary Chat messages
// @Description Oldest first. Use before (RFC3339) to page backwards.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param before query string false "Only messages before this time (RFC3339)"
// @Param limit query int false "Maximum number of messages" default(50)
// @Success 200 {object} dto.APIResponse{data=[]models.MatchingMessage} "Messages"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /matching/chats/{chatId}/messages [get]
func (c *ChatController) GetMessages(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chatID, ok := parseIDParam(ctx, "chatId")
	if !ok {
		return
	}

	limit := defaultChatPageSize
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxChatPageSize {
			limit = n
		}
	}

	var before *time.Time
	if raw := ctx.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "before must be RFC3339").WithField("before")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		before = &t
	}

	messages, err := c.chatService.GetMessages(ctx.Request.Context(), userID, chatID, before, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(messages))
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Stored and broadcast to the chat's websocket room
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param request body dto.SendChatMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.MatchingMessage} "Stored message"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 409 {object} dto.ErrorResponse "Chat closed"
// @Router /matching/chats/{chatId}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chatID, ok := parseIDParam(ctx, "chatId")
	if !ok {
		return
	}

	var req dto.SendChatMessageRequest
	if !bindJSON(ctx, c.logger, &req) {
		return
	}

	msg, err := c.chatService.SendMessage(ctx.Request.Context(), userID, chatID, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(msg))
}

// MarkRead godoc
// @Summary Mark the other party's messages read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Number of messages marked"
// @Router /matching/chats/{chatId}/read [post]
func (c *ChatController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chatID, ok := parseIDParam(ctx, "chatId")
	if !ok {
		return
	}

	n, err := c.chatService.MarkRead(ctx.Request.Context(), userID, chatID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UnreadCountResponse{Count: n}))
}

// Connect godoc
// @Summary Chat websocket
// @Description Upgrades to a websocket joined to the chat room. Text frames are stored and broadcast.
// @Tags chat
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param token query string false "Access token for browser clients"
// @Success 101 "Switching protocols"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /matching/chats/{chatId}/ws [get]
func (c *ChatController) Connect(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chatID, ok := parseIDParam(ctx, "chatId")
	if !ok {
		return
	}

	if _, err := c.chatService.Authorize(ctx.Request.Context(), userID, chatID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.wsHandler.Serve(ctx, userID, chatID); err != nil {
		c.logger.Warn().Err(err).Int64("chatID", chatID).Msg("Chat websocket not established")
	}
}
