package controllers

import (
	"context"
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SearchController handles the cross-entity search
type SearchController struct {
	searchService services.SearchService
	wsHandler     *websocket.Handler
	logger        zerolog.Logger
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService services.SearchService, wsHandler *websocket.Handler, logger zerolog.Logger) *SearchController {
	return &SearchController{
		searchService: searchService,
		wsHandler:     wsHandler,
		logger:        logger,
	}
}

// Search godoc
// @Summary Search everything
// @Description Suppliers, visitors, research products, products and education, a few hits per category
// @Tags search
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.APIResponse{data=dto.SearchResponse} "Grouped hits"
// @Failure 400 {object} dto.ErrorResponse "Empty query"
// @Router /search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	result, err := c.searchService.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// Live godoc
// @Summary Live search websocket
// @Description Send {"query": "..."} frames; results arrive once typing pauses
// @Tags search
// @Success 101 "Switching protocols"
// @Router /search/ws [get]
func (c *SearchController) Live(ctx *gin.Context) {
	// anonymous sockets share room 0; replies go straight to the client
	userID, _ := middleware.UserIDFromContext(ctx)

	sessionCtx, cancel := context.WithCancel(context.Background())
	session := c.searchService.NewLiveSession(sessionCtx)
	onClose := func() {
		session.Close()
		cancel()
	}

	err := c.wsHandler.Serve(ctx, userID, userID,
		websocket.WithInbound(func(client *websocket.Client, payload []byte) {
			session.Handle(payload, client.SendMessage)
		}),
		websocket.WithOnClose(onClose),
	)
	if err != nil {
		onClose()
		c.logger.Warn().Err(err).Msg("Live search websocket not established")
	}
}
