package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/aslmarket/backend/internal/pkg/export"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportController streams admin lists as CSV or XLSX downloads
type ExportController struct {
	exportService services.ExportService
	logger        zerolog.Logger
}

// NewExportController creates a new ExportController
func NewExportController(exportService services.ExportService, logger zerolog.Logger) *ExportController {
	return &ExportController{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportColumnsResponse lists the selectable columns of an export type
type ExportColumnsResponse struct {
	Type    string   `json:"type"`
	Columns []string `json:"columns"`
}

// Types godoc
// @Summary Exportable types
// @Tags admin-export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string} "Types"
// @Router /admin/export [get]
func (c *ExportController) Types(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.exportService.Types()))
}

// Columns godoc
// @Summary Columns of an export type
// @Tags admin-export
// @Produce json
// @Security BearerAuth
// @Param type path string true "Export type"
// @Success 200 {object} dto.APIResponse{data=ExportColumnsResponse} "Column ids in default order"
// @Failure 400 {object} dto.ErrorResponse "Unknown type"
// @Router /admin/export/{type}/columns [get]
func (c *ExportController) Columns(ctx *gin.Context) {
	kind := ctx.Param("type")
	columns, err := c.exportService.Columns(kind)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ExportColumnsResponse{Type: kind, Columns: columns}))
}

// Export godoc
// @Summary Download an export
// @Description Every row matching the filters, in CSV (UTF-8 with BOM) or XLSX
// @Tags admin-export
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type path string true "Export type"
// @Param format query string false "csv or xlsx" default(csv)
// @Param columns query string false "Comma separated column ids"
// @Param include_headers query bool false "Write a header row" default(true)
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param level query string false "Education level"
// @Param role query string false "User role"
// @Param priority query string false "Notification priority"
// @Param notification_type query string false "Notification type"
// @Param hs_code query string false "HS code prefix"
// @Param featured query bool false "Featured flag"
// @Success 200 {file} file "Export file"
// @Failure 400 {object} dto.ErrorResponse "Unknown type, format or column"
// @Router /admin/export/{type} [get]
func (c *ExportController) Export(ctx *gin.Context) {
	format, err := export.ParseFormat(ctx.Query("format"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unsupported format").
			WithField("format").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	req := services.ExportRequest{
		Type:             ctx.Param("type"),
		Format:           format,
		Columns:          helpers.SplitList(ctx.Query("columns")),
		IncludeHeaders:   helpers.QueryBool(ctx, "include_headers", true),
		ListQuery:        listQuery(ctx),
		Category:         strings.TrimSpace(ctx.Query("category")),
		Level:            strings.TrimSpace(ctx.Query("level")),
		Role:             strings.TrimSpace(ctx.Query("role")),
		Priority:         strings.TrimSpace(ctx.Query("priority")),
		HSCode:           strings.TrimSpace(ctx.Query("hs_code")),
		IsFeatured:       helpers.QueryBoolPtr(ctx, "featured"),
		NotificationType: strings.TrimSpace(ctx.Query("notification_type")),
	}

	var buf bytes.Buffer
	file, err := c.exportService.Export(ctx.Request.Context(), req, &buf)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("type", req.Type).
		Str("format", string(format)).
		Int("rows", file.Rows).
		Msg("Export generated")

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	ctx.Data(http.StatusOK, file.ContentType, buf.Bytes())
}
