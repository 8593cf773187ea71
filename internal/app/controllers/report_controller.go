package controllers

import (
	"net/http"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReportController serves the admin dashboard
type ReportController struct {
	reportService services.ReportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		logger:        logger,
	}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Totals and per-status counts of every entity
// @Tags admin-reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SummaryReport} "Summary"
// @Router /admin/reports/summary [get]
func (c *ReportController) Summary(ctx *gin.Context) {
	report, err := c.reportService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(report))
}
