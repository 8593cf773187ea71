package services

import (
	"context"
	"fmt"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/rs/zerolog"
)

// ReportService builds the admin dashboard
type ReportService interface {
	Summary(ctx context.Context) (*dto.SummaryReport, error)
}

type reportServiceImpl struct {
	repos  ExportSources
	logger zerolog.Logger
	clock  clock
}

// NewReportService creates a new ReportService
func NewReportService(repos ExportSources, logger zerolog.Logger) ReportService {
	return &reportServiceImpl{repos: repos, logger: logger}
}

// Summary counts every entity per status
func (s *reportServiceImpl) Summary(ctx context.Context) (*dto.SummaryReport, error) {
	now := s.clock.now()
	report := &dto.SummaryReport{GeneratedAt: now}

	counters := []struct {
		name  string
		count func(context.Context) (map[string]int64, error)
		dst   *dto.EntityCounts
	}{
		{"users", s.repos.Users.CountByStatus, &report.Users},
		{"suppliers", s.repos.Suppliers.CountByStatus, &report.Suppliers},
		{"visitors", s.repos.Visitors.CountByStatus, &report.Visitors},
		{"matching requests", s.repos.Matching.CountByStatus, &report.MatchingRequests},
		{"research products", s.repos.ResearchProducts.CountByStatus, &report.ResearchProducts},
		{"education", s.repos.Education.CountByStatus, &report.Education},
		{"products", s.repos.Products.CountByStatus, &report.Products},
		{"support tickets", s.repos.SupportTickets.CountByStatus, &report.SupportTickets},
	}
	for _, c := range counters {
		byStatus, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dst = dto.NewEntityCounts(byStatus)
	}

	stats, err := s.repos.Notifications.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	report.Notifications = dto.EntityCounts{
		Total: stats.Total,
		ByStatus: map[string]int64{
			"active":   stats.Active,
			"inactive": stats.Total - stats.Active,
			"unread":   stats.Unread,
		},
	}

	total, active, err := s.repos.Popups.CountActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count popups: %w", err)
	}
	report.Popups = dto.EntityCounts{
		Total: total,
		ByStatus: map[string]int64{
			string(models.PopupActive):   active,
			string(models.PopupInactive): total - active,
		},
	}

	return report, nil
}
