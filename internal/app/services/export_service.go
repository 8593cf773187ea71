package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/export"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// Export types
const (
	ExportEducation        = "education"
	ExportSuppliers        = "suppliers"
	ExportProducts         = "products"
	ExportPopups           = "popups"
	ExportNotifications    = "notifications"
	ExportUsers            = "users"
	ExportVisitors         = "visitors"
	ExportResearchProducts = "research_products"
	ExportMatchingRequests = "matching_requests"
)

// ExportRequest describes one download
type ExportRequest struct {
	Type           string
	Format         export.Format
	Columns        []string
	IncludeHeaders bool

	// list filters, each used by the types that support it
	ListQuery
	Category   string
	Level      string
	Role       string
	Priority   string
	HSCode     string
	IsFeatured *bool

	// NotificationType filters notification exports by type
	NotificationType string
}

// ExportFile describes what was written
type ExportFile struct {
	Filename    string
	ContentType string
	Rows        int
}

// ExportService renders admin lists as CSV or XLSX
type ExportService interface {
	Export(ctx context.Context, req ExportRequest, w io.Writer) (*ExportFile, error)
	Columns(kind string) ([]string, error)
	Types() []string
}

// ExportSources are the repositories an export reads from
type ExportSources struct {
	Users            repositories.IUserRepository
	Suppliers        repositories.ISupplierRepository
	Visitors         repositories.IVisitorRepository
	Matching         repositories.IMatchingRepository
	ResearchProducts repositories.IResearchProductRepository
	Education        repositories.IEducationRepository
	Products         repositories.IProductRepository
	Notifications    repositories.INotificationRepository
	Popups           repositories.IPopupRepository
	SupportTickets   repositories.ISupportTicketRepository
}

type exportServiceImpl struct {
	repos  ExportSources
	logger zerolog.Logger
	clock  clock
}

// NewExportService creates a new ExportService
func NewExportService(repos ExportSources, logger zerolog.Logger) ExportService {
	return &exportServiceImpl{repos: repos, logger: logger}
}

// exportPageSize is the largest page the repositories hand out
const exportPageSize = helpers.MaxPageSize

// fetchAll pages through a list until every row is loaded
func fetchAll[T any](fetch func(page repositories.Page) ([]T, int64, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, total, err := fetch(repositories.Page{Page: page, Size: exportPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < exportPageSize || int64(len(all)) >= total {
			return all, nil
		}
	}
}

func write[T any](w io.Writer, req ExportRequest, rows []T, all []export.Column[T]) (int, error) {
	cols, err := export.SelectColumns(all, req.Columns)
	if err != nil {
		return 0, validationError("%v", err)
	}
	opts := export.Options{IncludeHeaders: req.IncludeHeaders, RightToLeft: true}
	if req.Format == export.FormatXLSX {
		err = export.WriteXLSX(w, rows, cols, opts)
	} else {
		err = export.WriteCSV(w, rows, cols, opts)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to render export: %w", err)
	}
	return len(rows), nil
}

// Types lists the exportable types
func (s *exportServiceImpl) Types() []string {
	types := []string{
		ExportEducation, ExportSuppliers, ExportProducts, ExportPopups, ExportNotifications,
		ExportUsers, ExportVisitors, ExportResearchProducts, ExportMatchingRequests,
	}
	sort.Strings(types)
	return types
}

// Columns lists the column ids of a type
func (s *exportServiceImpl) Columns(kind string) ([]string, error) {
	switch kind {
	case ExportEducation:
		return export.ColumnIDs(educationColumns), nil
	case ExportSuppliers:
		return export.ColumnIDs(supplierColumns), nil
	case ExportProducts:
		return export.ColumnIDs(productColumns), nil
	case ExportPopups:
		return export.ColumnIDs(popupColumns), nil
	case ExportNotifications:
		return export.ColumnIDs(notificationColumns), nil
	case ExportUsers:
		return export.ColumnIDs(userColumns), nil
	case ExportVisitors:
		return export.ColumnIDs(visitorColumns), nil
	case ExportResearchProducts:
		return export.ColumnIDs(researchProductColumns), nil
	case ExportMatchingRequests:
		return export.ColumnIDs(matchingColumns), nil
	}
	return nil, validationError("unknown export type: %s", kind)
}

// Export loads every row of the requested type and renders it to w
func (s *exportServiceImpl) Export(ctx context.Context, req ExportRequest, w io.Writer) (*ExportFile, error) {
	if req.Format == "" {
		req.Format = export.FormatCSV
	}
	status := helpers.NormalizeStatusFilter(req.Status)

	var (
		n   int
		err error
	)
	switch req.Type {
	case ExportEducation:
		var rows []*models.Education
		rows, err = fetchAll(func(p repositories.Page) ([]*models.Education, int64, error) {
			return s.repos.Education.List(ctx, repositories.EducationFilter{
				Page: p, Search: req.Search, Status: status,
				Category: helpers.NormalizeStatusFilter(req.Category), Level: helpers.NormalizeStatusFilter(req.Level),
			})
		})
		if err == nil {
			n, err = write(w, req, rows, educationColumns)
		}
	case ExportSuppliers:
		var rows []*models.Supplier
		rows, err = fetchAll(func(p repositories.Page) ([]*models.Supplier, int64, error) {
			return s.repos.Suppliers.List(ctx, repositories.SupplierFilter{Page: p, Search: req.Search, Status: status, IsFeatured: req.IsFeatured})
		})
		if err == nil {
			n, err = write(w, req, rows, supplierColumns)
		}
	case ExportVisitors:
		var rows []*models.Visitor
		rows, err = fetchAll(func(p repositories.Page) ([]*models.Visitor, int64, error) {
			return s.repos.Visitors.List(ctx, repositories.VisitorFilter{Page: p, Search: req.Search, Status: status, IsFeatured: req.IsFeatured})
		})
		if err == nil {
			n, err = write(w, req, rows, visitorColumns)
		}
	case ExportProducts:
		var statuses []string
		if status != "" {
			statuses = []string{status}
		}
		var rows []*models.Product
		rows, err = fetchAll(func(p repositories.Page) ([]*models.Product, int64, error) {
			return s.repos.Products.List(ctx, repositories.ProductFilter{
				Page: p, Search: req.Search, Category: helpers.NormalizeStatusFilter(req.Category), Statuses: statuses,
			})
		})
		if err == nil {
			n, err = write(w, req, rows, productColumns)
		}
	case ExportPopups:
		now := s.clock.now()
		var rows []*models.MarketingPopup
		rows, err = fetchAll(func(p repositories.Page) ([]*models.MarketingPopup, int64, error) {
			return s.repos.Popups.List(ctx, repositories.PopupFilter{Page: p, Search: req.Search, Status: models.PopupStatus(status), Now: now})
		})
		if err == nil {
			out := make([]popupRow, len(rows))
			for i, p := range rows {
				out[i] = popupRow{MarketingPopup: p, status: p.StatusAt(now)}
			}
			n, err = write(w, req, out, popupColumns)
		}
	case ExportNotifications:
		var rows []*models.Notification
		rows, err = fetchAll(func(p repositories.Page) ([]*models.Notification, int64, error) {
			return s.repos.Notifications.List(ctx, repositories.NotificationFilter{
				Page: p, Search: req.Search, Type: helpers.NormalizeStatusFilter(req.NotificationType), Priority: helpers.NormalizeStatusFilter(req.Priority),
			})
		})
		if err == nil {
			n, err = write(w, req, rows, notificationColumns)
		}
	case ExportUsers:
		var rows []*models.User
		rows, err = fetchAll(func(p repositories.Page) ([]*models.User, int64, error) {
			return s.repos.Users.List(ctx, repositories.UserFilter{Page: p, Search: req.Search, Status: status, Role: helpers.NormalizeStatusFilter(req.Role)})
		})
		if err == nil {
			n, err = write(w, req, rows, userColumns)
		}
	case ExportResearchProducts:
		var rows []*models.ResearchProduct
		rows, err = fetchAll(func(p repositories.Page) ([]*models.ResearchProduct, int64, error) {
			return s.repos.ResearchProducts.List(ctx, repositories.ResearchProductFilter{
				Page: p, Search: req.Search, Status: status, Category: req.Category, HSCode: req.HSCode,
			})
		})
		if err == nil {
			n, err = write(w, req, rows, researchProductColumns)
		}
	case ExportMatchingRequests:
		var rows []*models.MatchingRequest
		rows, err = fetchAll(func(p repositories.Page) ([]*models.MatchingRequest, int64, error) {
			return s.repos.Matching.List(ctx, repositories.MatchingFilter{Page: p, Search: req.Search, Status: status})
		})
		if err == nil {
			n, err = write(w, req, rows, matchingColumns)
		}
	default:
		return nil, validationError("unknown export type: %s", req.Type)
	}
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename:    export.Filename(req.Type, s.clock.now().Format("2006-01-02"), req.Format),
		ContentType: req.Format.ContentType(),
		Rows:        n,
	}
	s.logger.Info().Str("type", req.Type).Str("format", string(req.Format)).Int("rows", n).Msg("Export generated")
	return file, nil
}
