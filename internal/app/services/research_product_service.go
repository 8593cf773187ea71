package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ResearchListQuery filters research product lists
type ResearchListQuery struct {
	ListQuery
	Category string
	HSCode   string
}

// ResearchProductService manages the market-research catalogue
type ResearchProductService interface {
	Create(ctx context.Context, req *dto.ResearchProductRequest, adminID int64) (*models.ResearchProduct, error)
	Get(ctx context.Context, id int64) (*models.ResearchProduct, error)
	GetActive(ctx context.Context, id int64) (*models.ResearchProduct, error)
	Update(ctx context.Context, id int64, req *dto.ResearchProductRequest) (*models.ResearchProduct, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
	List(ctx context.Context, query ResearchListQuery) (*dto.PaginatedResponse, error)
	ListActive(ctx context.Context, query ResearchListQuery) (*dto.PaginatedResponse, error)
	Categories(ctx context.Context) ([]string, error)
	ImportExcel(ctx context.Context, r io.Reader, adminID int64) (*dto.ImportResult, error)
}

type researchProductServiceImpl struct {
	repo   repositories.IResearchProductRepository
	logger zerolog.Logger
}

// NewResearchProductService creates a new ResearchProductService
func NewResearchProductService(repo repositories.IResearchProductRepository, logger zerolog.Logger) ResearchProductService {
	return &researchProductServiceImpl{repo: repo, logger: logger}
}

func applyResearchRequest(p *models.ResearchProduct, req *dto.ResearchProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.HSCode = strings.TrimSpace(req.HSCode)
	p.Category = strings.TrimSpace(req.Category)
	p.Description = strings.TrimSpace(req.Description)
	p.ExportValue = strings.TrimSpace(req.ExportValue)
	p.ImportValue = strings.TrimSpace(req.ImportValue)
	p.MarketDemand = levelOrDefault(req.MarketDemand)
	p.ProfitPotential = levelOrDefault(req.ProfitPotential)
	p.CompetitionLevel = levelOrDefault(req.CompetitionLevel)
	p.TargetCountry = strings.TrimSpace(req.TargetCountry)
	p.IranPurchasePrice = strings.TrimSpace(req.IranPurchasePrice)
	p.TargetCountryPrice = strings.TrimSpace(req.TargetCountryPrice)
	p.PriceCurrency = strings.ToUpper(strings.TrimSpace(req.PriceCurrency))
	if p.PriceCurrency == "" {
		p.PriceCurrency = "USD"
	}
	p.TargetCountries = strings.TrimSpace(req.TargetCountries)
	p.SeasonalFactors = strings.TrimSpace(req.SeasonalFactors)
	p.RequiredLicenses = strings.TrimSpace(req.RequiredLicenses)
	p.QualityStandards = strings.TrimSpace(req.QualityStandards)
	p.Status = models.ResearchProductStatus(req.Status)
	if p.Status == "" {
		p.Status = models.ResearchActive
	}
	p.Priority = req.Priority
	p.RecomputeProfitMargin()
}

func levelOrDefault(v string) models.Level {
	if v == "" {
		return models.LevelMedium
	}
	return models.Level(v)
}

func validResearchStatus(status string) (models.ResearchProductStatus, error) {
	st := models.ResearchProductStatus(status)
	if st != models.ResearchActive && st != models.ResearchInactive {
		return "", validationError("invalid status: %s", status)
	}
	return st, nil
}

// Create adds a research product
func (s *researchProductServiceImpl) Create(ctx context.Context, req *dto.ResearchProductRequest, adminID int64) (*models.ResearchProduct, error) {
	p := &models.ResearchProduct{AddedBy: int64Ptr(adminID)}
	applyResearchRequest(p, req)
	if p.Name == "" || p.Category == "" {
		return nil, validationError("name and category are required")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns any research product
func (s *researchProductServiceImpl) Get(ctx context.Context, id int64) (*models.ResearchProduct, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActive returns a research product visible to the public
func (s *researchProductServiceImpl) GetActive(ctx context.Context, id int64) (*models.ResearchProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ResearchActive {
		return nil, errResearchHidden
	}
	return p, nil
}

// Update replaces a research product's fields
func (s *researchProductServiceImpl) Update(ctx context.Context, id int64, req *dto.ResearchProductRequest) (*models.ResearchProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyResearchRequest(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus activates or deactivates a research product
func (s *researchProductServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	st, err := validResearchStatus(status)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

// Delete removes a research product
func (s *researchProductServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus sets the status of many research products
func (s *researchProductServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st, err := validResearchStatus(status)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many research products
func (s *researchProductServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// List returns a filtered page of research products
func (s *researchProductServiceImpl) List(ctx context.Context, query ResearchListQuery) (*dto.PaginatedResponse, error) {
	items, total, err := s.repo.List(ctx, repositories.ResearchProductFilter{
		Page:     query.page(),
		Search:   query.Search,
		Category: strings.TrimSpace(query.Category),
		Status:   helpers.NormalizeStatusFilter(query.Status),
		HSCode:   strings.TrimSpace(query.HSCode),
	})
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// ListActive is the public research list
func (s *researchProductServiceImpl) ListActive(ctx context.Context, query ResearchListQuery) (*dto.PaginatedResponse, error) {
	query.Status = string(models.ResearchActive)
	return s.List(ctx, query)
}

// Categories lists the distinct categories of active products
func (s *researchProductServiceImpl) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Research import sheet layout
const (
	importSkipRows       = 2
	importColName        = 0
	importColHSCode      = 1
	importColCountries   = 2
	importColDescription = 3
	importColExportValue = 4
)

// ImportExcel reads research products from the first sheet of a workbook.
// The first two rows hold the header and a sample line.
func (s *researchProductServiceImpl) ImportExcel(ctx context.Context, r io.Reader, adminID int64) (*dto.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, validationError("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validationError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result := &dto.ImportResult{Errors: []string{}}
	for i := importSkipRows; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		result.Total++
		line := i + 1

		name := cleanCell(cell(row, importColName))
		if name == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: name is empty", line))
			continue
		}

		exists, err := s.repo.NameExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		p := &models.ResearchProduct{
			Name:             name,
			HSCode:           cleanCell(cell(row, importColHSCode)),
			Category:         CategoryFromName(name),
			Description:      cleanCell(cell(row, importColDescription)),
			ExportValue:      cleanCell(cell(row, importColExportValue)),
			TargetCountries:  cleanCell(cell(row, importColCountries)),
			MarketDemand:     models.LevelMedium,
			ProfitPotential:  models.LevelMedium,
			CompetitionLevel: models.LevelMedium,
			PriceCurrency:    "USD",
			Status:           models.ResearchActive,
			AddedBy:          int64Ptr(adminID),
		}
		if err := s.repo.Create(ctx, p); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info().
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Research products imported")
	return result, nil
}

// categoryKeywords are checked in order against the lowercased product name
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"پلاستیک", "پلاستیک و پلیمر"},
	{"پلیمر", "پلاستیک و پلیمر"},
	{"پلی", "پلاستیک و پلیمر"},
	{"زعفران", "ادویه و چاشنی"},
	{"خرما", "میوه و خشکبار"},
	{"پسته", "میوه و خشکبار"},
	{"کشمش", "میوه و خشکبار"},
	{"انجیر", "میوه و خشکبار"},
	{"فرش", "صنایع دستی"},
	{"قالی", "صنایع دستی"},
	{"چای", "نوشیدنی"},
	{"برنج", "غلات"},
	{"نفت", "انرژی"},
	{"گاز", "انرژی"},
	{"فولاد", "فلزات"},
	{"آهن", "فلزات"},
	{"مس", "فلزات"},
	{"سیمان", "مصالح ساختمانی"},
	{"سنگ", "مصالح ساختمانی"},
	{"شیمیایی", "مواد شیمیایی"},
	{"دارو", "دارو و بهداشت"},
}

// CategoryFromName infers a research category from keywords in the name
func CategoryFromName(name string) string {
	name = strings.ToLower(name)
	for _, k := range categoryKeywords {
		if strings.Contains(name, k.keyword) {
			return k.category
		}
	}
	return models.DefaultResearchCategory
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// cleanCell flattens line breaks and tabs and collapses repeated spaces
func cleanCell(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
