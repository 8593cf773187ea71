package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// ProductListQuery filters product lists
type ProductListQuery struct {
	ListQuery
	Category string
}

// ProductService manages the sellable catalogue
type ProductService interface {
	Create(ctx context.Context, req *dto.ProductRequest) (*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, req *dto.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
	BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error)
	List(ctx context.Context, query ProductListQuery) (*dto.PaginatedResponse, error)
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error)

	// public
	ListPublic(ctx context.Context, query ProductListQuery) (*dto.PaginatedResponse, error)
	GetPublic(ctx context.Context, id int64) (*models.Product, error)
}

type productServiceImpl struct {
	repo   repositories.IProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo repositories.IProductRepository, logger zerolog.Logger) ProductService {
	return &productServiceImpl{repo: repo, logger: logger}
}

const utf8BOM = "\xef\xbb\xbf"

var publicProductStatuses = []string{string(models.ProductActive), string(models.ProductOutOfStock)}

var productCategories = map[string]bool{
	"education": true, "software": true, "service": true, "subscription": true,
	"license": true, "course": true, "package": true, "other": true,
}

func applyProductRequest(p *models.Product, req *dto.ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.Price = req.Price
	p.Category = req.Category
	p.Stock = req.Stock
	p.Status = models.ProductStatus(req.Status)
	if p.Status == "" {
		p.Status = models.ProductActive
	}
	p.Tags = cleanTags(req.Tags)
	p.ImageURL = strings.TrimSpace(req.ImageURL)
	p.Discount = req.Discount
	p.SKU = nil
	if sku := strings.TrimSpace(req.SKU); sku != "" {
		p.SKU = &sku
	}
	p.NormalizeStock()
}

func validateProduct(p *models.Product) error {
	if n := len([]rune(p.Name)); n < 2 || n > 100 {
		return validationError("name must be 2 to 100 characters")
	}
	if n := len([]rune(p.Description)); n > 0 && (n < 10 || n > 2000) {
		return validationError("description must be 10 to 2000 characters")
	}
	if p.Price < 0 || p.Price > 1_000_000_000 {
		return validationError("price must be between 0 and 1000000000")
	}
	if !productCategories[p.Category] {
		return validationError("invalid category: %s", p.Category)
	}
	if p.Stock < 0 {
		return validationError("stock cannot be negative")
	}
	if !p.Status.IsValid() {
		return validationError("invalid status: %s", p.Status)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return validationError("discount must be between 0 and 100")
	}
	if p.SKU != nil && len(*p.SKU) > 50 {
		return validationError("sku must be at most 50 characters")
	}
	return nil
}

// Create adds a product
func (s *productServiceImpl) Create(ctx context.Context, req *dto.ProductRequest) (*models.Product, error) {
	p := &models.Product{}
	applyProductRequest(p, req)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns any product
func (s *productServiceImpl) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublic returns a product on sale
func (s *productServiceImpl) GetPublic(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProductInactive {
		return nil, errProductHidden
	}
	return p, nil
}

// Update replaces a product's fields
func (s *productServiceImpl) Update(ctx context.Context, id int64, req *dto.ProductRequest) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductRequest(p, req)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product
func (s *productServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BulkUpdateStatus sets the status of many products
func (s *productServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.ProductStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid status: %s", status)
	}
	n, err := s.repo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// BulkDelete removes many products
func (s *productServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*dto.BulkResult, error) {
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return bulkResult(len(ids), n), nil
}

// List returns a filtered page of products
func (s *productServiceImpl) List(ctx context.Context, query ProductListQuery) (*dto.PaginatedResponse, error) {
	var statuses []string
	if st := helpers.NormalizeStatusFilter(query.Status); st != "" {
		statuses = []string{st}
	}
	return s.list(ctx, query, statuses)
}

// ListPublic lists the products on sale
func (s *productServiceImpl) ListPublic(ctx context.Context, query ProductListQuery) (*dto.PaginatedResponse, error) {
	return s.list(ctx, query, publicProductStatuses)
}

func (s *productServiceImpl) list(ctx context.Context, query ProductListQuery, statuses []string) (*dto.PaginatedResponse, error) {
	items, total, err := s.repo.List(ctx, repositories.ProductFilter{
		Page:     query.page(),
		Search:   query.Search,
		Category: helpers.NormalizeStatusFilter(query.Category),
		Statuses: statuses,
	})
	if err != nil {
		return nil, err
	}
	return paginate(items, total, query.Page, query.Size), nil
}

// ImportCSV creates products from a CSV file whose first row names the columns:
// name, description, price, category, stock, status, tags, image_url, discount, sku.
// Tags are separated by '|'.
func (s *productServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, validationError("csv file is empty")
		}
		return nil, validationError("invalid csv header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, validationError("csv header must contain a name column")
	}
	if _, ok := cols["category"]; !ok {
		return nil, validationError("csv header must contain a category column")
	}

	result := &dto.ImportResult{Errors: []string{}}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if isBlankRow(record) {
			continue
		}
		result.Total++

		req, err := productFromRecord(record, cols)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		if _, err := s.Create(ctx, req); err != nil {
			if errors.Is(err, apperrors.ErrSKUAlreadyExists) {
				result.Skipped++
				continue
			}
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
		Msg("Products imported")
	return result, nil
}

func productFromRecord(record []string, cols map[string]int) (*dto.ProductRequest, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	atoi := func(name string) (int64, error) {
		v := get(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %q", name, v)
		}
		return n, nil
	}

	price, err := atoi("price")
	if err != nil {
		return nil, err
	}
	stock, err := atoi("stock")
	if err != nil {
		return nil, err
	}
	discount, err := atoi("discount")
	if err != nil {
		return nil, err
	}

	var tags []string
	if raw := get("tags"); raw != "" {
		tags = strings.Split(raw, "|")
	}

	return &dto.ProductRequest{
		Name:        get("name"),
		Description: get("description"),
		Price:       price,
		Category:    strings.ToLower(get("category")),
		Stock:       int(stock),
		Status:      strings.ToLower(get("status")),
		Tags:        tags,
		ImageURL:    get("image_url"),
		Discount:    int(discount),
		SKU:         get("sku"),
	}, nil
}
