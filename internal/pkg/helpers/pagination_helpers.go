package helpers

import (
	"math"
	"strconv"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// CalculateOffsetLimit converts a 1-based page into an SQL offset/limit pair.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	return uint64((page - 1) * size), uint64(size)
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads ?page= and ?size= falling back to defaults
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}
