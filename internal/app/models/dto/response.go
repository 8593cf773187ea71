package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewAPIResponse wraps data in the standard envelope
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{Data: data, Timestamp: time.Now()}
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// BulkStatusRequest changes the status of many rows at once
type BulkStatusRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
	Status string  `json:"status" binding:"required"`
}

// BulkDeleteRequest deletes many rows at once
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}

// BulkResult reports how many rows a bulk action touched
type BulkResult struct {
	Requested int   `json:"requested"`
	Affected  int64 `json:"affected"`
}

// ImportResult carries the per-row counters of a file import
type ImportResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// StatusUpdateRequest sets a single status value
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReviewRequest approves or rejects a registration
type ReviewRequest struct {
	AdminNotes string `json:"adminNotes" binding:"max=2000"`
}

// FeaturedRequest toggles the featured flag
type FeaturedRequest struct {
	IsFeatured bool `json:"isFeatured"`
}
