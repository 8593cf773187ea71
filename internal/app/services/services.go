package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/websocket"
)

// LivePusher delivers server pushes to connected sockets. *websocket.Hub implements it.
type LivePusher interface {
	BroadcastToRoom(message *websocket.Message) bool
	BroadcastToAll(message *websocket.Message) bool
}

// Notifier stores an in-app notification and pushes it to its recipient
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

// Records hidden from the public or from other users look missing
var (
	errNotificationHidden = apperrors.NewResourceNotFoundError("notification not found")
	errResearchHidden     = apperrors.NewResourceNotFoundError("research product not found")
	errEducationHidden    = apperrors.NewResourceNotFoundError("education content not found")
	errProductHidden      = apperrors.NewResourceNotFoundError("product not found")
)

// ListQuery carries the common list parameters parsed by controllers
type ListQuery struct {
	Page   int
	Size   int
	Search string
	Status string
}

func (q ListQuery) page() repositories.Page {
	return repositories.Page{Page: q.Page, Size: q.Size}
}

// paginate wraps items in the standard paginated envelope
func paginate(items interface{}, total int64, page, size int) *dto.PaginatedResponse {
	if size <= 0 || size > helpers.MaxPageSize {
		size = helpers.DefaultPageSize
	}
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, fmt.Sprintf(format, args...))
}

func bulkResult(requested int, affected int64) *dto.BulkResult {
	return &dto.BulkResult{Requested: requested, Affected: affected}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

// clock lets tests pin the current time
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
