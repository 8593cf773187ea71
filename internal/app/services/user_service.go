package services

import (
	"context"
	"fmt"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// UserListQuery filters the admin user list
type UserListQuery struct {
	ListQuery
	Role string
}

// UserService defines the admin operations on accounts
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, query UserListQuery) (*dto.PaginatedResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.User, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, validationError("user ID must be positive")
	}
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of users matching the query
func (s *userServiceImpl) ListUsers(ctx context.Context, query UserListQuery) (*dto.PaginatedResponse, error) {
	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Page:   query.page(),
		Search: query.Search,
		Role:   helpers.NormalizeStatusFilter(query.Role),
		Status: helpers.NormalizeStatusFilter(query.Status),
	})
	if err != nil {
		return nil, err
	}
	return paginate(users, total, query.Page, query.Size), nil
}

// UpdateStatus activates, deactivates or bans an account.
// Leaving the active state revokes every refresh token of the user.
func (s *userServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	st := models.UserStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid user status: %s", status)
	}

	if err := s.userRepo.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}

	if st != models.UserStatusActive {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to revoke user tokens: %w", err)
		}
	}

	s.logger.Info().Int64("userID", id).Str("status", status).Msg("User status updated")
	return s.userRepo.GetByID(ctx, id)
}

// BulkUpdateStatus sets the status of many users
func (s *userServiceImpl) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (*dto.BulkResult, error) {
	st := models.UserStatus(status)
	if !st.IsValid() {
		return nil, validationError("invalid user status: %s", status)
	}
	if len(ids) == 0 {
		return nil, validationError("no ids given")
	}

	n, err := s.userRepo.BulkUpdateStatus(ctx, ids, st)
	if err != nil {
		return nil, err
	}

	if st != models.UserStatusActive {
		for _, id := range ids {
			if err := s.tokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
				s.logger.Warn().Err(err).Int64("userID", id).Msg("Failed to revoke tokens after bulk status change")
			}
		}
	}
	return bulkResult(len(ids), n), nil
}
