package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/dberrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ITokenRepository stores refresh tokens
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetUserIDByToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// TokenRepository handles token database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken creates a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked", "created_at").
		Values(token, userID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetUserIDByToken resolves a live refresh token to its user
func (r *TokenRepository) GetUserIDByToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	var expiryDate time.Time
	var isRevoked bool

	sql, args, err := r.sb.Select("user_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate, &isRevoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return 0, fmt.Errorf("error retrieving token: %w", err)
	}

	if isRevoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if expiryDate.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return userID, nil
}

// RevokeToken revokes a token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	q := r.sb.Update("refresh_tokens").Set("is_revoked", true).Where(squirrel.Eq{"token": token})
	n, err := exec(ctx, r.db, q, "revoke token")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllUserTokens revokes all tokens for a specific user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	q := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false})
	_, err := exec(ctx, r.db, q, "revoke user tokens")
	return err
}

// CleanupExpiredTokens removes expired tokens and revoked tokens older than 30 days
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now()
	q := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": now},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": now.Add(-30 * 24 * time.Hour)},
			},
		})
	n, err := exec(ctx, r.db, q, "cleanup tokens")
	if err != nil {
		return 0, err
	}
	logger.Info().Int64("deletedCount", n).Msg("Cleaned up expired/old revoked tokens")
	return n, nil
}
