package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/db"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/dberrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IMatchingResponseRepository stores visitor responses and party ratings
type IMatchingResponseRepository interface {
	CreateResponse(ctx context.Context, resp *models.MatchingResponse) error
	AcceptRequest(ctx context.Context, resp *models.MatchingResponse, at time.Time) error
	ListResponses(ctx context.Context, requestID int64) ([]*models.MatchingResponse, error)
	CreateRating(ctx context.Context, rating *models.MatchingRating) error
	ListRatings(ctx context.Context, requestID int64) ([]*models.MatchingRating, error)
	AverageRating(ctx context.Context, userID int64) (float64, int64, error)
}

// MatchingResponseRepository handles responses and ratings
type MatchingResponseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMatchingResponseRepository creates a new MatchingResponseRepository
func NewMatchingResponseRepository(db *pgxpool.Pool) *MatchingResponseRepository {
	return &MatchingResponseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateResponse stores a visitor's answer; a second answer is rejected
func (r *MatchingResponseRepository) CreateResponse(ctx context.Context, resp *models.MatchingResponse) error {
	return r.insertResponse(ctx, r.db, resp)
}

// AcceptRequest records the accepting visitor and stores the accepted
// response in one transaction. Acceptance only succeeds while nobody has
// accepted yet, so of two concurrent acceptances the loser keeps no row.
func (r *MatchingResponseRepository) AcceptRequest(ctx context.Context, resp *models.MatchingResponse, at time.Time) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		n, err := exec(ctx, tx, acceptQuery(r.sb, resp.MatchingRequestID, resp.VisitorID, at), "accept matching request")
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.ErrRequestNotOpen
		}
		return r.insertResponse(ctx, tx, resp)
	})
}

func acceptQuery(sb squirrel.StatementBuilderType, requestID, visitorID int64, at time.Time) squirrel.UpdateBuilder {
	return sb.Update("matching_requests").
		Set("status", models.MatchingAccepted).
		Set("accepted_visitor_id", visitorID).
		Set("accepted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": requestID, "accepted_visitor_id": nil}).
		Where(squirrel.Eq{"status": []string{string(models.MatchingPending), string(models.MatchingActive)}})
}

func (r *MatchingResponseRepository) insertResponse(ctx context.Context, q Querier, resp *models.MatchingResponse) error {
	resp.CreatedAt = time.Now()
	sql, args, err := r.sb.Insert("matching_responses").
		Columns("matching_request_id", "visitor_id", "user_id", "response_type", "message", "created_at").
		Values(resp.MatchingRequestID, resp.VisitorID, resp.UserID, resp.ResponseType, resp.Message, resp.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create response query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&resp.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "matching_responses_request_visitor_key") {
			return apperrors.ErrAlreadyResponded
		}
		logger.Error().Err(err).Int64("requestID", resp.MatchingRequestID).Msg("Error creating matching response")
		return fmt.Errorf("error creating matching response: %w", err)
	}
	return nil
}

// ListResponses returns the answers to a request with the visitor name
func (r *MatchingResponseRepository) ListResponses(ctx context.Context, requestID int64) ([]*models.MatchingResponse, error) {
	q := r.sb.Select("mr.id", "mr.matching_request_id", "mr.visitor_id", "mr.user_id",
		"mr.response_type", "mr.message", "mr.created_at", "COALESCE(v.full_name, '')").
		From("matching_responses mr").
		LeftJoin("visitors v ON v.id = mr.visitor_id").
		Where(squirrel.Eq{"mr.matching_request_id": requestID}).
		OrderBy("mr.created_at ASC")
	return queryList(ctx, r.db, q, "matching responses", func(row pgx.Row) (*models.MatchingResponse, error) {
		var m models.MatchingResponse
		if err := row.Scan(&m.ID, &m.MatchingRequestID, &m.VisitorID, &m.UserID,
			&m.ResponseType, &m.Message, &m.CreatedAt, &m.VisitorName); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

// CreateRating stores one party's rating of the other
func (r *MatchingResponseRepository) CreateRating(ctx context.Context, rating *models.MatchingRating) error {
	rating.CreatedAt = time.Now()
	sql, args, err := r.sb.Insert("matching_ratings").
		Columns("matching_request_id", "rater_id", "rated_id", "rater_type", "rated_type", "rating", "comment", "created_at").
		Values(rating.MatchingRequestID, rating.RaterID, rating.RatedID, rating.RaterType, rating.RatedType,
			rating.Rating, rating.Comment, rating.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create rating query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rating.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "matching_ratings_request_rater_key") {
			return apperrors.ErrAlreadyRated
		}
		logger.Error().Err(err).Int64("requestID", rating.MatchingRequestID).Msg("Error creating rating")
		return fmt.Errorf("error creating rating: %w", err)
	}
	return nil
}

// ListRatings returns the ratings given for a request
func (r *MatchingResponseRepository) ListRatings(ctx context.Context, requestID int64) ([]*models.MatchingRating, error) {
	q := r.sb.Select("id", "matching_request_id", "rater_id", "rated_id", "rater_type", "rated_type", "rating", "comment", "created_at").
		From("matching_ratings").
		Where(squirrel.Eq{"matching_request_id": requestID}).
		OrderBy("created_at ASC")
	return queryList(ctx, r.db, q, "ratings", func(row pgx.Row) (*models.MatchingRating, error) {
		var m models.MatchingRating
		if err := row.Scan(&m.ID, &m.MatchingRequestID, &m.RaterID, &m.RatedID, &m.RaterType,
			&m.RatedType, &m.Rating, &m.Comment, &m.CreatedAt); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

// AverageRating returns the mean rating a user received and how many ratings it covers
func (r *MatchingResponseRepository) AverageRating(ctx context.Context, userID int64) (float64, int64, error) {
	sql, args, err := r.sb.Select("COALESCE(AVG(rating), 0)::float8", "COUNT(*)").
		From("matching_ratings").
		Where(squirrel.Eq{"rated_id": userID}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build average rating query: %w", err)
	}

	var avg float64
	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&avg, &n); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error computing average rating")
		return 0, 0, fmt.Errorf("error computing average rating: %w", err)
	}
	return avg, n, nil
}
