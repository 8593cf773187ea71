package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/dberrors"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserFilter narrows the admin user list
type UserFilter struct {
	Page
	Search string
	Role   string
	Status string
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateStatus(ctx context.Context, userID int64, status models.UserStatus) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status models.UserStatus) (int64, error)
	List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error)
	ListIDsByRole(ctx context.Context, role models.RoleType) ([]int64, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// UserRepository handles user persistence
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone",
	"role", "status", "last_login_at", "created_at", "updated_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password_hash", "first_name", "last_name", "phone", "role", "status", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Phone, user.Role, user.Status, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").From("users").
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	q := r.sb.Update("users").Set("last_login_at", time.Now()).Where(squirrel.Eq{"id": userID})
	n, err := exec(ctx, r.db, q, "update last login")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateStatus changes the account status
func (r *UserRepository) UpdateStatus(ctx context.Context, userID int64, status models.UserStatus) error {
	q := r.sb.Update("users").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID})
	n, err := exec(ctx, r.db, q, "update user status")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// BulkUpdateStatus changes the status of many users
func (r *UserRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status models.UserStatus) (int64, error) {
	return bulkUpdateStatus(ctx, r.db, r.sb, "users", ids, string(status))
}

func (r *UserRepository) filtered(q squirrel.SelectBuilder, f UserFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		q = q.Where(searchAny(f.Search, "first_name", "last_name", "email", "phone"))
	}
	if f.Role != "" {
		q = q.Where(squirrel.Eq{"role": f.Role})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	return q
}

// List returns one page of users and the total match count
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]*models.User, int64, error) {
	total, err := count(ctx, r.db, r.filtered(r.sb.Select("COUNT(*)").From("users"), f), "users")
	if err != nil {
		return nil, 0, err
	}

	q := f.Page.apply(r.filtered(r.sb.Select(userColumns...).From("users"), f).OrderBy("created_at DESC"))
	users, err := queryList(ctx, r.db, q, "users", scanUser)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) listIDs(ctx context.Context, where squirrel.Sqlizer) ([]int64, error) {
	sql, args, err := r.sb.Select("id").From("users").Where(where).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user id query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing user ids")
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListIDsByRole returns the ids of active users with a role
func (r *UserRepository) ListIDsByRole(ctx context.Context, role models.RoleType) ([]int64, error) {
	return r.listIDs(ctx, squirrel.Eq{"role": role, "status": models.UserStatusActive})
}

// ListActiveIDs returns the ids of every active user
func (r *UserRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	return r.listIDs(ctx, squirrel.Eq{"status": models.UserStatusActive})
}

// GetByIDs loads the users with the given ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	q := r.sb.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids}).OrderBy("id")
	return queryList(ctx, r.db, q, "users", scanUser)
}

// CountByStatus groups users by status
func (r *UserRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, r.sb, "users", "status")
}
