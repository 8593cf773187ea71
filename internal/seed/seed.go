package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/aslmarket/backend/internal/app/models"
	appRepos "github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/auth"
)

// AdminAccount is the account created on first start
type AdminAccount struct {
	Email    string
	Password string
}

// CreateDefaultData creates the default admin if it doesn't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, admin AdminAccount, lgr zerolog.Logger) error {
	return EnsureAdmin(ctx, appRepos.NewUserRepository(dbPool), admin, lgr)
}

// EnsureAdmin creates the admin account unless its email is already taken.
// An empty email or password disables seeding.
func EnsureAdmin(ctx context.Context, userRepo appRepos.IUserRepository, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Admin credentials not configured, skipping default admin creation")
		return nil
	}

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(errors.New("failed to hash admin password"), err)
	}

	now := time.Now()
	user := &appModels.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      appModels.RoleAdmin,
		Status:    appModels.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	adminID, err := userRepo.Create(ctx, user)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
