package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/pkg/apperrors"
	"github.com/aslmarket/backend/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users     *MockUserRepository
	tokens    *MockTokenRepository
	suppliers *MockSupplierRepository
	visitors  *MockVisitorRepository
	ratings   *MockMatchingResponseRepository
	mail      *MockEmailService
	svc       AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		tokens:    new(MockTokenRepository),
		suppliers: new(MockSupplierRepository),
		visitors:  new(MockVisitorRepository),
		ratings:   new(MockMatchingResponseRepository),
		mail:      new(MockEmailService),
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "aslmarket-test",
	})
	f.svc = NewAuthService(f.users, f.tokens, f.suppliers, f.visitors, f.ratings, jwtService, f.mail, zerolog.Nop())
	return f
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, validatePassword("a1"), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, validatePassword("onlyletters"), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, validatePassword("1234567890"), apperrors.ErrValidationFailed)
	assert.NoError(t, validatePassword("secret123"))
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()
	req := &dto.RegisterRequest{Email: " Ali@Example.com ", Password: "secret123", FirstName: "Ali", LastName: "Rezaei"}

	t.Run("creates account and signs in", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("EmailExists", ctx, "ali@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "ali@example.com" && u.Role == models.RoleUser && u.Status == models.UserStatusActive &&
				auth.CheckPassword(u.Password, "secret123")
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 5
		}).Return(int64(5), nil)
		f.mail.On("SendWelcomeEmail", "ali@example.com", "Ali Rezaei").Return(errors.New("smtp down"))
		f.tokens.On("CreateToken", ctx, mock.AnythingOfType("string"), int64(5), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := f.svc.Register(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.User.ID)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)
		f.users.AssertExpectations(t)
		f.tokens.AssertExpectations(t)
		f.mail.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("EmailExists", ctx, "ali@example.com").Return(true, nil)

		_, err := f.svc.Register(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.io", Password: "short", FirstName: "a", LastName: "b"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		f.users.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "x@y.io").Return(nil, apperrors.ErrUserNotFound)
		_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "x@y.io", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "x@y.io").Return(&models.User{ID: 1, Password: hash, Status: models.UserStatusActive}, nil)
		_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "x@y.io", Password: "other123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("banned", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "x@y.io").Return(&models.User{ID: 1, Password: hash, Status: models.UserStatusBanned}, nil)
		_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "x@y.io", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "x@y.io").Return(&models.User{ID: 1, Email: "x@y.io", Password: hash, Role: models.RoleAdmin, Status: models.UserStatusActive}, nil)
		f.users.On("UpdateLastLogin", ctx, int64(1)).Return(nil)
		f.tokens.On("CreateToken", ctx, mock.AnythingOfType("string"), int64(1), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "x@y.io", Password: "secret123"})
		require.NoError(t, err)
		assert.True(t, resp.User.IsAdmin())
		f.users.AssertExpectations(t)
	})
}

func TestAuthRefreshToken_RotatesToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.tokens.On("GetUserIDByToken", ctx, "old").Return(int64(3), nil)
	f.users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3, Role: models.RoleUser, Status: models.UserStatusActive}, nil)
	f.tokens.On("RevokeToken", ctx, "old").Return(nil)
	f.tokens.On("CreateToken", ctx, mock.AnythingOfType("string"), int64(3), mock.AnythingOfType("time.Time")).Return(nil)

	resp, err := f.svc.RefreshToken(ctx, "old")

	require.NoError(t, err)
	assert.NotEqual(t, "old", resp.RefreshToken)
	f.tokens.AssertExpectations(t)
}

func TestAuthRefreshToken_ExpiredIsRevoked(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.tokens.On("GetUserIDByToken", ctx, "old").Return(int64(0), apperrors.ErrTokenExpired)
	f.tokens.On("RevokeToken", ctx, "old").Return(nil)

	_, err := f.svc.RefreshToken(ctx, "old")

	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	f.tokens.AssertExpectations(t)
}

func TestAuthGetProfile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3}, nil)
	f.suppliers.On("GetByUserID", ctx, int64(3)).Return(&models.Supplier{Status: models.RegistrationApproved}, nil)
	f.visitors.On("GetByUserID", ctx, int64(3)).Return(nil, apperrors.ErrVisitorNotFound)
	f.ratings.On("AverageRating", ctx, int64(3)).Return(4.5, int64(2), nil)

	profile, err := f.svc.GetProfile(ctx, 3)

	require.NoError(t, err)
	require.NotNil(t, profile.SupplierStatus)
	assert.Equal(t, models.RegistrationApproved, *profile.SupplierStatus)
	assert.Nil(t, profile.VisitorStatus)
	assert.Equal(t, 4.5, profile.AverageRating)
	assert.Equal(t, int64(2), profile.RatingCount)
}
