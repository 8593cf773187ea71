package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appModels "github.com/aslmarket/backend/internal/app/models"
	appRepos "github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/auth"
)

type mockUserRepo struct {
	appRepos.IUserRepository
	mock.Mock
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *appModels.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func TestEnsureAdmin_CreatesActiveAdmin(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()

	repo.On("EmailExists", ctx, "admin@aslmarket.local").Return(false, nil)

	var created *appModels.User
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*appModels.User) }).
		Return(int64(1), nil)

	err := EnsureAdmin(ctx, repo, AdminAccount{Email: " Admin@ASLMarket.local ", Password: "Admin12345"}, zerolog.Nop())
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "admin@aslmarket.local", created.Email)
	assert.Equal(t, appModels.RoleAdmin, created.Role)
	assert.Equal(t, appModels.UserStatusActive, created.Status)
	assert.NotEqual(t, "Admin12345", created.Password)
	assert.True(t, auth.CheckPassword(created.Password, "Admin12345"))
	repo.AssertExpectations(t)
}

func TestEnsureAdmin_SkipsExisting(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()
	repo.On("EmailExists", ctx, "admin@aslmarket.local").Return(true, nil)

	err := EnsureAdmin(ctx, repo, AdminAccount{Email: "admin@aslmarket.local", Password: "x"}, zerolog.Nop())
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_NotConfigured(t *testing.T) {
	repo := new(mockUserRepo)

	require.NoError(t, EnsureAdmin(context.Background(), repo, AdminAccount{}, zerolog.Nop()))
	repo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_LookupError(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()
	dbErr := errors.New("connection refused")
	repo.On("EmailExists", ctx, "admin@aslmarket.local").Return(false, dbErr)

	err := EnsureAdmin(ctx, repo, AdminAccount{Email: "admin@aslmarket.local", Password: "x"}, zerolog.Nop())
	assert.ErrorIs(t, err, dbErr)
}
