package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()

	pair, err := svc.GenerateTokenPair(Subject{UserID: 7, Email: "a@b.com", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.Equal(t, int64(86400), pair.RefreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := svc.GenerateTokenPair(Subject{UserID: 1, Email: "a@b.com", Role: "user"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	pair, err := newTestService().GenerateTokenPair(Subject{UserID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, "aaa.bbb.ccc", tok)

	tok, err = ExtractBearerToken("\"aaa.bbb.ccc\"")
	require.NoError(t, err)
	assert.Equal(t, "aaa.bbb.ccc", tok)

	_, err = ExtractBearerToken("Bearer garbage")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
