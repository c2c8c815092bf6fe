package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floresya/backend/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "floresya-backend",
	}
}

func TestJWTService_IssueTokenPair(t *testing.T) {
	service := NewJWTService(testJWTConfig())
	userID := uuid.New()

	access, refresh, expiresIn, err := service.IssueTokenPair(userID, "admin@floresya.com", "admin")

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
	assert.Equal(t, int64(900), expiresIn)
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	service := NewJWTService(testJWTConfig())
	userID := uuid.New()

	access, _, _, err := service.IssueTokenPair(userID, "admin@floresya.com", "admin")
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin@floresya.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsAdmin())

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_RejectsRefreshTokenAsAccess(t *testing.T) {
	service := NewJWTService(testJWTConfig())

	_, refresh, _, err := service.IssueTokenPair(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	service := NewJWTService(testJWTConfig())

	access, _, _, err := service.IssueTokenPair(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(access + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	service := NewJWTService(testJWTConfig())
	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-completely-different-secret-key-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "floresya-backend",
	})

	access, _, _, err := service.IssueTokenPair(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpiration = -time.Minute
	service := NewJWTService(cfg)

	access, _, _, err := service.IssueTokenPair(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	service := NewJWTService(testJWTConfig())
	userID := uuid.New()

	_, refresh, _, err := service.IssueTokenPair(userID, "user@example.com", "user")
	require.NoError(t, err)

	newAccess, newRefresh, expiresIn, err := service.RefreshTokenPair(refresh, "user@example.com", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, int64(900), expiresIn)

	claims, err := service.ValidateAccessToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestJWTService_RefreshRejectsAccessToken(t *testing.T) {
	service := NewJWTService(testJWTConfig())

	access, _, _, err := service.IssueTokenPair(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, _, _, err = service.RefreshTokenPair(access, "user@example.com", "user")
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
