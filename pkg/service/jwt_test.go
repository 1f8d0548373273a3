package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "gearguard/pkg/errors"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) JWTService {
	return NewJWTService("test-secret", accessTTL, refreshTTL, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)
	teamID := uint64(10)

	access, refresh, err := svc.GenerateTokens(42, "TECHNICIAN", &teamID)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "TECHNICIAN", claims.Role)
	require.NotNil(t, claims.TeamID)
	assert.Equal(t, uint64(10), *claims.TeamID)
	assert.False(t, claims.IsRefreshToken, "access-токен не должен быть помечен как refresh")

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateTokenWithoutTeam(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)

	access, _, err := svc.GenerateTokens(1, "ADMIN", nil)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Nil(t, claims.TeamID, "у администратора нет команды")
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute, 24*time.Hour)

	access, _, err := svc.GenerateTokens(1, "EMPLOYEE", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateForeignToken(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)
	other := NewJWTService("another-secret", time.Hour, 24*time.Hour, zap.NewNop())

	access, _, err := other.GenerateTokens(1, "EMPLOYEE", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "токен с чужой подписью должен отклоняться")

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
