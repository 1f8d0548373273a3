package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/pkg/service"
)

func performAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, authz.Principal, error) {
	t.Helper()
	logger := zap.NewNop()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, logger)
	mw := NewAuthMiddleware(jwtSvc, logger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var principal authz.Principal
	var principalErr error
	handler := mw.Auth(func(c echo.Context) error {
		principal, principalErr = authz.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	require.NoError(t, err)
	return rec, principal, principalErr
}

func validToken(t *testing.T) (access string, refresh string) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	teamID := uint64(10)
	access, refresh, err := jwtSvc.GenerateTokens(42, "TECHNICIAN", &teamID)
	require.NoError(t, err)
	return access, refresh
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	access, _ := validToken(t)

	rec, principal, err := performAuth(t, "Bearer "+access)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), principal.ID)
	assert.Equal(t, authz.RoleTechnician, principal.Role)
	require.NotNil(t, principal.TeamID)
	assert.Equal(t, uint64(10), *principal.TeamID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _, _ := performAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	rec, _, _ := performAuth(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	_, refresh := validToken(t)

	rec, _, _ := performAuth(t, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh-токен не дает доступа к API")
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	rec, _, _ := performAuth(t, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
