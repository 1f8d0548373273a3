package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
	"gearguard/pkg/utils"
)

func newAuthEnv(t *testing.T) (AuthServiceInterface, *EmployeeService) {
	t.Helper()
	logger := zap.NewNop()
	employeeRepo := repositories.NewEmployeeRepository(testPool, logger)
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, logger)
	return NewAuthService(employeeRepo, jwtSvc, logger), NewEmployeeService(employeeRepo, logger)
}

func seedLogin(t *testing.T, email, password, role string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	var id uint64
	err = testPool.QueryRow(context.Background(),
		`INSERT INTO employees (name, email, password, role) VALUES ('Тестовый Пользователь', $1, $2, $3) RETURNING id`,
		email, hash, role).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestAuthService_Integration_Login(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	authSvc, _ := newAuthEnv(t)
	ctx := context.Background()

	id := seedLogin(t, "admin@test.local", "secret123", "ADMIN")

	resp, err := authSvc.Login(ctx, dto.LoginDTO{Email: "admin@test.local", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.User.ID)
	assert.Equal(t, "ADMIN", resp.User.Role)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	// Неверный пароль и несуществующий email дают одинаковый ответ.
	_, err = authSvc.Login(ctx, dto.LoginDTO{Email: "admin@test.local", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = authSvc.Login(ctx, dto.LoginDTO{Email: "nobody@test.local", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Integration_Refresh(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	authSvc, _ := newAuthEnv(t)
	ctx := context.Background()

	seedLogin(t, "tech@test.local", "secret123", "TECHNICIAN")

	resp, err := authSvc.Login(ctx, dto.LoginDTO{Email: "tech@test.local", Password: "secret123"})
	require.NoError(t, err)

	pair, err := authSvc.Refresh(ctx, resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Access-токен не годится для обновления пары.
	_, err = authSvc.Refresh(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}

func TestEmployeeService_Integration_AdminOnlyMutations(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	_, employeeSvc := newAuthEnv(t)
	ctx := context.Background()

	admin := authz.Principal{ID: seedLogin(t, "admin@test.local", "secret123", "ADMIN"), Role: authz.RoleAdmin}
	manager := authz.Principal{ID: seedLogin(t, "manager@test.local", "secret123", "MANAGER"), Role: authz.RoleManager}

	payload := dto.CreateEmployeeDTO{
		Name:     "Новый Техник",
		Email:    "new-tech@test.local",
		Password: "secret123",
		Role:     "TECHNICIAN",
	}

	_, err := employeeSvc.CreateEmployee(ctx, manager, payload)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "учетные записи заводит только администратор")

	created, err := employeeSvc.CreateEmployee(ctx, admin, payload)
	require.NoError(t, err)
	assert.Equal(t, "TECHNICIAN", created.Role)

	// Повторный email — конфликт.
	_, err = employeeSvc.CreateEmployee(ctx, admin, payload)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
}

func TestEmployeeService_Integration_DeleteWithOpenRequests(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	env := newTestEnv(t)
	_, employeeSvc := newAuthEnv(t)
	ctx := context.Background()

	admin := authz.Principal{ID: seedLogin(t, "admin@test.local", "secret123", "ADMIN"), Role: authz.RoleAdmin}

	created, err := env.requests.CreateRequest(ctx, f.employee, dto.CreateRequestDTO{
		Subject:     "Ремонт под ответственным техником",
		RequestType: entities.RequestTypeCorrective,
		EquipmentID: f.equipmentID,
	})
	require.NoError(t, err)
	_, err = env.requests.AssignTechnician(ctx, f.managerA, created.ID, dto.AssignRequestDTO{TechnicianID: f.techA})
	require.NoError(t, err)

	// За техником числится открытая заявка — удаление отклоняется.
	err = employeeSvc.DeleteEmployee(ctx, admin, f.techA)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)

	// После закрытия заявки техник удаляется, запись скрывается из выборок.
	repairedStage, err := env.stages.FindStageByName(ctx, entities.StageRepaired)
	require.NoError(t, err)
	_, err = env.requests.TransitionStage(ctx, f.techAPrincipal, created.ID, dto.TransitionRequestDTO{
		StageID: repairedStage.ID, DurationHours: hoursPtr(2),
	})
	require.NoError(t, err)

	require.NoError(t, employeeSvc.DeleteEmployee(ctx, admin, f.techA))
	_, err = employeeSvc.FindEmployee(ctx, f.techA)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
