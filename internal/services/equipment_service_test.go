package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

func newEquipmentService() *EquipmentService {
	logger := zap.NewNop()
	return NewEquipmentService(
		repositories.NewEquipmentRepository(testPool, logger),
		repositories.NewEmployeeRepository(testPool, logger),
		repositories.NewRequestRepository(testPool, logger),
		logger,
	)
}

func TestEquipmentService_Integration_Create(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	svc := newEquipmentService()
	ctx := context.Background()

	payload := dto.CreateEquipmentDTO{
		Name:         "Сварочный аппарат",
		SerialNumber: "SN-100",
		Location:     "Цех 2",
		CategoryID:   f.categoryID,
		TeamID:       f.teamA,
	}

	created, err := svc.CreateEquipment(ctx, f.managerA, payload)
	require.NoError(t, err)
	assert.Equal(t, "Сварочный аппарат", created.Name)
	assert.True(t, created.IsActive)
	assert.Equal(t, f.teamA, created.Team.ID)

	// Менеджер не создает оборудование для чужой команды.
	foreign := payload
	foreign.SerialNumber = "SN-101"
	foreign.TeamID = f.teamB
	_, err = svc.CreateEquipment(ctx, f.managerA, foreign)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Дубликат серийного номера — конфликт.
	_, err = svc.CreateEquipment(ctx, f.managerA, payload)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code, "серийный номер уникален")
}

func TestEquipmentService_Integration_DefaultTechnicianValidation(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	svc := newEquipmentService()
	ctx := context.Background()

	payload := dto.CreateEquipmentDTO{
		Name:                "Фрезерный станок",
		SerialNumber:        "SN-200",
		Location:            "Цех 1",
		CategoryID:          f.categoryID,
		TeamID:              f.teamA,
		DefaultTechnicianID: &f.techB,
	}

	// Техник чужой команды не годится в техники по умолчанию.
	_, err := svc.CreateEquipment(ctx, f.managerA, payload)
	assert.True(t, isInvalidInput(err))

	payload.DefaultTechnicianID = &f.managerA.ID
	_, err = svc.CreateEquipment(ctx, f.managerA, payload)
	assert.True(t, isInvalidInput(err), "менеджер не может быть техником по умолчанию")

	payload.DefaultTechnicianID = &f.techA
	created, err := svc.CreateEquipment(ctx, f.managerA, payload)
	require.NoError(t, err)
	require.NotNil(t, created.DefaultTechnician)
	assert.Equal(t, f.techA, created.DefaultTechnician.ID)
}

func TestEquipmentService_Integration_Visibility(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	svc := newEquipmentService()
	ctx := context.Background()

	// Оборудование первой команды видно ее менеджеру и технику.
	_, err := svc.FindEquipment(ctx, f.managerA, f.equipmentID)
	assert.NoError(t, err)
	_, err = svc.FindEquipment(ctx, f.techAPrincipal, f.equipmentID)
	assert.NoError(t, err)

	techB := authz.Principal{ID: f.techB, Role: authz.RoleTechnician, TeamID: &f.teamB}
	_, err = svc.FindEquipment(ctx, techB, f.equipmentID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Сотрудник видит только закрепленное за ним оборудование.
	_, err = svc.FindEquipment(ctx, f.employee, f.equipmentID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = testPool.Exec(ctx, `UPDATE equipments SET employee_id = $1 WHERE id = $2`, f.employee.ID, f.equipmentID)
	require.NoError(t, err)

	found, err := svc.FindEquipment(ctx, f.employee, f.equipmentID)
	require.NoError(t, err)
	require.NotNil(t, found.Holder)
	assert.Equal(t, f.employee.ID, found.Holder.ID)

	list, total, err := svc.GetEquipments(ctx, techB, types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, uint64(0), total)

	list, total, err = svc.GetEquipments(ctx, f.managerA, types.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, uint64(1), total)
}

func TestEquipmentService_Integration_Stats(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	env := newTestEnv(t)
	svc := newEquipmentService()
	ctx := context.Background()

	stats, err := svc.GetEquipmentStats(ctx, f.managerA, f.equipmentID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.TotalRequests)
	assert.Equal(t, uint64(0), stats.OpenRequests)

	created, err := env.requests.CreateRequest(ctx, f.managerA, dto.CreateRequestDTO{
		Subject:     "Станок гудит под нагрузкой",
		RequestType: entities.RequestTypeCorrective,
		EquipmentID: f.equipmentID,
	})
	require.NoError(t, err)

	stats, err = svc.GetEquipmentStats(ctx, f.managerA, f.equipmentID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalRequests)
	assert.Equal(t, uint64(1), stats.OpenRequests)

	history, err := svc.GetEquipmentRequests(ctx, f.managerA, f.equipmentID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, created.ID, history[0].ID)
}
