package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

func newReportService() ReportServiceInterface {
	return NewReportService(repositories.NewReportRepository(testPool), zap.NewNop())
}

func TestReportService_Integration_RequestsBreakdown(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	env := newTestEnv(t)
	svc := newReportService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := env.requests.CreateRequest(ctx, f.managerA, dto.CreateRequestDTO{
			Subject:     "Заявка для отчета",
			RequestType: entities.RequestTypeCorrective,
			EquipmentID: f.equipmentID,
		})
		require.NoError(t, err)
	}

	rows, err := svc.GetRequestsBreakdown(ctx, f.managerA, "team")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Механики", rows[0].Group)
	assert.Equal(t, uint64(2), rows[0].Count)

	// Отчеты закрыты для техников и сотрудников.
	_, err = svc.GetRequestsBreakdown(ctx, f.techAPrincipal, "team")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Неизвестная группировка отклоняется.
	_, err = svc.GetRequestsBreakdown(ctx, f.managerA, "stage")
	assert.True(t, isInvalidInput(err))
}

func TestReportService_Integration_ExportRequestsBreakdown(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	env := newTestEnv(t)
	svc := newReportService()
	ctx := context.Background()

	_, err := env.requests.CreateRequest(ctx, f.managerA, dto.CreateRequestDTO{
		Subject:     "Заявка для экспорта",
		RequestType: entities.RequestTypeCorrective,
		EquipmentID: f.equipmentID,
	})
	require.NoError(t, err)

	file, err := svc.ExportRequestsBreakdown(ctx, f.managerA, "team")
	require.NoError(t, err)

	sheet := file.GetSheetName(0)
	header, err := file.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Команда", header)

	group, err := file.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Механики", group)

	count, err := file.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", count)
}

func TestEquipmentImportService_Integration_Import(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)
	f := seedLifecycle(t)
	ctx := context.Background()

	logger := zap.NewNop()
	svc := NewEquipmentImportService(
		repositories.NewEquipmentRepository(testPool, logger),
		repositories.NewCategoryRepository(testPool),
		repositories.NewTeamRepository(testPool),
		logger,
	)

	var categoryName string
	err := testPool.QueryRow(ctx, `SELECT name FROM equipment_categories WHERE id = $1`, f.categoryID).Scan(&categoryName)
	require.NoError(t, err)

	xlsx := excelize.NewFile()
	sheet := xlsx.GetSheetName(0)
	require.NoError(t, xlsx.SetSheetRow(sheet, "A1", &[]string{"Название", "Серийный номер", "Местоположение", "Категория", "Команда"}))
	require.NoError(t, xlsx.SetSheetRow(sheet, "A2", &[]string{"Шлифовальный станок", "SN-500", "Цех 3", categoryName, "Механики"}))
	require.NoError(t, xlsx.SetSheetRow(sheet, "A3", &[]string{"Пресс", "SN-501", "Цех 3", "Нет такой категории", "Механики"}))
	require.NoError(t, xlsx.SetSheetRow(sheet, "A4", &[]string{"Без серийника", "", "Цех 3", categoryName, "Механики"}))

	buf, err := xlsx.WriteToBuffer()
	require.NoError(t, err)

	// Импорт доступен только администратору.
	_, err = svc.Import(ctx, f.managerA, buf)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	buf, err = xlsx.WriteToBuffer()
	require.NoError(t, err)

	admin := authz.Principal{ID: f.managerA.ID, Role: authz.RoleAdmin}
	report, err := svc.Import(ctx, admin, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, report.Errors, 2)

	var serial string
	err = testPool.QueryRow(ctx, `SELECT serial_number FROM equipments WHERE name = 'Шлифовальный станок'`).Scan(&serial)
	require.NoError(t, err)
	assert.Equal(t, "SN-500", serial)
}
