package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type ReportServiceInterface interface {
	GetRequestsBreakdown(ctx context.Context, p authz.Principal, groupBy string) ([]dto.BreakdownRowDTO, error)
	ExportRequestsBreakdown(ctx context.Context, p authz.Principal, groupBy string) (*excelize.File, error)
}

type reportService struct {
	reportRepository repositories.ReportRepositoryInterface
	logger           *zap.Logger
}

func NewReportService(reportRepository repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{
		reportRepository: reportRepository,
		logger:           logger,
	}
}

var breakdownGroupTitles = map[string]string{
	"team":     "Команда",
	"category": "Категория",
}

func (s *reportService) GetRequestsBreakdown(ctx context.Context, p authz.Principal, groupBy string) ([]dto.BreakdownRowDTO, error) {
	if !authz.CanScrap(p) {
		// Отчеты — инструмент менеджера и администратора.
		return nil, apperrors.ErrForbidden
	}
	return s.reportRepository.GetRequestsBreakdown(ctx, groupBy)
}

// ExportRequestsBreakdown собирает тот же отчет в виде XLSX-файла.
func (s *reportService) ExportRequestsBreakdown(ctx context.Context, p authz.Principal, groupBy string) (*excelize.File, error) {
	report, err := s.GetRequestsBreakdown(ctx, p, groupBy)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	title, ok := breakdownGroupTitles[groupBy]
	if !ok {
		title = "Группа"
	}
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "B1", "Количество заявок")

	for i, row := range report {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.Group)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.Count)
	}

	s.logger.Info("Сформирован экспорт отчета по заявкам",
		zap.String("group_by", groupBy),
		zap.Int("rows", len(report)),
		zap.Uint64("actor_id", p.ID))
	return f, nil
}
