package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

// EquipmentImportService грузит парк оборудования из XLSX-файла.
// Ожидаемые колонки (регистр не важен): название, серийный номер,
// местоположение, категория, команда. Категории и команды сопоставляются
// по имени; строки с ошибками пропускаются и попадают в отчет импорта.
type EquipmentImportService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	categoryRepository  repositories.CategoryRepositoryInterface
	teamRepository      repositories.TeamRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentImportService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	categoryRepository repositories.CategoryRepositoryInterface,
	teamRepository repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) *EquipmentImportService {
	return &EquipmentImportService{
		equipmentRepository: equipmentRepository,
		categoryRepository:  categoryRepository,
		teamRepository:      teamRepository,
		logger:              logger,
	}
}

func (s *EquipmentImportService) Import(ctx context.Context, p authz.Principal, reader io.Reader) (*dto.ImportReportDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось прочитать XLSX-файл: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось прочитать лист %q: %v", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.NewInvalidInputError("файл не содержит строк данных")
	}

	nameIdx, serialIdx, locationIdx, categoryIdx, teamIdx := -1, -1, -1, -1, -1
	for cIdx, colName := range rows[0] {
		cLower := strings.ToLower(strings.TrimSpace(colName))
		switch {
		case strings.Contains(cLower, "серийный") || strings.Contains(cLower, "serial"):
			serialIdx = cIdx
		case strings.Contains(cLower, "название") || strings.Contains(cLower, "name"):
			nameIdx = cIdx
		case strings.Contains(cLower, "местоположение") || strings.Contains(cLower, "location"):
			locationIdx = cIdx
		case strings.Contains(cLower, "категория") || strings.Contains(cLower, "category"):
			categoryIdx = cIdx
		case strings.Contains(cLower, "команда") || strings.Contains(cLower, "team"):
			teamIdx = cIdx
		}
	}
	if nameIdx == -1 || serialIdx == -1 || categoryIdx == -1 || teamIdx == -1 {
		return nil, apperrors.NewInvalidInputError("в шапке файла не найдены обязательные колонки: название, серийный номер, категория, команда")
	}

	categories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryByName := make(map[string]uint64, len(categories))
	for _, category := range categories {
		categoryByName[strings.ToLower(category.Name)] = category.ID
	}

	teams, err := s.teamRepository.GetTeams(ctx)
	if err != nil {
		return nil, err
	}
	teamByName := make(map[string]uint64, len(teams))
	for _, team := range teams {
		teamByName[strings.ToLower(team.Name)] = team.ID
	}

	report := dto.ImportReportDTO{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		name := safeCell(row, nameIdx)
		serial := safeCell(row, serialIdx)
		if name == "" && serial == "" {
			continue
		}
		if name == "" || serial == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("строка %d: не заполнены название или серийный номер", lineNum))
			continue
		}

		categoryID, ok := categoryByName[strings.ToLower(safeCell(row, categoryIdx))]
		if !ok {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("строка %d: неизвестная категория %q", lineNum, safeCell(row, categoryIdx)))
			continue
		}
		teamID, ok := teamByName[strings.ToLower(safeCell(row, teamIdx))]
		if !ok {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("строка %d: неизвестная команда %q", lineNum, safeCell(row, teamIdx)))
			continue
		}

		_, err := s.equipmentRepository.CreateEquipment(ctx, &entities.Equipment{
			Name:         name,
			SerialNumber: serial,
			Location:     safeCell(row, locationIdx),
			CategoryID:   categoryID,
			TeamID:       teamID,
		})
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("строка %d: %v", lineNum, err))
			continue
		}
		report.Created++
	}

	s.logger.Info("Импорт оборудования завершен",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Uint64("actor_id", p.ID))
	return &report, nil
}

func safeCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
