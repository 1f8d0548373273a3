package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	apperrors "gearguard/pkg/errors"
)

type ReportRepositoryInterface interface {
	GetRequestsBreakdown(ctx context.Context, groupBy string) ([]dto.BreakdownRowDTO, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
}

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &ReportRepository{storage: storage}
}

// GetRequestsBreakdown — число заявок в разрезе команды или категории оборудования.
func (r *ReportRepository) GetRequestsBreakdown(ctx context.Context, groupBy string) ([]dto.BreakdownRowDTO, error) {
	var query string
	switch groupBy {
	case "team":
		query = `
			SELECT t.name, COUNT(mr.id)
			FROM maintenance_requests mr
				JOIN teams t ON mr.team_id = t.id
			GROUP BY t.name
			ORDER BY COUNT(mr.id) DESC, t.name
		`
	case "category":
		query = `
			SELECT c.name, COUNT(mr.id)
			FROM maintenance_requests mr
				JOIN equipments e ON mr.equipment_id = e.id
				JOIN equipment_categories c ON e.category_id = c.id
			GROUP BY c.name
			ORDER BY COUNT(mr.id) DESC, c.name
		`
	default:
		return nil, apperrors.NewInvalidInputError("неизвестная группировка отчета: %s", groupBy)
	}

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения отчета по заявкам: %w", err)
	}
	defer rows.Close()

	report := make([]dto.BreakdownRowDTO, 0)
	for rows.Next() {
		var row dto.BreakdownRowDTO
		if err := rows.Scan(&row.Group, &row.Count); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
