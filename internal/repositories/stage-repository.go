package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const stageTableRepo = "maintenance_stages"
const stageFieldsRepo = "id, name, sequence, is_closing, is_scrap_state"

type StageRepositoryInterface interface {
	GetStages(ctx context.Context) ([]entities.MaintenanceStage, error)
	FindStage(ctx context.Context, id uint64) (*entities.MaintenanceStage, error)
	FindStageByName(ctx context.Context, name string) (*entities.MaintenanceStage, error)
}

type StageRepository struct {
	storage *pgxpool.Pool
}

func NewStageRepository(storage *pgxpool.Pool) StageRepositoryInterface {
	return &StageRepository{storage: storage}
}

func scanStage(row pgx.Row) (*entities.MaintenanceStage, error) {
	var stage entities.MaintenanceStage
	err := row.Scan(&stage.ID, &stage.Name, &stage.Sequence, &stage.IsClosing, &stage.IsScrapState)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) GetStages(ctx context.Context) ([]entities.MaintenanceStage, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY sequence", stageFieldsRepo, stageTableRepo)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения справочника стадий: %w", err)
	}
	defer rows.Close()

	stages := make([]entities.MaintenanceStage, 0)
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, *stage)
	}
	return stages, rows.Err()
}

func (r *StageRepository) FindStage(ctx context.Context, id uint64) (*entities.MaintenanceStage, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", stageFieldsRepo, stageTableRepo)
	return scanStage(r.storage.QueryRow(ctx, query, id))
}

func (r *StageRepository) FindStageByName(ctx context.Context, name string) (*entities.MaintenanceStage, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = $1", stageFieldsRepo, stageTableRepo)
	return scanStage(r.storage.QueryRow(ctx, query, name))
}
