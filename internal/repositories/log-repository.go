package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
)

const logTableRepo = "maintenance_logs"

// LogRepositoryInterface — append-only журнал. Записи создаются только
// в транзакции вызвавшей их мутации; обновления и удаления не предусмотрены.
type LogRepositoryInterface interface {
	CreateLogInTx(ctx context.Context, tx pgx.Tx, entity *entities.MaintenanceLog) error
	GetRequestLogs(ctx context.Context, requestID uint64) ([]dto.LogEntryDTO, error)
}

type LogRepository struct {
	storage *pgxpool.Pool
}

func NewLogRepository(storage *pgxpool.Pool) LogRepositoryInterface {
	return &LogRepository{storage: storage}
}

func (r *LogRepository) CreateLogInTx(ctx context.Context, tx pgx.Tx, entity *entities.MaintenanceLog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (message, request_id, equipment_id, created_by)
		VALUES ($1, $2, $3, $4)
	`, logTableRepo)

	_, err := tx.Exec(ctx, query, entity.Message, entity.RequestID, entity.EquipmentID, entity.CreatedByID)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал обслуживания: %w", err)
	}
	return nil
}

// GetRequestLogs — записи журнала заявки, новые сверху.
func (r *LogRepository) GetRequestLogs(ctx context.Context, requestID uint64) ([]dto.LogEntryDTO, error) {
	query := fmt.Sprintf(`
		SELECT l.id, l.message, e.id, e.name, l.created_at
		FROM %s l
			LEFT JOIN employees e ON l.created_by = e.id
		WHERE l.request_id = $1
		ORDER BY l.id DESC
	`, logTableRepo)

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала заявки: %w", err)
	}
	defer rows.Close()

	logs := make([]dto.LogEntryDTO, 0)
	for rows.Next() {
		var entry dto.LogEntryDTO
		var authorID *uint64
		var authorName *string
		var createdAt time.Time
		if err := rows.Scan(&entry.ID, &entry.Message, &authorID, &authorName, &createdAt); err != nil {
			return nil, err
		}
		if authorID != nil && authorName != nil {
			entry.CreatedBy = &dto.ShortEmployeeDTO{ID: *authorID, Name: *authorName}
		}
		entry.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
