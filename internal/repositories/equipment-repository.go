package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/infrastructure/db"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const equipmentTableRepo = "equipments"
const equipmentEntityFieldsRepo = "id, name, serial_number, location, category_id, team_id, default_technician_id, employee_id, is_active, created_at, updated_at"
const equipmentJoinClauseRepo = `equipments e
	JOIN equipment_categories c ON e.category_id = c.id
	JOIN teams t ON e.team_id = t.id
	LEFT JOIN employees dt ON e.default_technician_id = dt.id
	LEFT JOIN employees h ON e.employee_id = h.id`
const equipmentJoinFieldsRepo = "e.id, e.name, e.serial_number, e.location, e.is_active, c.id, c.name, t.id, t.name, dt.id, dt.name, h.id, h.name, e.created_at"

var equipmentAllowedListFields = map[string]string{
	"category_id": "e.category_id",
	"team_id":     "e.team_id",
	"is_active":   "e.is_active",
	"id":          "e.id",
	"name":        "e.name",
	"created_at":  "e.created_at",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, scope authz.Scope, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	FindEquipmentEntity(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, entity *entities.Equipment) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, entity *entities.Equipment) (*dto.EquipmentDTO, error)
	DeactivateEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	GetEquipmentStats(ctx context.Context, id uint64) (*dto.EquipmentStatsDTO, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipmentDTO(row pgx.Row) (*dto.EquipmentDTO, error) {
	var out dto.EquipmentDTO
	var technicianID, holderID *uint64
	var technicianName, holderName *string
	var createdAt *time.Time

	err := row.Scan(
		&out.ID, &out.Name, &out.SerialNumber, &out.Location, &out.IsActive,
		&out.Category.ID, &out.Category.Name,
		&out.Team.ID, &out.Team.Name,
		&technicianID, &technicianName,
		&holderID, &holderName,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if technicianID != nil && technicianName != nil {
		out.DefaultTechnician = &dto.ShortEmployeeDTO{ID: *technicianID, Name: *technicianName}
	}
	if holderID != nil && holderName != nil {
		out.Holder = &dto.ShortEmployeeDTO{ID: *holderID, Name: *holderName}
	}
	if createdAt != nil {
		out.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
	}
	return &out, nil
}

func scanEquipmentEntity(row pgx.Row) (*entities.Equipment, error) {
	var equipment entities.Equipment
	err := row.Scan(
		&equipment.ID, &equipment.Name, &equipment.SerialNumber, &equipment.Location,
		&equipment.CategoryID, &equipment.TeamID, &equipment.DefaultTechnicianID,
		&equipment.EmployeeID, &equipment.IsActive,
		&equipment.CreatedAt, &equipment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, scope authz.Scope, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From(equipmentJoinClauseRepo)
	if cond := scopeCondition(scope, "e.team_id", "e.employee_id"); cond != nil {
		base = base.Where(cond)
	}
	if filter.Search != "" {
		base = base.Where(sq.Or{
			sq.ILike{"e.name": "%" + filter.Search + "%"},
			sq.ILike{"e.serial_number": "%" + filter.Search + "%"},
		})
	}
	base = db.ApplyListParams(base, types.Filter{Filter: filter.Filter}, equipmentAllowedListFields)

	countQuery, countArgs, err := base.Columns("COUNT(e.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета оборудования: %w", err)
	}
	r.logger.Debug("Выполнение SQL-запроса на подсчет оборудования", zap.String("query", countQuery), zap.Any("args", countArgs))

	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}
	if totalCount == 0 {
		return []dto.EquipmentDTO{}, 0, nil
	}

	listBuilder := psql.Select(equipmentJoinFieldsRepo).From(equipmentJoinClauseRepo)
	if cond := scopeCondition(scope, "e.team_id", "e.employee_id"); cond != nil {
		listBuilder = listBuilder.Where(cond)
	}
	if filter.Search != "" {
		listBuilder = listBuilder.Where(sq.Or{
			sq.ILike{"e.name": "%" + filter.Search + "%"},
			sq.ILike{"e.serial_number": "%" + filter.Search + "%"},
		})
	}
	listBuilder = db.ApplyListParams(listBuilder, filter, equipmentAllowedListFields)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("e.id DESC")
	}

	mainQuery, mainArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, mainQuery, mainArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения оборудования: %w", err)
	}
	defer rows.Close()

	items := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		item, err := scanEquipmentDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, totalCount, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE e.id = $1", equipmentJoinFieldsRepo, equipmentJoinClauseRepo)
	return scanEquipmentDTO(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) FindEquipmentEntity(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentEntityFieldsRepo, equipmentTableRepo)
	return scanEquipmentEntity(r.storage.QueryRow(ctx, query, id))
}

// FindEquipmentForUpdateInTx блокирует строку оборудования до конца транзакции.
func (r *EquipmentRepository) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", equipmentEntityFieldsRepo, equipmentTableRepo)
	return scanEquipmentEntity(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, entity *entities.Equipment) (*dto.EquipmentDTO, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, serial_number, location, category_id, team_id, default_technician_id, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, equipmentTableRepo)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		entity.Name, entity.SerialNumber, entity.Location,
		entity.CategoryID, entity.TeamID, entity.DefaultTechnicianID, entity.EmployeeID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return nil, apperrors.NewHttpError(http.StatusConflict, "Оборудование с таким серийным номером уже существует", err, nil)
			}
			if pgErr.Code == "23503" {
				return nil, apperrors.NewHttpError(http.StatusBadRequest, "Указана несуществующая категория, команда или сотрудник", err, nil)
			}
		}
		return nil, err
	}
	return r.FindEquipment(ctx, id)
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, entity *entities.Equipment) (*dto.EquipmentDTO, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, location = $2, category_id = $3, default_technician_id = $4, employee_id = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`, equipmentTableRepo)

	result, err := r.storage.Exec(ctx, query,
		entity.Name, entity.Location, entity.CategoryID,
		entity.DefaultTechnicianID, entity.EmployeeID, entity.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.NewHttpError(http.StatusBadRequest, "Указана несуществующая категория или сотрудник", err, nil)
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindEquipment(ctx, entity.ID)
}

// DeactivateEquipmentInTx выводит оборудование из эксплуатации. Вызывается
// только из перевода заявки в Scrap и только внутри его транзакции.
func (r *EquipmentRepository) DeactivateEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1", equipmentTableRepo)

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetEquipmentStats — сводка для карточки оборудования.
func (r *EquipmentRepository) GetEquipmentStats(ctx context.Context, id uint64) (*dto.EquipmentStatsDTO, error) {
	query := `
		SELECT COUNT(id), COUNT(id) FILTER (WHERE closed_at IS NULL)
		FROM maintenance_requests
		WHERE equipment_id = $1
	`

	stats := dto.EquipmentStatsDTO{EquipmentID: id}
	if err := r.storage.QueryRow(ctx, query, id).Scan(&stats.TotalRequests, &stats.OpenRequests); err != nil {
		return nil, fmt.Errorf("ошибка подсчета заявок оборудования: %w", err)
	}

	if stats.OpenRequests > 0 {
		stats.Status = "Требуется обслуживание"
	} else {
		stats.Status = "Исправен"
	}
	return &stats, nil
}
