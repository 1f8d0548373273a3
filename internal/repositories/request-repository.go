package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/infrastructure/db"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const requestTableRepo = "maintenance_requests"
const requestEntityFieldsRepo = "id, subject, request_type, stage_id, equipment_id, team_id, technician_id, scheduled_date, duration_hours, created_by, created_at, updated_at, closed_at"
const requestJoinClauseRepo = `maintenance_requests mr
	JOIN maintenance_stages s ON mr.stage_id = s.id
	JOIN equipments e ON mr.equipment_id = e.id
	JOIN teams t ON mr.team_id = t.id
	LEFT JOIN employees tech ON mr.technician_id = tech.id
	JOIN employees cb ON mr.created_by = cb.id`
const requestJoinFieldsRepo = "mr.id, mr.subject, mr.request_type, s.id, s.name, s.is_closing, e.id, e.name, t.id, t.name, tech.id, tech.name, cb.id, cb.name, mr.scheduled_date, mr.duration_hours, mr.created_at, mr.closed_at"

var requestAllowedListFields = map[string]string{
	"stage_id":       "mr.stage_id",
	"request_type":   "mr.request_type",
	"technician_id":  "mr.technician_id",
	"equipment_id":   "mr.equipment_id",
	"team_id":        "mr.team_id",
	"id":             "mr.id",
	"created_at":     "mr.created_at",
	"scheduled_date": "mr.scheduled_date",
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, scope authz.Scope, filter types.Filter) ([]dto.RequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	FindRequestEntity(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, entity *entities.MaintenanceRequest) (uint64, error)
	AssignTechnicianInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64, stageID uint64) error
	CloseRequestInTx(ctx context.Context, tx pgx.Tx, id uint64, stageID uint64, durationHours *float64, closedAt time.Time) error
	RescheduleInTx(ctx context.Context, tx pgx.Tx, id uint64, scheduledDate time.Time) error
	GetEquipmentRequests(ctx context.Context, equipmentID uint64) ([]dto.RequestDTO, error)
	GetCalendar(ctx context.Context, scope authz.Scope, start time.Time, end time.Time) ([]dto.CalendarEventDTO, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func scanRequestDTO(row pgx.Row, now time.Time) (*dto.RequestDTO, error) {
	var out dto.RequestDTO
	var stageIsClosing bool
	var technicianID *uint64
	var technicianName *string
	var scheduledDate, closedAt *time.Time
	var createdAt time.Time

	err := row.Scan(
		&out.ID, &out.Subject, &out.RequestType,
		&out.Stage.ID, &out.Stage.Name, &stageIsClosing,
		&out.Equipment.ID, &out.Equipment.Name,
		&out.Team.ID, &out.Team.Name,
		&technicianID, &technicianName,
		&out.CreatedBy.ID, &out.CreatedBy.Name,
		&scheduledDate, &out.DurationHours,
		&createdAt, &closedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if technicianID != nil && technicianName != nil {
		out.Technician = &dto.ShortEmployeeDTO{ID: *technicianID, Name: *technicianName}
	}
	if scheduledDate != nil {
		out.ScheduledDate = scheduledDate.Format("2006-01-02")
	}
	if closedAt != nil {
		out.ClosedAt = closedAt.Format("2006-01-02, 15:04:05")
	}
	out.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
	out.IsOverdue = entities.RequestOverdue(out.RequestType, scheduledDate, stageIsClosing, now)
	return &out, nil
}

func scanRequestEntity(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var request entities.MaintenanceRequest
	err := row.Scan(
		&request.ID, &request.Subject, &request.RequestType,
		&request.StageID, &request.EquipmentID, &request.TeamID,
		&request.TechnicianID, &request.ScheduledDate, &request.DurationHours,
		&request.CreatedByID, &request.CreatedAt, &request.UpdatedAt, &request.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) requestListBuilder(scope authz.Scope, filter types.Filter, columns string) sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.Select(columns).From(requestJoinClauseRepo)
	if cond := scopeCondition(scope, "mr.team_id", "mr.created_by"); cond != nil {
		builder = builder.Where(cond)
	}
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"mr.subject": "%" + filter.Search + "%"})
	}
	return builder
}

func (r *RequestRepository) GetRequests(ctx context.Context, scope authz.Scope, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	countBuilder := r.requestListBuilder(scope, filter, "COUNT(mr.id)")
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, requestAllowedListFields)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета заявок: %w", err)
	}
	r.logger.Debug("Выполнение SQL-запроса на подсчет заявок", zap.String("query", countQuery), zap.Any("args", countArgs))

	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}
	if totalCount == 0 {
		return []dto.RequestDTO{}, 0, nil
	}

	listBuilder := r.requestListBuilder(scope, filter, requestJoinFieldsRepo)
	listBuilder = db.ApplyListParams(listBuilder, filter, requestAllowedListFields)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("mr.id DESC")
	}

	mainQuery, mainArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, mainQuery, mainArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения заявок: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	requests := make([]dto.RequestDTO, 0)
	for rows.Next() {
		request, err := scanRequestDTO(rows, now)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *request)
	}
	return requests, totalCount, rows.Err()
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE mr.id = $1", requestJoinFieldsRepo, requestJoinClauseRepo)
	return scanRequestDTO(r.storage.QueryRow(ctx, query, id), time.Now())
}

func (r *RequestRepository) FindRequestEntity(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", requestEntityFieldsRepo, requestTableRepo)
	return scanRequestEntity(r.storage.QueryRow(ctx, query, id))
}

// FindRequestForUpdateInTx перечитывает заявку под блокировкой. Все проверки
// перехода выполняются заново по этому состоянию: проигравший гонку увидит
// стадию победителя.
func (r *RequestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", requestEntityFieldsRepo, requestTableRepo)
	return scanRequestEntity(tx.QueryRow(ctx, query, id))
}

func (r *RequestRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, entity *entities.MaintenanceRequest) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subject, request_type, stage_id, equipment_id, team_id, technician_id, scheduled_date, duration_hours, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, requestTableRepo)

	var id uint64
	err := tx.QueryRow(ctx, query,
		entity.Subject, entity.RequestType, entity.StageID,
		entity.EquipmentID, entity.TeamID, entity.TechnicianID,
		entity.ScheduledDate, entity.DurationHours, entity.CreatedByID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return id, nil
}

func (r *RequestRepository) AssignTechnicianInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64, stageID uint64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET technician_id = $1, stage_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, requestTableRepo)

	result, err := tx.Exec(ctx, query, technicianID, stageID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) CloseRequestInTx(ctx context.Context, tx pgx.Tx, id uint64, stageID uint64, durationHours *float64, closedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET stage_id = $1, duration_hours = COALESCE($2, duration_hours), closed_at = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, requestTableRepo)

	result, err := tx.Exec(ctx, query, stageID, durationHours, closedAt, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) RescheduleInTx(ctx context.Context, tx pgx.Tx, id uint64, scheduledDate time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET scheduled_date = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, requestTableRepo)

	result, err := tx.Exec(ctx, query, scheduledDate, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetEquipmentRequests — история обслуживания единицы оборудования, новые сверху.
func (r *RequestRepository) GetEquipmentRequests(ctx context.Context, equipmentID uint64) ([]dto.RequestDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE mr.equipment_id = $1 ORDER BY mr.id DESC", requestJoinFieldsRepo, requestJoinClauseRepo)

	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории заявок оборудования: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	requests := make([]dto.RequestDTO, 0)
	for rows.Next() {
		request, err := scanRequestDTO(rows, now)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

// GetCalendar — плановые заявки с датой в заданном окне.
func (r *RequestRepository) GetCalendar(ctx context.Context, scope authz.Scope, start time.Time, end time.Time) ([]dto.CalendarEventDTO, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.
		Select("mr.id, mr.subject, e.name, mr.scheduled_date, s.name").
		From(requestJoinClauseRepo).
		Where(sq.Eq{"mr.request_type": entities.RequestTypePreventive}).
		Where(sq.GtOrEq{"mr.scheduled_date": start}).
		Where(sq.LtOrEq{"mr.scheduled_date": end}).
		OrderBy("mr.scheduled_date, mr.id")
	if cond := scopeCondition(scope, "mr.team_id", "mr.created_by"); cond != nil {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса календаря: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения календаря обслуживания: %w", err)
	}
	defer rows.Close()

	events := make([]dto.CalendarEventDTO, 0)
	for rows.Next() {
		var event dto.CalendarEventDTO
		var scheduledDate time.Time
		if err := rows.Scan(&event.RequestID, &event.Subject, &event.EquipmentName, &scheduledDate, &event.StageName); err != nil {
			return nil, err
		}
		event.ScheduledDate = scheduledDate.Format("2006-01-02")
		events = append(events, event)
	}
	return events, rows.Err()
}
