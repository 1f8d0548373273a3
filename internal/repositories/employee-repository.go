package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const employeeTableRepo = "employees"
const employeeSelectFieldsRepo = "e.id, e.name, e.email, e.password, e.role, e.team_id, t.name, e.created_at, e.updated_at"
const employeeJoinClauseRepo = "employees e LEFT JOIN teams t ON e.team_id = t.id"

var employeeAllowedFilterFields = map[string]bool{"role": true, "team_id": true}

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, entity *entities.Employee) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, entity *entities.Employee) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var employee entities.Employee
	var teamName *string
	err := row.Scan(
		&employee.ID, &employee.Name, &employee.Email, &employee.PasswordHash,
		&employee.Role, &employee.TeamID, &teamName,
		&employee.CreatedAt, &employee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if employee.TeamID != nil && teamName != nil {
		employee.Team = &entities.Team{ID: *employee.TeamID, Name: *teamName}
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	allArgs := make([]interface{}, 0)
	conditions := []string{"e.deleted_at IS NULL"}

	for key, value := range filter.Filter {
		if !employeeAllowedFilterFields[key] {
			continue
		}
		placeholder := fmt.Sprintf("$%d", len(allArgs)+1)
		conditions = append(conditions, fmt.Sprintf("e.%s = %s", key, placeholder))
		allArgs = append(allArgs, value)
	}

	if filter.Search != "" {
		searchPlaceholder := fmt.Sprintf("$%d", len(allArgs)+1)
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE %s OR e.email ILIKE %s)", searchPlaceholder, searchPlaceholder))
		allArgs = append(allArgs, "%"+filter.Search+"%")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(e.id) FROM %s %s", employeeJoinClauseRepo, whereClause)
	r.logger.Debug("Выполнение SQL-запроса на подсчет сотрудников", zap.String("query", countQuery), zap.Any("args", allArgs))

	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, allArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета сотрудников: %w", err)
	}
	if totalCount == 0 {
		return []entities.Employee{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitPlaceholder := fmt.Sprintf("$%d", len(allArgs)+1)
		offsetPlaceholder := fmt.Sprintf("$%d", len(allArgs)+2)
		limitClause = fmt.Sprintf("LIMIT %s OFFSET %s", limitPlaceholder, offsetPlaceholder)
		allArgs = append(allArgs, filter.Limit, filter.Offset)
	}

	mainQuery := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY e.id DESC %s", employeeSelectFieldsRepo, employeeJoinClauseRepo, whereClause, limitClause)

	rows, err := r.storage.Query(ctx, mainQuery, allArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения сотрудников: %w", err)
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *employee)
	}
	return employees, totalCount, rows.Err()
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE e.id = $1 AND e.deleted_at IS NULL", employeeSelectFieldsRepo, employeeJoinClauseRepo)
	return scanEmployee(r.storage.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(e.email) = LOWER($1) AND e.deleted_at IS NULL LIMIT 1", employeeSelectFieldsRepo, employeeJoinClauseRepo)
	return scanEmployee(r.storage.QueryRow(ctx, query, email))
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, entity *entities.Employee) (*entities.Employee, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, email, password, role, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, employeeTableRepo)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		entity.Name, entity.Email, entity.PasswordHash, entity.Role, entity.TeamID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return nil, apperrors.NewHttpError(http.StatusConflict, "Email уже используется.", err, nil)
			}
			if pgErr.Code == "23503" {
				return nil, apperrors.NewHttpError(http.StatusBadRequest, "Указанная команда не существует.", err, nil)
			}
		}
		return nil, err
	}
	return r.FindEmployee(ctx, id)
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, entity *entities.Employee) (*entities.Employee, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, email = $2, role = $3, team_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND deleted_at IS NULL
	`, employeeTableRepo)

	result, err := r.storage.Exec(ctx, query,
		entity.Name, entity.Email, entity.Role, entity.TeamID, entity.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return nil, apperrors.NewHttpError(http.StatusConflict, "Email уже используется.", err, nil)
			}
			if pgErr.Code == "23503" {
				return nil, apperrors.NewHttpError(http.StatusBadRequest, "Указанная команда не существует.", err, nil)
			}
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindEmployee(ctx, entity.ID)
}

// DeleteEmployee помечает сотрудника удалённым (история заявок сохраняется).
// Сотрудника с открытыми заявками удалить нельзя.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id uint64) error {
	var openRequests uint64
	refsQuery := "SELECT COUNT(id) FROM maintenance_requests WHERE technician_id = $1 AND closed_at IS NULL"
	if err := r.storage.QueryRow(ctx, refsQuery, id).Scan(&openRequests); err != nil {
		return fmt.Errorf("ошибка проверки заявок сотрудника: %w", err)
	}
	if openRequests > 0 {
		return apperrors.NewHttpError(http.StatusConflict, "За сотрудником числятся открытые заявки, удаление невозможно", nil, nil)
	}

	query := fmt.Sprintf("UPDATE %s SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL", employeeTableRepo)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
