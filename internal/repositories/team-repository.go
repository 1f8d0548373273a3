package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const teamTableRepo = "teams"
const teamFieldsRepo = "id, name, created_at, updated_at"

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context) ([]dto.TeamDTO, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	FindTeamEntity(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var team entities.Team
	err := row.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func teamToDTO(team *entities.Team) *dto.TeamDTO {
	out := dto.TeamDTO{ID: team.ID, Name: team.Name}
	if team.CreatedAt != nil {
		out.CreatedAt = team.CreatedAt.Format("2006-01-02, 15:04:05")
	}
	return &out
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", teamFieldsRepo, teamTableRepo)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения команд: %w", err)
	}
	defer rows.Close()

	teams := make([]dto.TeamDTO, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *teamToDTO(team))
	}
	return teams, rows.Err()
}

// FindTeam возвращает команду вместе со списком её участников.
func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := r.FindTeamEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	out := teamToDTO(team)

	membersQuery := "SELECT id, name FROM employees WHERE team_id = $1 AND deleted_at IS NULL ORDER BY name"
	rows, err := r.storage.Query(ctx, membersQuery, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников команды: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member dto.ShortEmployeeDTO
		if err := rows.Scan(&member.ID, &member.Name); err != nil {
			return nil, err
		}
		out.Members = append(out.Members, member)
	}
	return out, rows.Err()
}

func (r *TeamRepository) FindTeamEntity(ctx context.Context, id uint64) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", teamFieldsRepo, teamTableRepo)
	return scanTeam(r.storage.QueryRow(ctx, query, id))
}

func (r *TeamRepository) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING %s", teamTableRepo, teamFieldsRepo)

	team, err := scanTeam(r.storage.QueryRow(ctx, query, payload.Name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Команда с таким названием уже существует", err, nil)
		}
		return nil, err
	}
	return teamToDTO(team), nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = COALESCE($1, name), updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING %s
	`, teamTableRepo, teamFieldsRepo)

	team, err := scanTeam(r.storage.QueryRow(ctx, query, payload.Name, id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Команда с таким названием уже существует", err, nil)
		}
		return nil, err
	}
	return teamToDTO(team), nil
}
