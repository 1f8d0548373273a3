package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const categoryTableRepo = "equipment_categories"
const categoryFieldsRepo = "id, name"

type CategoryRepositoryInterface interface {
	GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error)
	FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error)
	CreateCategory(ctx context.Context, name string) (*entities.EquipmentCategory, error)
}

type CategoryRepository struct {
	storage *pgxpool.Pool
}

func NewCategoryRepository(storage *pgxpool.Pool) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage}
}

func scanCategory(row pgx.Row) (*entities.EquipmentCategory, error) {
	var category entities.EquipmentCategory
	err := row.Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]entities.EquipmentCategory, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", categoryFieldsRepo, categoryTableRepo)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий оборудования: %w", err)
	}
	defer rows.Close()

	categories := make([]entities.EquipmentCategory, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", categoryFieldsRepo, categoryTableRepo)
	return scanCategory(r.storage.QueryRow(ctx, query, id))
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, name string) (*entities.EquipmentCategory, error) {
	query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING %s", categoryTableRepo, categoryFieldsRepo)

	category, err := scanCategory(r.storage.QueryRow(ctx, query, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Категория с таким названием уже существует", err, nil)
		}
		return nil, err
	}
	return category, nil
}
