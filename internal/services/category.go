package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type CategoryService struct {
	categoryRepository repositories.CategoryRepositoryInterface
	logger             *zap.Logger
}

func NewCategoryService(categoryRepository repositories.CategoryRepositoryInterface, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepository: categoryRepository,
		logger:             logger,
	}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, dto.CategoryDTO{ID: category.ID, Name: category.Name})
	}
	return out, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, p authz.Principal, payload dto.CreateCategoryDTO) (*dto.CategoryDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}
	category, err := s.categoryRepository.CreateCategory(ctx, payload.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана категория оборудования", zap.Uint64("category_id", category.ID), zap.String("name", category.Name))
	return &dto.CategoryDTO{ID: category.ID, Name: category.Name}, nil
}
