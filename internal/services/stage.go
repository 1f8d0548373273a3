package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

const stageCatalogCacheKey = "catalog:stages"

// StageService раздаёт неизменяемый справочник стадий. Справочник мал и
// читается на каждом переходе, поэтому держится в Redis.
type StageService struct {
	stageRepository repositories.StageRepositoryInterface
	cacheRepository repositories.CacheRepositoryInterface
	cacheTTL        time.Duration
	logger          *zap.Logger
}

func NewStageService(
	stageRepository repositories.StageRepositoryInterface,
	cacheRepository repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *StageService {
	return &StageService{
		stageRepository: stageRepository,
		cacheRepository: cacheRepository,
		cacheTTL:        cacheTTL,
		logger:          logger,
	}
}

// GetStages возвращает каталог стадий, при возможности — из кеша.
// Ошибки кеша не фатальны: падаем обратно на базу.
func (s *StageService) GetStages(ctx context.Context) ([]entities.MaintenanceStage, error) {
	if cached, err := s.cacheRepository.Get(ctx, stageCatalogCacheKey); err == nil && cached != "" {
		var stages []entities.MaintenanceStage
		if err := json.Unmarshal([]byte(cached), &stages); err == nil {
			return stages, nil
		}
		s.logger.Warn("Кеш справочника стадий поврежден, перечитываем из базы")
	}

	stages, err := s.stageRepository.GetStages(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stages); err == nil {
		if err := s.cacheRepository.Set(ctx, stageCatalogCacheKey, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("Не удалось закешировать справочник стадий", zap.Error(err))
		}
	}
	return stages, nil
}

func (s *StageService) GetStageDTOs(ctx context.Context) ([]dto.StageDTO, error) {
	stages, err := s.GetStages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StageDTO, 0, len(stages))
	for _, stage := range stages {
		out = append(out, dto.StageDTO{
			ID:           stage.ID,
			Name:         stage.Name,
			Sequence:     stage.Sequence,
			IsClosing:    stage.IsClosing,
			IsScrapState: stage.IsScrapState,
		})
	}
	return out, nil
}

func (s *StageService) FindStage(ctx context.Context, id uint64) (*entities.MaintenanceStage, error) {
	stages, err := s.GetStages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].ID == id {
			return &stages[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *StageService) FindStageByName(ctx context.Context, name string) (*entities.MaintenanceStage, error) {
	stages, err := s.GetStages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].Name == name {
			return &stages[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}
