package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type TeamService struct {
	teamRepository repositories.TeamRepositoryInterface
	logger         *zap.Logger
}

func NewTeamService(teamRepository repositories.TeamRepositoryInterface, logger *zap.Logger) *TeamService {
	return &TeamService{
		teamRepository: teamRepository,
		logger:         logger,
	}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	return s.teamRepository.GetTeams(ctx)
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	return s.teamRepository.FindTeam(ctx, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, p authz.Principal, payload dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}
	team, err := s.teamRepository.CreateTeam(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создана команда", zap.Uint64("team_id", team.ID), zap.String("name", team.Name))
	return team, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, p authz.Principal, id uint64, payload dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}
	return s.teamRepository.UpdateTeam(ctx, id, payload)
}
