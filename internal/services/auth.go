package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
	"gearguard/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	GetProfile(ctx context.Context, employeeID uint64) (*dto.EmployeeDTO, error)
}

type AuthService struct {
	employeeRepository repositories.EmployeeRepositoryInterface
	jwtService         service.JWTService
	logger             *zap.Logger
}

func NewAuthService(
	employeeRepository repositories.EmployeeRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		employeeRepository: employeeRepository,
		jwtService:         jwtService,
		logger:             logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	employee, err := s.employeeRepository.FindEmployeeByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, существует ли такой email.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.ComparePasswords(employee.PasswordHash, payload.Password); err != nil {
		s.logger.Warn("Неудачная попытка входа", zap.String("email", payload.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(employee.ID, employee.Role, employee.TeamID)
	if err != nil {
		s.logger.Error("Ошибка генерации токенов", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Пользователь вошел в систему", zap.Uint64("employee_id", employee.ID))
	return &dto.AuthResponseDTO{
		Tokens: dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken},
		User:   *employeeToDTO(employee),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Роль и команда могли измениться с момента выдачи токена.
	employee, err := s.employeeRepository.FindEmployee(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	accessToken, newRefreshToken, err := s.jwtService.GenerateTokens(employee.ID, employee.Role, employee.TeamID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, employeeID uint64) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepository.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return employeeToDTO(employee), nil
}

func employeeToDTO(employee *entities.Employee) *dto.EmployeeDTO {
	out := dto.EmployeeDTO{
		ID:    employee.ID,
		Name:  employee.Name,
		Email: employee.Email,
		Role:  employee.Role,
	}
	if employee.Team != nil {
		out.Team = &dto.ShortTeamDTO{ID: employee.Team.ID, Name: employee.Team.Name}
	}
	if employee.CreatedAt != nil {
		out.CreatedAt = employee.CreatedAt.Format("2006-01-02, 15:04:05")
	}
	return &out
}
