package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

// EmployeeService — администрирование учетных записей. Все мутации
// доступны только администратору.
type EmployeeService struct {
	employeeRepository repositories.EmployeeRepositoryInterface
	logger             *zap.Logger
}

func NewEmployeeService(employeeRepository repositories.EmployeeRepositoryInterface, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		employeeRepository: employeeRepository,
		logger:             logger,
	}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]dto.EmployeeDTO, uint64, error) {
	employees, total, err := s.employeeRepository.GetEmployees(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EmployeeDTO, 0, len(employees))
	for i := range employees {
		out = append(out, *employeeToDTO(&employees[i]))
	}
	return out, total, nil
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepository.FindEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return employeeToDTO(employee), nil
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, p authz.Principal, payload dto.CreateEmployeeDTO) (*dto.EmployeeDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}

	passwordHash, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	employee, err := s.employeeRepository.CreateEmployee(ctx, &entities.Employee{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: passwordHash,
		Role:         payload.Role,
		TeamID:       payload.TeamID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создан сотрудник", zap.Uint64("employee_id", employee.ID), zap.String("role", employee.Role))
	return employeeToDTO(employee), nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, p authz.Principal, id uint64, payload dto.UpdateEmployeeDTO) (*dto.EmployeeDTO, error) {
	if !authz.CanManageEmployees(p) {
		return nil, apperrors.ErrForbidden
	}

	employee, err := s.employeeRepository.FindEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		employee.Name = *payload.Name
	}
	if payload.Email != nil {
		employee.Email = *payload.Email
	}
	if payload.Role != nil {
		employee.Role = *payload.Role
	}
	if payload.TeamID != nil {
		employee.TeamID = payload.TeamID
	}

	updated, err := s.employeeRepository.UpdateEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}
	return employeeToDTO(updated), nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, p authz.Principal, id uint64) error {
	if !authz.CanManageEmployees(p) {
		return apperrors.ErrForbidden
	}
	if err := s.employeeRepository.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Сотрудник удален", zap.Uint64("employee_id", id), zap.Uint64("actor_id", p.ID))
	return nil
}
