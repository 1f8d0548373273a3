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
)

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	employeeRepository  repositories.EmployeeRepositoryInterface
	requestRepository   repositories.RequestRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	requestRepository repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		employeeRepository:  employeeRepository,
		requestRepository:   requestRepository,
		logger:              logger,
	}
}

// validateDefaultTechnician: техник по умолчанию обязан быть техником
// и состоять в команде оборудования.
func validateDefaultTechnician(technician *entities.Employee, teamID uint64) error {
	if technician.Role != authz.RoleTechnician.String() {
		return apperrors.NewInvalidInputError("сотрудник %d не является техником", technician.ID)
	}
	if technician.TeamID == nil || *technician.TeamID != teamID {
		return apperrors.NewInvalidInputError("техник по умолчанию должен состоять в команде оборудования")
	}
	return nil
}

func (s *EquipmentService) checkDefaultTechnician(ctx context.Context, technicianID uint64, teamID uint64) error {
	technician, err := s.employeeRepository.FindEmployee(ctx, technicianID)
	if err != nil {
		return err
	}
	return validateDefaultTechnician(technician, teamID)
}

func (s *EquipmentService) GetEquipments(ctx context.Context, p authz.Principal, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	return s.equipmentRepository.GetEquipments(ctx, authz.EquipmentScope(p), filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, p authz.Principal, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipmentEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeEquipment(p, equipment.TeamID, equipment.EmployeeID) {
		return nil, apperrors.ErrForbidden
	}
	return s.equipmentRepository.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, p authz.Principal, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if !authz.CanCreateEquipment(p, payload.TeamID) {
		return nil, apperrors.ErrForbidden
	}
	if payload.DefaultTechnicianID != nil {
		if err := s.checkDefaultTechnician(ctx, *payload.DefaultTechnicianID, payload.TeamID); err != nil {
			return nil, err
		}
	}

	equipment, err := s.equipmentRepository.CreateEquipment(ctx, &entities.Equipment{
		Name:                payload.Name,
		SerialNumber:        payload.SerialNumber,
		Location:            payload.Location,
		CategoryID:          payload.CategoryID,
		TeamID:              payload.TeamID,
		DefaultTechnicianID: payload.DefaultTechnicianID,
		EmployeeID:          payload.EmployeeID,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании оборудования", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Оборудование создано",
		zap.Uint64("equipment_id", equipment.ID),
		zap.Uint64("team_id", payload.TeamID),
		zap.Uint64("actor_id", p.ID))
	return equipment, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, p authz.Principal, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipmentEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageEquipment(p, equipment.TeamID) {
		return nil, apperrors.ErrForbidden
	}

	if payload.Name != nil {
		equipment.Name = *payload.Name
	}
	if payload.Location != nil {
		equipment.Location = *payload.Location
	}
	if payload.CategoryID != nil {
		equipment.CategoryID = *payload.CategoryID
	}
	if payload.DefaultTechnicianID != nil {
		if err := s.checkDefaultTechnician(ctx, *payload.DefaultTechnicianID, equipment.TeamID); err != nil {
			return nil, err
		}
		equipment.DefaultTechnicianID = payload.DefaultTechnicianID
	}
	if payload.EmployeeID != nil {
		equipment.EmployeeID = payload.EmployeeID
	}

	return s.equipmentRepository.UpdateEquipment(ctx, equipment)
}

// GetEquipmentStats — данные «умной кнопки» карточки оборудования.
func (s *EquipmentService) GetEquipmentStats(ctx context.Context, p authz.Principal, id uint64) (*dto.EquipmentStatsDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipmentEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeEquipment(p, equipment.TeamID, equipment.EmployeeID) {
		return nil, apperrors.ErrForbidden
	}
	return s.equipmentRepository.GetEquipmentStats(ctx, id)
}

// GetEquipmentRequests — история обслуживания единицы оборудования.
func (s *EquipmentService) GetEquipmentRequests(ctx context.Context, p authz.Principal, id uint64) ([]dto.RequestDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipmentEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeEquipment(p, equipment.TeamID, equipment.EmployeeID) {
		return nil, apperrors.ErrForbidden
	}
	return s.requestRepository.GetEquipmentRequests(ctx, id)
}
