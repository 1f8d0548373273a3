package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const scheduledDateLayout = "2006-01-02"

// RequestService — движок жизненного цикла заявок. Каждая мутация проходит
// путь: видимость → валидация перехода → запись + журнал одной транзакцией.
type RequestService struct {
	storage             *pgxpool.Pool
	requestRepository   repositories.RequestRepositoryInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	employeeRepository  repositories.EmployeeRepositoryInterface
	logRepository       repositories.LogRepositoryInterface
	stages              *StageService
	logger              *zap.Logger
}

func NewRequestService(
	storage *pgxpool.Pool,
	requestRepository repositories.RequestRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	logRepository repositories.LogRepositoryInterface,
	stages *StageService,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		storage:             storage,
		requestRepository:   requestRepository,
		equipmentRepository: equipmentRepository,
		employeeRepository:  employeeRepository,
		logRepository:       logRepository,
		stages:              stages,
		logger:              logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, p authz.Principal, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	// «technician_id=me» — ярлык для списка «моя работа».
	if raw, ok := filter.Filter["technician_id"]; ok {
		if str, isStr := raw.(string); isStr && str == "me" {
			filter.Filter["technician_id"] = p.ID
		}
	}
	return s.requestRepository.GetRequests(ctx, authz.RequestScope(p), filter)
}

func (s *RequestService) FindRequest(ctx context.Context, p authz.Principal, id uint64) (*dto.RequestDTO, error) {
	request, err := s.requestRepository.FindRequestEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeRequest(p, request.TeamID, request.CreatedByID) {
		return nil, apperrors.ErrForbidden
	}
	return s.requestRepository.FindRequest(ctx, id)
}

func (s *RequestService) GetRequestLogs(ctx context.Context, p authz.Principal, id uint64) ([]dto.LogEntryDTO, error) {
	request, err := s.requestRepository.FindRequestEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeRequest(p, request.TeamID, request.CreatedByID) {
		return nil, apperrors.ErrForbidden
	}
	return s.logRepository.GetRequestLogs(ctx, id)
}

func (s *RequestService) GetCalendar(ctx context.Context, p authz.Principal, startRaw string, endRaw string) ([]dto.CalendarEventDTO, error) {
	start, err := time.Parse(scheduledDateLayout, startRaw)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверная дата начала периода: %s", startRaw)
	}
	end, err := time.Parse(scheduledDateLayout, endRaw)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверная дата конца периода: %s", endRaw)
	}
	if end.Before(start) {
		return nil, apperrors.NewInvalidInputError("конец периода раньше его начала")
	}
	return s.requestRepository.GetCalendar(ctx, authz.RequestScope(p), start, end)
}

// CreateRequest создаёт заявку в стадии «New». Команда заявки замораживается
// от оборудования; техник по умолчанию подставляется, но стадию не двигает —
// работа началась только после явного назначения.
func (s *RequestService) CreateRequest(ctx context.Context, p authz.Principal, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipmentEntity(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !equipment.IsActive {
		return nil, apperrors.NewHttpError(http.StatusConflict, "Оборудование выведено из эксплуатации, заявки по нему не принимаются", nil, nil)
	}

	now := time.Now()
	var scheduledDate *time.Time
	if payload.ScheduledDate != "" {
		if payload.RequestType != entities.RequestTypePreventive {
			return nil, apperrors.NewInvalidInputError("дата обслуживания указывается только для плановой заявки")
		}
		parsed, err := time.Parse(scheduledDateLayout, payload.ScheduledDate)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат даты обслуживания: %s", payload.ScheduledDate)
		}
		if dateBeforeToday(parsed, now) {
			return nil, apperrors.NewInvalidInputError("дата обслуживания не может быть в прошлом")
		}
		scheduledDate = &parsed
	}
	if payload.RequestType == entities.RequestTypePreventive && scheduledDate == nil {
		return nil, apperrors.NewInvalidInputError("для плановой заявки обязательна дата обслуживания")
	}

	stageNew, err := s.stages.FindStageByName(ctx, entities.StageNew)
	if err != nil {
		return nil, err
	}

	request := entities.MaintenanceRequest{
		Subject:       payload.Subject,
		RequestType:   payload.RequestType,
		StageID:       stageNew.ID,
		EquipmentID:   equipment.ID,
		TeamID:        equipment.TeamID,
		TechnicianID:  equipment.DefaultTechnicianID,
		ScheduledDate: scheduledDate,
		DurationHours: payload.DurationHours,
		CreatedByID:   p.ID,
	}

	var requestID uint64
	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		id, err := s.requestRepository.CreateRequestInTx(ctx, tx, &request)
		if err != nil {
			return err
		}
		requestID = id

		message := "Заявка создана"
		if request.TechnicianID != nil {
			message = fmt.Sprintf("Заявка создана, подставлен техник оборудования по умолчанию (id=%d)", *request.TechnicianID)
		}
		return s.logRepository.CreateLogInTx(ctx, tx, &entities.MaintenanceLog{
			Message:     message,
			RequestID:   &requestID,
			EquipmentID: &request.EquipmentID,
			CreatedByID: &p.ID,
		})
	})
	if err != nil {
		s.logger.Error("Ошибка при создании заявки", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Заявка создана",
		zap.Uint64("request_id", requestID),
		zap.Uint64("equipment_id", equipment.ID),
		zap.Uint64("created_by", p.ID))
	return s.requestRepository.FindRequest(ctx, requestID)
}

// AssignTechnician назначает техника. Из «New» заявка атомарно переводится
// в «In Progress»; повторное назначение в работе стадию не меняет.
func (s *RequestService) AssignTechnician(ctx context.Context, p authz.Principal, id uint64, payload dto.AssignRequestDTO) (*dto.RequestDTO, error) {
	request, err := s.requestRepository.FindRequestEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAssignTechnician(p, request.TeamID, request.CreatedByID) {
		return nil, apperrors.ErrForbidden
	}

	technician, err := s.employeeRepository.FindEmployee(ctx, payload.TechnicianID)
	if err != nil {
		return nil, err
	}

	currentStage, err := s.stages.FindStage(ctx, request.StageID)
	if err != nil {
		return nil, err
	}
	if err := validateAssign(request, currentStage, technician); err != nil {
		return nil, err
	}

	inProgress, err := s.stages.FindStageByName(ctx, entities.StageInProgress)
	if err != nil {
		return nil, err
	}

	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		locked, err := s.requestRepository.FindRequestForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		lockedStage, err := s.stages.FindStage(ctx, locked.StageID)
		if err != nil {
			return err
		}
		if err := validateAssign(locked, lockedStage, technician); err != nil {
			return err
		}

		targetStageID := locked.StageID
		message := fmt.Sprintf("Назначен техник: %s", technician.Name)
		if lockedStage.Name == entities.StageNew {
			targetStageID = inProgress.ID
			message = fmt.Sprintf("Назначен техник: %s, заявка переведена в работу", technician.Name)
		}

		if err := s.requestRepository.AssignTechnicianInTx(ctx, tx, id, technician.ID, targetStageID); err != nil {
			return err
		}
		return s.logRepository.CreateLogInTx(ctx, tx, &entities.MaintenanceLog{
			Message:     message,
			RequestID:   &id,
			EquipmentID: &locked.EquipmentID,
			CreatedByID: &p.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Техник назначен на заявку",
		zap.Uint64("request_id", id),
		zap.Uint64("technician_id", technician.ID),
		zap.Uint64("actor_id", p.ID))
	return s.requestRepository.FindRequest(ctx, id)
}

// TransitionStage переводит заявку в закрывающую стадию. Допустимые цели —
// только «Repaired» и «Scrap»; всё остальное отклоняется как недопустимый
// переход. Списание дополнительно выводит оборудование из эксплуатации.
func (s *RequestService) TransitionStage(ctx context.Context, p authz.Principal, id uint64, payload dto.TransitionRequestDTO) (*dto.RequestDTO, error) {
	request, err := s.requestRepository.FindRequestEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeRequest(p, request.TeamID, request.CreatedByID) {
		return nil, apperrors.ErrForbidden
	}

	targetStage, err := s.stages.FindStage(ctx, payload.StageID)
	if err != nil {
		return nil, err
	}

	switch targetStage.Name {
	case entities.StageRepaired:
		return s.markRepaired(ctx, p, request, targetStage, payload.DurationHours)
	case entities.StageScrap:
		return s.scrap(ctx, p, request, targetStage)
	default:
		return nil, apperrors.ErrInvalidTransition
	}
}

func (s *RequestService) markRepaired(ctx context.Context, p authz.Principal, request *entities.MaintenanceRequest, targetStage *entities.MaintenanceStage, durationHours *float64) (*dto.RequestDTO, error) {
	currentStage, err := s.stages.FindStage(ctx, request.StageID)
	if err != nil {
		return nil, err
	}
	if err := validateRepaired(p, request, currentStage, durationHours); err != nil {
		return nil, err
	}

	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		locked, err := s.requestRepository.FindRequestForUpdateInTx(ctx, tx, request.ID)
		if err != nil {
			return err
		}
		lockedStage, err := s.stages.FindStage(ctx, locked.StageID)
		if err != nil {
			return err
		}
		if err := validateRepaired(p, locked, lockedStage, durationHours); err != nil {
			return err
		}

		closedAt := time.Now()
		if err := s.requestRepository.CloseRequestInTx(ctx, tx, locked.ID, targetStage.ID, durationHours, closedAt); err != nil {
			return err
		}

		duration := locked.DurationHours
		if durationHours != nil {
			duration = durationHours
		}
		return s.logRepository.CreateLogInTx(ctx, tx, &entities.MaintenanceLog{
			Message:     fmt.Sprintf("Ремонт завершен, длительность: %.1f ч", *duration),
			RequestID:   &locked.ID,
			EquipmentID: &locked.EquipmentID,
			CreatedByID: &p.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка закрыта как отремонтированная",
		zap.Uint64("request_id", request.ID),
		zap.Uint64("actor_id", p.ID))
	return s.requestRepository.FindRequest(ctx, request.ID)
}

// scrap — единый атомарный акт: закрыть заявку, навсегда вывести оборудование
// из эксплуатации и записать это в журнал. Обратной операции нет.
func (s *RequestService) scrap(ctx context.Context, p authz.Principal, request *entities.MaintenanceRequest, targetStage *entities.MaintenanceStage) (*dto.RequestDTO, error) {
	currentStage, err := s.stages.FindStage(ctx, request.StageID)
	if err != nil {
		return nil, err
	}
	if err := validateScrap(p, currentStage); err != nil {
		return nil, err
	}

	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		locked, err := s.requestRepository.FindRequestForUpdateInTx(ctx, tx, request.ID)
		if err != nil {
			return err
		}
		lockedStage, err := s.stages.FindStage(ctx, locked.StageID)
		if err != nil {
			return err
		}
		if err := validateScrap(p, lockedStage); err != nil {
			return err
		}

		if _, err := s.equipmentRepository.FindEquipmentForUpdateInTx(ctx, tx, locked.EquipmentID); err != nil {
			return err
		}

		if err := s.requestRepository.CloseRequestInTx(ctx, tx, locked.ID, targetStage.ID, nil, time.Now()); err != nil {
			return err
		}
		if err := s.equipmentRepository.DeactivateEquipmentInTx(ctx, tx, locked.EquipmentID); err != nil {
			return err
		}
		return s.logRepository.CreateLogInTx(ctx, tx, &entities.MaintenanceLog{
			Message:     "Оборудование списано, заявка закрыта",
			RequestID:   &locked.ID,
			EquipmentID: &locked.EquipmentID,
			CreatedByID: &p.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Оборудование списано",
		zap.Uint64("request_id", request.ID),
		zap.Uint64("equipment_id", request.EquipmentID),
		zap.Uint64("actor_id", p.ID))
	return s.requestRepository.FindRequest(ctx, request.ID)
}

// Reschedule переносит дату планового обслуживания.
func (s *RequestService) Reschedule(ctx context.Context, p authz.Principal, id uint64, payload dto.RescheduleRequestDTO) (*dto.RequestDTO, error) {
	request, err := s.requestRepository.FindRequestEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSeeRequest(p, request.TeamID, request.CreatedByID) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	newDate, err := time.Parse(scheduledDateLayout, payload.ScheduledDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверный формат даты обслуживания: %s", payload.ScheduledDate)
	}

	currentStage, err := s.stages.FindStage(ctx, request.StageID)
	if err != nil {
		return nil, err
	}
	if err := validateReschedule(request, currentStage, newDate, now); err != nil {
		return nil, err
	}

	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		locked, err := s.requestRepository.FindRequestForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		lockedStage, err := s.stages.FindStage(ctx, locked.StageID)
		if err != nil {
			return err
		}
		if err := validateReschedule(locked, lockedStage, newDate, now); err != nil {
			return err
		}

		oldDate := "не назначена"
		if locked.ScheduledDate != nil {
			oldDate = locked.ScheduledDate.Format(scheduledDateLayout)
		}

		if err := s.requestRepository.RescheduleInTx(ctx, tx, id, newDate); err != nil {
			return err
		}
		return s.logRepository.CreateLogInTx(ctx, tx, &entities.MaintenanceLog{
			Message:     fmt.Sprintf("Обслуживание перенесено с %s на %s", oldDate, newDate.Format(scheduledDateLayout)),
			RequestID:   &id,
			EquipmentID: &locked.EquipmentID,
			CreatedByID: &p.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepository.FindRequest(ctx, id)
}
