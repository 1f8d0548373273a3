package services

import (
	"time"

	"gearguard/internal/authz"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

// Чистые правила жизненного цикла заявки. Каждое правило вызывается дважды:
// до транзакции (быстрый отказ без блокировок) и внутри неё, по состоянию,
// перечитанному под FOR UPDATE. Проигравший гонку повторит проверку по
// состоянию победителя и получит отказ.

// validateAssign: техник должен состоять в замороженной команде заявки,
// закрытую заявку назначать нельзя.
func validateAssign(req *entities.MaintenanceRequest, currentStage *entities.MaintenanceStage, technician *entities.Employee) error {
	if currentStage.IsClosing {
		return apperrors.ErrInvalidTransition
	}
	if technician.Role != authz.RoleTechnician.String() {
		return apperrors.NewInvalidInputError("сотрудник %d не является техником", technician.ID)
	}
	if technician.TeamID == nil || *technician.TeamID != req.TeamID {
		return apperrors.ErrForbidden
	}
	return nil
}

// validateRepaired: завершить ремонт можно только из «In Progress», только
// технику и только с указанной длительностью (в вызове или уже в заявке).
func validateRepaired(p authz.Principal, req *entities.MaintenanceRequest, currentStage *entities.MaintenanceStage, durationHours *float64) error {
	if currentStage.Name != entities.StageInProgress {
		return apperrors.ErrInvalidTransition
	}
	if !authz.CanMarkRepaired(p) {
		return apperrors.ErrForbidden
	}
	if durationHours == nil && req.DurationHours == nil {
		return apperrors.NewInvalidInputError("для завершения ремонта требуется длительность работ в часах")
	}
	return nil
}

// validateScrap: списание доступно менеджеру и администратору из любой
// незакрытой стадии.
func validateScrap(p authz.Principal, currentStage *entities.MaintenanceStage) error {
	if !authz.CanScrap(p) {
		return apperrors.ErrForbidden
	}
	if currentStage.IsClosing {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// validateReschedule: переносить можно только плановые незакрытые заявки
// и только на сегодня или позже.
func validateReschedule(req *entities.MaintenanceRequest, currentStage *entities.MaintenanceStage, newDate time.Time, now time.Time) error {
	if req.RequestType != entities.RequestTypePreventive {
		return apperrors.NewInvalidInputError("перенести дату можно только у плановой заявки")
	}
	if currentStage.IsClosing {
		return apperrors.ErrInvalidTransition
	}
	if dateBeforeToday(newDate, now) {
		return apperrors.NewInvalidInputError("дата обслуживания не может быть в прошлом")
	}
	return nil
}

func dateBeforeToday(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.Before(today)
}
