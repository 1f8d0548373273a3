package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearguard/internal/authz"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

var (
	stageNew        = &entities.MaintenanceStage{ID: 1, Name: entities.StageNew, Sequence: 1}
	stageInProgress = &entities.MaintenanceStage{ID: 2, Name: entities.StageInProgress, Sequence: 2}
	stageRepaired   = &entities.MaintenanceStage{ID: 3, Name: entities.StageRepaired, Sequence: 3, IsClosing: true}
	stageScrap      = &entities.MaintenanceStage{ID: 4, Name: entities.StageScrap, Sequence: 4, IsClosing: true, IsScrapState: true}
)

func teamPtr(v uint64) *uint64    { return &v }
func hoursPtr(v float64) *float64 { return &v }

func isInvalidInput(err error) bool {
	var invalidErr *apperrors.InvalidInputError
	return errors.As(err, &invalidErr)
}

func TestValidateAssign(t *testing.T) {
	req := &entities.MaintenanceRequest{ID: 1, TeamID: 10, RequestType: entities.RequestTypeCorrective}

	teamTech := &entities.Employee{ID: 3, Role: authz.RoleTechnician.String(), TeamID: teamPtr(10)}
	otherTech := &entities.Employee{ID: 4, Role: authz.RoleTechnician.String(), TeamID: teamPtr(20)}
	manager := &entities.Employee{ID: 5, Role: authz.RoleManager.String(), TeamID: teamPtr(10)}

	assert.NoError(t, validateAssign(req, stageNew, teamTech))
	assert.NoError(t, validateAssign(req, stageInProgress, teamTech), "переназначение в работе допустимо")

	err := validateAssign(req, stageNew, otherTech)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "техник чужой команды отклоняется")

	err = validateAssign(req, stageNew, manager)
	assert.True(t, isInvalidInput(err), "назначить можно только техника")

	assert.ErrorIs(t, validateAssign(req, stageRepaired, teamTech), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, validateAssign(req, stageScrap, teamTech), apperrors.ErrInvalidTransition)
}

func TestValidateRepaired(t *testing.T) {
	technician := authz.Principal{ID: 3, Role: authz.RoleTechnician, TeamID: teamPtr(10)}
	manager := authz.Principal{ID: 5, Role: authz.RoleManager, TeamID: teamPtr(10)}

	req := &entities.MaintenanceRequest{ID: 1, TeamID: 10}

	assert.NoError(t, validateRepaired(technician, req, stageInProgress, hoursPtr(2.5)))

	err := validateRepaired(technician, req, stageNew, hoursPtr(2.5))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "из «New» ремонт не завершается")

	err = validateRepaired(technician, req, stageRepaired, hoursPtr(2.5))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "закрытая заявка не закрывается повторно")

	err = validateRepaired(manager, req, stageInProgress, hoursPtr(2.5))
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "менеджер не завершает ремонт")

	err = validateRepaired(technician, req, stageInProgress, nil)
	assert.True(t, isInvalidInput(err), "без длительности ремонт не закрывается")

	// Длительность уже сохранена в заявке — повторно передавать не обязательно.
	stored := &entities.MaintenanceRequest{ID: 2, TeamID: 10, DurationHours: hoursPtr(1)}
	assert.NoError(t, validateRepaired(technician, stored, stageInProgress, nil))
}

func TestValidateScrap(t *testing.T) {
	admin := authz.Principal{ID: 1, Role: authz.RoleAdmin}
	manager := authz.Principal{ID: 5, Role: authz.RoleManager, TeamID: teamPtr(10)}
	technician := authz.Principal{ID: 3, Role: authz.RoleTechnician, TeamID: teamPtr(10)}

	assert.NoError(t, validateScrap(admin, stageNew))
	assert.NoError(t, validateScrap(manager, stageInProgress), "списание возможно из любой незакрытой стадии")

	assert.ErrorIs(t, validateScrap(technician, stageNew), apperrors.ErrForbidden)
	assert.ErrorIs(t, validateScrap(manager, stageRepaired), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, validateScrap(manager, stageScrap), apperrors.ErrInvalidTransition)
}

func TestValidateReschedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	preventive := &entities.MaintenanceRequest{ID: 1, RequestType: entities.RequestTypePreventive, ScheduledDate: &tomorrow}
	corrective := &entities.MaintenanceRequest{ID: 2, RequestType: entities.RequestTypeCorrective}

	assert.NoError(t, validateReschedule(preventive, stageNew, tomorrow, now))
	assert.NoError(t, validateReschedule(preventive, stageInProgress, today, now), "сегодняшняя дата допустима")

	err := validateReschedule(corrective, stageNew, tomorrow, now)
	assert.True(t, isInvalidInput(err), "внеплановая заявка не переносится")

	err = validateReschedule(preventive, stageNew, yesterday, now)
	assert.True(t, isInvalidInput(err), "дата в прошлом отклоняется")

	assert.ErrorIs(t, validateReschedule(preventive, stageRepaired, tomorrow, now), apperrors.ErrInvalidTransition)
}

func TestRequestOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, entities.RequestOverdue(entities.RequestTypePreventive, &yesterday, false, now))
	assert.False(t, entities.RequestOverdue(entities.RequestTypePreventive, &today, false, now), "сегодняшняя дата еще не просрочена")
	assert.False(t, entities.RequestOverdue(entities.RequestTypePreventive, &yesterday, true, now), "закрытая заявка не бывает просроченной")
	assert.False(t, entities.RequestOverdue(entities.RequestTypeCorrective, &yesterday, false, now))
	assert.False(t, entities.RequestOverdue(entities.RequestTypePreventive, nil, false, now))
}
