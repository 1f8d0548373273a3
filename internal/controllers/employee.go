package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type EmployeeController struct {
	employeeService *services.EmployeeService
	logger          *zap.Logger
}

func NewEmployeeController(employeeService *services.EmployeeService, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{employeeService: employeeService, logger: logger}
}

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEmployees: ошибка при получении списка сотрудников", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, res, "Список сотрудников успешно получен", utils.BuildPagination(total, filter))
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.FindEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сотрудник успешно найден", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateEmployee: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.CreateEmployee(ctx.Request().Context(), p, payload)
	if err != nil {
		c.logger.Error("CreateEmployee: ошибка при создании сотрудника", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сотрудник успешно создан", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.employeeService.UpdateEmployee(ctx.Request().Context(), p, id, payload)
	if err != nil {
		c.logger.Error("UpdateEmployee: ошибка при обновлении сотрудника", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сотрудник успешно обновлен", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.employeeService.DeleteEmployee(ctx.Request().Context(), p, id); err != nil {
		c.logger.Error("DeleteEmployee: ошибка при удалении сотрудника", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Сотрудник успешно удален", http.StatusOK)
}
