package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

// CatalogController раздает справочники движка: стадии заявок и
// категории оборудования.
type CatalogController struct {
	stageService    *services.StageService
	categoryService *services.CategoryService
	logger          *zap.Logger
}

func NewCatalogController(
	stageService *services.StageService,
	categoryService *services.CategoryService,
	logger *zap.Logger,
) *CatalogController {
	return &CatalogController{
		stageService:    stageService,
		categoryService: categoryService,
		logger:          logger,
	}
}

func (c *CatalogController) GetStages(ctx echo.Context) error {
	res, err := c.stageService.GetStageDTOs(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetStages: ошибка при получении стадий", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Справочник стадий успешно получен", http.StatusOK)
}

func (c *CatalogController) GetCategories(ctx echo.Context) error {
	res, err := c.categoryService.GetCategories(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetCategories: ошибка при получении категорий", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Справочник категорий успешно получен", http.StatusOK)
}

func (c *CatalogController) CreateCategory(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateCategoryDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.categoryService.CreateCategory(ctx.Request().Context(), p, payload)
	if err != nil {
		c.logger.Error("CreateCategory: ошибка при создании категории", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Категория успешно создана", http.StatusCreated)
}
