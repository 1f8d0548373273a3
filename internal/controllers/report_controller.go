package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetRequestsBreakdown(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	groupBy := strings.ToLower(ctx.QueryParam("group_by"))
	if groupBy == "" {
		groupBy = "team"
	}

	res, err := c.reportService.GetRequestsBreakdown(ctx.Request().Context(), p, groupBy)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отчет успешно сформирован", http.StatusOK)
}

func (c *ReportController) ExportRequestsBreakdown(ctx echo.Context) error {
	p, err := authz.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	groupBy := strings.ToLower(ctx.QueryParam("group_by"))
	if groupBy == "" {
		groupBy = "team"
	}

	f, err := c.reportService.ExportRequestsBreakdown(ctx.Request().Context(), p, groupBy)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("requests_breakdown_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
