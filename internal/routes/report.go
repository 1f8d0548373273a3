package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, ctrl *controllers.ReportController) {
	secureGroup.GET("/reports/requests-breakdown", ctrl.GetRequestsBreakdown)
	secureGroup.GET("/reports/requests-breakdown/export", ctrl.ExportRequestsBreakdown)
}
