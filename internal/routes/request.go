package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, ctrl *controllers.RequestController) {
	secureGroup.GET("/requests", ctrl.GetRequests)
	secureGroup.GET("/requests/calendar", ctrl.GetCalendar)
	secureGroup.GET("/requests/:id", ctrl.FindRequest)
	secureGroup.POST("/requests", ctrl.CreateRequest)
	secureGroup.PATCH("/requests/:id/assign", ctrl.AssignTechnician)
	secureGroup.PATCH("/requests/:id/status", ctrl.TransitionStage)
	secureGroup.PATCH("/requests/:id/schedule", ctrl.Reschedule)
	secureGroup.GET("/requests/:id/logs", ctrl.GetRequestLogs)
}
