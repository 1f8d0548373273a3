package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, ctrl *controllers.TeamController) {
	secureGroup.GET("/teams", ctrl.GetTeams)
	secureGroup.GET("/teams/:id", ctrl.FindTeam)
	secureGroup.POST("/teams", ctrl.CreateTeam)
	secureGroup.PUT("/teams/:id", ctrl.UpdateTeam)
}
