package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runCatalogRouter(secureGroup *echo.Group, ctrl *controllers.CatalogController) {
	secureGroup.GET("/stages", ctrl.GetStages)
	secureGroup.GET("/categories", ctrl.GetCategories)
	secureGroup.POST("/categories", ctrl.CreateCategory)
}
