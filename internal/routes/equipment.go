package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController) {
	secureGroup.GET("/equipments", ctrl.GetEquipments)
	secureGroup.GET("/equipments/:id", ctrl.FindEquipment)
	secureGroup.POST("/equipments", ctrl.CreateEquipment)
	secureGroup.PUT("/equipments/:id", ctrl.UpdateEquipment)
	secureGroup.GET("/equipments/:id/stats", ctrl.GetEquipmentStats)
	secureGroup.GET("/equipments/:id/requests", ctrl.GetEquipmentRequests)
	secureGroup.POST("/equipments/import", ctrl.ImportEquipments)
	// Удаления нет: вывод из эксплуатации возможен только через списание заявкой.
}
