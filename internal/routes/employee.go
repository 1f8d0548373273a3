package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runEmployeeRouter(secureGroup *echo.Group, ctrl *controllers.EmployeeController) {
	secureGroup.GET("/employees", ctrl.GetEmployees)
	secureGroup.GET("/employees/:id", ctrl.FindEmployee)
	secureGroup.POST("/employees", ctrl.CreateEmployee)
	secureGroup.PUT("/employees/:id", ctrl.UpdateEmployee)
	secureGroup.DELETE("/employees/:id", ctrl.DeleteEmployee)
}
