package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	// --- РЕПОЗИТОРИИ ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.Main)
	teamRepo := repositories.NewTeamRepository(dbConn)
	categoryRepo := repositories.NewCategoryRepository(dbConn)
	stageRepo := repositories.NewStageRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	logRepo := repositories.NewLogRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn)

	// --- СЕРВИСЫ ---
	stageService := services.NewStageService(stageRepo, cacheRepo, cfg.Cache.StageCatalogTTL, loggers.Main)
	authService := services.NewAuthService(employeeRepo, jwtSvc, loggers.Auth)
	employeeService := services.NewEmployeeService(employeeRepo, loggers.Main)
	teamService := services.NewTeamService(teamRepo, loggers.Main)
	categoryService := services.NewCategoryService(categoryRepo, loggers.Main)
	equipmentService := services.NewEquipmentService(equipmentRepo, employeeRepo, requestRepo, loggers.Main)
	importService := services.NewEquipmentImportService(equipmentRepo, categoryRepo, teamRepo, loggers.Main)
	requestService := services.NewRequestService(dbConn, requestRepo, equipmentRepo, employeeRepo, logRepo, stageService, loggers.Request)
	reportService := services.NewReportService(reportRepo, loggers.Main)

	// --- КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	employeeController := controllers.NewEmployeeController(employeeService, loggers.Main)
	teamController := controllers.NewTeamController(teamService, loggers.Main)
	catalogController := controllers.NewCatalogController(stageService, categoryService, loggers.Main)
	equipmentController := controllers.NewEquipmentController(equipmentService, importService, loggers.Main)
	requestController := controllers.NewRequestController(requestService, loggers.Request)
	reportController := controllers.NewReportController(reportService, loggers.Main)

	// --- РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runEmployeeRouter(secureGroup, employeeController)
	runTeamRouter(secureGroup, teamController)
	runCatalogRouter(secureGroup, catalogController)
	runEquipmentRouter(secureGroup, equipmentController)
	runRequestRouter(secureGroup, requestController)
	runReportRouter(secureGroup, reportController)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
}
