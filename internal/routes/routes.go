package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
	User    *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)

	// --- репозитории ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	teamRepo := repositories.NewTeamRepository(dbConn, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	logRepo := repositories.NewRequestLogRepository(dbConn, loggers.Request)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- сервисы ---
	actorResolver := services.NewActorResolver(userRepo)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, cfg.Auth, loggers.Auth)
	requestService := services.NewRequestService(txManager, requestRepo, equipmentRepo, userRepo, logRepo, loggers.Request)
	logService := services.NewRequestLogService(logRepo, requestRepo, loggers.Request)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, loggers.Main)
	teamService := services.NewTeamService(teamRepo, userRepo, equipmentRepo, requestRepo, loggers.Main)
	userService := services.NewUserService(userRepo, teamRepo, requestRepo, loggers.User)
	reportService := services.NewReportService(requestService, loggers.Main)

	// --- контроллеры ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	requestController := controllers.NewRequestController(requestService, logService, actorResolver, loggers.Request)
	equipmentController := controllers.NewEquipmentController(equipmentService, actorResolver, loggers.Main)
	teamController := controllers.NewTeamController(teamService, actorResolver, loggers.Main)
	userController := controllers.NewUserController(userService, actorResolver, loggers.User)
	reportController := controllers.NewReportController(reportService, actorResolver, loggers.Main)

	// --- роутеры ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authController)
	runRequestRouter(secureGroup, requestController)
	runEquipmentRouter(secureGroup, equipmentController)
	runTeamRouter(secureGroup, teamController)
	runUserRouter(secureGroup, userController)
	runReportRouter(secureGroup, reportController)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}
