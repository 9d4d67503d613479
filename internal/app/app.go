package app

import (
	"errors"
	"fmt"
	"os"

	"fittrack_backend/internal/config"
	"fittrack_backend/internal/database"
	"fittrack_backend/internal/handlers"
	"fittrack_backend/internal/logger"
	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/realtime"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/routes"
	"fittrack_backend/internal/services"
	"fittrack_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	if err := seedGlobalAdmin(gormDB); err != nil {
		logger.Fatal("Failed to seed global admin", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	registry := realtime.NewRegistry()

	serviceContainer := initializeServices(gormDB, registry)
	appHandlers := initializeHandlers(serviceContainer)
	wsHandler := realtime.NewHandler(registry, cfg.Realtime.SendBufferSize)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(gormDB *gorm.DB, registry *realtime.Registry) *services.ServiceContainer {
	memberRepo := repositories.NewMemberRepository(gormDB)
	programRepo := repositories.NewProgramRepository(gormDB)
	membershipRepo := repositories.NewMembershipRepository(gormDB)
	inviteRepo := repositories.NewInviteRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	workoutRepo := repositories.NewWorkoutRepository(gormDB)
	healthLogRepo := repositories.NewHealthLogRepository(gormDB)

	notificationService := services.NewNotificationService(gormDB, notificationRepo, registry)
	exitService := services.NewMembershipExitService(programRepo, membershipRepo, notificationService)
	programService := services.NewProgramService(gormDB, programRepo, membershipRepo, memberRepo, exitService, notificationService)
	memberService := services.NewMemberService(gormDB, memberRepo, programRepo, membershipRepo, inviteRepo, notificationRepo, exitService, notificationService)
	inviteService := services.NewInviteService(gormDB, inviteRepo, memberRepo, programRepo, membershipRepo, notificationService)
	workoutService := services.NewWorkoutService(workoutRepo, membershipRepo)
	healthLogService := services.NewHealthLogService(healthLogRepo)

	return &services.ServiceContainer{
		MemberService:       memberService,
		ProgramService:      programService,
		InviteService:       inviteService,
		NotificationService: notificationService,
		ExitService:         exitService,
		WorkoutService:      workoutService,
		HealthLogService:    healthLogService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		MemberHandler:       handlers.NewMemberHandler(baseHandler, container.MemberService),
		ProgramHandler:      handlers.NewProgramHandler(baseHandler, container.ProgramService, container.InviteService),
		InviteHandler:       handlers.NewInviteHandler(baseHandler, container.InviteService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		WorkoutHandler:      handlers.NewWorkoutHandler(baseHandler, container.WorkoutService),
		HealthLogHandler:    handlers.NewHealthLogHandler(baseHandler, container.HealthLogService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedGlobalAdmin создает первого глобального админа, если его еще нет.
// Имя берется из окружения; без него сидирование пропускается.
func seedGlobalAdmin(db *gorm.DB) error {
	adminUsername := os.Getenv("FIRST_ADMIN_USERNAME")
	if adminUsername == "" {
		logger.Warn("FIRST_ADMIN_USERNAME is not set. Skipping global admin seeding.")
		return nil
	}

	var admin models.Member
	result := db.Where("username = ?", adminUsername).First(&admin)
	if result.Error == nil {
		logger.Info("Global admin already exists. Skipping creation.", "username", adminUsername)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for global admin: %w", result.Error)
	}

	logger.Warn("No global admin found. Creating first admin...", "username", adminUsername)
	newAdmin := &models.Member{
		Username: adminUsername,
		Role:     models.MemberRoleGlobalAdmin,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create global admin: %w", err)
	}

	logger.Info("✅ Successfully created first global admin", "username", adminUsername)
	return nil
}
