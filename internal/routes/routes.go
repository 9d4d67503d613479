package routes

import (
	"fittrack_backend/internal/handlers"
	"fittrack_backend/internal/logger"
	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/realtime"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *realtime.Handler,
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.MemberHandler.RegisterRoutes(api)
		appHandlers.ProgramHandler.RegisterRoutes(api)
		appHandlers.InviteHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.WorkoutHandler.RegisterRoutes(api)
		appHandlers.HealthLogHandler.RegisterRoutes(api)
	}

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/api/v1/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /api/v1/ws registered")
}
