package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/services"
	"fittrack_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type HealthLogHandler struct {
	*BaseHandler
	healthLogService services.HealthLogService
}

func NewHealthLogHandler(base *BaseHandler, healthLogService services.HealthLogService) *HealthLogHandler {
	return &HealthLogHandler{
		BaseHandler:      base,
		healthLogService: healthLogService,
	}
}

func (h *HealthLogHandler) RegisterRoutes(r *gin.RouterGroup) {
	healthLogs := r.Group("/health-logs")
	healthLogs.Use(middleware.AuthMiddleware())
	{
		healthLogs.PUT("", h.UpsertHealthLog)
		healthLogs.GET("", h.ListHealthLogs)
		healthLogs.DELETE("/:logId", h.DeleteHealthLog)
	}
}

func (h *HealthLogHandler) UpsertHealthLog(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var req dto.UpsertHealthLogRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	healthLog, err := h.healthLogService.Upsert(memberID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, healthLog)
}

func (h *HealthLogHandler) ListHealthLogs(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	from, to, err := ParseQueryDateRange(c, 30)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logs, err := h.healthLogService.ListRange(memberID, from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"health_logs": logs})
}

func (h *HealthLogHandler) DeleteHealthLog(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	if err := h.healthLogService.Delete(memberID, c.Param("logId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Health log deleted"})
}
