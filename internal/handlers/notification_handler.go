package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetMyNotifications)
		notifications.GET("/unacked-count", h.GetUnackedCount)
		notifications.PUT("/:notificationId/ack", h.Acknowledge)
		notifications.PUT("/ack-all", h.AcknowledgeAll)
	}
}

func (h *NotificationHandler) GetMyNotifications(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := repositories.NotificationCriteria{
		UnackedOnly: c.Query("unacked_only") == "true",
		Type:        c.Query("type"),
		Page:        page,
		PageSize:    pageSize,
	}

	response, err := h.notificationService.GetMemberNotifications(memberID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetUnackedCount(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnackedCount(memberID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unacked_count": count})
}

func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Acknowledge(memberID, c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification acknowledged"})
}

func (h *NotificationHandler) AcknowledgeAll(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	if err := h.notificationService.AcknowledgeAll(memberID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications acknowledged"})
}
