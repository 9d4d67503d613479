package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	*BaseHandler
	inviteService services.InviteService
}

func NewInviteHandler(base *BaseHandler, inviteService services.InviteService) *InviteHandler {
	return &InviteHandler{
		BaseHandler:   base,
		inviteService: inviteService,
	}
}

func (h *InviteHandler) RegisterRoutes(r *gin.RouterGroup) {
	invites := r.Group("/invites")
	invites.Use(middleware.AuthMiddleware())
	{
		invites.GET("", h.ListMyInvites)
		invites.POST("/:inviteId/accept", h.AcceptInvite)
		invites.POST("/:inviteId/decline", h.DeclineInvite)
	}
}

func (h *InviteHandler) ListMyInvites(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	invites, err := h.inviteService.ListMine(memberID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	invite, err := h.inviteService.Accept(memberID, c.Param("inviteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

func (h *InviteHandler) DeclineInvite(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	invite, err := h.inviteService.Decline(memberID, c.Param("inviteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}
