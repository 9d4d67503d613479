package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/services"
	"fittrack_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	*BaseHandler
	memberService services.MemberService
}

func NewMemberHandler(base *BaseHandler, memberService services.MemberService) *MemberHandler {
	return &MemberHandler{
		BaseHandler:   base,
		memberService: memberService,
	}
}

func (h *MemberHandler) RegisterRoutes(r *gin.RouterGroup) {
	members := r.Group("/members")
	members.Use(middleware.AuthMiddleware())
	{
		members.GET("/me", h.GetProfile)
		members.PATCH("/me", h.UpdateProfile)
		members.DELETE("/me", h.DeleteAccount)
	}
}

func (h *MemberHandler) GetProfile(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetProfile(memberID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.memberService.UpdateProfile(memberID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) DeleteAccount(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	if err := h.memberService.DeleteAccount(memberID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
