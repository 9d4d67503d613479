package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/services"
	"fittrack_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProgramHandler struct {
	*BaseHandler
	programService services.ProgramService
	inviteService  services.InviteService
}

func NewProgramHandler(base *BaseHandler, programService services.ProgramService, inviteService services.InviteService) *ProgramHandler {
	return &ProgramHandler{
		BaseHandler:    base,
		programService: programService,
		inviteService:  inviteService,
	}
}

func (h *ProgramHandler) RegisterRoutes(r *gin.RouterGroup) {
	programs := r.Group("/programs")
	programs.Use(middleware.AuthMiddleware())
	{
		programs.POST("", h.CreateProgram)
		programs.GET("", h.ListMyPrograms)
		programs.GET("/:programId", h.GetProgram)
		programs.GET("/:programId/members", h.ListMembers)
		programs.POST("/:programId/leave", h.LeaveProgram)
		programs.DELETE("/:programId/members/:memberId", h.RemoveMember)
		programs.POST("/:programId/invites", h.CreateInvite)
	}
}

func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var req dto.CreateProgramRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	program, err := h.programService.Create(memberID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) ListMyPrograms(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	programs, err := h.programService.ListMine(memberID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	program, err := h.programService.Get(memberID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) ListMembers(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	members, err := h.programService.ListMembers(memberID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *ProgramHandler) LeaveProgram(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	result, err := h.programService.Leave(memberID, c.Param("programId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProgramHandler) RemoveMember(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	result, err := h.programService.RemoveMember(memberID, c.Param("programId"), c.Param("memberId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProgramHandler) CreateInvite(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var req dto.CreateInviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invite, err := h.inviteService.Create(memberID, c.Param("programId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invite)
}
