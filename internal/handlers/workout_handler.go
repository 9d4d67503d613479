package handlers

import (
	"net/http"

	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services"
	"fittrack_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	*BaseHandler
	workoutService services.WorkoutService
}

func NewWorkoutHandler(base *BaseHandler, workoutService services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		BaseHandler:    base,
		workoutService: workoutService,
	}
}

func (h *WorkoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	workouts := r.Group("/workouts")
	workouts.Use(middleware.AuthMiddleware())
	{
		workouts.POST("", h.LogWorkout)
		workouts.GET("", h.ListWorkouts)
		workouts.DELETE("/:workoutId", h.DeleteWorkout)
	}
}

func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var req dto.LogWorkoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	workout, err := h.workoutService.Log(memberID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	var criteria repositories.WorkoutCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	response, err := h.workoutService.List(memberID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	memberID, ok := h.GetAndAuthorizeMemberID(c)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(memberID, c.Param("workoutId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
}
