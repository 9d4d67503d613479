package services

import (
	"errors"

	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"
)

type WorkoutService interface {
	Log(memberID string, req *dto.LogWorkoutRequest) (*dto.WorkoutResponse, error)
	List(memberID string, criteria repositories.WorkoutCriteria) (*dto.WorkoutListResponse, error)
	Delete(memberID, workoutID string) error
}

type workoutService struct {
	workoutRepo    repositories.WorkoutRepository
	membershipRepo repositories.MembershipRepository
}

func NewWorkoutService(workoutRepo repositories.WorkoutRepository, membershipRepo repositories.MembershipRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, membershipRepo: membershipRepo}
}

func (s *workoutService) Log(memberID string, req *dto.LogWorkoutRequest) (*dto.WorkoutResponse, error) {
	// Тренировка засчитывается только активному участнику программы
	if _, err := s.membershipRepo.FindActive(req.ProgramID, memberID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, apperrors.ErrNotProgramMember
		}
		return nil, err
	}

	workout := &models.Workout{
		MemberID:    memberID,
		ProgramID:   req.ProgramID,
		PerformedAt: req.PerformedAt,
		Kind:        req.Kind,
		DurationMin: req.DurationMin,
		Notes:       req.Notes,
	}
	if err := s.workoutRepo.Create(workout); err != nil {
		return nil, err
	}
	return buildWorkoutResponse(workout), nil
}

func (s *workoutService) List(memberID string, criteria repositories.WorkoutCriteria) (*dto.WorkoutListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	workouts, total, err := s.workoutRepo.FindByMember(memberID, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		responses = append(responses, buildWorkoutResponse(&workouts[i]))
	}
	return &dto.WorkoutListResponse{
		Workouts: responses,
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

func (s *workoutService) Delete(memberID, workoutID string) error {
	workout, err := s.workoutRepo.FindByID(workoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkoutNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	if workout.MemberID != memberID {
		return apperrors.ErrNotFound(repositories.ErrWorkoutNotFound)
	}
	return s.workoutRepo.Delete(workoutID)
}

func buildWorkoutResponse(w *models.Workout) *dto.WorkoutResponse {
	return &dto.WorkoutResponse{
		ID:          w.ID,
		ProgramID:   w.ProgramID,
		PerformedAt: w.PerformedAt,
		Kind:        w.Kind,
		DurationMin: w.DurationMin,
		Notes:       w.Notes,
		CreatedAt:   w.CreatedAt,
	}
}
