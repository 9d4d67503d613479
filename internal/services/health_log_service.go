package services

import (
	"errors"
	"time"

	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"
)

type HealthLogService interface {
	Upsert(memberID string, req *dto.UpsertHealthLogRequest) (*dto.HealthLogResponse, error)
	ListRange(memberID string, from, to time.Time) ([]*dto.HealthLogResponse, error)
	Delete(memberID, logID string) error
}

type healthLogService struct {
	healthLogRepo repositories.HealthLogRepository
}

func NewHealthLogService(healthLogRepo repositories.HealthLogRepository) HealthLogService {
	return &healthLogService{healthLogRepo: healthLogRepo}
}

func (s *healthLogService) Upsert(memberID string, req *dto.UpsertHealthLogRequest) (*dto.HealthLogResponse, error) {
	healthLog := &models.HealthLog{
		MemberID:   memberID,
		LogDate:    normalizeLogDate(req.LogDate),
		WeightKg:   req.WeightKg,
		RestingHR:  req.RestingHR,
		SleepHours: req.SleepHours,
		Notes:      req.Notes,
	}
	if err := s.healthLogRepo.Upsert(healthLog); err != nil {
		return nil, err
	}
	return buildHealthLogResponse(healthLog), nil
}

func (s *healthLogService) ListRange(memberID string, from, to time.Time) ([]*dto.HealthLogResponse, error) {
	logs, err := s.healthLogRepo.FindByMemberRange(memberID, normalizeLogDate(from), normalizeLogDate(to))
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.HealthLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, buildHealthLogResponse(&logs[i]))
	}
	return responses, nil
}

func (s *healthLogService) Delete(memberID, logID string) error {
	healthLog, err := s.healthLogRepo.FindByID(logID)
	if err != nil {
		if errors.Is(err, repositories.ErrHealthLogNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	if healthLog.MemberID != memberID {
		return apperrors.ErrNotFound(repositories.ErrHealthLogNotFound)
	}
	return s.healthLogRepo.Delete(logID)
}

// normalizeLogDate обрезает время до полуночи UTC: уникальность
// записи считается по календарному дню
func normalizeLogDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func buildHealthLogResponse(h *models.HealthLog) *dto.HealthLogResponse {
	return &dto.HealthLogResponse{
		ID:         h.ID,
		LogDate:    h.LogDate,
		WeightKg:   h.WeightKg,
		RestingHR:  h.RestingHR,
		SleepHours: h.SleepHours,
		Notes:      h.Notes,
		CreatedAt:  h.CreatedAt,
	}
}
