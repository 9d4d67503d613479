package repositories

import (
	"errors"
	"time"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrHealthLogNotFound = errors.New("health log not found")

type HealthLogRepository interface {
	WithTx(tx *gorm.DB) HealthLogRepository

	// Upsert сохраняет запись дня; при конфликте (member_id, log_date)
	// обновляет метрики существующей записи
	Upsert(healthLog *models.HealthLog) error
	FindByID(id string) (*models.HealthLog, error)
	FindByMemberRange(memberID string, from, to time.Time) ([]models.HealthLog, error)
	Delete(id string) error
}

type HealthLogRepositoryImpl struct {
	db *gorm.DB
}

func NewHealthLogRepository(db *gorm.DB) HealthLogRepository {
	return &HealthLogRepositoryImpl{db: db}
}

func (r *HealthLogRepositoryImpl) WithTx(tx *gorm.DB) HealthLogRepository {
	return &HealthLogRepositoryImpl{db: tx}
}

func (r *HealthLogRepositoryImpl) Upsert(healthLog *models.HealthLog) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weight_kg", "resting_hr", "sleep_hours", "notes", "updated_at",
		}),
	}).Create(healthLog).Error
}

func (r *HealthLogRepositoryImpl) FindByID(id string) (*models.HealthLog, error) {
	var healthLog models.HealthLog
	err := r.db.First(&healthLog, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHealthLogNotFound
		}
		return nil, err
	}
	return &healthLog, nil
}

func (r *HealthLogRepositoryImpl) FindByMemberRange(memberID string, from, to time.Time) ([]models.HealthLog, error) {
	var logs []models.HealthLog
	err := r.db.Where("member_id = ? AND log_date >= ? AND log_date <= ?", memberID, from, to).
		Order("log_date ASC").
		Find(&logs).Error
	return logs, err
}

func (r *HealthLogRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.HealthLog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHealthLogNotFound
	}
	return nil
}
