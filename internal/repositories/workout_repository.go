package repositories

import (
	"errors"
	"time"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutCriteria struct {
	ProgramID string     `form:"program_id"`
	DateFrom  *time.Time `form:"date_from"`
	DateTo    *time.Time `form:"date_to"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

type WorkoutRepository interface {
	WithTx(tx *gorm.DB) WorkoutRepository

	Create(workout *models.Workout) error
	FindByID(id string) (*models.Workout, error)
	FindByMember(memberID string, criteria WorkoutCriteria) ([]models.Workout, int64, error)
	Delete(id string) error
}

type WorkoutRepositoryImpl struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &WorkoutRepositoryImpl{db: db}
}

func (r *WorkoutRepositoryImpl) WithTx(tx *gorm.DB) WorkoutRepository {
	return &WorkoutRepositoryImpl{db: tx}
}

func (r *WorkoutRepositoryImpl) Create(workout *models.Workout) error {
	return r.db.Create(workout).Error
}

func (r *WorkoutRepositoryImpl) FindByID(id string) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.First(&workout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *WorkoutRepositoryImpl) FindByMember(memberID string, criteria WorkoutCriteria) ([]models.Workout, int64, error) {
	query := r.db.Model(&models.Workout{}).Where("member_id = ?", memberID)

	if criteria.ProgramID != "" {
		query = query.Where("program_id = ?", criteria.ProgramID)
	}
	if criteria.DateFrom != nil {
		query = query.Where("performed_at >= ?", *criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		query = query.Where("performed_at <= ?", *criteria.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		query = query.Offset((criteria.Page - 1) * criteria.PageSize).Limit(criteria.PageSize)
	}

	var workouts []models.Workout
	err := query.Order("performed_at DESC").Find(&workouts).Error
	return workouts, total, err
}

func (r *WorkoutRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Workout{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}
