package repositories

import (
	"errors"
	"time"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProgramNotFound = errors.New("program not found")

type ProgramRepository interface {
	WithTx(tx *gorm.DB) ProgramRepository

	Create(program *models.Program) error
	FindByID(id string) (*models.Program, error)
	// FindByIDForUpdate читает программу с блокировкой строки (SELECT ... FOR UPDATE
	// на Postgres), чтобы сериализовать конкурентные выходы из одной программы
	FindByIDForUpdate(id string) (*models.Program, error)
	Update(program *models.Program) error
	SoftDelete(programID string) error
	ClearCreatedBy(programID string) error
	// FindTouchedByMember возвращает не удаленные программы, в которых участник
	// имеет активное членство либо числится создателем
	FindTouchedByMember(memberID string) ([]models.Program, error)
	FindActiveByMember(memberID string) ([]models.Program, error)
}

type ProgramRepositoryImpl struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &ProgramRepositoryImpl{db: db}
}

func (r *ProgramRepositoryImpl) WithTx(tx *gorm.DB) ProgramRepository {
	return &ProgramRepositoryImpl{db: tx}
}

func (r *ProgramRepositoryImpl) Create(program *models.Program) error {
	return r.db.Create(program).Error
}

func (r *ProgramRepositoryImpl) FindByID(id string) (*models.Program, error) {
	var program models.Program
	err := r.db.First(&program, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepositoryImpl) FindByIDForUpdate(id string) (*models.Program, error) {
	query := r.db
	// SQLite не поддерживает FOR UPDATE; там вся БД лочится на запись целиком
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var program models.Program
	err := query.First(&program, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepositoryImpl) Update(program *models.Program) error {
	return r.db.Save(program).Error
}

func (r *ProgramRepositoryImpl) SoftDelete(programID string) error {
	return r.db.Model(&models.Program{}).
		Where("id = ?", programID).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": time.Now(),
		}).Error
}

func (r *ProgramRepositoryImpl) ClearCreatedBy(programID string) error {
	return r.db.Model(&models.Program{}).
		Where("id = ?", programID).
		Update("created_by", nil).Error
}

func (r *ProgramRepositoryImpl) FindTouchedByMember(memberID string) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.
		Distinct("programs.*").
		Joins("LEFT JOIN program_memberships pm ON pm.program_id = programs.id AND pm.member_id = ? AND pm.status = ?",
			memberID, models.MembershipStatusActive).
		Where("programs.is_deleted = ?", false).
		Where("pm.id IS NOT NULL OR programs.created_by = ?", memberID).
		Find(&programs).Error
	return programs, err
}

func (r *ProgramRepositoryImpl) FindActiveByMember(memberID string) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.
		Joins("JOIN program_memberships pm ON pm.program_id = programs.id").
		Where("pm.member_id = ? AND pm.status = ?", memberID, models.MembershipStatusActive).
		Where("programs.is_deleted = ?", false).
		Find(&programs).Error
	return programs, err
}
