package repositories

import (
	"errors"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
)

type MemberRepository interface {
	WithTx(tx *gorm.DB) MemberRepository

	Create(member *models.Member) error
	FindByID(id string) (*models.Member, error)
	FindByUsername(username string) (*models.Member, error)
	Update(member *models.Member) error
	// Delete удаляет строку участника; зависимые строки
	// (memberships, workouts, health logs, notification recipients)
	// удаляются каскадом на уровне БД
	Delete(memberID string) error
	FindByIDs(ids []string) ([]models.Member, error)
}

type MemberRepositoryImpl struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &MemberRepositoryImpl{db: db}
}

func (r *MemberRepositoryImpl) WithTx(tx *gorm.DB) MemberRepository {
	return &MemberRepositoryImpl{db: tx}
}

func (r *MemberRepositoryImpl) Create(member *models.Member) error {
	err := r.db.Create(member).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrMemberAlreadyExists
	}
	return err
}

func (r *MemberRepositoryImpl) FindByID(id string) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepositoryImpl) FindByUsername(username string) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepositoryImpl) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

func (r *MemberRepositoryImpl) Delete(memberID string) error {
	result := r.db.Delete(&models.Member{}, "id = ?", memberID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepositoryImpl) FindByIDs(ids []string) ([]models.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var members []models.Member
	err := r.db.Where("id IN ?", ids).Find(&members).Error
	return members, err
}
