package repositories

import (
	"errors"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMembershipNotFound = errors.New("membership not found")

type MembershipRepository interface {
	WithTx(tx *gorm.DB) MembershipRepository

	Create(membership *models.ProgramMembership) error
	Find(programID, memberID string) (*models.ProgramMembership, error)
	FindActive(programID, memberID string) (*models.ProgramMembership, error)
	FindActiveByMember(memberID string) ([]models.ProgramMembership, error)

	// CountActiveExcluding считает активные членства программы без учета exiting-участника
	CountActiveExcluding(programID, excludedMemberID string) (int64, error)
	CountActiveAdminsExcluding(programID, excludedMemberID string) (int64, error)

	// FindPromotionCandidate выбирает активное членство (любой роли, кроме
	// exiting-участника) с самым ранним joined_at; при равенстве - с наименьшим
	// member_id. Детерминированный порядок обязателен: повторный прогон по тем же
	// данным должен выбирать того же кандидата.
	FindPromotionCandidate(programID, excludedMemberID string) (*models.ProgramMembership, error)

	// ActiveMemberIDs возвращает id участников с активным членством,
	// кроме перечисленных
	ActiveMemberIDs(programID string, excludedMemberIDs ...string) ([]string, error)

	UpdateRole(membershipID string, role models.MembershipRole) error
	UpdateStatus(membershipID string, status models.MembershipStatus) error
}

type MembershipRepositoryImpl struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &MembershipRepositoryImpl{db: db}
}

func (r *MembershipRepositoryImpl) WithTx(tx *gorm.DB) MembershipRepository {
	return &MembershipRepositoryImpl{db: tx}
}

func (r *MembershipRepositoryImpl) Create(membership *models.ProgramMembership) error {
	return r.db.Create(membership).Error
}

func (r *MembershipRepositoryImpl) Find(programID, memberID string) (*models.ProgramMembership, error) {
	var membership models.ProgramMembership
	err := r.db.First(&membership, "program_id = ? AND member_id = ?", programID, memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepositoryImpl) FindActive(programID, memberID string) (*models.ProgramMembership, error) {
	var membership models.ProgramMembership
	err := r.db.First(&membership, "program_id = ? AND member_id = ? AND status = ?",
		programID, memberID, models.MembershipStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepositoryImpl) FindActiveByMember(memberID string) ([]models.ProgramMembership, error) {
	var memberships []models.ProgramMembership
	err := r.db.Where("member_id = ? AND status = ?", memberID, models.MembershipStatusActive).
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepositoryImpl) CountActiveExcluding(programID, excludedMemberID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProgramMembership{}).
		Where("program_id = ? AND status = ? AND member_id <> ?",
			programID, models.MembershipStatusActive, excludedMemberID).
		Count(&count).Error
	return count, err
}

func (r *MembershipRepositoryImpl) CountActiveAdminsExcluding(programID, excludedMemberID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProgramMembership{}).
		Where("program_id = ? AND status = ? AND role = ? AND member_id <> ?",
			programID, models.MembershipStatusActive, models.MembershipRoleAdmin, excludedMemberID).
		Count(&count).Error
	return count, err
}

func (r *MembershipRepositoryImpl) FindPromotionCandidate(programID, excludedMemberID string) (*models.ProgramMembership, error) {
	var membership models.ProgramMembership
	err := r.db.
		Where("program_id = ? AND status = ? AND member_id <> ?",
			programID, models.MembershipStatusActive, excludedMemberID).
		Order("joined_at ASC, member_id ASC").
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepositoryImpl) ActiveMemberIDs(programID string, excludedMemberIDs ...string) ([]string, error) {
	query := r.db.Model(&models.ProgramMembership{}).
		Where("program_id = ? AND status = ?", programID, models.MembershipStatusActive)
	if len(excludedMemberIDs) > 0 {
		query = query.Where("member_id NOT IN ?", excludedMemberIDs)
	}

	var ids []string
	err := query.Order("member_id ASC").Pluck("member_id", &ids).Error
	return ids, err
}

func (r *MembershipRepositoryImpl) UpdateRole(membershipID string, role models.MembershipRole) error {
	return r.db.Model(&models.ProgramMembership{}).
		Where("id = ?", membershipID).
		Update("role", role).Error
}

func (r *MembershipRepositoryImpl) UpdateStatus(membershipID string, status models.MembershipStatus) error {
	return r.db.Model(&models.ProgramMembership{}).
		Where("id = ?", membershipID).
		Update("status", status).Error
}
