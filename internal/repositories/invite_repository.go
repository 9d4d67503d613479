package repositories

import (
	"errors"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrInviteNotFound = errors.New("invite not found")

type InviteRepository interface {
	WithTx(tx *gorm.DB) InviteRepository

	Create(invite *models.ProgramInvite) error
	FindByID(id string) (*models.ProgramInvite, error)
	FindPending(programID, inviteeMemberID string) (*models.ProgramInvite, error)
	FindPendingForMember(inviteeMemberID string) ([]models.ProgramInvite, error)
	UpdateStatus(inviteID string, status models.InviteStatus) error
	// DeleteByMember удаляет все приглашения, где участник - инициатор или адресат.
	// Вызывается при удалении аккаунта.
	DeleteByMember(memberID string) error
}

type InviteRepositoryImpl struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &InviteRepositoryImpl{db: db}
}

func (r *InviteRepositoryImpl) WithTx(tx *gorm.DB) InviteRepository {
	return &InviteRepositoryImpl{db: tx}
}

func (r *InviteRepositoryImpl) Create(invite *models.ProgramInvite) error {
	return r.db.Create(invite).Error
}

func (r *InviteRepositoryImpl) FindByID(id string) (*models.ProgramInvite, error) {
	var invite models.ProgramInvite
	err := r.db.First(&invite, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepositoryImpl) FindPending(programID, inviteeMemberID string) (*models.ProgramInvite, error) {
	var invite models.ProgramInvite
	err := r.db.First(&invite, "program_id = ? AND invitee_member_id = ? AND status = ?",
		programID, inviteeMemberID, models.InviteStatusPending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepositoryImpl) FindPendingForMember(inviteeMemberID string) ([]models.ProgramInvite, error) {
	var invites []models.ProgramInvite
	err := r.db.Where("invitee_member_id = ? AND status = ?", inviteeMemberID, models.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *InviteRepositoryImpl) UpdateStatus(inviteID string, status models.InviteStatus) error {
	return r.db.Model(&models.ProgramInvite{}).
		Where("id = ?", inviteID).
		Update("status", status).Error
}

func (r *InviteRepositoryImpl) DeleteByMember(memberID string) error {
	return r.db.Where("inviter_member_id = ? OR invitee_member_id = ?", memberID, memberID).
		Delete(&models.ProgramInvite{}).Error
}
