package repositories

import (
	"errors"
	"time"

	"fittrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Типы событий, которые порождает lifecycle-логика программ
const (
	NotificationTypeProgramDeleted   = "program.deleted"
	NotificationTypeRoleChanged      = "program.role_changed"
	NotificationTypeAdminTransferred = "program.admin_transferred"
	NotificationTypeMemberLeft       = "program.member_left"
	NotificationTypeInviteReceived   = "program.invite_received"
)

// Критерии выборки уведомлений участника
type NotificationCriteria struct {
	UnackedOnly bool   `form:"unacked_only"`
	Type        string `form:"type"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// NotificationWithAck - уведомление вместе с состоянием подтверждения получателя
type NotificationWithAck struct {
	models.Notification
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
}

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository

	Create(notification *models.Notification) error
	CreateRecipients(recipients []*models.NotificationRecipient) error
	FindByID(id string) (*models.Notification, error)
	FindForMember(memberID string, criteria NotificationCriteria) ([]NotificationWithAck, int64, error)
	UnackedCount(memberID string) (int64, error)
	Acknowledge(memberID, notificationID string) error
	AcknowledgeAll(memberID string) error
	// DeleteByActor удаляет уведомления, где участник является актором.
	// Вызывается при удалении аккаунта, чтобы вычистить PII из title/body;
	// строки получателей удаляются каскадом.
	DeleteByActor(memberID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) WithTx(tx *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: tx}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateRecipients(recipients []*models.NotificationRecipient) error {
	if len(recipients) == 0 {
		return nil
	}
	return r.db.CreateInBatches(recipients, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindForMember(memberID string, criteria NotificationCriteria) ([]NotificationWithAck, int64, error) {
	query := r.db.Model(&models.Notification{}).
		Select("notifications.*, notification_recipients.acknowledged_at").
		Joins("JOIN notification_recipients ON notification_recipients.notification_id = notifications.id").
		Where("notification_recipients.member_id = ?", memberID)

	if criteria.UnackedOnly {
		query = query.Where("notification_recipients.acknowledged_at IS NULL")
	}
	if criteria.Type != "" {
		query = query.Where("notifications.type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		query = query.Offset((criteria.Page - 1) * criteria.PageSize).Limit(criteria.PageSize)
	}

	var notifications []NotificationWithAck
	err := query.Order("notifications.created_at DESC").Scan(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) UnackedCount(memberID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.NotificationRecipient{}).
		Where("member_id = ? AND acknowledged_at IS NULL", memberID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) Acknowledge(memberID, notificationID string) error {
	result := r.db.Model(&models.NotificationRecipient{}).
		Where("notification_id = ? AND member_id = ? AND acknowledged_at IS NULL", notificationID, memberID).
		Update("acknowledged_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// либо уже подтверждено (идемпотентность), либо не адресат
		var count int64
		if err := r.db.Model(&models.NotificationRecipient{}).
			Where("notification_id = ? AND member_id = ?", notificationID, memberID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (r *NotificationRepositoryImpl) AcknowledgeAll(memberID string) error {
	return r.db.Model(&models.NotificationRecipient{}).
		Where("member_id = ? AND acknowledged_at IS NULL", memberID).
		Update("acknowledged_at", time.Now()).Error
}

func (r *NotificationRepositoryImpl) DeleteByActor(memberID string) error {
	return r.db.Where("actor_member_id = ?", memberID).
		Delete(&models.Notification{}).Error
}
