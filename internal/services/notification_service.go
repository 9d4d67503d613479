package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/logger"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pusher доставляет payload в открытые live-соединения участника.
// Реализуется realtime.Registry; в тестах подменяется фейком.
type Pusher interface {
	Push(memberID string, payload any)
}

// DispatchInput описывает одно событие для рассылки
type DispatchInput struct {
	Type          string
	ProgramID     *string
	ActorMemberID *string
	Title         string
	Body          string
	Data          map[string]interface{}
	RecipientIDs  []string
}

type NotificationService interface {
	// Dispatch создает уведомление и по одной строке получателя на каждого
	// уникального адресата, все в переданной транзакции. Live push
	// откладывается до коммита через hooks; при hooks == nil пуш уходит сразу.
	// Пустой (после дедупликации) список адресатов - no-op, возвращает nil:
	// уведомление без получателей не создается никогда.
	Dispatch(tx *gorm.DB, hooks *database.AfterCommit, input DispatchInput) (*models.Notification, error)

	GetMemberNotifications(memberID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnackedCount(memberID string) (int64, error)
	Acknowledge(memberID, notificationID string) error
	AcknowledgeAll(memberID string) error
}

type notificationService struct {
	db               *gorm.DB
	notificationRepo repositories.NotificationRepository
	pusher           Pusher
}

func NewNotificationService(
	db *gorm.DB,
	notificationRepo repositories.NotificationRepository,
	pusher Pusher,
) NotificationService {
	return &notificationService{
		db:               db,
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

func (s *notificationService) Dispatch(tx *gorm.DB, hooks *database.AfterCommit, input DispatchInput) (*models.Notification, error) {
	recipientIDs := dedupIDs(input.RecipientIDs)
	if len(recipientIDs) == 0 {
		return nil, nil
	}

	if tx == nil {
		tx = s.db
	}
	repo := s.notificationRepo.WithTx(tx)

	var dataJSON datatypes.JSON
	if input.Data != nil {
		raw, err := json.Marshal(input.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		Type:          input.Type,
		ProgramID:     input.ProgramID,
		ActorMemberID: input.ActorMemberID,
		Title:         input.Title,
		Body:          input.Body,
		Data:          dataJSON,
	}
	if err := repo.Create(notification); err != nil {
		return nil, err
	}

	recipients := make([]*models.NotificationRecipient, 0, len(recipientIDs))
	for _, memberID := range recipientIDs {
		recipients = append(recipients, &models.NotificationRecipient{
			NotificationID: notification.ID,
			MemberID:       memberID,
		})
	}
	if err := repo.CreateRecipients(recipients); err != nil {
		return nil, err
	}

	// Пуш не должен уйти раньше коммита: после отката клиент увидел бы
	// уведомление, которого в БД никогда не было
	payload := buildPayload(notification)
	deliver := func() {
		for _, memberID := range recipientIDs {
			s.pusher.Push(memberID, payload)
		}
		logger.Debug("notification delivered",
			"type", notification.Type,
			"notification_id", notification.ID,
			"recipients", len(recipientIDs),
		)
	}

	if hooks != nil {
		hooks.Register(deliver)
	} else {
		deliver()
	}

	return notification, nil
}

func (s *notificationService) GetMemberNotifications(memberID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindForMember(memberID, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) GetUnackedCount(memberID string) (int64, error) {
	return s.notificationRepo.UnackedCount(memberID)
}

func (s *notificationService) Acknowledge(memberID, notificationID string) error {
	if err := s.notificationRepo.Acknowledge(memberID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	return nil
}

func (s *notificationService) AcknowledgeAll(memberID string) error {
	return s.notificationRepo.AcknowledgeAll(memberID)
}

// ---------------- Helpers ----------------

// dedupIDs убирает дубликаты и пустые id, сохраняя порядок первого вхождения
func dedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func buildPayload(n *models.Notification) dto.NotificationPayload {
	return dto.NotificationPayload{
		ID:            n.ID,
		Type:          n.Type,
		ProgramID:     n.ProgramID,
		ActorMemberID: n.ActorMemberID,
		Title:         n.Title,
		Body:          n.Body,
		CreatedAt:     n.CreatedAt,
	}
}

func buildNotificationResponse(n *repositories.NotificationWithAck) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		NotificationPayload: buildPayload(&n.Notification),
		AcknowledgedAt:      n.AcknowledgedAt,
	}

	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
