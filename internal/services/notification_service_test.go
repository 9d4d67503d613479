package services

import (
	"errors"
	"testing"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestNotificationService(db *gorm.DB, pusher *fakePusher) NotificationService {
	return NewNotificationService(db, repositories.NewNotificationRepository(db), pusher)
}

func TestDispatch_DeduplicatesRecipients(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")

	notification, err := svc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeMemberLeft,
		Title:        "A member left the program",
		RecipientIDs: []string{alice.ID, bob.ID, alice.ID, "", bob.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, notification)

	var recipients []models.NotificationRecipient
	require.NoError(t, db.Find(&recipients, "notification_id = ?", notification.ID).Error)
	assert.Len(t, recipients, 2, "Дубликаты и пустые id не создают строк получателей")
	assert.Equal(t, 2, pusher.PushCount())
}

func TestDispatch_EmptyRecipientsIsNoop(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	notification, err := svc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeMemberLeft,
		Title:        "A member left the program",
		RecipientIDs: []string{"", ""},
	})
	require.NoError(t, err)
	assert.Nil(t, notification)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count, "Уведомление без получателей не создается")
	assert.Zero(t, pusher.PushCount())
}

func TestDispatch_PushWaitsForCommit(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")

	err := database.Transaction(db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		_, err := svc.Dispatch(tx, hooks, DispatchInput{
			Type:         repositories.NotificationTypeProgramDeleted,
			Title:        "Program deleted",
			RecipientIDs: []string{alice.ID},
		})
		require.NoError(t, err)

		// Внутри транзакции пуш еще не ушел
		assert.Zero(t, pusher.PushCount())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, pusher.PushedTo(alice.ID), "Пуш уходит строго после коммита")
}

func TestDispatch_RollbackDropsNotificationAndPush(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")
	boom := errors.New("boom")

	err := database.Transaction(db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		_, err := svc.Dispatch(tx, hooks, DispatchInput{
			Type:         repositories.NotificationTypeProgramDeleted,
			Title:        "Program deleted",
			RecipientIDs: []string{alice.ID},
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count, "Откат не оставляет уведомлений")
	assert.Zero(t, pusher.PushCount(), "Откат не оставляет пушей")
}

func TestNotifications_AcknowledgeFlow(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")

	for i := 0; i < 3; i++ {
		_, err := svc.Dispatch(nil, nil, DispatchInput{
			Type:         repositories.NotificationTypeMemberLeft,
			Title:        "A member left the program",
			RecipientIDs: []string{alice.ID},
		})
		require.NoError(t, err)
	}
	_, err := svc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeProgramDeleted,
		Title:        "Program deleted",
		RecipientIDs: []string{bob.ID},
	})
	require.NoError(t, err)

	count, err := svc.GetUnackedCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := svc.GetMemberNotifications(alice.ID, repositories.NotificationCriteria{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 3, "Чужие уведомления не попадают в выдачу")
	assert.Equal(t, int64(3), list.Total)

	// Подтверждаем одно
	require.NoError(t, svc.Acknowledge(alice.ID, list.Notifications[0].ID))
	count, err = svc.GetUnackedCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Повторное подтверждение идемпотентно
	require.NoError(t, svc.Acknowledge(alice.ID, list.Notifications[0].ID))
	count, err = svc.GetUnackedCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// И все остальные разом
	require.NoError(t, svc.AcknowledgeAll(alice.ID))
	count, err = svc.GetUnackedCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Счетчик боба не задет
	count, err = svc.GetUnackedCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotifications_UnackedOnlyFilter(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")

	first, err := svc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeMemberLeft,
		Title:        "A member left the program",
		RecipientIDs: []string{alice.ID},
	})
	require.NoError(t, err)
	_, err = svc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeProgramDeleted,
		Title:        "Program deleted",
		RecipientIDs: []string{alice.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Acknowledge(alice.ID, first.ID))

	list, err := svc.GetMemberNotifications(alice.ID, repositories.NotificationCriteria{
		UnackedOnly: true,
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, repositories.NotificationTypeProgramDeleted, list.Notifications[0].Type)
}
