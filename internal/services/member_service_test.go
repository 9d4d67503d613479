package services

import (
	"testing"
	"time"

	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestMemberService(db *gorm.DB, pusher *fakePusher) MemberService {
	exitSvc, notificationSvc := newTestExitService(db, pusher)
	return NewMemberService(
		db,
		repositories.NewMemberRepository(db),
		repositories.NewProgramRepository(db),
		repositories.NewMembershipRepository(db),
		repositories.NewInviteRepository(db),
		repositories.NewNotificationRepository(db),
		exitSvc,
		notificationSvc,
	)
}

func TestMemberService_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestMemberService(db, pusher)

	alice := createTestMember(t, db, "alice")
	email := "alice@example.com"

	updated, err := svc.UpdateProfile(alice.ID, &dto.UpdateMemberRequest{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
}

func TestMemberService_DeleteAccountBlockedForGlobalAdmin(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestMemberService(db, pusher)

	admin := &models.Member{Username: "root", Role: models.MemberRoleGlobalAdmin}
	require.NoError(t, db.Create(admin).Error)

	err := svc.DeleteAccount(admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrGlobalAdminDeletion)

	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// Удаление аккаунта выводит участника из всех программ: соло-программа
// удаляется, в общей программе передается админство, и только потом
// удаляется сама строка участника
func TestMemberService_DeleteAccountResolvesAllPrograms(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestMemberService(db, pusher)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")

	solo := createTestProgram(t, db, "Solo", &alice.ID)
	createTestMembership(t, db, solo.ID, alice.ID, models.MembershipRoleAdmin, time.Now())

	shared := createTestProgram(t, db, "Shared", &alice.ID)
	createTestMembership(t, db, shared.ID, alice.ID, models.MembershipRoleAdmin, time.Now())
	createTestMembership(t, db, shared.ID, bob.ID, models.MembershipRoleMember, time.Now().Add(time.Minute))

	require.NoError(t, svc.DeleteAccount(alice.ID))

	var gone models.Member
	err := db.First(&gone, "id = ?", alice.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var soloReloaded models.Program
	require.NoError(t, db.First(&soloReloaded, "id = ?", solo.ID).Error)
	assert.True(t, soloReloaded.IsDeleted)

	var sharedReloaded models.Program
	require.NoError(t, db.First(&sharedReloaded, "id = ?", shared.ID).Error)
	assert.False(t, sharedReloaded.IsDeleted)
	assert.Nil(t, sharedReloaded.CreatedBy)

	var bobMembership models.ProgramMembership
	require.NoError(t, db.First(&bobMembership, "program_id = ? AND member_id = ?", shared.ID, bob.ID).Error)
	assert.Equal(t, models.MembershipRoleAdmin, bobMembership.Role, "Боб стал новым админом")

	// member_left при удалении аккаунта - системное событие без актора и без имени
	var memberLeft models.Notification
	require.NoError(t, db.First(&memberLeft, "type = ?", repositories.NotificationTypeMemberLeft).Error)
	assert.Nil(t, memberLeft.ActorMemberID)
	assert.NotContains(t, memberLeft.Body, "alice")
}

// Уведомления, где удаляемый был актором, вычищаются; системные остаются
func TestMemberService_DeleteAccountPurgesActorNotifications(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestMemberService(db, pusher)
	notificationSvc := newTestNotificationService(db, pusher)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")

	_, err := notificationSvc.Dispatch(nil, nil, DispatchInput{
		Type:          repositories.NotificationTypeMemberLeft,
		ActorMemberID: &alice.ID,
		Title:         "A member left the program",
		Body:          "alice left the program",
		RecipientIDs:  []string{bob.ID},
	})
	require.NoError(t, err)
	_, err = notificationSvc.Dispatch(nil, nil, DispatchInput{
		Type:         repositories.NotificationTypeProgramDeleted,
		Title:        "Program deleted",
		RecipientIDs: []string{bob.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(alice.ID))

	var remaining []models.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, repositories.NotificationTypeProgramDeleted, remaining[0].Type)
}

func TestMemberService_DeleteAccountRemovesInvites(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestMemberService(db, pusher)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")
	program := createTestProgram(t, db, "Cardio", &bob.ID)
	createTestMembership(t, db, program.ID, bob.ID, models.MembershipRoleAdmin, time.Now())

	invite := &models.ProgramInvite{
		ProgramID:       program.ID,
		InviterMemberID: bob.ID,
		InviteeMemberID: alice.ID,
		Status:          models.InviteStatusPending,
	}
	require.NoError(t, db.Create(invite).Error)

	require.NoError(t, svc.DeleteAccount(alice.ID))

	var count int64
	require.NoError(t, db.Model(&models.ProgramInvite{}).Count(&count).Error)
	assert.Zero(t, count, "Приглашения удаляемого участника вычищены")
}
