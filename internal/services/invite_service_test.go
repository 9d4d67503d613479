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

func newTestInviteService(db *gorm.DB, pusher *fakePusher) InviteService {
	notificationSvc := newTestNotificationService(db, pusher)
	return NewInviteService(
		db,
		repositories.NewInviteRepository(db),
		repositories.NewMemberRepository(db),
		repositories.NewProgramRepository(db),
		repositories.NewMembershipRepository(db),
		notificationSvc,
	)
}

func TestInviteService_CreateNotifiesInvitee(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())

	invite, err := svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, string(models.InviteStatusPending), invite.Status)
	assert.Equal(t, bob.ID, invite.InviteeMemberID)

	var notification models.Notification
	require.NoError(t, db.First(&notification, "type = ?", repositories.NotificationTypeInviteReceived).Error)
	require.NotNil(t, notification.ActorMemberID)
	assert.Equal(t, admin.ID, *notification.ActorMemberID)
	assert.Equal(t, 1, pusher.PushedTo(bob.ID))
}

func TestInviteService_CreateRequiresProgramAdmin(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	createTestMember(t, db, "carol")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())
	createTestMembership(t, db, program.ID, bob.ID, models.MembershipRoleMember, time.Now().Add(time.Minute))

	_, err := svc.Create(bob.ID, program.ID, &dto.CreateInviteRequest{Username: "carol"})
	assert.ErrorIs(t, err, apperrors.ErrNotProgramAdmin)
}

func TestInviteService_CreateRejectsExistingMemberAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	createTestMember(t, db, "carol")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())
	createTestMembership(t, db, program.ID, bob.ID, models.MembershipRoleMember, time.Now().Add(time.Minute))

	// Уже активный участник
	_, err := svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "bob"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)

	// Повторное приглашение при висящем pending
	_, err = svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "carol"})
	require.NoError(t, err)
	_, err = svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "carol"})
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestInviteService_AcceptCreatesActiveMembership(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())

	created, err := svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "bob"})
	require.NoError(t, err)

	accepted, err := svc.Accept(bob.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InviteStatusAccepted), accepted.Status)

	var membership models.ProgramMembership
	require.NoError(t, db.First(&membership, "program_id = ? AND member_id = ?", program.ID, bob.ID).Error)
	assert.Equal(t, models.MembershipRoleMember, membership.Role)
	assert.Equal(t, models.MembershipStatusActive, membership.Status)

	// Повторный Accept - приглашение уже не pending
	_, err = svc.Accept(bob.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInviteNotPending)
}

// Участник выходил из программы раньше: уникальный индекс (program_id, member_id)
// не дает вставить вторую строку, поэтому старое членство реактивируется
func TestInviteService_AcceptReactivatesOldMembership(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())
	old := createTestMembership(t, db, program.ID, bob.ID, models.MembershipRoleLogger, time.Now().Add(time.Minute))
	deactivate(t, db, old.ID, models.MembershipStatusLeft)

	created, err := svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "bob"})
	require.NoError(t, err)

	_, err = svc.Accept(bob.ID, created.ID)
	require.NoError(t, err)

	var memberships []models.ProgramMembership
	require.NoError(t, db.Find(&memberships, "program_id = ? AND member_id = ?", program.ID, bob.ID).Error)
	require.Len(t, memberships, 1, "Вторая строка членства не создается")
	assert.Equal(t, models.MembershipStatusActive, memberships[0].Status)
	assert.Equal(t, models.MembershipRoleMember, memberships[0].Role, "Реактивация сбрасывает роль до member")
}

func TestInviteService_DeclineAndOwnership(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	svc := newTestInviteService(db, pusher)

	admin := createTestMember(t, db, "admin")
	bob := createTestMember(t, db, "bob")
	carol := createTestMember(t, db, "carol")
	program := createTestProgram(t, db, "Cardio", &admin.ID)
	createTestMembership(t, db, program.ID, admin.ID, models.MembershipRoleAdmin, time.Now())

	created, err := svc.Create(admin.ID, program.ID, &dto.CreateInviteRequest{Username: "bob"})
	require.NoError(t, err)

	// Чужое приглашение нельзя ни принять, ни отклонить
	_, err = svc.Accept(carol.ID, created.ID)
	require.Error(t, err)
	_, err = svc.Decline(carol.ID, created.ID)
	require.Error(t, err)

	declined, err := svc.Decline(bob.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InviteStatusDeclined), declined.Status)

	var count int64
	require.NoError(t, db.Model(&models.ProgramMembership{}).
		Where("member_id = ?", bob.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Отклоненные не попадают в список ожидающих
	list, err := svc.ListMine(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
