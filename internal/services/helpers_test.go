package services

import (
	"sync"
	"testing"
	"time"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB поднимает чистую in-memory БД на каждый тест.
// MaxOpenConns(1) обязателен: иначе пул выдаст второе соединение
// с пустой :memory: базой без мигрированных таблиц.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fakePusher записывает все live-пуши вместо отправки в websocket
type fakePusher struct {
	mu     sync.Mutex
	pushes []recordedPush
}

type recordedPush struct {
	MemberID string
	Payload  any
}

func (p *fakePusher) Push(memberID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, recordedPush{MemberID: memberID, Payload: payload})
}

func (p *fakePusher) PushCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushes)
}

func (p *fakePusher) PushedTo(memberID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, push := range p.pushes {
		if push.MemberID == memberID {
			count++
		}
	}
	return count
}

func createTestMember(t *testing.T, db *gorm.DB, username string) *models.Member {
	t.Helper()
	member := &models.Member{
		Username: username,
		Role:     models.MemberRoleStandard,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func createTestProgram(t *testing.T, db *gorm.DB, name string, createdBy *string) *models.Program {
	t.Helper()
	program := &models.Program{
		Name:      name,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		Status:    models.ProgramStatusActive,
		CreatedBy: createdBy,
	}
	require.NoError(t, db.Create(program).Error)
	return program
}

func createTestMembership(t *testing.T, db *gorm.DB, programID, memberID string, role models.MembershipRole, joinedAt time.Time) *models.ProgramMembership {
	t.Helper()
	membership := &models.ProgramMembership{
		ProgramID: programID,
		MemberID:  memberID,
		Role:      role,
		Status:    models.MembershipStatusActive,
		JoinedAt:  joinedAt,
	}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

// newTestExitService собирает резолвер выхода поверх тестовой БД
func newTestExitService(db *gorm.DB, pusher *fakePusher) (MembershipExitService, NotificationService) {
	notificationRepo := repositories.NewNotificationRepository(db)
	notificationSvc := NewNotificationService(db, notificationRepo, pusher)
	exitSvc := NewMembershipExitService(
		repositories.NewProgramRepository(db),
		repositories.NewMembershipRepository(db),
		notificationSvc,
	)
	return exitSvc, notificationSvc
}
