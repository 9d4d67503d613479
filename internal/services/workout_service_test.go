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

func newTestWorkoutService(db *gorm.DB) WorkoutService {
	return NewWorkoutService(
		repositories.NewWorkoutRepository(db),
		repositories.NewMembershipRepository(db),
	)
}

func TestWorkoutService_LogRequiresActiveMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestWorkoutService(db)

	alice := createTestMember(t, db, "alice")
	program := createTestProgram(t, db, "Cardio", &alice.ID)

	req := &dto.LogWorkoutRequest{
		ProgramID:   program.ID,
		PerformedAt: time.Now(),
		Kind:        "run",
		DurationMin: 45,
	}

	_, err := svc.Log(alice.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrNotProgramMember)

	createTestMembership(t, db, program.ID, alice.ID, models.MembershipRoleAdmin, time.Now())
	workout, err := svc.Log(alice.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "run", workout.Kind)
	assert.Equal(t, 45, workout.DurationMin)
}

func TestWorkoutService_ListFiltersByProgram(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestWorkoutService(db)

	alice := createTestMember(t, db, "alice")
	first := createTestProgram(t, db, "First", &alice.ID)
	second := createTestProgram(t, db, "Second", &alice.ID)
	createTestMembership(t, db, first.ID, alice.ID, models.MembershipRoleAdmin, time.Now())
	createTestMembership(t, db, second.ID, alice.ID, models.MembershipRoleAdmin, time.Now())

	for _, programID := range []string{first.ID, first.ID, second.ID} {
		_, err := svc.Log(alice.ID, &dto.LogWorkoutRequest{
			ProgramID:   programID,
			PerformedAt: time.Now(),
			Kind:        "strength",
			DurationMin: 30,
		})
		require.NoError(t, err)
	}

	list, err := svc.List(alice.ID, repositories.WorkoutCriteria{ProgramID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Len(t, list.Workouts, 2)
}

func TestWorkoutService_DeleteOnlyOwn(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestWorkoutService(db)

	alice := createTestMember(t, db, "alice")
	bob := createTestMember(t, db, "bob")
	program := createTestProgram(t, db, "Cardio", &alice.ID)
	createTestMembership(t, db, program.ID, alice.ID, models.MembershipRoleAdmin, time.Now())

	workout, err := svc.Log(alice.ID, &dto.LogWorkoutRequest{
		ProgramID:   program.ID,
		PerformedAt: time.Now(),
		Kind:        "yoga",
		DurationMin: 60,
	})
	require.NoError(t, err)

	err = svc.Delete(bob.ID, workout.ID)
	require.Error(t, err, "Чужая тренировка недоступна для удаления")

	require.NoError(t, svc.Delete(alice.ID, workout.ID))

	var count int64
	require.NoError(t, db.Model(&models.Workout{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHealthLogService_UpsertPerDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHealthLogService(repositories.NewHealthLogRepository(db))

	alice := createTestMember(t, db, "alice")

	weight := 72.5
	_, err := svc.Upsert(alice.ID, &dto.UpsertHealthLogRequest{
		LogDate:  time.Date(2026, 3, 5, 8, 30, 0, 0, time.UTC),
		WeightKg: &weight,
	})
	require.NoError(t, err)

	// Вторая запись за тот же календарный день обновляет первую
	newWeight := 72.1
	sleep := 7.5
	updated, err := svc.Upsert(alice.ID, &dto.UpsertHealthLogRequest{
		LogDate:    time.Date(2026, 3, 5, 21, 0, 0, 0, time.UTC),
		WeightKg:   &newWeight,
		SleepHours: &sleep,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.WeightKg)
	assert.Equal(t, newWeight, *updated.WeightKg)

	var count int64
	require.NoError(t, db.Model(&models.HealthLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "На день существует не больше одной записи")
}

func TestHealthLogService_ListRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHealthLogService(repositories.NewHealthLogRepository(db))

	alice := createTestMember(t, db, "alice")

	for day := 1; day <= 5; day++ {
		weight := 70.0
		_, err := svc.Upsert(alice.ID, &dto.UpsertHealthLogRequest{
			LogDate:  time.Date(2026, 4, day, 12, 0, 0, 0, time.UTC),
			WeightKg: &weight,
		})
		require.NoError(t, err)
	}

	logs, err := svc.ListRange(alice.ID,
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}
