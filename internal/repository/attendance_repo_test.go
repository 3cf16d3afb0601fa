package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

func TestAttendanceRepositoryCreateRejectsDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	first := models.Attendance{SessionID: 1, StudentID: 7, ClassID: 3, Status: models.AttendancePresent, MarkedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &first))

	second := models.Attendance{SessionID: 1, StudentID: 7, ClassID: 3, Status: models.AttendancePresent, MarkedAt: time.Now()}
	err := repo.Create(context.Background(), &second)
	require.ErrorIs(t, err, ErrAttendanceExists)

	count, err := repo.CountBySession(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAttendanceRepositoryCreateAllowsDistinctStudents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	for _, studentID := range []uint{7, 8, 9} {
		record := models.Attendance{SessionID: 1, StudentID: studentID, ClassID: 3, Status: models.AttendancePresent, MarkedAt: time.Now()}
		require.NoError(t, repo.Create(context.Background(), &record))
	}

	count, err := repo.CountBySession(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestAttendanceRepositoryUpsertOverwritesInPlace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	record := models.Attendance{SessionID: 2, StudentID: 5, ClassID: 3, Status: models.AttendanceAbsent, MarkedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), &record))
	require.NotZero(t, record.ID)
	firstID := record.ID

	override := models.Attendance{SessionID: 2, StudentID: 5, ClassID: 3, Status: models.AttendancePresent, MarkedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), &override))
	require.Equal(t, firstID, override.ID, "expected the existing row to be updated, not replaced")
	require.Equal(t, models.AttendancePresent, override.Status)

	count, err := repo.CountBySession(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAttendanceRepositoryCountPresentIgnoresAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	records := []models.Attendance{
		{SessionID: 1, StudentID: 5, ClassID: 3, Status: models.AttendancePresent, MarkedAt: time.Now()},
		{SessionID: 2, StudentID: 5, ClassID: 3, Status: models.AttendanceAbsent, MarkedAt: time.Now()},
		{SessionID: 3, StudentID: 5, ClassID: 4, Status: models.AttendancePresent, MarkedAt: time.Now()},
	}
	for i := range records {
		require.NoError(t, repo.Create(context.Background(), &records[i]))
	}

	count, err := repo.CountPresent(context.Background(), 3, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAttendanceRepositoryHistoryFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)

	now := time.Now()
	records := []models.Attendance{
		{SessionID: 1, StudentID: 5, ClassID: 3, Status: models.AttendancePresent, MarkedAt: now.Add(-48 * time.Hour)},
		{SessionID: 2, StudentID: 5, ClassID: 3, Status: models.AttendancePresent, MarkedAt: now.Add(-time.Hour)},
		{SessionID: 3, StudentID: 5, ClassID: 4, Status: models.AttendancePresent, MarkedAt: now},
	}
	for i := range records {
		require.NoError(t, repo.Create(context.Background(), &records[i]))
	}

	classID := uint(3)
	history, err := repo.ListByStudent(context.Background(), 5, AttendanceHistoryFilter{ClassID: &classID})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, uint(2), history[0].SessionID, "expected newest first")

	from := now.Add(-2 * time.Hour)
	to := now.Add(time.Hour)
	history, err = repo.ListByStudent(context.Background(), 5, AttendanceHistoryFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Class{}, &models.Session{}, &models.Attendance{}))
	return db
}
