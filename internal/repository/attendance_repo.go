package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/attendly/attendly-api/internal/models"
)

// ErrAttendanceExists indicates a record for the (session, student) pair is
// already present. Create returns it both when detected by the store's unique
// index at insert time, which makes it safe under concurrent duplicates.
var ErrAttendanceExists = errors.New("attendance already recorded")

// AttendanceHistoryFilter narrows a student's attendance history.
type AttendanceHistoryFilter struct {
	ClassID *uint
	From    *time.Time
	To      *time.Time
}

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	Upsert(ctx context.Context, attendance *models.Attendance) error
	Exists(ctx context.Context, sessionID, studentID uint) (bool, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Attendance, error)
	ListByStudent(ctx context.Context, studentID uint, filter AttendanceHistoryFilter) ([]models.Attendance, error)
	CountBySession(ctx context.Context, sessionID uint) (int64, error)
	CountPresent(ctx context.Context, classID, studentID uint) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	if err := r.db.WithContext(ctx).Create(attendance).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAttendanceExists
		}
		return err
	}
	return nil
}

// Upsert creates the record or, when one exists for the (session, student)
// pair, overwrites its status and marking time in place.
func (r *attendanceRepository) Upsert(ctx context.Context, attendance *models.Attendance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_at", "updated_at"}),
		}).
		Create(attendance).Error
	if err != nil {
		return err
	}

	// Re-read so callers observe the stored row, including the id of a
	// pre-existing record that was updated rather than inserted.
	return r.db.WithContext(ctx).
		Where("session_id = ? AND student_id = ?", attendance.SessionID, attendance.StudentID).
		First(attendance).Error
}

func (r *attendanceRepository) Exists(ctx context.Context, sessionID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("session_id = ? AND student_id = ?", sessionID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *attendanceRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint, filter AttendanceHistoryFilter) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)

	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.From != nil && filter.To != nil {
		query = query.Where("marked_at BETWEEN ? AND ?", *filter.From, *filter.To)
	}

	var records []models.Attendance
	if err := query.Order("marked_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) CountBySession(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attendanceRepository) CountPresent(ctx context.Context, classID, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("class_id = ? AND student_id = ? AND status = ?", classID, studentID, models.AttendancePresent).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
