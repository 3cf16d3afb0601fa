package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

// SessionRepository defines persistence operations for attendance sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (models.Session, error)
	GetActiveByID(ctx context.Context, id uint) (models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	ListByClassForTeacher(ctx context.Context, classID, teacherID uint) ([]models.Session, error)
	ListActiveByClass(ctx context.Context, classID uint) ([]models.Session, error)
	CountByClass(ctx context.Context, classID uint) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates a GORM-backed session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// GetActiveByID looks up a session only if it is currently active. Inactive
// and missing sessions are indistinguishable to callers on purpose.
func (r *sessionRepository) GetActiveByID(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&session).Error
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) ListByClassForTeacher(ctx context.Context, classID, teacherID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Order("start_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) ListActiveByClass(ctx context.Context, classID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND active = ?", classID, true).
		Order("start_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) CountByClass(ctx context.Context, classID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
