package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/models"
)

// ErrCodeTaken indicates the generated join code collided with an existing class.
var ErrCodeTaken = errors.New("join code already taken")

// ClassRepository defines persistence operations for classes and enrollment.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Class, error)
	GetByCode(ctx context.Context, code string) (models.Class, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Class, error)
	AddStudent(ctx context.Context, classID, studentID uint) error
	IsEnrolled(ctx context.Context, classID, studentID uint) (bool, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&class).Error
	if err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) GetByCode(ctx context.Context, code string) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&class).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Joins("JOIN class_students ON class_students.class_id = classes.id").
		Where("class_students.user_id = ?", studentID).
		Order("classes.created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) AddStudent(ctx context.Context, classID, studentID uint) error {
	class := models.Class{ID: classID}
	student := models.User{ID: studentID}
	return r.db.WithContext(ctx).Model(&class).Association("Students").Append(&student)
}

func (r *classRepository) IsEnrolled(ctx context.Context, classID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("class_students").
		Where("class_id = ? AND user_id = ?", classID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
