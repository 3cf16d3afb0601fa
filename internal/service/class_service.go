package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/repository"
)

// ErrClassNotFound indicates the class does not exist or is outside the
// caller's permitted scope.
var ErrClassNotFound = errors.New("class not found")

// ErrAlreadyEnrolled indicates the student is already in the class.
var ErrAlreadyEnrolled = errors.New("already enrolled in this class")

// ErrNotEnrolled indicates the student is not a member of the class.
var ErrNotEnrolled = errors.New("not enrolled in this class")

// joinCodeAttempts bounds collision retries against the unique code index.
const joinCodeAttempts = 5

// ClassService exposes class management and enrollment use cases.
type ClassService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error)
	GetForTeacher(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error)
	Join(ctx context.Context, studentID uint, payload dto.ClassJoinRequest) (dto.ClassResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.ClassResponse, error)
}

type classService struct {
	classes   repository.ClassRepository
	users     repository.UserRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewClassService builds a new class service.
func NewClassService(classes repository.ClassRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		users:     users,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))
	subject := strings.TrimSpace(s.sanitizer.Sanitize(payload.Subject))
	if name == "" || subject == "" {
		return dto.ClassResponse{}, errors.New("class name empty after sanitization")
	}

	var class models.Class
	var lastErr error
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return dto.ClassResponse{}, err
		}

		class = models.Class{
			Name:      name,
			Subject:   subject,
			Code:      code,
			TeacherID: teacherID,
		}

		lastErr = s.classes.Create(ctx, &class)
		if lastErr == nil {
			s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", teacherID).Msg("class created")
			return dto.NewClassResponse(class), nil
		}
		if !errors.Is(lastErr, repository.ErrCodeTaken) {
			return dto.ClassResponse{}, lastErr
		}
	}

	return dto.ClassResponse{}, lastErr
}

func (s *classService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) GetForTeacher(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByIDForTeacher(ctx, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) Join(ctx context.Context, studentID uint, payload dto.ClassJoinRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(payload.Code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		return dto.ClassResponse{}, err
	}

	enrolled, err := s.classes.IsEnrolled(ctx, class.ID, studentID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if enrolled {
		return dto.ClassResponse{}, ErrAlreadyEnrolled
	}

	if err := s.classes.AddStudent(ctx, class.ID, studentID); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("student_id", studentID).Msg("student joined class")

	return dto.NewClassResponse(class), nil
}

func (s *classService) ListForStudent(ctx context.Context, studentID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewClassResponseSlice(classes), nil
}
