package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
	"github.com/attendly/attendly-api/internal/repository"
	"github.com/attendly/attendly-api/pkg/geo"
)

// ErrSessionNotFound covers sessions that are absent, inactive, or not in the
// caller's scope. The three cases are indistinguishable to callers so that
// session existence is not leaked.
var ErrSessionNotFound = errors.New("session not found")

// ErrCoordinatesRequired indicates a geo session was started without the
// teacher's position.
var ErrCoordinatesRequired = errors.New("latitude and longitude are required to start a geo session")

// ErrInvalidWindow indicates the session window would end before it starts.
var ErrInvalidWindow = errors.New("session end time must be after start time")

// SessionService manages the session lifecycle: created inactive, started with
// the teacher's activation-time location, stopped, and restartable.
type SessionService interface {
	Create(ctx context.Context, teacherID uint, payload dto.SessionCreateRequest) (dto.SessionResponse, error)
	Start(ctx context.Context, sessionID, teacherID uint, payload dto.SessionStartRequest) (dto.SessionResponse, error)
	Stop(ctx context.Context, sessionID, teacherID uint) (dto.SessionResponse, error)
	ListForTeacher(ctx context.Context, classID, teacherID uint) ([]dto.SessionResponse, error)
	ListActiveForStudent(ctx context.Context, classID, studentID uint) ([]dto.SessionResponse, error)
}

type sessionService struct {
	sessions  repository.SessionRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSessionService builds a new session lifecycle service.
func NewSessionService(sessions repository.SessionRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions:  sessions,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "session_service").Logger(),
	}
}

func (s *sessionService) Create(ctx context.Context, teacherID uint, payload dto.SessionCreateRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	startTime, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	endTime, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	if !endTime.After(startTime) {
		return dto.SessionResponse{}, ErrInvalidWindow
	}

	if _, err := s.classes.GetByIDForTeacher(ctx, payload.ClassID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrClassNotFound
		}
		return dto.SessionResponse{}, err
	}

	method := payload.Method
	if method == "" {
		method = models.MethodGeo
	}

	session := models.Session{
		ClassID:   payload.ClassID,
		TeacherID: teacherID,
		StartTime: startTime,
		EndTime:   endTime,
		Method:    method,
		Active:    false,
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	observability.SessionTransitions().WithLabelValues("created").Inc()
	s.logger.Info().
		Uint("session_id", session.ID).
		Uint("class_id", session.ClassID).
		Str("method", session.Method).
		Msg("session created")

	return dto.NewSessionResponse(session), nil
}

// Start activates the session. For geo sessions this is the moment the
// proximity reference point is captured; every subsequent attendance check in
// this activation period measures against it, not the creation-time location.
func (s *sessionService) Start(ctx context.Context, sessionID, teacherID uint, payload dto.SessionStartRequest) (dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, teacherID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	if session.RequiresProximity() {
		if payload.Lat == nil || payload.Lng == nil {
			return dto.SessionResponse{}, ErrCoordinatesRequired
		}
		point := geo.Point{Lat: *payload.Lat, Lng: *payload.Lng}
		if !point.Valid() {
			return dto.SessionResponse{}, ErrCoordinatesRequired
		}
		session.SetLocation(point)
	}

	session.Active = true
	if err := s.sessions.Update(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	observability.SessionTransitions().WithLabelValues("started").Inc()
	s.logger.Info().Uint("session_id", session.ID).Msg("session started")

	return dto.NewSessionResponse(session), nil
}

// Stop deactivates the session. Stopping an already-stopped session is a
// no-op success.
func (s *sessionService) Stop(ctx context.Context, sessionID, teacherID uint) (dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, teacherID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	if session.Active {
		session.Active = false
		if err := s.sessions.Update(ctx, &session); err != nil {
			return dto.SessionResponse{}, err
		}
		observability.SessionTransitions().WithLabelValues("stopped").Inc()
		s.logger.Info().Uint("session_id", session.ID).Msg("session stopped")
	}

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) ListForTeacher(ctx context.Context, classID, teacherID uint) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.ListByClassForTeacher(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *sessionService) ListActiveForStudent(ctx context.Context, classID, studentID uint) ([]dto.SessionResponse, error) {
	enrolled, err := s.classes.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	sessions, err := s.sessions.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *sessionService) ownedSession(ctx context.Context, sessionID, teacherID uint) (models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	if session.TeacherID != teacherID {
		return models.Session{}, ErrSessionNotFound
	}
	return session, nil
}
