package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/observability"
	"github.com/attendly/attendly-api/internal/repository"
	"github.com/attendly/attendly-api/pkg/geo"
)

// ErrGeoNotConfigured indicates a geo session has no activation-time location.
var ErrGeoNotConfigured = errors.New("geo-location not set for this session")

// ErrTooFar indicates the submitted position is outside the configured radius.
var ErrTooFar = errors.New("too far from the class location")

// ErrAlreadyMarked indicates a record for this (session, student) pair exists,
// whether detected before the insert or by the store constraint during it.
var ErrAlreadyMarked = errors.New("attendance already marked for this session")

// OutsideWindowError rejects submissions outside the session window and
// carries the configured window for client display.
type OutsideWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *OutsideWindowError) Error() string {
	return fmt.Sprintf("attendance can only be marked between %s and %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// AttendanceNotifier broadcasts committed attendance records to interested
// consumers, e.g. a live teacher dashboard feed.
type AttendanceNotifier interface {
	AttendanceMarked(ctx context.Context, record dto.AttendanceResponse) error
}

// AttendanceService is the eligibility engine: it decides whether a student's
// submission is accepted and commits at most one record per (session, student).
type AttendanceService interface {
	Mark(ctx context.Context, studentID uint, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error)
	SetManual(ctx context.Context, payload dto.ManualAttendanceRequest) (dto.AttendanceResponse, error)
	History(ctx context.Context, studentID uint, payload dto.AttendanceHistoryRequest) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	attendance   repository.AttendanceRepository
	sessions     repository.SessionRepository
	classes      repository.ClassRepository
	notifier     AttendanceNotifier
	validator    *validator.Validate
	radiusMeters float64
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewAttendanceService builds the eligibility engine. radiusMeters is the
// accepted distance from the session's reference point for geo sessions.
func NewAttendanceService(
	attendance repository.AttendanceRepository,
	sessions repository.SessionRepository,
	classes repository.ClassRepository,
	notifier AttendanceNotifier,
	validate *validator.Validate,
	radiusMeters float64,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		attendance:   attendance,
		sessions:     sessions,
		classes:      classes,
		notifier:     notifier,
		validator:    validate,
		radiusMeters: radiusMeters,
		logger:       logger.With().Str("component", "attendance_service").Logger(),
		tracer:       otel.Tracer("github.com/attendly/attendly-api/internal/service/attendance"),
		now:          time.Now,
	}
}

// Mark runs the eligibility pipeline in strict order, short-circuiting on the
// first failure. The ordering is part of the contract: enrollment is checked
// before the time window and location so that session details are never
// revealed to students who are not members of the class.
func (s *attendanceService) Mark(ctx context.Context, studentID uint, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		observability.AttendanceDecisions().WithLabelValues("invalid_request").Inc()
		return dto.AttendanceResponse{}, err
	}

	attrs := []attribute.KeyValue{
		attribute.Int("attendance.session_id", int(payload.SessionID)),
		attribute.Int("attendance.student_id", int(studentID)),
	}
	spanCtx, span := s.tracer.Start(ctx, "attendance.mark", trace.WithAttributes(attrs...))
	defer span.End()

	session, err := s.sessions.GetActiveByID(spanCtx, payload.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, s.reject("session_not_found", ErrSessionNotFound)
		}
		span.RecordError(err)
		return dto.AttendanceResponse{}, s.fail(payload.SessionID, studentID, err)
	}

	enrolled, err := s.classes.IsEnrolled(spanCtx, session.ClassID, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.AttendanceResponse{}, s.fail(payload.SessionID, studentID, err)
	}
	if !enrolled {
		return dto.AttendanceResponse{}, s.reject("not_enrolled", ErrNotEnrolled)
	}

	if now := s.now(); !session.WindowContains(now) {
		return dto.AttendanceResponse{}, s.reject("outside_window", &OutsideWindowError{
			Start: session.StartTime,
			End:   session.EndTime,
		})
	}

	submitted := geo.Point{Lat: *payload.Lat, Lng: *payload.Lng}
	if session.RequiresProximity() {
		reference, ok := session.Location()
		if !ok {
			return dto.AttendanceResponse{}, s.reject("geo_not_configured", ErrGeoNotConfigured)
		}
		if !geo.WithinRadius(submitted, reference, s.radiusMeters) {
			return dto.AttendanceResponse{}, s.reject("too_far", ErrTooFar)
		}
	}

	exists, err := s.attendance.Exists(spanCtx, payload.SessionID, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.AttendanceResponse{}, s.fail(payload.SessionID, studentID, err)
	}
	if exists {
		return dto.AttendanceResponse{}, s.reject("already_marked", ErrAlreadyMarked)
	}

	status := payload.Status
	if status == "" {
		status = models.AttendancePresent
	}

	record := models.Attendance{
		SessionID: session.ID,
		ClassID:   session.ClassID,
		StudentID: studentID,
		Status:    status,
		MarkedAt:  s.now(),
	}
	record.SetLocation(submitted)

	// The unique index is the source of truth under concurrent duplicate
	// submissions; a violation here is a late-discovered duplicate, not an
	// infrastructure failure.
	if err := s.attendance.Create(spanCtx, &record); err != nil {
		if errors.Is(err, repository.ErrAttendanceExists) {
			return dto.AttendanceResponse{}, s.reject("already_marked", ErrAlreadyMarked)
		}
		span.RecordError(err)
		return dto.AttendanceResponse{}, s.fail(payload.SessionID, studentID, err)
	}

	response := dto.NewAttendanceResponse(record)
	if s.notifier != nil {
		if err := s.notifier.AttendanceMarked(spanCtx, response); err != nil {
			s.logger.Warn().Err(err).Uint("session_id", session.ID).Msg("failed to publish attendance event")
		}
	}

	observability.AttendanceDecisions().WithLabelValues("accepted").Inc()
	s.logger.Info().
		Uint("session_id", session.ID).
		Uint("student_id", studentID).
		Str("status", record.Status).
		Msg("attendance marked")

	return response, nil
}

// SetManual is the teacher override path: an upsert keyed on the
// (session, student) pair that bypasses the eligibility pipeline. It is the
// only path that writes an explicit "absent" record.
func (s *attendanceService) SetManual(ctx context.Context, payload dto.ManualAttendanceRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	session, err := s.sessions.GetByID(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrSessionNotFound
		}
		return dto.AttendanceResponse{}, err
	}

	record := models.Attendance{
		SessionID: session.ID,
		ClassID:   session.ClassID,
		StudentID: payload.StudentID,
		Status:    payload.Status,
		MarkedAt:  s.now(),
	}

	if err := s.attendance.Upsert(ctx, &record); err != nil {
		return dto.AttendanceResponse{}, err
	}

	observability.AttendanceDecisions().WithLabelValues("manual_override").Inc()
	s.logger.Info().
		Uint("session_id", session.ID).
		Uint("student_id", payload.StudentID).
		Str("status", payload.Status).
		Msg("manual attendance set")

	return dto.NewAttendanceResponse(record), nil
}

func (s *attendanceService) History(ctx context.Context, studentID uint, payload dto.AttendanceHistoryRequest) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	filter := repository.AttendanceHistoryFilter{ClassID: payload.ClassID}
	if payload.StartDate != "" && payload.EndDate != "" {
		from, err := time.Parse(time.RFC3339, payload.StartDate)
		if err != nil {
			return nil, err
		}
		to, err := time.Parse(time.RFC3339, payload.EndDate)
		if err != nil {
			return nil, err
		}
		filter.From = &from
		filter.To = &to
	}

	records, err := s.attendance.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) reject(outcome string, err error) error {
	observability.AttendanceDecisions().WithLabelValues(outcome).Inc()
	return err
}

func (s *attendanceService) fail(sessionID, studentID uint, err error) error {
	observability.AttendanceDecisions().WithLabelValues("error").Inc()
	s.logger.Error().Err(err).
		Uint("session_id", sessionID).
		Uint("student_id", studentID).
		Msg("attendance marking failed")
	return err
}
