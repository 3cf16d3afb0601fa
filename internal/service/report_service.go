package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/internal/repository"
)

// ReportService derives attendance statistics from committed records. It is
// read-only; results are cached briefly since reports are consulted far more
// often than attendance changes.
type ReportService interface {
	StudentPercentage(ctx context.Context, classID, studentID uint) (dto.AttendancePercentageResponse, error)
	ClassReport(ctx context.Context, classID, teacherID uint) (dto.ClassReportResponse, error)
	SessionAttendance(ctx context.Context, sessionID, teacherID uint) (dto.SessionAttendanceResponse, error)
	SessionCount(ctx context.Context, sessionID, teacherID uint) (dto.SessionCountResponse, error)
}

type reportService struct {
	attendance          repository.AttendanceRepository
	sessions            repository.SessionRepository
	classes             repository.ClassRepository
	cache               *redis.Client
	cacheTTL            time.Duration
	satisfactoryPercent float64
	logger              zerolog.Logger
}

// NewReportService builds the reporting aggregator. satisfactoryPercent is the
// policy threshold above which a student's attendance is considered adequate.
func NewReportService(
	attendance repository.AttendanceRepository,
	sessions repository.SessionRepository,
	classes repository.ClassRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	satisfactoryPercent float64,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		attendance:          attendance,
		sessions:            sessions,
		classes:             classes,
		cache:               cache,
		cacheTTL:            cacheTTL,
		satisfactoryPercent: satisfactoryPercent,
		logger:              logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) StudentPercentage(ctx context.Context, classID, studentID uint) (dto.AttendancePercentageResponse, error) {
	cacheKey := fmt.Sprintf("report:percentage:%d:%d", classID, studentID)

	var cached dto.AttendancePercentageResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	enrolled, err := s.classes.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return dto.AttendancePercentageResponse{}, err
	}
	if !enrolled {
		return dto.AttendancePercentageResponse{}, ErrNotEnrolled
	}

	totalSessions, err := s.sessions.CountByClass(ctx, classID)
	if err != nil {
		return dto.AttendancePercentageResponse{}, err
	}

	attended, err := s.attendance.CountPresent(ctx, classID, studentID)
	if err != nil {
		return dto.AttendancePercentageResponse{}, err
	}

	percentage := percentageOf(attended, totalSessions)
	response := dto.AttendancePercentageResponse{
		ClassID:          classID,
		StudentID:        studentID,
		TotalSessions:    totalSessions,
		AttendedSessions: attended,
		Percentage:       percentage,
		Satisfactory:     percentage >= s.satisfactoryPercent,
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *reportService) ClassReport(ctx context.Context, classID, teacherID uint) (dto.ClassReportResponse, error) {
	cacheKey := fmt.Sprintf("report:class:%d", classID)

	class, err := s.classes.GetByIDForTeacher(ctx, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassReportResponse{}, ErrClassNotFound
		}
		return dto.ClassReportResponse{}, err
	}

	var cached dto.ClassReportResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	totalSessions, err := s.sessions.CountByClass(ctx, classID)
	if err != nil {
		return dto.ClassReportResponse{}, err
	}

	report := dto.ClassReportResponse{
		ClassID:       class.ID,
		ClassName:     class.Name,
		TotalSessions: totalSessions,
		PerStudent:    make([]dto.StudentReportEntry, 0, len(class.Students)),
	}

	for _, student := range class.Students {
		present, err := s.attendance.CountPresent(ctx, classID, student.ID)
		if err != nil {
			return dto.ClassReportResponse{}, err
		}

		report.PerStudent = append(report.PerStudent, dto.StudentReportEntry{
			StudentID:  student.ID,
			Name:       student.Name,
			Email:      student.Email,
			Present:    present,
			Absent:     totalSessions - present,
			Percentage: percentageOf(present, totalSessions),
		})
	}

	s.writeCache(ctx, cacheKey, report)

	return report, nil
}

// SessionAttendance joins the full class roster against stored records. A
// student with no record is reported absent by inference; this is distinct
// from the explicit absent records the manual override path writes.
func (s *reportService) SessionAttendance(ctx context.Context, sessionID, teacherID uint) (dto.SessionAttendanceResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, teacherID)
	if err != nil {
		return dto.SessionAttendanceResponse{}, err
	}

	class, err := s.classes.GetByIDForTeacher(ctx, session.ClassID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionAttendanceResponse{}, ErrClassNotFound
		}
		return dto.SessionAttendanceResponse{}, err
	}

	records, err := s.attendance.ListBySession(ctx, sessionID)
	if err != nil {
		return dto.SessionAttendanceResponse{}, err
	}

	statusByStudent := make(map[uint]string, len(records))
	for _, record := range records {
		statusByStudent[record.StudentID] = record.Status
	}

	response := dto.SessionAttendanceResponse{
		SessionID: session.ID,
		ClassID:   class.ID,
		Roster:    make([]dto.SessionRosterEntry, 0, len(class.Students)),
	}

	for _, student := range class.Students {
		status, ok := statusByStudent[student.ID]
		if !ok {
			status = models.AttendanceAbsent
		}
		response.Roster = append(response.Roster, dto.SessionRosterEntry{
			StudentID: student.ID,
			Name:      student.Name,
			Status:    status,
		})
	}

	return response, nil
}

func (s *reportService) SessionCount(ctx context.Context, sessionID, teacherID uint) (dto.SessionCountResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, teacherID)
	if err != nil {
		return dto.SessionCountResponse{}, err
	}

	count, err := s.attendance.CountBySession(ctx, session.ID)
	if err != nil {
		return dto.SessionCountResponse{}, err
	}

	return dto.SessionCountResponse{SessionID: session.ID, Count: count}, nil
}

func (s *reportService) ownedSession(ctx context.Context, sessionID, teacherID uint) (models.Session, error) {
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

func (s *reportService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read report cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("report cache hit")
	return true
}

func (s *reportService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store report cache")
	}
}

func percentageOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
