package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
	"github.com/attendly/attendly-api/internal/service"
	"github.com/attendly/attendly-api/internal/utils"
)

// StudentHandler wires the student-facing enrollment and attendance routes.
type StudentHandler struct {
	classes    service.ClassService
	sessions   service.SessionService
	attendance service.AttendanceService
	reports    service.ReportService
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(classes service.ClassService, sessions service.SessionService, attendance service.AttendanceService, reports service.ReportService, validate *validator.Validate, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		classes:    classes,
		sessions:   sessions,
		attendance: attendance,
		reports:    reports,
		validator:  validate,
		logger:     logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("/classes/join", h.join)
	router.Get("/classes", h.myClasses)
	router.Get("/classes/:classId/sessions", h.activeSessions)
	router.Get("/classes/:classId/percentage", h.percentage)
	router.Post("/attendance", h.mark)
	router.Get("/attendance/history", h.history)
}

func (h *StudentHandler) join(c *fiber.Ctx) error {
	var payload dto.ClassJoinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.classes.Join(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "joined class successfully", class)
}

func (h *StudentHandler) myClasses(c *fiber.Ctx) error {
	classes, err := h.classes.ListForStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *StudentHandler) activeSessions(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sessions, err := h.sessions.ListActiveForStudent(c.Context(), classID, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active sessions retrieved", sessions)
}

func (h *StudentHandler) percentage(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.StudentPercentage(c.Context(), classID, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance percentage calculated", report)
}

func (h *StudentHandler) mark(c *fiber.Ctx) error {
	var payload dto.AttendanceMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.attendance.Mark(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance marked successfully", record)
}

func (h *StudentHandler) history(c *fiber.Ctx) error {
	classID, err := parseOptionalUintQuery(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.AttendanceHistoryRequest{
		ClassID:   classID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	records, err := h.attendance.History(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance history retrieved", fiber.Map{
		"count":      len(records),
		"attendance": records,
	})
}

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var outsideWindow *service.OutsideWindowError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found or not active")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, "not enrolled in this class")
	case errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrAlreadyMarked),
		errors.Is(err, service.ErrGeoNotConfigured),
		errors.Is(err, service.ErrTooFar):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &outsideWindow):
		return utils.SendError(c, fiber.StatusBadRequest, outsideWindow.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
