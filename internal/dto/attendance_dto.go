package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
)

// AttendanceMarkRequest is the student-initiated mark-attendance payload.
// Coordinates are pointers so that a missing component fails the shape check
// rather than silently becoming (0, 0).
type AttendanceMarkRequest struct {
	SessionID uint     `json:"session_id" validate:"required"`
	Lat       *float64 `json:"lat" validate:"required,latitude"`
	Lng       *float64 `json:"lng" validate:"required,longitude"`
	Status    string   `json:"status" validate:"omitempty,oneof=present absent"`
}

// ManualAttendanceRequest is the teacher override payload.
type ManualAttendanceRequest struct {
	SessionID uint   `json:"session_id" validate:"required"`
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

// AttendanceHistoryRequest narrows the student history listing.
type AttendanceHistoryRequest struct {
	ClassID   *uint  `json:"class_id"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AttendanceResponse is the serialized representation of a committed record.
type AttendanceResponse struct {
	ID        uint      `json:"id"`
	SessionID uint      `json:"session_id"`
	ClassID   uint      `json:"class_id"`
	StudentID uint      `json:"student_id"`
	Status    string    `json:"status"`
	Location  *GeoPoint `json:"location,omitempty"`
	MarkedAt  time.Time `json:"marked_at"`
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	response := AttendanceResponse{
		ID:        model.ID,
		SessionID: model.SessionID,
		ClassID:   model.ClassID,
		StudentID: model.StudentID,
		Status:    model.Status,
		MarkedAt:  model.MarkedAt,
	}

	if model.GeoLat != nil && model.GeoLng != nil {
		response.Location = &GeoPoint{Lat: *model.GeoLat, Lng: *model.GeoLng}
	}

	return response
}

// NewAttendanceResponseSlice converts a slice of models into DTOs.
func NewAttendanceResponseSlice(records []models.Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}

	return responses
}
