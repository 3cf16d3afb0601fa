package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
	"github.com/attendly/attendly-api/pkg/geo"
)

// SessionCreateRequest describes the payload for scheduling a session.
type SessionCreateRequest struct {
	ClassID   uint   `json:"class_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Method    string `json:"method" validate:"omitempty,oneof=manual geo bluetooth"`
}

// SessionStartRequest carries the teacher's position at activation time.
// Coordinates are pointers so a missing field is distinguishable from zero;
// geo sessions require both.
type SessionStartRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng *float64 `json:"lng" validate:"omitempty,longitude"`
}

// GeoPoint is the wire form of a coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SessionResponse is the serialized representation returned to API clients.
type SessionResponse struct {
	ID        uint      `json:"id"`
	ClassID   uint      `json:"class_id"`
	TeacherID uint      `json:"teacher_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Method    string    `json:"method"`
	Active    bool      `json:"active"`
	Location  *GeoPoint `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionResponse converts a model into a DTO.
func NewSessionResponse(model models.Session) SessionResponse {
	response := SessionResponse{
		ID:        model.ID,
		ClassID:   model.ClassID,
		TeacherID: model.TeacherID,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Method:    model.Method,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
	}

	if point, ok := model.Location(); ok {
		response.Location = &GeoPoint{Lat: point.Lat, Lng: point.Lng}
	}

	return response
}

// NewSessionResponseSlice converts a slice of models into DTOs.
func NewSessionResponseSlice(sessions []models.Session) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session))
	}

	return responses
}

// Point converts the wire form into the geo package representation.
func (p GeoPoint) Point() geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}
