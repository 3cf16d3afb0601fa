package dto

import (
	"time"

	"github.com/attendly/attendly-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class.
type ClassCreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Subject string `json:"subject" validate:"required,min=2,max=255"`
}

// ClassJoinRequest carries the shareable join code a student submits.
type ClassJoinRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// StudentSummary is the roster entry shown to teachers.
type StudentSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClassResponse is the serialized representation returned to API clients.
type ClassResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject"`
	Code      string           `json:"code"`
	TeacherID uint             `json:"teacher_id"`
	Students  []StudentSummary `json:"students,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	response := ClassResponse{
		ID:        model.ID,
		Name:      model.Name,
		Subject:   model.Subject,
		Code:      model.Code,
		TeacherID: model.TeacherID,
		CreatedAt: model.CreatedAt,
	}

	for _, student := range model.Students {
		response.Students = append(response.Students, StudentSummary{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
		})
	}

	return response
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}

	return responses
}
