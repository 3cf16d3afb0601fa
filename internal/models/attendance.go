package models

import (
	"time"

	"github.com/attendly/attendly-api/pkg/geo"
)

const (
	// AttendancePresent marks a student as present for the session.
	AttendancePresent = "present"
	// AttendanceAbsent marks a student as absent. Only the teacher override
	// path writes this explicitly; reports infer it for missing records.
	AttendanceAbsent = "absent"
)

// Attendance is the single record of a student's presence in one session.
// The composite unique index on (session_id, student_id) is the correctness
// linchpin: it guarantees at most one record per pair even under concurrent
// duplicate submissions.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"session_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"student_id"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	Status    string    `gorm:"size:32;not null;default:absent" json:"status"`
	GeoLat    *float64  `json:"geo_lat,omitempty"`
	GeoLng    *float64  `json:"geo_lng,omitempty"`
	MarkedAt  time.Time `gorm:"not null" json:"marked_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPresent reports whether the record counts toward attended sessions.
func (a Attendance) IsPresent() bool {
	return a.Status == AttendancePresent
}

// SetLocation stores the coordinates the student submitted.
func (a *Attendance) SetLocation(p geo.Point) {
	lat, lng := p.Lat, p.Lng
	a.GeoLat = &lat
	a.GeoLng = &lng
}
