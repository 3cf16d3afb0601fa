package models

import (
	"time"

	"github.com/attendly/attendly-api/pkg/geo"
)

const (
	// MethodManual sessions accept any submission inside the time window.
	MethodManual = "manual"
	// MethodGeo sessions additionally validate the student's proximity to the
	// location the teacher was at when the session started.
	MethodGeo = "geo"
	// MethodBluetooth is reserved for beacon-based verification.
	MethodBluetooth = "bluetooth"
)

// Session is a time-bounded attendance window for a class. It is created
// inactive; starting it activates marking and, for geo sessions, captures the
// teacher's position as the proximity reference point. Sessions may be stopped
// and restarted any number of times.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null;index" json:"class_id"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Method    string    `gorm:"size:32;not null;default:manual" json:"method"`
	Active    bool      `gorm:"not null;default:false" json:"active"`
	GeoLat    *float64  `json:"geo_lat,omitempty"`
	GeoLng    *float64  `json:"geo_lng,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequiresProximity reports whether submissions must pass the radius check.
func (s Session) RequiresProximity() bool {
	return s.Method == MethodGeo
}

// Location returns the activation-time reference point, if one has been set.
func (s Session) Location() (geo.Point, bool) {
	if s.GeoLat == nil || s.GeoLng == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *s.GeoLat, Lng: *s.GeoLng}, true
}

// SetLocation stores the reference point captured at activation time.
func (s *Session) SetLocation(p geo.Point) {
	lat, lng := p.Lat, p.Lng
	s.GeoLat = &lat
	s.GeoLng = &lng
}

// WindowContains reports whether t falls inside the session window, bounds
// inclusive.
func (s Session) WindowContains(t time.Time) bool {
	return !t.Before(s.StartTime) && !t.After(s.EndTime)
}
