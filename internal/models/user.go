package models

import "time"

const (
	// RoleTeacher identifies users who own classes and run sessions.
	RoleTeacher = "teacher"
	// RoleStudent identifies users who enroll and mark attendance.
	RoleStudent = "student"
)

// User represents an authenticated identity. Credentials live in the auth
// subsystem; this service only consumes id and role.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTeacher reports whether the user holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
