package models

import "time"

// Class groups enrolled students under a single owning teacher. Students join
// with the shareable code, which is unique across all classes.
type Class struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Code      string    `gorm:"size:6;uniqueIndex;not null" json:"code"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	Students  []User    `gorm:"many2many:class_students" json:"students,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JoinCodeLength is the number of characters in a class join code.
const JoinCodeLength = 6
