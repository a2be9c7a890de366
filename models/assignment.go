package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment represents coursework created by a lecturer for a course.
// Only the creating lecturer may mutate or delete it.
type Assignment struct {
	ID          int64      `json:"id" db:"id"`
	CourseID    int64      `json:"course_id" db:"course_id"`
	LecturerID  uuid.UUID  `json:"lecturer_id" db:"lecturer_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Decorations joined from the courses table for list responses
	CourseCode string `json:"course_code,omitempty" db:"course_code"`
	CourseName string `json:"course_name,omitempty" db:"course_name"`
}

// TableName returns the table name for the Assignment model
func (Assignment) TableName() string {
	return "assignments"
}

// NewAssignment creates a new Assignment instance owned by the given lecturer
func NewAssignment(courseID int64, lecturerID uuid.UUID, title string) *Assignment {
	now := time.Now()
	return &Assignment{
		CourseID:   courseID,
		LecturerID: lecturerID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// OwnedBy returns true if the assignment was created by the given lecturer
func (a *Assignment) OwnedBy(lecturerID uuid.UUID) bool {
	return a.LecturerID == lecturerID
}
