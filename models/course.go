package models

import (
	"github.com/google/uuid"
)

// Course represents a taught course a lecturer owns
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	LecturerID   uuid.UUID `json:"lecturer_id" db:"lecturer_id"`
	AcademicYear string    `json:"academic_year" db:"academic_year"`
}

// TableName returns the table name for the Course model
func (Course) TableName() string {
	return "courses"
}
