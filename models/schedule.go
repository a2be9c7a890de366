package models

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleEntry represents a single timetable slot for a course.
// Day names are stored capitalized and times zero-padded (HH:MM).
type ScheduleEntry struct {
	ID           int64     `json:"id" db:"id"`
	CourseID     int64     `json:"course_id" db:"course_id"`
	AcademicYear string    `json:"academic_year" db:"academic_year"`
	DayOfWeek    string    `json:"day_of_week" db:"day_of_week"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      string    `json:"end_time" db:"end_time"`
	Location     string    `json:"location" db:"location"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Decorations joined from the courses table for list responses
	CourseCode string `json:"course_code,omitempty" db:"course_code"`
	CourseName string `json:"course_name,omitempty" db:"course_name"`
}

// TableName returns the table name for the ScheduleEntry model
func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}

// NormalizeDay capitalizes a day-of-week name ("monday" -> "Monday")
func NormalizeDay(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return ""
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

// NormalizeTime zero-pads an HH:MM time ("9:05" -> "09:05").
// Returns an error when the value does not parse as a clock time.
func NormalizeTime(value string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		// Accept single-digit hours
		t, err = time.Parse("3:04", strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("invalid time %q: expected HH:MM", value)
		}
	}
	return t.Format("15:04"), nil
}
