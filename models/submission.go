package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the grading state of a submission
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Submission represents a student's answer to an assignment.
// At most one submission exists per (assignment, student) pair; repeated
// submits update the existing row in place.
type Submission struct {
	ID           int64            `json:"id" db:"id"`
	AssignmentID int64            `json:"assignment_id" db:"assignment_id"`
	StudentID    uuid.UUID        `json:"student_id" db:"student_id"`
	Content      *string          `json:"content,omitempty" db:"content"`
	SubmittedAt  time.Time        `json:"submitted_at" db:"submitted_at"`
	Status       SubmissionStatus `json:"status" db:"status"`
	Grade        *string          `json:"grade,omitempty" db:"grade"`
	Feedback     *string          `json:"feedback,omitempty" db:"feedback"`

	// Decoration joined from the users table for grading views
	StudentName string `json:"student_name,omitempty" db:"student_name"`
}

// TableName returns the table name for the Submission model
func (Submission) TableName() string {
	return "submissions"
}

// NewSubmission creates a new Submission instance in the submitted state
func NewSubmission(assignmentID int64, studentID uuid.UUID, content *string) *Submission {
	return &Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		SubmittedAt:  time.Now(),
		Status:       SubmissionSubmitted,
	}
}

// IsGraded returns true if the submission has been graded
func (s *Submission) IsGraded() bool {
	return s.Status == SubmissionGraded
}
