// Package repositories defines the data-access interfaces the handlers and
// auth flows depend on. The postgres subpackage provides the lib/pq
// implementation.
package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/unilife/campus-portal/models"
)

// ErrNotFound is returned when a row does not exist or is not visible to the
// caller. Handlers map it to 404; everything else is a 500.
var ErrNotFound = errors.New("not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if the function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles profile row operations
type UserRepository interface {
	// Create creates a new user profile
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByAuthSub retrieves a user by auth service subject
	GetByAuthSub(ctx context.Context, authSub string) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves all users ordered by creation time
	List(ctx context.Context) ([]*models.User, error)

	// Update updates a user's mutable fields
	Update(ctx context.Context, user *models.User) error

	// Delete hard-deletes a user row
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseRepository handles course lookups
type CourseRepository interface {
	// GetByID retrieves a course by ID
	GetByID(ctx context.Context, id int64) (*models.Course, error)

	// GetByLecturerID retrieves the courses a lecturer teaches
	GetByLecturerID(ctx context.Context, lecturerID uuid.UUID) ([]*models.Course, error)

	// GetByStudentID retrieves the courses a student is enrolled in
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Course, error)
}

// AssignmentRepository handles assignment operations. All reads and writes
// keyed on a lecturer are scoped to rows that lecturer created.
type AssignmentRepository interface {
	// Create creates a new assignment and fills in the generated ID
	Create(ctx context.Context, assignment *models.Assignment) error

	// GetByIDForLecturer retrieves an assignment only if the lecturer owns it
	GetByIDForLecturer(ctx context.Context, id int64, lecturerID uuid.UUID) (*models.Assignment, error)

	// ListByLecturer retrieves the lecturer's assignments, optionally filtered
	// by course, decorated with course code and name
	ListByLecturer(ctx context.Context, lecturerID uuid.UUID, courseID *int64) ([]*models.Assignment, error)

	// ListForStudent retrieves assignments across the student's courses,
	// decorated with course code and name
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Assignment, error)

	// GetByID retrieves an assignment regardless of owner (students submitting)
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)

	// Update updates an assignment scoped to its creator
	Update(ctx context.Context, assignment *models.Assignment) error

	// Delete deletes an assignment only if the lecturer owns it
	Delete(ctx context.Context, id int64, lecturerID uuid.UUID) error
}

// SubmissionRepository handles submission operations
type SubmissionRepository interface {
	// Upsert inserts the submission or, when a row already exists for the
	// (assignment, student) pair, updates content and submitted_at in place
	// preserving the row ID and any grading history. Atomic: executed as a
	// single conditional insert by the database.
	Upsert(ctx context.Context, submission *models.Submission) (*models.Submission, error)

	// GetByID retrieves a submission by ID
	GetByID(ctx context.Context, id int64) (*models.Submission, error)

	// ListByAssignment retrieves all submissions for an assignment, decorated
	// with student names
	ListByAssignment(ctx context.Context, assignmentID int64) ([]*models.Submission, error)

	// GetByAssignmentAndStudent retrieves the student's submission for an
	// assignment
	GetByAssignmentAndStudent(ctx context.Context, assignmentID int64, studentID uuid.UUID) (*models.Submission, error)

	// UpdateGrade sets grade, feedback and status on a submission
	UpdateGrade(ctx context.Context, submission *models.Submission) error
}

// ScheduleRepository handles timetable entry operations
type ScheduleRepository interface {
	// Create creates a new schedule entry and fills in the generated ID
	Create(ctx context.Context, entry *models.ScheduleEntry) error

	// GetByID retrieves a schedule entry by ID
	GetByID(ctx context.Context, id int64) (*models.ScheduleEntry, error)

	// ListByLecturer retrieves entries for the lecturer's courses, optionally
	// filtered by academic year, decorated with course code and name
	ListByLecturer(ctx context.Context, lecturerID uuid.UUID, academicYear *string) ([]*models.ScheduleEntry, error)

	// Update updates a schedule entry
	Update(ctx context.Context, entry *models.ScheduleEntry) error

	// Delete deletes a schedule entry
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles all repository instances
type Repositories struct {
	Users       UserRepository
	Courses     CourseRepository
	Assignments AssignmentRepository
	Submissions SubmissionRepository
	Schedules   ScheduleRepository
}
