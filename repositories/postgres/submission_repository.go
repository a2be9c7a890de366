package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
	"go.uber.org/zap"
)

// SubmissionRepository implements the repositories.SubmissionRepository interface
type SubmissionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *DB, logger *zap.Logger) repositories.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the submission or updates the existing row for the
// (assignment, student) pair. A single conditional insert closes the
// check-then-insert race; the row ID and any existing grade, feedback and
// status survive a re-submit.
func (r *SubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	query := `
		INSERT INTO submissions (assignment_id, student_id, content, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignment_id, student_id) DO UPDATE
		SET content = EXCLUDED.content,
		    submitted_at = EXCLUDED.submitted_at
		RETURNING id, assignment_id, student_id, content, submitted_at, status, grade, feedback
	`

	executor := GetExecutor(ctx, r.db)
	stored := &models.Submission{}

	err := executor.QueryRowContext(ctx, query,
		submission.AssignmentID,
		submission.StudentID,
		submission.Content,
		submission.SubmittedAt,
		submission.Status,
	).Scan(
		&stored.ID,
		&stored.AssignmentID,
		&stored.StudentID,
		&stored.Content,
		&stored.SubmittedAt,
		&stored.Status,
		&stored.Grade,
		&stored.Feedback,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert submission: %w", err)
	}

	r.logger.Debug("submission upserted",
		zap.Int64("id", stored.ID),
		zap.Int64("assignment_id", stored.AssignmentID),
		zap.String("student_id", stored.StudentID.String()))
	return stored, nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, content, submitted_at, status, grade, feedback
		FROM submissions
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	submission := &models.Submission{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.Content,
		&submission.SubmittedAt,
		&submission.Status,
		&submission.Grade,
		&submission.Feedback,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// GetByAssignmentAndStudent retrieves the student's submission for an assignment
func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID int64, studentID uuid.UUID) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, content, submitted_at, status, grade, feedback
		FROM submissions
		WHERE assignment_id = $1 AND student_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	submission := &models.Submission{}

	err := executor.QueryRowContext(ctx, query, assignmentID, studentID).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.Content,
		&submission.SubmittedAt,
		&submission.Status,
		&submission.Grade,
		&submission.Feedback,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return submission, nil
}

// ListByAssignment retrieves all submissions for an assignment, decorated
// with the submitting student's name
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	query := `
		SELECT s.id, s.assignment_id, s.student_id, s.content, s.submitted_at,
		       s.status, s.grade, s.feedback, u.full_name
		FROM submissions s
		JOIN users u ON u.id = s.student_id
		WHERE s.assignment_id = $1
		ORDER BY s.submitted_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission := &models.Submission{}
		err := rows.Scan(
			&submission.ID,
			&submission.AssignmentID,
			&submission.StudentID,
			&submission.Content,
			&submission.SubmittedAt,
			&submission.Status,
			&submission.Grade,
			&submission.Feedback,
			&submission.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}

	return submissions, nil
}

// UpdateGrade sets grade, feedback and status on a submission
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, submission *models.Submission) error {
	query := `
		UPDATE submissions
		SET grade = $2,
		    feedback = $3,
		    status = $4
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		submission.ID,
		submission.Grade,
		submission.Feedback,
		submission.Status,
	)

	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("submission graded",
		zap.Int64("id", submission.ID),
		zap.String("status", string(submission.Status)))
	return nil
}
