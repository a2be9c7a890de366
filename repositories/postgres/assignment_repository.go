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

// AssignmentRepository implements the repositories.AssignmentRepository
// interface. Ownership is enforced here with equality filters on lecturer_id,
// never left to the handlers.
type AssignmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *DB, logger *zap.Logger) repositories.AssignmentRepository {
	return &AssignmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new assignment and fills in the generated ID
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (course_id, lecturer_id, title, description, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		assignment.CourseID,
		assignment.LecturerID,
		assignment.Title,
		assignment.Description,
		assignment.DueDate,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	).Scan(&assignment.ID)

	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	r.logger.Debug("assignment created",
		zap.Int64("id", assignment.ID),
		zap.String("lecturer_id", assignment.LecturerID.String()))
	return nil
}

// GetByIDForLecturer retrieves an assignment only if the lecturer owns it
func (r *AssignmentRepository) GetByIDForLecturer(ctx context.Context, id int64, lecturerID uuid.UUID) (*models.Assignment, error) {
	query := `
		SELECT id, course_id, lecturer_id, title, description, due_date, created_at, updated_at
		FROM assignments
		WHERE id = $1 AND lecturer_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	assignment := &models.Assignment{}

	err := executor.QueryRowContext(ctx, query, id, lecturerID).Scan(
		&assignment.ID,
		&assignment.CourseID,
		&assignment.LecturerID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// GetByID retrieves an assignment regardless of owner
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `
		SELECT id, course_id, lecturer_id, title, description, due_date, created_at, updated_at
		FROM assignments
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	assignment := &models.Assignment{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.CourseID,
		&assignment.LecturerID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// ListByLecturer retrieves the lecturer's assignments, optionally filtered by
// course, decorated with course code and name
func (r *AssignmentRepository) ListByLecturer(ctx context.Context, lecturerID uuid.UUID, courseID *int64) ([]*models.Assignment, error) {
	query := `
		SELECT a.id, a.course_id, a.lecturer_id, a.title, a.description, a.due_date,
		       a.created_at, a.updated_at, c.code, c.name
		FROM assignments a
		JOIN courses c ON c.id = a.course_id
		WHERE a.lecturer_id = $1
	`
	args := []interface{}{lecturerID}

	if courseID != nil {
		query += ` AND a.course_id = $2`
		args = append(args, *courseID)
	}
	query += ` ORDER BY a.created_at DESC`

	return r.queryAssignments(ctx, query, args...)
}

// ListForStudent retrieves assignments across the student's enrolled courses
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Assignment, error) {
	query := `
		SELECT a.id, a.course_id, a.lecturer_id, a.title, a.description, a.due_date,
		       a.created_at, a.updated_at, c.code, c.name
		FROM assignments a
		JOIN courses c ON c.id = a.course_id
		JOIN course_enrollments e ON e.course_id = a.course_id
		WHERE e.student_id = $1
		ORDER BY a.due_date NULLS LAST, a.created_at DESC
	`

	return r.queryAssignments(ctx, query, studentID)
}

func (r *AssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]*models.Assignment, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		assignment := &models.Assignment{}
		err := rows.Scan(
			&assignment.ID,
			&assignment.CourseID,
			&assignment.LecturerID,
			&assignment.Title,
			&assignment.Description,
			&assignment.DueDate,
			&assignment.CreatedAt,
			&assignment.UpdatedAt,
			&assignment.CourseCode,
			&assignment.CourseName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

// Update updates an assignment scoped to its creator
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	query := `
		UPDATE assignments
		SET title = $3,
		    description = $4,
		    due_date = $5,
		    updated_at = $6
		WHERE id = $1 AND lecturer_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		assignment.ID,
		assignment.LecturerID,
		assignment.Title,
		assignment.Description,
		assignment.DueDate,
		assignment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("assignment updated", zap.Int64("id", assignment.ID))
	return nil
}

// Delete deletes an assignment only if the lecturer owns it
func (r *AssignmentRepository) Delete(ctx context.Context, id int64, lecturerID uuid.UUID) error {
	query := `DELETE FROM assignments WHERE id = $1 AND lecturer_id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, lecturerID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("assignment deleted", zap.Int64("id", id))
	return nil
}
