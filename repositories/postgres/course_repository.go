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

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, code, name, lecturer_id, academic_year
		FROM courses
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	course := &models.Course{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Code,
		&course.Name,
		&course.LecturerID,
		&course.AcademicYear,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// GetByLecturerID retrieves the courses a lecturer teaches
func (r *CourseRepository) GetByLecturerID(ctx context.Context, lecturerID uuid.UUID) ([]*models.Course, error) {
	query := `
		SELECT id, code, name, lecturer_id, academic_year
		FROM courses
		WHERE lecturer_id = $1
		ORDER BY code
	`

	return r.queryCourses(ctx, query, lecturerID)
}

// GetByStudentID retrieves the courses a student is enrolled in
func (r *CourseRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Course, error) {
	query := `
		SELECT c.id, c.code, c.name, c.lecturer_id, c.academic_year
		FROM courses c
		JOIN course_enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY c.code
	`

	return r.queryCourses(ctx, query, studentID)
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]*models.Course, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(
			&course.ID,
			&course.Code,
			&course.Name,
			&course.LecturerID,
			&course.AcademicYear,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}
