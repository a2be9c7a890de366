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

// ScheduleRepository implements the repositories.ScheduleRepository interface
type ScheduleRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *DB, logger *zap.Logger) repositories.ScheduleRepository {
	return &ScheduleRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new schedule entry and fills in the generated ID
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (course_id, academic_year, day_of_week, start_time, end_time, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		entry.CourseID,
		entry.AcademicYear,
		entry.DayOfWeek,
		entry.StartTime,
		entry.EndTime,
		entry.Location,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("failed to create schedule entry: %w", err)
	}

	r.logger.Debug("schedule entry created", zap.Int64("id", entry.ID))
	return nil
}

// GetByID retrieves a schedule entry by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	query := `
		SELECT id, course_id, academic_year, day_of_week, start_time, end_time, location, created_at, updated_at
		FROM schedule_entries
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	entry := &models.ScheduleEntry{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.CourseID,
		&entry.AcademicYear,
		&entry.DayOfWeek,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Location,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule entry: %w", err)
	}

	return entry, nil
}

// ListByLecturer retrieves entries for the lecturer's courses, optionally
// filtered by academic year, decorated with course code and name
func (r *ScheduleRepository) ListByLecturer(ctx context.Context, lecturerID uuid.UUID, academicYear *string) ([]*models.ScheduleEntry, error) {
	query := `
		SELECT s.id, s.course_id, s.academic_year, s.day_of_week, s.start_time, s.end_time,
		       s.location, s.created_at, s.updated_at, c.code, c.name
		FROM schedule_entries s
		JOIN courses c ON c.id = s.course_id
		WHERE c.lecturer_id = $1
	`
	args := []interface{}{lecturerID}

	if academicYear != nil {
		query += ` AND s.academic_year = $2`
		args = append(args, *academicYear)
	}
	query += ` ORDER BY s.day_of_week, s.start_time`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		entry := &models.ScheduleEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.CourseID,
			&entry.AcademicYear,
			&entry.DayOfWeek,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Location,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.CourseCode,
			&entry.CourseName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return entries, nil
}

// Update updates a schedule entry
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	query := `
		UPDATE schedule_entries
		SET academic_year = $2,
		    day_of_week = $3,
		    start_time = $4,
		    end_time = $5,
		    location = $6,
		    updated_at = $7
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		entry.ID,
		entry.AcademicYear,
		entry.DayOfWeek,
		entry.StartTime,
		entry.EndTime,
		entry.Location,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update schedule entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("schedule entry updated", zap.Int64("id", entry.ID))
	return nil
}

// Delete deletes a schedule entry
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM schedule_entries WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("schedule entry deleted", zap.Int64("id", id))
	return nil
}
