package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
	"github.com/unilife/campus-portal/utils"
)

// StudentHandler handles the student-facing assignment views
type StudentHandler struct {
	assignments repositories.AssignmentRepository
	submissions repositories.SubmissionRepository
	courses     repositories.CourseRepository
	logger      *zap.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(assignments repositories.AssignmentRepository, submissions repositories.SubmissionRepository, courses repositories.CourseRepository, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		assignments: assignments,
		submissions: submissions,
		courses:     courses,
		logger:      logger,
	}
}

type submitAssignmentRequest struct {
	Content *string `json:"content"`
}

// studentAssignment is an assignment row decorated with the student's own
// submission, when one exists.
type studentAssignment struct {
	*models.Assignment
	Submission *models.Submission `json:"submission,omitempty"`
}

// ListAssignments handles GET /api/student/assignments
func (h *StudentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	assignments, err := h.assignments.ListForStudent(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list student assignments",
			zap.String("student_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	result := make([]*studentAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		item := &studentAssignment{Assignment: assignment}
		submission, err := h.submissions.GetByAssignmentAndStudent(r.Context(), assignment.ID, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			h.logger.Error("Failed to load submission",
				zap.Int64("assignment_id", assignment.ID),
				zap.String("student_id", user.ID.String()),
				zap.Error(err))
			utils.WriteInternalServerError(w, "")
			return
		}
		if err == nil {
			item.Submission = submission
		}
		result = append(result, item)
	}

	utils.WriteOK(w, result)
}

// Submit handles POST /api/student/assignments/{id}/submit. Repeat submits
// update the existing row rather than creating a duplicate.
func (h *StudentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	assignmentID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	var req submitAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	assignment, err := h.assignments.GetByID(r.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to load assignment", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	if !h.isEnrolled(w, r, assignment.CourseID, user) {
		return
	}

	submission := models.NewSubmission(assignmentID, user.ID, req.Content)
	stored, err := h.submissions.Upsert(r.Context(), submission)
	if err != nil {
		h.logger.Error("Failed to store submission",
			zap.Int64("assignment_id", assignmentID),
			zap.String("student_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Submission stored",
		zap.Int64("submission_id", stored.ID),
		zap.Int64("assignment_id", assignmentID),
		zap.String("student_id", user.ID.String()))
	utils.WriteOK(w, stored)
}

// isEnrolled checks the student is enrolled in the course. Assignments in
// other courses read as not found.
func (h *StudentHandler) isEnrolled(w http.ResponseWriter, r *http.Request, courseID int64, user *models.User) bool {
	courses, err := h.courses.GetByStudentID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to load enrollments",
			zap.String("student_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return false
	}
	for _, course := range courses {
		if course.ID == courseID {
			return true
		}
	}
	utils.WriteNotFound(w, "Assignment not found")
	return false
}
