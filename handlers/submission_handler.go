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

// SubmissionHandler handles the lecturer grading view. The parent
// assignment's ownership gates every operation; a lecturer who does not own
// the assignment sees a 404, never the submissions underneath it.
type SubmissionHandler struct {
	assignments repositories.AssignmentRepository
	submissions repositories.SubmissionRepository
	logger      *zap.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(assignments repositories.AssignmentRepository, submissions repositories.SubmissionRepository, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		assignments: assignments,
		submissions: submissions,
		logger:      logger,
	}
}

// gradeSubmissionRequest keeps the raw JSON per field so an absent key can
// be told apart from an explicit null: absent leaves the stored value,
// null clears it.
type gradeSubmissionRequest struct {
	Grade    json.RawMessage `json:"grade"`
	Feedback json.RawMessage `json:"feedback"`
}

// ListByAssignment handles GET /api/lecturer/assignments/{id}/submissions
func (h *SubmissionHandler) ListByAssignment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	assignmentID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	if _, err := h.assignments.GetByIDForLecturer(r.Context(), assignmentID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to load assignment", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	submissions, err := h.submissions.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		h.logger.Error("Failed to list submissions", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, submissions)
}

// Grade handles PATCH /api/lecturer/assignments/{id}/submissions/{subID}.
// A non-empty grade marks the submission graded; an empty or absent grade
// clears it without changing the status to graded.
func (h *SubmissionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	assignmentID, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid assignment ID")
		return
	}
	submissionID, err := parseIDParam(r, "subID")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid submission ID")
		return
	}

	var req gradeSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	if _, err := h.assignments.GetByIDForLecturer(r.Context(), assignmentID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to load assignment", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	submission, err := h.submissions.GetByID(r.Context(), submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Submission not found")
			return
		}
		h.logger.Error("Failed to load submission", zap.Int64("submission_id", submissionID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}
	if submission.AssignmentID != assignmentID {
		utils.WriteNotFound(w, "Submission not found")
		return
	}

	if len(req.Grade) > 0 {
		var grade *string
		if err := json.Unmarshal(req.Grade, &grade); err != nil {
			utils.WriteBadRequest(w, "Invalid grade")
			return
		}
		if grade != nil && *grade != "" {
			submission.Grade = grade
			submission.Status = models.SubmissionGraded
		} else {
			submission.Grade = nil
			submission.Status = models.SubmissionSubmitted
		}
	}
	if len(req.Feedback) > 0 {
		var feedback *string
		if err := json.Unmarshal(req.Feedback, &feedback); err != nil {
			utils.WriteBadRequest(w, "Invalid feedback")
			return
		}
		submission.Feedback = feedback
	}

	if err := h.submissions.UpdateGrade(r.Context(), submission); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Submission not found")
			return
		}
		h.logger.Error("Failed to grade submission", zap.Int64("submission_id", submissionID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Submission graded",
		zap.Int64("submission_id", submissionID),
		zap.Int64("assignment_id", assignmentID),
		zap.Bool("graded", submission.IsGraded()))
	utils.WriteOK(w, submission)
}
