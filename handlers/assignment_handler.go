package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
	"github.com/unilife/campus-portal/utils"
)

// AssignmentHandler handles lecturer assignment CRUD. Every operation is
// scoped to assignments the calling lecturer created.
type AssignmentHandler struct {
	assignments repositories.AssignmentRepository
	courses     repositories.CourseRepository
	logger      *zap.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments repositories.AssignmentRepository, courses repositories.CourseRepository, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		courses:     courses,
		logger:      logger,
	}
}

type createAssignmentRequest struct {
	CourseID    int64      `json:"course_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// updateAssignmentRequest keeps the nullable fields as raw JSON so an
// absent key reads as "leave unchanged" while an explicit null clears the
// stored value.
type updateAssignmentRequest struct {
	Title       *string         `json:"title"`
	Description json.RawMessage `json:"description"`
	DueDate     json.RawMessage `json:"due_date"`
}

// List handles GET /api/lecturer/assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var courseID *int64
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		id, err := parseInt64(raw)
		if err != nil {
			utils.WriteBadRequest(w, "Invalid course_id")
			return
		}
		courseID = &id
	}

	assignments, err := h.assignments.ListByLecturer(r.Context(), user.ID, courseID)
	if err != nil {
		h.logger.Error("Failed to list assignments",
			zap.String("lecturer_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, assignments)
}

// Create handles POST /api/lecturer/assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteBadRequest(w, err.Error())
		return
	}

	course, err := h.courses.GetByID(r.Context(), req.CourseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Course not found")
			return
		}
		h.logger.Error("Failed to load course", zap.Int64("course_id", req.CourseID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}
	if course.LecturerID != user.ID && !user.IsSuperAdmin() {
		// Not the lecturer's course; do not confirm it exists.
		utils.WriteNotFound(w, "Course not found")
		return
	}

	assignment := models.NewAssignment(req.CourseID, user.ID, req.Title)
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate

	if err := h.assignments.Create(r.Context(), assignment); err != nil {
		h.logger.Error("Failed to create assignment",
			zap.String("lecturer_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Assignment created",
		zap.Int64("assignment_id", assignment.ID),
		zap.String("lecturer_id", user.ID.String()))
	utils.WriteCreated(w, assignment)
}

// Update handles PUT /api/lecturer/assignments/{id}
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	var req updateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	assignment, err := h.assignments.GetByIDForLecturer(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to load assignment", zap.Int64("assignment_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			utils.WriteBadRequest(w, "Title cannot be empty")
			return
		}
		assignment.Title = *req.Title
	}
	if len(req.Description) > 0 {
		var description *string
		if err := json.Unmarshal(req.Description, &description); err != nil {
			utils.WriteBadRequest(w, "Invalid description")
			return
		}
		assignment.Description = description
	}
	if len(req.DueDate) > 0 {
		var dueDate *time.Time
		if err := json.Unmarshal(req.DueDate, &dueDate); err != nil {
			utils.WriteBadRequest(w, "Invalid due_date")
			return
		}
		assignment.DueDate = dueDate
	}
	assignment.UpdatedAt = time.Now()

	if err := h.assignments.Update(r.Context(), assignment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to update assignment", zap.Int64("assignment_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, assignment)
}

// Delete handles DELETE /api/lecturer/assignments/{id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	if err := h.assignments.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Assignment not found")
			return
		}
		h.logger.Error("Failed to delete assignment", zap.Int64("assignment_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Assignment deleted",
		zap.Int64("assignment_id", id),
		zap.String("lecturer_id", user.ID.String()))
	utils.WriteOK(w, map[string]string{"message": "Assignment deleted"})
}
