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

// ScheduleHandler handles the lecturer timetable. Entries belong to courses,
// so ownership is checked through the course's lecturer.
type ScheduleHandler struct {
	schedules repositories.ScheduleRepository
	courses   repositories.CourseRepository
	logger    *zap.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(schedules repositories.ScheduleRepository, courses repositories.CourseRepository, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		courses:   courses,
		logger:    logger,
	}
}

type createScheduleRequest struct {
	CourseID     int64  `json:"course_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	DayOfWeek    string `json:"day_of_week" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Location     string `json:"location"`
}

type updateScheduleRequest struct {
	AcademicYear *string `json:"academic_year"`
	DayOfWeek    *string `json:"day_of_week"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Location     *string `json:"location"`
}

// List handles GET /api/lecturer/schedule
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var academicYear *string
	if raw := r.URL.Query().Get("academic_year"); raw != "" {
		academicYear = &raw
	}

	entries, err := h.schedules.ListByLecturer(r.Context(), user.ID, academicYear)
	if err != nil {
		h.logger.Error("Failed to list schedule entries",
			zap.String("lecturer_id", user.ID.String()),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, entries)
}

// Create handles POST /api/lecturer/schedule
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteBadRequest(w, err.Error())
		return
	}

	if !h.resolveOwnedCourse(w, r, req.CourseID, user) {
		return
	}

	startTime, err := models.NormalizeTime(req.StartTime)
	if err != nil {
		utils.WriteBadRequest(w, "Invalid start_time")
		return
	}
	endTime, err := models.NormalizeTime(req.EndTime)
	if err != nil {
		utils.WriteBadRequest(w, "Invalid end_time")
		return
	}

	now := time.Now()
	entry := &models.ScheduleEntry{
		CourseID:     req.CourseID,
		AcademicYear: req.AcademicYear,
		DayOfWeek:    models.NormalizeDay(req.DayOfWeek),
		StartTime:    startTime,
		EndTime:      endTime,
		Location:     req.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.schedules.Create(r.Context(), entry); err != nil {
		h.logger.Error("Failed to create schedule entry",
			zap.Int64("course_id", req.CourseID),
			zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Schedule entry created",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("course_id", entry.CourseID))
	utils.WriteCreated(w, entry)
}

// Update handles PUT /api/lecturer/schedule/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid schedule entry ID")
		return
	}

	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, ok := h.loadOwnedEntry(w, r, id, user)
	if !ok {
		return
	}

	if req.AcademicYear != nil {
		entry.AcademicYear = *req.AcademicYear
	}
	if req.DayOfWeek != nil {
		entry.DayOfWeek = models.NormalizeDay(*req.DayOfWeek)
	}
	if req.StartTime != nil {
		startTime, err := models.NormalizeTime(*req.StartTime)
		if err != nil {
			utils.WriteBadRequest(w, "Invalid start_time")
			return
		}
		entry.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := models.NormalizeTime(*req.EndTime)
		if err != nil {
			utils.WriteBadRequest(w, "Invalid end_time")
			return
		}
		entry.EndTime = endTime
	}
	if req.Location != nil {
		entry.Location = *req.Location
	}
	entry.UpdatedAt = time.Now()

	if err := h.schedules.Update(r.Context(), entry); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Schedule entry not found")
			return
		}
		h.logger.Error("Failed to update schedule entry", zap.Int64("entry_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, entry)
}

// Delete handles DELETE /api/lecturer/schedule/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		utils.WriteBadRequest(w, "Invalid schedule entry ID")
		return
	}

	if _, ok := h.loadOwnedEntry(w, r, id, user); !ok {
		return
	}

	if err := h.schedules.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Schedule entry not found")
			return
		}
		h.logger.Error("Failed to delete schedule entry", zap.Int64("entry_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("Schedule entry deleted", zap.Int64("entry_id", id))
	utils.WriteOK(w, map[string]string{"message": "Schedule entry deleted"})
}

// loadOwnedEntry fetches a schedule entry and verifies the caller teaches
// its course. Writes the error response itself and reports success.
func (h *ScheduleHandler) loadOwnedEntry(w http.ResponseWriter, r *http.Request, id int64, user *models.User) (*models.ScheduleEntry, bool) {
	entry, err := h.schedules.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Schedule entry not found")
			return nil, false
		}
		h.logger.Error("Failed to load schedule entry", zap.Int64("entry_id", id), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return nil, false
	}

	course, err := h.courses.GetByID(r.Context(), entry.CourseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Schedule entry not found")
			return nil, false
		}
		h.logger.Error("Failed to load course", zap.Int64("course_id", entry.CourseID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return nil, false
	}
	if course.LecturerID != user.ID && !user.IsSuperAdmin() {
		utils.WriteNotFound(w, "Schedule entry not found")
		return nil, false
	}

	return entry, true
}

// resolveOwnedCourse verifies the course exists and is taught by the caller.
func (h *ScheduleHandler) resolveOwnedCourse(w http.ResponseWriter, r *http.Request, courseID int64, user *models.User) bool {
	course, err := h.courses.GetByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "Course not found")
			return false
		}
		h.logger.Error("Failed to load course", zap.Int64("course_id", courseID), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return false
	}
	if course.LecturerID != user.ID && !user.IsSuperAdmin() {
		utils.WriteNotFound(w, "Course not found")
		return false
	}
	return true
}
