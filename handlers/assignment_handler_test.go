package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
)

func strPtr(s string) *string {
	return &s
}

func newLecturer() *models.User {
	return models.NewUser("lect@uni.edu", "Lena Ortiz", "sub-lect", models.RoleLecturer)
}

func TestAssignmentHandlerCreate(t *testing.T) {
	t.Run("creates assignment for own course", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		courses := new(MockCourseRepository)
		h := NewAssignmentHandler(assignments, courses, zap.NewNop())

		lecturer := newLecturer()
		courses.On("GetByID", mock.Anything, int64(7)).
			Return(&models.Course{ID: 7, Code: "CS101", LecturerID: lecturer.ID}, nil)
		assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
			return a.CourseID == 7 && a.Title == "Week 1 lab" && a.LecturerID == lecturer.ID
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Assignment).ID = 42
		}).Return(nil)

		body := `{"course_id": 7, "title": "Week 1 lab"}`
		req := authedRequest(http.MethodPost, "/api/lecturer/assignments", &body, lecturer, nil)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var created models.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, int64(42), created.ID)
		assignments.AssertExpectations(t)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		h := NewAssignmentHandler(new(MockAssignmentRepository), new(MockCourseRepository), zap.NewNop())

		body := `{"course_id": 7}`
		req := authedRequest(http.MethodPost, "/api/lecturer/assignments", &body, newLecturer(), nil)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects missing course_id", func(t *testing.T) {
		h := NewAssignmentHandler(new(MockAssignmentRepository), new(MockCourseRepository), zap.NewNop())

		body := `{"title": "Week 1 lab"}`
		req := authedRequest(http.MethodPost, "/api/lecturer/assignments", &body, newLecturer(), nil)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("does not confirm another lecturer's course exists", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		courses := new(MockCourseRepository)
		h := NewAssignmentHandler(assignments, courses, zap.NewNop())

		courses.On("GetByID", mock.Anything, int64(7)).
			Return(&models.Course{ID: 7, Code: "CS101", LecturerID: uuid.New()}, nil)

		body := `{"course_id": 7, "title": "Week 1 lab"}`
		req := authedRequest(http.MethodPost, "/api/lecturer/assignments", &body, newLecturer(), nil)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assignments.AssertNotCalled(t, "Create")
	})
}

func TestAssignmentHandlerList(t *testing.T) {
	t.Run("lists own assignments", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		rows := []*models.Assignment{
			{ID: 1, CourseID: 7, LecturerID: lecturer.ID, Title: "Lab 1", CourseCode: "CS101", CourseName: "Intro"},
		}
		assignments.On("ListByLecturer", mock.Anything, lecturer.ID, (*int64)(nil)).
			Return(rows, nil)

		req := authedRequest(http.MethodGet, "/api/lecturer/assignments", nil, lecturer, nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []*models.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "CS101", got[0].CourseCode)
	})

	t.Run("filters by course", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		courseID := int64(7)
		assignments.On("ListByLecturer", mock.Anything, lecturer.ID, &courseID).
			Return([]*models.Assignment{}, nil)

		req := authedRequest(http.MethodGet, "/api/lecturer/assignments?course_id=7", nil, lecturer, nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assignments.AssertExpectations(t)
	})

	t.Run("rejects garbage course filter", func(t *testing.T) {
		h := NewAssignmentHandler(new(MockAssignmentRepository), new(MockCourseRepository), zap.NewNop())

		req := authedRequest(http.MethodGet, "/api/lecturer/assignments?course_id=abc", nil, newLecturer(), nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAssignmentHandlerUpdate(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		existing := &models.Assignment{ID: 42, CourseID: 7, LecturerID: lecturer.ID, Title: "Old title", Description: strPtr("keep me")}
		assignments.On("GetByIDForLecturer", mock.Anything, int64(42), lecturer.ID).
			Return(existing, nil)
		assignments.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
			return a.Title == "New title" && a.Description != nil && *a.Description == "keep me"
		})).Return(nil)

		body := `{"title": "New title"}`
		req := authedRequest(http.MethodPut, "/api/lecturer/assignments/42", &body, lecturer, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assignments.AssertExpectations(t)
	})

	t.Run("explicit null clears the nullable fields", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		due := time.Date(2026, 9, 15, 23, 59, 0, 0, time.UTC)
		existing := &models.Assignment{ID: 42, CourseID: 7, LecturerID: lecturer.ID, Title: "Lab 1", Description: strPtr("old description"), DueDate: &due}
		assignments.On("GetByIDForLecturer", mock.Anything, int64(42), lecturer.ID).
			Return(existing, nil)
		assignments.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
			return a.Description == nil && a.DueDate == nil && a.Title == "Lab 1"
		})).Return(nil)

		body := `{"description": null, "due_date": null}`
		req := authedRequest(http.MethodPut, "/api/lecturer/assignments/42", &body, lecturer, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assignments.AssertExpectations(t)
	})

	t.Run("not owned reads as not found", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		assignments.On("GetByIDForLecturer", mock.Anything, int64(42), lecturer.ID).
			Return(nil, repositories.ErrNotFound)

		body := `{"title": "New title"}`
		req := authedRequest(http.MethodPut, "/api/lecturer/assignments/42", &body, lecturer, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		h := NewAssignmentHandler(new(MockAssignmentRepository), new(MockCourseRepository), zap.NewNop())

		body := `{"title": "New title"}`
		req := authedRequest(http.MethodPut, "/api/lecturer/assignments/abc", &body, newLecturer(), map[string]string{"id": "abc"})
		rec := httptest.NewRecorder()
		h.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAssignmentHandlerDelete(t *testing.T) {
	t.Run("deletes own assignment", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		assignments.On("Delete", mock.Anything, int64(42), lecturer.ID).Return(nil)

		req := authedRequest(http.MethodDelete, "/api/lecturer/assignments/42", nil, lecturer, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assignments.AssertExpectations(t)
	})

	t.Run("not owned reads as not found", func(t *testing.T) {
		assignments := new(MockAssignmentRepository)
		h := NewAssignmentHandler(assignments, new(MockCourseRepository), zap.NewNop())

		lecturer := newLecturer()
		assignments.On("Delete", mock.Anything, int64(42), lecturer.ID).
			Return(repositories.ErrNotFound)

		req := authedRequest(http.MethodDelete, "/api/lecturer/assignments/42", nil, lecturer, map[string]string{"id": "42"})
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
