package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/unilife/campus-portal/middleware"
	"github.com/unilife/campus-portal/models"
)

// MockUserRepository is a mock user repository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByAuthSub(ctx context.Context, authSub string) (*models.User, error) {
	args := m.Called(ctx, authSub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCourseRepository is a mock course repository for testing
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByLecturerID(ctx context.Context, lecturerID uuid.UUID) ([]*models.Course, error) {
	args := m.Called(ctx, lecturerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Course, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

// MockAssignmentRepository is a mock assignment repository for testing
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByIDForLecturer(ctx context.Context, id int64, lecturerID uuid.UUID) (*models.Assignment, error) {
	args := m.Called(ctx, id, lecturerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByLecturer(ctx context.Context, lecturerID uuid.UUID, courseID *int64) ([]*models.Assignment, error) {
	args := m.Called(ctx, lecturerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Assignment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id int64, lecturerID uuid.UUID) error {
	args := m.Called(ctx, id, lecturerID)
	return args.Error(0)
}

// MockSubmissionRepository is a mock submission repository for testing
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID int64, studentID uuid.UUID) (*models.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateGrade(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

// MockScheduleRepository is a mock schedule repository for testing
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepository) ListByLecturer(ctx context.Context, lecturerID uuid.UUID, academicYear *string) ([]*models.ScheduleEntry, error) {
	args := m.Called(ctx, lecturerID, academicYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthAdmin is a mock privileged auth-service client for testing
type MockAuthAdmin struct {
	mock.Mock
}

func (m *MockAuthAdmin) DeleteUser(ctx context.Context, authSub string) error {
	args := m.Called(ctx, authSub)
	return args.Error(0)
}

// authedRequest builds a request carrying the user in its context and the
// given chi URL parameters.
func authedRequest(method, target string, body *string, user *models.User, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := req.Context()
	if user != nil {
		ctx = middleware.WithUser(ctx, user)
	}
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for key, value := range params {
			routeCtx.URLParams.Add(key, value)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}
