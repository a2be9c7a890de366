package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unilife/campus-portal/gotrue"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
)

func TestDecide(t *testing.T) {
	student := Session{Authenticated: true, ProfileFound: true, Role: models.RoleStudent}
	lecturer := Session{Authenticated: true, ProfileFound: true, Role: models.RoleLecturer}
	superAdmin := Session{Authenticated: true, ProfileFound: true, Role: models.RoleSuperAdmin}

	tests := []struct {
		name     string
		path     string
		session  Session
		expected Decision
	}{
		{
			name:     "anonymous visitor on login page",
			path:     "/login",
			session:  Session{},
			expected: Decision{Allow: true},
		},
		{
			name:     "anonymous visitor on signup page",
			path:     "/signup",
			session:  Session{},
			expected: Decision{Allow: true},
		},
		{
			name:     "anonymous visitor on password reset",
			path:     "/forgot-password",
			session:  Session{},
			expected: Decision{Allow: true},
		},
		{
			name:     "signed-in student bounced off login page",
			path:     "/login",
			session:  student,
			expected: Decision{RedirectTo: "/student/dashboard"},
		},
		{
			name:     "signed-in lecturer bounced off signup page",
			path:     "/signup",
			session:  lecturer,
			expected: Decision{RedirectTo: "/lecturer/dashboard"},
		},
		{
			name:     "signed-in visitor may still reset password",
			path:     "/reset-password",
			session:  student,
			expected: Decision{Allow: true},
		},
		{
			name:     "anonymous visitor on protected page carries redirect target",
			path:     "/lecturer/assignments",
			session:  Session{},
			expected: Decision{RedirectTo: "/login?redirect=%2Flecturer%2Fassignments"},
		},
		{
			name:     "anonymous visitor on root",
			path:     "/",
			session:  Session{},
			expected: Decision{RedirectTo: "/login?redirect=%2F"},
		},
		{
			name:     "session without a profile row",
			path:     "/student/dashboard",
			session:  Session{Authenticated: true},
			expected: Decision{RedirectTo: "/login?error=profile_not_found"},
		},
		{
			name:     "root redirects to own dashboard",
			path:     "/",
			session:  student,
			expected: Decision{RedirectTo: "/student/dashboard"},
		},
		{
			name:     "student inside own area",
			path:     "/student/assignments",
			session:  student,
			expected: Decision{Allow: true},
		},
		{
			name:     "student on area root",
			path:     "/student",
			session:  student,
			expected: Decision{Allow: true},
		},
		{
			name:     "student on lecturer page sent home",
			path:     "/lecturer/assignments",
			session:  student,
			expected: Decision{RedirectTo: "/student/dashboard"},
		},
		{
			name:     "prefix matching does not leak across segments",
			path:     "/studentship",
			session:  student,
			expected: Decision{RedirectTo: "/student/dashboard"},
		},
		{
			name:     "lecturer on admin page sent home",
			path:     "/admin/users",
			session:  lecturer,
			expected: Decision{RedirectTo: "/lecturer/dashboard"},
		},
		{
			name:     "super admin may enter any area",
			path:     "/delivery/orders",
			session:  superAdmin,
			expected: Decision{Allow: true},
		},
		{
			name:     "super admin on own area",
			path:     "/super-admin/dashboard",
			session:  superAdmin,
			expected: Decision{Allow: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.path, tt.session))
		})
	}
}

func TestRouteGuardHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes api paths through without touching the session", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/api/lecturer/assignments", nil)
		rec := httptest.NewRecorder()
		guard.Handler(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		validator.AssertNotCalled(t, "ValidateToken")
	})

	t.Run("redirects anonymous page request to login", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/lecturer/schedule", nil)
		rec := httptest.NewRecorder()
		guard.Handler(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?redirect=%2Flecturer%2Fschedule", rec.Header().Get("Location"))
	})

	t.Run("expired cookie is treated as no session", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		validator.On("ValidateToken", mock.Anything, "stale").
			Return(nil, gotrue.ErrTokenExpired)

		req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
		rec := httptest.NewRecorder()
		guard.Handler(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?redirect=%2Fstudent%2Fdashboard", rec.Header().Get("Location"))
		validator.AssertExpectations(t)
	})

	t.Run("backend failure during profile lookup reads as unauthenticated", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		validator.On("ValidateToken", mock.Anything, "good").
			Return(&gotrue.ParsedClaims{Sub: "auth-sub-3"}, nil)
		users.On("GetByAuthSub", mock.Anything, "auth-sub-3").
			Return(nil, errors.New("connection refused"))

		req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		guard.Handler(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?redirect=%2Fstudent%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("valid session without profile row lands on error page", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		validator.On("ValidateToken", mock.Anything, "good").
			Return(&gotrue.ParsedClaims{Sub: "auth-sub-1"}, nil)
		users.On("GetByAuthSub", mock.Anything, "auth-sub-1").
			Return(nil, repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		guard.Handler(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?error=profile_not_found", rec.Header().Get("Location"))
	})

	t.Run("allowed page request carries the profile into context", func(t *testing.T) {
		validator := new(MockTokenValidator)
		users := new(MockUserResolver)
		guard := NewRouteGuard(validator, users, zap.NewNop())

		user := models.NewUser("ana@uni.edu", "Ana Lima", "auth-sub-2", models.RoleStudent)
		validator.On("ValidateToken", mock.Anything, "good").
			Return(&gotrue.ParsedClaims{Sub: "auth-sub-2"}, nil)
		users.On("GetByAuthSub", mock.Anything, "auth-sub-2").
			Return(user, nil)

		var seen *models.User
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetUserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/student/assignments", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		guard.Handler(inner).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.ID)
	})
}
