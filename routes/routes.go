// Package routes assembles the chi router: middleware stack, auth flow,
// role-scoped API subrouters, probes, and the guarded page tree.
package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unilife/campus-portal/app"
	"github.com/unilife/campus-portal/models"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Probes and metrics
	r.Get("/healthz", deps.HealthHandler.Healthz)
	r.Get("/readyz", deps.HealthHandler.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// OAuth2 auth flow
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.AuthHandler.HandleLogin)
		r.Get("/callback", deps.AuthHandler.HandleCallback)
		r.Get("/logout", deps.AuthHandler.HandleLogout)
	})

	// API routes; each subrouter re-checks the role on top of RequireAuth
	r.Route("/api", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Get("/users/me", deps.UserHandler.Me)

		r.Route("/lecturer", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireRole(models.RoleLecturer))

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", deps.AssignmentHandler.List)
				r.Post("/", deps.AssignmentHandler.Create)
				r.Put("/{id}", deps.AssignmentHandler.Update)
				r.Delete("/{id}", deps.AssignmentHandler.Delete)
				r.Get("/{id}/submissions", deps.SubmissionHandler.ListByAssignment)
				r.Patch("/{id}/submissions/{subID}", deps.SubmissionHandler.Grade)
			})

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", deps.ScheduleHandler.List)
				r.Post("/", deps.ScheduleHandler.Create)
				r.Put("/{id}", deps.ScheduleHandler.Update)
				r.Delete("/{id}", deps.ScheduleHandler.Delete)
			})
		})

		r.Route("/student", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireRole(models.RoleStudent))
			r.Get("/assignments", deps.StudentHandler.ListAssignments)
			r.Post("/assignments/{id}/submit", deps.StudentHandler.Submit)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireRole(models.RoleAdmin))
			r.Get("/users", deps.UserHandler.List)
			r.Delete("/users/{id}", deps.UserHandler.Delete)
		})
	})

	// Guarded page tree. The guard decides allow-or-redirect before the
	// placeholder page renders.
	r.Group(func(r chi.Router) {
		r.Use(deps.RouteGuard.Handler)
		r.Get("/", servePage)
		r.Get("/*", servePage)
	})

	// JSON 404 for API paths
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}
		http.NotFound(w, r)
	})

	return r
}

// servePage renders a minimal shell for any guarded page. The real views
// live in the web client; the server only owns the routing decision.
func servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>UniLife</title><div id=\"root\" data-path=%q></div>", r.URL.Path)
}
