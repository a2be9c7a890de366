// Package app wires the application's dependencies together. It is the
// single place where concrete implementations are chosen; everything else
// depends on interfaces.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/auth"
	"github.com/unilife/campus-portal/config"
	"github.com/unilife/campus-portal/gotrue"
	"github.com/unilife/campus-portal/handlers"
	"github.com/unilife/campus-portal/internal/observability"
	"github.com/unilife/campus-portal/middleware"
	"github.com/unilife/campus-portal/repositories"
	"github.com/unilife/campus-portal/repositories/postgres"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users       repositories.UserRepository
	Courses     repositories.CourseRepository
	Assignments repositories.AssignmentRepository
	Submissions repositories.SubmissionRepository
	Schedules   repositories.ScheduleRepository
	TxManager   repositories.TransactionManager

	// Auth
	AuthHandler    *auth.Handler
	AuthMiddleware *middleware.AuthMiddleware
	RouteGuard     *middleware.RouteGuard

	// Handlers
	AssignmentHandler *handlers.AssignmentHandler
	SubmissionHandler *handlers.SubmissionHandler
	ScheduleHandler   *handlers.ScheduleHandler
	StudentHandler    *handlers.StudentHandler
	UserHandler       *handlers.UserHandler
	HealthHandler     *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initAuth(cfg)
	deps.initHandlers(cfg)

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Courses = repos.Courses
	d.Assignments = repos.Assignments
	d.Submissions = repos.Submissions
	d.Schedules = repos.Schedules
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth initializes the auth service clients, the OAuth handler, the
// API auth middleware, and the page route guard
func (d *Dependencies) initAuth(cfg *config.Config) {
	validator := gotrue.NewValidator(cfg.AuthService.JWTSecret)
	exchanger := gotrue.NewTokenExchanger(cfg.AuthService.URL, cfg.AuthService.AnonKey)

	d.AuthHandler = auth.NewHandler(cfg, exchanger, validator, d.Users, d.TxManager, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Users, d.Logger)
	d.RouteGuard = middleware.NewRouteGuard(validator, d.Users, d.Logger)
}

// initHandlers initializes the API handlers
func (d *Dependencies) initHandlers(cfg *config.Config) {
	var authAdmin handlers.AuthAdminAPI
	if cfg.AuthService.HasServiceRoleKey() {
		authAdmin = gotrue.NewAdminClient(cfg.AuthService.URL, cfg.AuthService.ServiceRoleKey)
	} else {
		d.Logger.Warn("service-role key absent or malformed, privileged admin operations disabled")
	}

	d.AssignmentHandler = handlers.NewAssignmentHandler(d.Assignments, d.Courses, d.Logger)
	d.SubmissionHandler = handlers.NewSubmissionHandler(d.Assignments, d.Submissions, d.Logger)
	d.ScheduleHandler = handlers.NewScheduleHandler(d.Schedules, d.Courses, d.Logger)
	d.StudentHandler = handlers.NewStudentHandler(d.Assignments, d.Submissions, d.Courses, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.Users, authAdmin, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Logger)
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.RepoFactory != nil {
		return d.RepoFactory.Close()
	}
	return nil
}
