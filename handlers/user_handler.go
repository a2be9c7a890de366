package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
	"github.com/unilife/campus-portal/utils"
)

// AuthAdminAPI is the privileged auth-service surface. Nil when no
// service-role key is configured.
type AuthAdminAPI interface {
	DeleteUser(ctx context.Context, authSub string) error
}

// UserHandler handles admin user management and the current-principal view.
// The full user listing needs the auth service's service-role key; without
// it the listing degrades to the caller's own row.
type UserHandler struct {
	users     repositories.UserRepository
	authAdmin AuthAdminAPI
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler. authAdmin may be nil when the
// service-role key is absent or malformed.
func NewUserHandler(users repositories.UserRepository, authAdmin AuthAdminAPI, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		authAdmin: authAdmin,
		logger:    logger,
	}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	utils.WriteOK(w, user)
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	if h.authAdmin == nil {
		// Without the service-role key the privileged listing is not
		// available; degrade to the session's own row.
		h.logger.Warn("Service-role key not configured, returning session-scoped user list",
			zap.String("admin_id", user.ID.String()))
		utils.WriteOK(w, []*models.User{user})
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	utils.WriteOK(w, users)
}

// Delete handles DELETE /api/admin/users/{id}. Removes the profile row and,
// when the service-role key is configured, the auth-service identity.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin := requireUser(w, r)
	if admin == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if id == admin.ID {
		utils.WriteBadRequest(w, "Cannot delete your own account")
		return
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "User not found")
			return
		}
		h.logger.Error("Failed to load user", zap.String("user_id", id.String()), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteNotFound(w, "User not found")
			return
		}
		h.logger.Error("Failed to delete user", zap.String("user_id", id.String()), zap.Error(err))
		utils.WriteInternalServerError(w, "")
		return
	}

	if h.authAdmin != nil && target.AuthSub != "" {
		if err := h.authAdmin.DeleteUser(r.Context(), target.AuthSub); err != nil {
			// The profile row is already gone; the orphaned identity can
			// no longer reach anything, so report success and log.
			h.logger.Warn("Failed to delete auth-service identity",
				zap.String("user_id", id.String()),
				zap.Error(err))
		}
	}

	h.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("admin_id", admin.ID.String()))
	utils.WriteOK(w, map[string]string{"message": "User deleted"})
}
