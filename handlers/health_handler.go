package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/utils"
)

// Pinger reports whether the backing database is reachable
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteOK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz. Not ready until the database answers a ping.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteOK(w, map[string]string{"status": "ready"})
}
