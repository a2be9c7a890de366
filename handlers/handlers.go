// Package handlers contains the HTTP handlers for the campus portal API.
// Handlers resolve the caller from the request context, enforce ownership
// through repository scoping, and answer with raw rows on success and
// {message} JSON on error.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unilife/campus-portal/middleware"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/utils"
)

// parseIDParam reads a numeric URL parameter. Garbage values are a client
// error, not a missing row.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return parseInt64(chi.URLParam(r, name))
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// requireUser returns the authenticated profile from the request context,
// writing a 401 and returning nil when it is absent.
func requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		utils.WriteUnauthorized(w, "Authentication required")
		return nil
	}
	return user
}
