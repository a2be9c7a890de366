package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/auth"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
)

// publicPrefixes are page paths reachable without a session.
var publicPrefixes = []string{
	"/login",
	"/signup",
	"/forgot-password",
	"/reset-password",
}

// entryPages bounce an already-signed-in visitor to their dashboard
// instead of rendering the form again.
var entryPages = []string{
	"/login",
	"/signup",
}

// passthroughPrefixes are handled by their own middleware chain and never
// go through the page guard.
var passthroughPrefixes = []string{
	"/api/",
	"/auth/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/static/",
}

// Session describes what the guard knows about the visitor. Role is only
// meaningful when Authenticated and ProfileFound are both true.
type Session struct {
	Authenticated bool
	ProfileFound  bool
	Role          models.Role
}

// Decision is the guard's verdict for a page request. Exactly one of
// Allow or a non-empty RedirectTo is set.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

var allowed = Decision{Allow: true}

// Decide computes the page-guard verdict for a path and session state.
// It is a pure function of its inputs so the routing rules can be tested
// without HTTP plumbing.
func Decide(path string, s Session) Decision {
	if isPublicPath(path) {
		if s.Authenticated && s.ProfileFound && isEntryPage(path) {
			return redirect(auth.RedirectPathForRole(s.Role))
		}
		return allowed
	}

	if !s.Authenticated {
		return redirect(auth.LoginPath + "?redirect=" + url.QueryEscape(path))
	}

	if !s.ProfileFound {
		return redirect(auth.LoginPath + "?error=profile_not_found")
	}

	if path == "/" {
		return redirect(auth.RedirectPathForRole(s.Role))
	}

	for _, prefix := range auth.AllowedPrefixes(s.Role) {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return allowed
		}
	}

	return redirect(auth.RedirectPathForRole(s.Role))
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isEntryPage(path string) bool {
	for _, page := range entryPages {
		if path == page {
			return true
		}
	}
	return false
}

// RouteGuard enforces role-based page routing. It resolves the session
// from the request, delegates the verdict to Decide, and answers with a
// redirect when access is denied.
type RouteGuard struct {
	validator TokenValidator
	users     UserResolver
	logger    *zap.Logger
}

// NewRouteGuard creates a new page route guard
func NewRouteGuard(validator TokenValidator, users UserResolver, logger *zap.Logger) *RouteGuard {
	return &RouteGuard{
		validator: validator,
		users:     users,
		logger:    logger,
	}
}

// Handler wraps a page handler with the guard. API, auth, and probe paths
// pass through untouched.
func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		for _, prefix := range passthroughPrefixes {
			if strings.HasPrefix(path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		session, user := g.resolveSession(r)
		decision := Decide(path, session)
		if decision.Allow {
			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
			return
		}

		g.logger.Debug("Page access redirected",
			zap.String("path", path),
			zap.String("to", decision.RedirectTo))
		http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
	})
}

func (g *RouteGuard) resolveSession(r *http.Request) (Session, *models.User) {
	token := ExtractToken(r)
	if token == "" {
		return Session{}, nil
	}

	claims, err := g.validator.ValidateToken(r.Context(), token)
	if err != nil {
		// Expired or tampered cookie reads as no session at all.
		return Session{}, nil
	}

	user, err := g.users.GetByAuthSub(r.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Session{Authenticated: true}, nil
		}
		// A backend failure reads as no session at all, not as a
		// missing profile.
		g.logger.Error("Failed to resolve user for page guard",
			zap.String("sub", claims.Sub),
			zap.Error(err))
		return Session{}, nil
	}

	return Session{Authenticated: true, ProfileFound: true, Role: user.Role}, user
}
