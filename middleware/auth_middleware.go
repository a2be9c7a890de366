package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/auth"
	"github.com/unilife/campus-portal/gotrue"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
	"github.com/unilife/campus-portal/utils"
)

// SessionCookieName is the cookie the auth callback sets after a
// successful code exchange.
const SessionCookieName = auth.SessionCookieName

// TokenValidator validates a raw session token and returns its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*gotrue.ParsedClaims, error)
}

// UserResolver loads the local profile row for a validated identity.
type UserResolver interface {
	GetByAuthSub(ctx context.Context, authSub string) (*models.User, error)
}

// AuthMiddleware validates session tokens on API routes and resolves the
// caller's profile row into the request context.
type AuthMiddleware struct {
	validator TokenValidator
	users     UserResolver
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(validator TokenValidator, users UserResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		users:     users,
		logger:    logger,
	}
}

// RequireAuth rejects requests without a valid session token. On success
// the claims and the resolved profile row are stored in the context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		claims, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			m.logger.Debug("Token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			utils.WriteUnauthorized(w, "Invalid or expired session")
			return
		}

		user, err := m.users.GetByAuthSub(r.Context(), claims.Sub)
		if err != nil {
			if err == repositories.ErrNotFound {
				utils.WriteUnauthorized(w, "Profile not found")
				return
			}
			m.logger.Error("Failed to resolve user profile",
				zap.String("sub", claims.Sub),
				zap.Error(err))
			utils.WriteInternalServerError(w, "")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = WithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose resolved profile does not hold the
// required role. super_admin passes every role check.
func (m *AuthMiddleware) RequireRole(required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				utils.WriteUnauthorized(w, "Authentication required")
				return
			}
			if !auth.HasAccess(user.Role, required) {
				m.logger.Debug("Role check failed",
					zap.String("user_role", string(user.Role)),
					zap.String("required_role", string(required)),
					zap.String("path", r.URL.Path))
				utils.WriteUnauthorized(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken pulls the session token from the request, preferring the
// session cookie and falling back to a bearer Authorization header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
