package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/unilife/campus-portal/config"
	"github.com/unilife/campus-portal/gotrue"
	"github.com/unilife/campus-portal/models"
	"github.com/unilife/campus-portal/repositories"
)

const (
	// SessionCookieName is the cookie name for the session token
	SessionCookieName = "session"

	sessionCookieMaxAge = 86400 * 7 // 7 days
)

// TokenExchanger exchanges OAuth2 authorization codes for session tokens.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
}

// TokenValidator validates session tokens and returns parsed claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*gotrue.ParsedClaims, error)
}

// Handler handles the OAuth2 authentication flow (login, callback, logout).
// First-time sign-ins get a default student profile; the local role row, not
// the token, decides where the visitor lands.
type Handler struct {
	cfg       *config.Config
	exchanger TokenExchanger
	validator TokenValidator
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(cfg *config.Config, exchanger TokenExchanger, validator TokenValidator, users repositories.UserRepository, txManager repositories.TransactionManager, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		exchanger: exchanger,
		validator: validator,
		users:     users,
		txManager: txManager,
		logger:    logger,
	}
}

// HandleLogin redirects to the auth service's hosted authorization page
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AuthService.URL == "" || h.cfg.AuthService.AnonKey == "" {
		h.logger.Error("auth service not configured")
		http.Redirect(w, r, LoginPath+"?error=auth_not_configured", http.StatusFound)
		return
	}

	redirectURI := h.cfg.AuthService.RedirectURI
	if next := r.URL.Query().Get("next"); isSafeRedirect(next) {
		// Round-trip the continuation path through the callback URL.
		redirectURI += "?next=" + url.QueryEscape(next)
	}

	base := strings.TrimSuffix(h.cfg.AuthService.URL, "/") + "/auth/v1/authorize"
	params := url.Values{
		"provider":    {"google"},
		"redirect_to": {redirectURI},
	}
	http.Redirect(w, r, base+"?"+params.Encode(), http.StatusFound)
}

// HandleCallback exchanges the authorization code, ensures a profile row
// exists, sets the session cookie, and redirects by role.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errCode := query.Get("error"); errCode != "" {
		h.logger.Warn("auth service returned an error",
			zap.String("error", errCode),
			zap.String("description", query.Get("error_description")))
		http.Redirect(w, r, LoginPath+"?error="+url.QueryEscape(errCode), http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, LoginPath+"?error=missing_code", http.StatusFound)
		return
	}

	accessToken, err := h.exchanger.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Warn("code exchange failed", zap.Error(err))
		http.Redirect(w, r, LoginPath+"?error=auth_failed", http.StatusFound)
		return
	}

	claims, err := h.validator.ValidateToken(r.Context(), accessToken)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		http.Redirect(w, r, LoginPath+"?error=auth_failed", http.StatusFound)
		return
	}

	user, err := h.ensureProfile(r.Context(), claims)
	if err != nil {
		h.logger.Error("failed to ensure profile row",
			zap.String("sub", claims.Sub),
			zap.Error(err))
		http.Redirect(w, r, LoginPath+"?error=profile_not_found", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.AuthService.RedirectURI, "https"),
		SameSite: http.SameSiteLaxMode,
	})

	target := RedirectPathForRole(user.Role)
	if next := query.Get("next"); isSafeRedirect(next) {
		target = next
	}

	h.logger.Info("sign-in completed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Bool("signup", query.Get("signup") != ""))
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleLogout clears the session cookie and returns to the login page
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.AuthService.RedirectURI, "https"),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// ensureProfile loads the profile row for the identity, creating a default
// student profile on first sign-in. The lookup and insert run in one
// transaction so two concurrent first sign-ins cannot both insert.
func (h *Handler) ensureProfile(ctx context.Context, claims *gotrue.ParsedClaims) (*models.User, error) {
	user, err := h.users.GetByAuthSub(ctx, claims.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	err = h.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		existing, lookupErr := h.users.GetByAuthSub(txCtx, claims.Sub)
		if lookupErr == nil {
			user = existing
			return nil
		}
		if !errors.Is(lookupErr, repositories.ErrNotFound) {
			return lookupErr
		}

		fullName := claims.Email
		if at := strings.Index(fullName, "@"); at > 0 {
			fullName = fullName[:at]
		}
		user = models.NewUser(claims.Email, fullName, claims.Sub, models.RoleStudent)
		return h.users.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("created default student profile",
		zap.String("user_id", user.ID.String()),
		zap.String("sub", claims.Sub))
	return user, nil
}

// isSafeRedirect reports whether the target is a same-site path
func isSafeRedirect(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}
