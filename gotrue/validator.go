// Package gotrue is the client for the hosted campus auth service. The
// service issues JWT session tokens signed with a shared HS256 secret; the
// portal validates tokens locally and talks to the service's HTTP API only
// for code exchange and privileged admin operations.
package gotrue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidAudience is returned when the token audience is invalid
	ErrInvalidAudience = errors.New("invalid audience")
)

// expectedAudience is the audience the auth service stamps on session tokens
const expectedAudience = "authenticated"

// Claims represents the claims in an auth service session token
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Phone         string `json:"phone"`
	SessionID     string `json:"session_id"`
}

// ParsedClaims represents parsed and validated claims
type ParsedClaims struct {
	Sub       string
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Validator validates session tokens issued by the auth service
type Validator struct {
	secret   []byte
	audience string
}

// NewValidator creates a validator for tokens signed with the given HS256 secret
func NewValidator(jwtSecret string) *Validator {
	return &Validator{
		secret:   []byte(jwtSecret),
		audience: expectedAudience,
	}
}

// ValidateToken validates a session token and returns parsed claims
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*ParsedClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if len(claims.Audience) > 0 && !containsAudience(claims.Audience, v.audience) {
		return nil, ErrInvalidAudience
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	parsed := &ParsedClaims{
		Sub:       claims.Subject,
		Email:     claims.Email,
		SessionID: claims.SessionID,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed, nil
}

func containsAudience(audience jwt.ClaimStrings, expected string) bool {
	for _, aud := range audience {
		if aud == expected {
			return true
		}
	}
	return false
}
