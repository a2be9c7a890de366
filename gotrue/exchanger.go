package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenResponse represents the auth service token endpoint response
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// TokenExchanger exchanges OAuth2 authorization codes for session tokens via
// the auth service's token endpoint
type TokenExchanger struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewTokenExchanger creates a new token exchanger for the given auth service
func NewTokenExchanger(baseURL, anonKey string) *TokenExchanger {
	return &TokenExchanger{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// exchangeRequest is the JSON body for the authorization-code grant
type exchangeRequest struct {
	AuthCode string `json:"auth_code"`
}

// ExchangeCode exchanges an authorization code for a session token
func (e *TokenExchanger) ExchangeCode(ctx context.Context, code string) (accessToken string, err error) {
	if e.baseURL == "" || e.anonKey == "" {
		return "", fmt.Errorf("auth service not configured")
	}

	tokenURL := e.baseURL + "/auth/v1/token?grant_type=authorization_code"
	body, err := json.Marshal(exchangeRequest{AuthCode: code})
	if err != nil {
		return "", fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", e.anonKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("code exchange failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access_token in response")
	}

	return tokenResp.AccessToken, nil
}
