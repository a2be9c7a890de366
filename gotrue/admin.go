package gotrue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AdminClient performs privileged operations against the auth service using
// the service-role key. Construct only when the key is configured; callers
// fall back to session-scoped behavior when it is nil.
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewAdminClient creates an admin client authenticated with the service-role key
func NewAdminClient(baseURL, serviceRoleKey string) *AdminClient {
	return &AdminClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceRoleKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// DeleteUser removes the identity with the given subject from the auth service.
// The service treats deletion of an unknown subject as success.
func (c *AdminClient) DeleteUser(ctx context.Context, authSub string) error {
	if c.baseURL == "" || c.serviceKey == "" {
		return fmt.Errorf("auth service admin access not configured")
	}

	endpoint := c.baseURL + "/auth/v1/admin/users/" + authSub
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create admin request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete auth user failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
