package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/socio-africa/backend/internal/metrics"
	"github.com/socio-africa/backend/internal/telemetry"
)

// TokenInfo is what the external auth service returns for a valid token.
type TokenInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Client talks to the external auth service. Requests carry the caller's
// bearer token and are traced via the instrumented HTTP transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth service client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
			ServiceName: "auth-service",
			Timeout:     10 * time.Second,
		}),
	}
}

// ValidateToken asks the auth service whether the bearer token is valid and
// who it belongs to.
func (c *Client) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	m := metrics.Get()
	start := time.Now()

	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/token/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	m.AuthUpstreamDuration.WithLabelValues("validate").Observe(time.Since(start).Seconds())
	if err != nil {
		m.AuthUpstreamRequestsTotal.WithLabelValues("validate", "error").Inc()
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	m.AuthUpstreamRequestsTotal.WithLabelValues("validate", strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusOK:
		var info TokenInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, fmt.Errorf("auth service returned malformed response: %w", err)
		}
		if info.UserID == "" {
			return nil, ErrInvalidToken
		}
		return &info, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("auth service returned status %d: %w", resp.StatusCode, ErrUpstream)
	}
}
