package namestd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rollcall/internal/identify"
	"rollcall/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings required to reach the service.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// Client calls the name-standardization HTTP API. It implements
// identify.Standardizer.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      services.RetryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the default retry behavior.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// NewClient constructs a standardization client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type standardizeRequest struct {
	Name     string `json:"name"`
	RoleHint string `json:"role_hint,omitempty"`
}

type standardizeResponse struct {
	Standardized string `json:"standardized"`
	Confidence   int    `json:"confidence"`
	Method       string `json:"method"`
	Error        string `json:"error,omitempty"`
}

// Standardize canonicalizes one raw name, retrying transient failures.
func (c *Client) Standardize(ctx context.Context, raw, roleHint string) (identify.StandardizedName, error) {
	var empty identify.StandardizedName
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return empty, services.Wrap(services.ErrValidation, "namestd", "standardize", "name required", nil)
	}
	if c.cfg.BaseURL == "" {
		return empty, services.Wrap(services.ErrConfiguration, "namestd", "standardize", "base url not configured", nil)
	}

	var result identify.StandardizedName
	err := services.Retry(ctx, c.retry, func(ctx context.Context) error {
		reply, err := c.postOnce(ctx, standardizeRequest{Name: raw, RoleHint: roleHint})
		if err != nil {
			return err
		}
		result = identify.StandardizedName{
			Standardized: strings.TrimSpace(reply.Standardized),
			Confidence:   clampPercent(reply.Confidence),
			Method:       strings.TrimSpace(reply.Method),
		}
		return nil
	})
	if err != nil {
		return empty, err
	}
	if result.Standardized == "" {
		return empty, services.Wrap(services.ErrValidation, "namestd", "standardize", "service returned empty name", nil)
	}
	return result, nil
}

// HealthCheck verifies the service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return services.Wrap(services.ErrConfiguration, "namestd", "health", "base url not configured", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, "namestd", "health", "new request", err)
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "namestd", "health", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrTransient, "namestd", "health", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) postOnce(ctx context.Context, payload standardizeRequest) (*standardizeResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "namestd", "standardize", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/standardize", bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "namestd", "standardize", "new request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "namestd", "standardize", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "namestd", "standardize", "read body", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, services.Wrap(services.ErrValidation, "namestd", "standardize", fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(body)), nil)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, services.Wrap(services.ErrConfiguration, "namestd", "standardize", fmt.Sprintf("http %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrTransient, "namestd", "standardize", fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(body)), nil)
	}

	var reply standardizeResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, services.Wrap(services.ErrTransient, "namestd", "standardize", "decode response", err)
	}
	if reply.Error != "" {
		return nil, services.Wrap(services.ErrValidation, "namestd", "standardize", reply.Error, nil)
	}
	return &reply, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func snippet(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	if len(clean) > limit {
		return clean[:limit] + "..."
	}
	return clean
}
