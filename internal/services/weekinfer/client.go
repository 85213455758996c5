package weekinfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rollcall/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings required to reach the service.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client calls the week-resolution HTTP API.
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

// NewClient constructs a week-resolution client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type resolveRequest struct {
	Student     string `json:"student"`
	Coach       string `json:"coach,omitempty"`
	SessionDate string `json:"session_date,omitempty"`
	HintedWeek  int    `json:"hinted_week,omitempty"`
}

type resolveResponse struct {
	Week         int    `json:"week"`
	ProgramWeeks int    `json:"program_weeks"`
	Confidence   int    `json:"confidence"`
	Method       string `json:"method"`
	Error        string `json:"error,omitempty"`
}

// ResolveWeek asks the service which program week the session belongs to.
func (c *Client) ResolveWeek(ctx context.Context, req Request) (Week, error) {
	var empty Week
	if strings.TrimSpace(req.Student) == "" {
		return empty, services.Wrap(services.ErrValidation, "weekinfer", "resolve", "student required", nil)
	}
	if c.cfg.BaseURL == "" {
		return empty, services.Wrap(services.ErrConfiguration, "weekinfer", "resolve", "base url not configured", nil)
	}

	payload := resolveRequest{
		Student:    strings.TrimSpace(req.Student),
		Coach:      strings.TrimSpace(req.Coach),
		HintedWeek: req.HintedWeek,
	}
	if !req.SessionDate.IsZero() {
		payload.SessionDate = req.SessionDate.UTC().Format("2006-01-02")
	}

	var result Week
	err := services.Retry(ctx, c.retry, func(ctx context.Context) error {
		reply, err := c.postOnce(ctx, payload)
		if err != nil {
			return err
		}
		result = Week{
			Number:       reply.Week,
			ProgramWeeks: reply.ProgramWeeks,
			Confidence:   reply.Confidence,
			Method:       strings.TrimSpace(reply.Method),
		}
		return nil
	})
	if err != nil {
		return empty, err
	}
	if result.Number < 1 {
		return empty, services.Wrap(services.ErrValidation, "weekinfer", "resolve", "service returned no week", nil)
	}
	return result, nil
}

func (c *Client) postOnce(ctx context.Context, payload resolveRequest) (*resolveResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "weekinfer", "resolve", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/resolve", bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "weekinfer", "resolve", "new request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "weekinfer", "resolve", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "weekinfer", "resolve", "read body", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "weekinfer", "resolve", "student unknown to service", nil)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, services.Wrap(services.ErrValidation, "weekinfer", "resolve", fmt.Sprintf("http %d", resp.StatusCode), nil)
	default:
		return nil, services.Wrap(services.ErrTransient, "weekinfer", "resolve", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var reply resolveResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, services.Wrap(services.ErrTransient, "weekinfer", "resolve", "decode response", err)
	}
	if reply.Error != "" {
		return nil, services.Wrap(services.ErrValidation, "weekinfer", "resolve", reply.Error, nil)
	}
	return &reply, nil
}
