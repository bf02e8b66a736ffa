// Package openai talks to OpenAI-compatible chat completion and responses endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dealscout/backend/internal/domain"
)

// Ensure Client implements the interfaces.
var (
	_ domain.LLMClient        = (*Client)(nil)
	_ domain.LiveSearchClient = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 45 * time.Second

	maxAttempts = 3
	temperature = 0.2
)

// Config holds configuration for the OpenAI client
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	SearchModel       string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client handles communication with the OpenAI API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	searchModel string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new OpenAI API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = cfg.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		searchModel: cfg.SearchModel,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables or disables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return 500 * time.Millisecond * time.Duration(1<<(attempt-1))
}

// chatRequest is the /v1/chat/completions request format
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the /v1/chat/completions response format
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// errorEnvelope is the error body returned on non-2xx responses
type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one system/user exchange and returns the first choice's text
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := c.post(ctx, "/v1/chat/completions", chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrLLMFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", domain.ErrLLMFailure)
	}
	return resp.Choices[0].Message.Content, nil
}

// post sends a JSON request with rate limiting and retries on transport errors,
// 429 and 5xx. Other non-2xx statuses fail immediately.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	endpoint := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrRateLimited, err)
		}

		body, status, err := c.doRequest(ctx, endpoint, jsonBody)
		switch {
		case err != nil:
			if !isRetryable(err) {
				return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
		case status >= 200 && status < 300:
			if c.debug {
				log.Debug().Str("endpoint", path).Int("attempt", attempt).Int("bytes", len(body)).Msg("openai response")
			}
			return body, nil
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = fmt.Errorf("%w: status %d: %s", domain.ErrLLMFailure, status, errorMessage(body))
		default:
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrLLMFailure, status, errorMessage(body))
		}

		log.Warn().Err(lastErr).Str("endpoint", path).Int("attempt", attempt).Msg("openai request failed")
		if attempt < maxAttempts {
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
			}
		}
	}
	return nil, lastErr
}

// doRequest executes an HTTP POST with proper headers and returns the body and status
func (c *Client) doRequest(ctx context.Context, endpoint string, jsonBody []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "DealScout/1.0")

	if c.debug {
		log.Debug().Str("endpoint", endpoint).RawJSON("request", jsonBody).Msg("openai request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func errorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryable reports whether a transport error is worth another attempt
func isRetryable(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
