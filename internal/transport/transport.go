// Package transport is the single point of outbound HTTP for the client.
// It owns the base URL, the fixed timeout, JSON headers, bearer-token
// injection and the 401 token-eviction side effect. It never retries and
// never decides fallback behavior; that belongs to the resource clients.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token injected into every request and
// absorbs the 401 eviction side effect. The session store implements it.
type TokenSource interface {
	Token() string
	ClearToken()
}

// Client wraps http.Client with the backend's conventions.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logger.Logger
}

// New creates a transport client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Named("transport")
	}
	return c
}

// Get performs a GET request and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Inject the bearer token on every request when one is stored, even for
	// endpoints that do not require authentication.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug(ctx, "request", logger.String("method", method), logger.String("path", path))

	route := metricRoute(path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordNetworkError(route, method)
		c.log.Error(ctx, "network error: no response from server",
			logger.String("method", method), logger.String("path", path), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordNetworkError(route, method)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	metrics.RecordRequest(route, method, strconv.Itoa(resp.StatusCode))
	metrics.RecordRequestDuration(route, method, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.Debug(ctx, "response", logger.Int("status", resp.StatusCode), logger.String("path", path))
		return payload, nil
	}

	c.logStatus(ctx, resp.StatusCode, path)

	// An invalid or expired token is evicted here, but the error still
	// reaches the caller; fallback decisions belong to resource clients.
	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		c.tokens.ClearToken()
	}

	return nil, &StatusError{
		Code:   resp.StatusCode,
		Detail: extractDetail(payload),
		Body:   payload,
	}
}

// logStatus mirrors the per-status log lines the console's earlier builds
// emitted for failed responses.
func (c *Client) logStatus(ctx context.Context, status int, path string) {
	switch status {
	case http.StatusUnauthorized:
		c.log.Error(ctx, "unauthorized: invalid or expired token", logger.String("path", path))
	case http.StatusForbidden:
		c.log.Error(ctx, "forbidden: access denied", logger.String("path", path))
	case http.StatusNotFound:
		c.log.Error(ctx, "not found: resource does not exist", logger.String("path", path))
	case http.StatusInternalServerError:
		c.log.Error(ctx, "server error: internal server error", logger.String("path", path))
	default:
		c.log.Error(ctx, "request failed", logger.Int("status", status), logger.String("path", path))
	}
}

// metricRoute collapses numeric path segments into ":id" so the endpoint
// metric label stays route-shaped; labeling by concrete path would mint a
// new series per resource id.
func metricRoute(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// extractDetail pulls the backend's {"detail": "..."} validation message out
// of an error body. Anything else yields "".
func extractDetail(payload []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Detail
}
