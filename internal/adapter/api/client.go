// Package api is the StreamFlix backend HTTP client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/streamflix/streamflix/internal/domain"
)

const defaultTimeout = 15 * time.Second

// StatusError is returned for non-2xx responses other than 401
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client talks to the StreamFlix REST API. Every request carries the bearer
// token the TokenProvider holds at the time of the call.
type Client struct {
	baseURL    string
	tokens     domain.TokenProvider
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ domain.CatalogRepository   = (*Client)(nil)
	_ domain.FavoritesRepository = (*Client)(nil)
	_ domain.SocialRepository    = (*Client)(nil)
	_ domain.AuthRepository      = (*Client)(nil)
)

// NewClient creates a new API client. A nil tokens provider sends an empty bearer.
func NewClient(baseURL string, tokens domain.TokenProvider, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) bearer() string {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	return "Bearer " + token
}

// doRequest performs one authenticated request. body, when non-nil, is sent as JSON.
// There are no retries: a failed call is reported to the caller as is.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("api request failed", "error", err, "url", reqURL)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("api request error", "status", resp.StatusCode, "body", string(respBody), "path", path)
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// getJSON performs a GET and decodes the response into dest
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
