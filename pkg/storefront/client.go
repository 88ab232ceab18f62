package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, or empty string when no
// session is active. The session manager is the canonical implementation.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

// Token implements TokenSource.
func (f TokenSourceFunc) Token() string { return f() }

// Client issues requests against the storefront REST API. It attaches the
// bearer token from its TokenSource, normalizes error and empty-body
// handling, and notifies the registered callback on 401 so persisted auth
// state can be cleared.
type Client struct {
	httpClient     *http.Client
	config         Config
	logger         *slog.Logger
	tokens         TokenSource
	onUnauthorized func()
}

// NewClient creates a storefront API client with the given configuration.
func NewClient(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		logger: logger.With("component", "storefront-client"),
	}
}

// SetTokenSource registers the supplier of the bearer token.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHandler registers a callback invoked whenever the backend
// answers 401. The handler runs before the request returns ErrUnauthorized.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request performs an HTTP request against the given endpoint. Relative
// endpoints are resolved against the configured base URL. When out is
// non-nil and the response carries a JSON body, the body is decoded into
// out; a *string out receives non-JSON bodies verbatim. A 204 or
// zero-length body leaves out untouched.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	url := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		url = c.config.BaseURL + endpoint
	}

	requestID := uuid.NewString()
	logger := c.logger.With("method", method, "url", url, "request_id", requestID)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		logger.Debug("request body", "body", string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	logger.Debug("response received", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode == http.StatusUnauthorized {
		logger.Warn("unauthorized, clearing session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, errorMessage(respBody))
	}

	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if out == nil {
		return nil
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
		}
		return nil
	}

	// Non-JSON success body: only a string target can hold it.
	if s, ok := out.(*string); ok {
		*s = string(respBody)
	}
	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPut, endpoint, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, out)
}

// errorMessage extracts the backend's message field from a JSON error
// body, returning empty string when the body is not parseable JSON.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
