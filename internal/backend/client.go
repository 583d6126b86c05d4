// Package backend is the client for the booking REST API the panel
// administers. The API is owned by a separate service; this client only
// shapes requests and decodes responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"autoadmin/internal/metrics"

	"github.com/rs/zerolog"
)

const csrfCookieName = "csrftoken"

// APIError is a non-2xx response collapsed into a single error value.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client issues one-shot JSON calls against the booking API. No retries
// and no backoff: a failed call is reported to the caller and the next
// navigation or refresh tick tries again.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. A cookie jar is attached
// when the client has none, so CSRF cookies survive across calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given API base URL, e.g.
// "http://localhost:8000/api" or a full production backend URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err == nil {
			c.httpClient.Jar = jar
		}
	}

	return c
}

// Call performs a single request and returns the raw response body.
// Non-2xx responses come back as *APIError with the best message the
// body offers.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		if token := c.csrfToken(); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncBackendCall(endpoint, "transport_error")
		return nil, fmt.Errorf("backend: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncBackendCall(endpoint, "read_error")
		return nil, fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncBackendCall(endpoint, "http_error")
		msg := errorMessage(raw, resp.StatusCode)
		c.logger.Warn().
			Str("method", method).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error", msg).
			Msg("backend call failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	metrics.IncBackendCall(endpoint, "ok")
	return raw, nil
}

// csrfToken returns the csrftoken cookie the backend set on a previous
// response, if any.
func (c *Client) csrfToken() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

// errorMessage digs a human-readable message out of an error body:
// a JSON error/detail/message field, then the raw text, then the bare
// status code.
func errorMessage(raw []byte, statusCode int) string {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, msg := range []string{payload.Error, payload.Detail, payload.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 512 {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// decodeList accepts both DRF-paginated `{"results": [...]}` bodies and
// bare arrays; anything else decodes to an empty list rather than an
// error, so renderers always have a slice to work with.
func decodeList[T any](raw []byte) []T {
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list
	}

	return []T{}
}

func decodeObject[T any](raw []byte) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("backend: decode response: %w", err)
	}
	return out, nil
}
