package raindrop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/raindrop-mcp/internal/common"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly
// large responses.
const maxResponseSize = 50 << 20 // 50MB

// defaultTimeout bounds every upstream call.
const defaultTimeout = 10 * time.Second

// defaultRetries is the number of automatic retries after the first attempt,
// applied to idempotent (GET) calls only.
const defaultRetries = 2

// RequestTransform is one step of the request pipeline. Transforms are
// applied in registration order before a request is sent; each returns a new
// request value rather than mutating its input, so cross-cutting behavior
// (credential injection, tracing headers) composes without touching call
// sites.
type RequestTransform func(*http.Request) *http.Request

// Client is the authenticated gateway to the Raindrop.io REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	transforms []RequestTransform
	maxRetries int
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithTransform appends a request transform to the pipeline, after the
// built-in credential injection.
func WithTransform(t RequestTransform) Option {
	return func(c *Client) { c.transforms = append(c.transforms, t) }
}

// WithTimeout overrides the per-call timeout. Non-positive durations are
// ignored so every call stays bounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries overrides the read-retry budget.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// NewClient creates a gateway targeting the given base URL. A missing access
// token is a construction-time failure: the server must refuse to start
// rather than fail on every call.
func NewClient(baseURL, accessToken string, logger *common.Logger, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, &Error{
			Kind:    KindAuth,
			Op:      "new client",
			Message: "no Raindrop.io access token configured (set RAINDROP_ACCESS_TOKEN)",
		}
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		maxRetries: defaultRetries,
	}
	c.transforms = append(c.transforms, bearerTransform(accessToken))

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// bearerTransform injects the Authorization header. Credential injection is
// itself a pipeline step, always first.
func bearerTransform(token string) RequestTransform {
	return func(req *http.Request) *http.Request {
		out := req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+token)
		return out
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// retryableStatus reports whether a read call may be retried for this status.
func retryableStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout,
		status == http.StatusRequestEntityTooLarge,
		status == http.StatusTooManyRequests,
		status >= 500:
		return true
	}
	return false
}

// Call performs one request against the upstream API and returns the raw
// response body. GET calls are retried up to the retry budget on
// request-timeout, payload-too-large, rate-limit, and 5xx statuses; mutating
// calls are never retried to avoid duplicate side effects.
func (c *Client) Call(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	op := method + " " + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf("failed to marshal request body: %v", err)}
		}
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, retryable, err := c.do(ctx, method, fullURL, op, payload)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable || attempt == attempts {
			break
		}
		c.logger.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Str("error", err.Error()).
			Msg("retrying read call")
	}
	return nil, lastErr
}

// do performs a single attempt. The returned bool reports whether a retry is
// permitted for this failure (status-based only; caller still gates on
// method and budget).
func (c *Client) do(ctx context.Context, method, fullURL, op string, payload []byte) (json.RawMessage, bool, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, false, &Error{Kind: KindValidation, Op: op, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	for _, transform := range c.transforms {
		req = transform(req)
	}

	c.logger.Debug().Str("method", method).Str("url", fullURL).Msg("upstream request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		kind := KindUpstream
		if isTimeout(err) {
			kind = KindTimeout
		}
		c.logger.Error().
			Str("op", op).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("upstream request failed")
		return nil, false, &Error{Kind: kind, Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, false, &Error{Kind: KindUpstream, Op: op, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Kind:    classifyStatus(resp.StatusCode),
			Op:      op,
			Status:  resp.StatusCode,
			Message: upstreamMessage(raw, resp.StatusCode),
		}
		return nil, retryableStatus(resp.StatusCode), apiErr
	}

	return raw, false, nil
}

// upstreamMessage extracts a meaningful message from an error response body.
// The API reports failures as {"result": false, "errorMessage": "..."}.
func upstreamMessage(body []byte, status int) string {
	var errResp struct {
		ErrorMessage string `json:"errorMessage"`
		Error        string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.ErrorMessage != "" {
			return errResp.ErrorMessage
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	return fmt.Sprintf("upstream returned %d", status)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// get performs a GET and unmarshals the response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	raw, err := c.Call(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return c.decode(raw, "GET "+path, out)
}

// post performs a POST with a JSON body and unmarshals the response.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := c.Call(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(raw, "POST "+path, out)
}

// put performs a PUT with a JSON body and unmarshals the response.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	raw, err := c.Call(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(raw, "PUT "+path, out)
}

// del performs a DELETE, optionally with a JSON body, and unmarshals the
// response.
func (c *Client) del(ctx context.Context, path string, body, out any) error {
	raw, err := c.Call(ctx, http.MethodDelete, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(raw, "DELETE "+path, out)
}

func (c *Client) decode(raw json.RawMessage, op string, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindUpstream, Op: op, Message: fmt.Sprintf("failed to parse response: %v", err)}
	}
	return nil
}
