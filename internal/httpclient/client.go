/*
Package httpclient is the single point of outbound network access for the
storefront client. It coalesces identical in-flight requests, injects the
bearer token, classifies failures into the shared error taxonomy, and can
serve canned responses from a mock table without touching the network.
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/config"
	"storefront/pkg/errors"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the persisted bearer token and clears it when the
// backend reports the session invalid.
type TokenSource interface {
	AccessToken() string
	ClearCredentials()
}

// Client wraps http.Client with dedup, mock interception and rate limiting.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	tokens    TokenSource
	mockDelay time.Duration
	log       *zap.Logger

	mu          sync.Mutex
	pending     map[string]*call
	mocks       *MockTable
	mockEnabled bool
	onUnauth    func()
}

// call is one in-flight request shared by every caller with the same key.
type call struct {
	done chan struct{}
	body []byte
	err  error
}

// New creates a client for the configured API.
func New(cfg *config.APIConfig, tokens TokenSource) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Rate), cfg.RateLimit.Burst)
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		limiter:     limiter,
		tokens:      tokens,
		mockDelay:   cfg.MockDelay,
		mocks:       DefaultMocks(),
		mockEnabled: cfg.MockMode,
		pending:     make(map[string]*call),
		log:         logger.WithStore("httpclient"),
	}
	return c
}

// SetMockEnabled toggles mock-data interception.
func (c *Client) SetMockEnabled(enabled bool) {
	c.mu.Lock()
	c.mockEnabled = enabled
	c.mu.Unlock()
	c.log.Info("mock data toggled", zap.Bool("enabled", enabled))
}

// SetUnauthorizedHook registers the callback fired when a request comes back
// 401. The auth store uses it to broadcast a forced logout.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	c.onUnauth = fn
	c.mu.Unlock()
}

// CancelPending drops the dedup table. In-flight requests run to completion;
// they are simply no longer joinable.
func (c *Client) CancelPending() {
	c.mu.Lock()
	c.pending = make(map[string]*call)
	c.mu.Unlock()
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

// Do performs one request. out, when non-nil, receives the decoded JSON
// response body. Identical concurrent method+endpoint pairs share a single
// round trip.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CodeValidation, errors.MsgValidation)
		}
	}

	if raw, ok := c.tryMock(ctx, method, endpoint, payload); ok {
		return decodeInto(raw, out)
	}

	key := method + " " + endpoint

	c.mu.Lock()
	if existing, ok := c.pending[key]; ok {
		c.mu.Unlock()
		select {
		case <-existing.done:
		case <-ctx.Done():
			return errors.Network(ctx.Err())
		}
		if existing.err != nil {
			return existing.err
		}
		return decodeInto(existing.body, out)
	}
	cl := &call{done: make(chan struct{})}
	c.pending[key] = cl
	c.mu.Unlock()

	cl.body, cl.err = c.roundTrip(ctx, method, endpoint, payload)

	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
	close(cl.done)

	if cl.err != nil {
		return cl.err
	}
	return decodeInto(cl.body, out)
}

func (c *Client) tryMock(ctx context.Context, method, endpoint string, payload []byte) (json.RawMessage, bool) {
	c.mu.Lock()
	enabled := c.mockEnabled
	mocks := c.mocks
	c.mu.Unlock()
	if !enabled || mocks == nil {
		return nil, false
	}

	base := endpoint
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	raw, ok := mocks.Lookup(method, base, payload)
	if !ok {
		return nil, false
	}
	c.log.Debug("using mock data", zap.String("endpoint", base))

	// Artificial latency so consumers exercise their loading states.
	if c.mockDelay > 0 {
		select {
		case <-time.After(c.mockDelay):
		case <-ctx.Done():
		}
	}
	return raw, true
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Network(err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, errors.MsgValidation)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, errors.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(err)
	}

	c.log.Debug("request completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	return nil, c.classify(resp.StatusCode, raw)
}

// classify maps a failed response onto the error taxonomy. A 401 clears the
// stored credentials and fires the unauthorized hook so dependent stores can
// force a logout.
func (c *Client) classify(status int, raw []byte) error {
	if status == http.StatusUnauthorized {
		c.tokens.ClearCredentials()
		c.mu.Lock()
		hook := c.onUnauth
		c.mu.Unlock()
		if hook != nil {
			hook()
		}
		return errors.Unauthorized()
	}
	return errors.FromStatusCode(status, extractMessage(raw))
}

func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func decodeInto(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(fmt.Errorf("decode response: %w", err), errors.CodeUnknown, errors.MsgUnknown)
	}
	return nil
}
