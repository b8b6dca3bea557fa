package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/five82/pocketspice/internal/keystore"
)

const (
	defaultUserAgent = "pocketspice/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 64 * 1024
)

// Client issues JSON requests against a single base URL and owns the session
// token. The keystore only mirrors it.
type Client struct {
	baseURL   string
	http      *http.Client
	store     keystore.Store
	logger    zerolog.Logger
	limiter   *rate.Limiter
	userAgent string

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger. Requests are logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l.With().Str("component", "httpclient").Logger()
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New builds a Client for baseURL and loads any persisted token from store.
// A nil store keeps the token in memory only. A missing or unreadable token
// leaves the client unauthenticated.
func New(baseURL string, store keystore.Store, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = keystore.NewMemory(nil)
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		store:     store,
		logger:    zerolog.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	token, ok, err := store.Get(keystore.AccessTokenKey)
	switch {
	case err != nil:
		c.logger.Warn().Err(err).Msg("load persisted access token")
	case ok:
		c.token = strings.TrimSpace(token)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the session token. A non-empty token is persisted, an
// empty one is removed from storage. Storage is updated before SetToken
// returns.
func (c *Client) SetToken(token string) {
	token = strings.TrimSpace(token)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	var err error
	if token != "" {
		err = c.store.Set(keystore.AccessTokenKey, token)
	} else {
		err = c.store.Remove(keystore.AccessTokenKey)
	}
	if err != nil {
		c.logger.Error().Err(err).Bool("clear", token == "").Msg("persist access token")
	}
}

// ClearToken drops the session token from memory and storage.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the in-memory token, or "" when no session is held.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a session token is held.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

// Request describes one call. Body is JSON-encoded; a nil Body sends no body.
type Request struct {
	Method string
	Path   string
	Query  Query
	Body   any
	Header http.Header
}

// RequestOption adjusts a Request before it is sent.
type RequestOption func(*Request)

// WithHeader sets a caller-supplied header. Authorization is always
// overwritten when the client holds a token.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// Get issues a GET for path with the given query and decodes the response
// into out.
func (c *Client) Get(ctx context.Context, path string, query Query, out any, opts ...RequestOption) error {
	r := Request{Method: http.MethodGet, Path: path, Query: query}
	for _, opt := range opts {
		opt(&r)
	}
	return c.Do(ctx, r, out)
}

// Post issues a POST with body JSON-encoded and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any, opts ...RequestOption) error {
	r := Request{Method: http.MethodPost, Path: path, Body: body}
	for _, opt := range opts {
		opt(&r)
	}
	return c.Do(ctx, r, out)
}

// GetJSON is the typed form of Client.Get.
func GetJSON[T any](ctx context.Context, c *Client, path string, query Query, opts ...RequestOption) (T, error) {
	var out T
	err := c.Get(ctx, path, query, &out, opts...)
	return out, err
}

// PostJSON is the typed form of Client.Post.
func PostJSON[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	err := c.Post(ctx, path, body, &out, opts...)
	return out, err
}

// Do sends r and decodes a 2xx JSON response into out (nil discards the
// body). Non-2xx responses return *Error; a 401 clears the session token
// first. Nothing is retried.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	reqURL := c.baseURL + r.Path + EncodeQuery(r.Query)

	var body io.Reader
	if !isNilBody(r.Body) {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	requestID := uuid.NewString()
	c.applyHeaders(req, r.Header, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", method).
			Str("url", reqURL).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.logger.Info().Str("url", reqURL).Msg("unauthorized response, clearing session token")
			c.ClearToken()
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			raw = nil
		}
		detail := ExtractDetail(raw, resp.Header.Get("Content-Type"), statusText(resp))
		return NewError(resp.StatusCode, reqURL, detail)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request, extra http.Header, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	for key, values := range extra {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	// read once; later token changes only affect later requests
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// isNilBody reports whether body is nil or a nil pointer, map, slice or
// interface, none of which are sent.
func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
