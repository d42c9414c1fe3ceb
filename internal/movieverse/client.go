package movieverse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "http://127.0.0.1:8000/"
	defaultUserAgent = "reel/0.1"
	defaultTimeout   = 10 * time.Second
	defaultRPS       = 5

	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
	requestIDName  = "X-Request-ID"

	maxResponseBytes = 4 << 20
	breakerTrips     = 5
	breakerCooldown  = 15 * time.Second
)

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Logger            zerolog.Logger
	// HTTPClient replaces the default transport. Its Jar is replaced when nil.
	HTTPClient *http.Client
}

// Client talks to the MovieVerse HTTP API. It keeps the session and CSRF
// cookies in its own jar, so one Client represents one browsing session.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[*response]
	log       zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized []func()
}

type response struct {
	status int
	body   []byte
}

// call describes one request.
type call struct {
	method string
	rel    *url.URL
	body   any
	// expectAuthFailure marks endpoints where 401/403 is an answer, not an
	// expired session (probe, login).
	expectAuthFailure bool
}

// NewClient builds a Client for the backend at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:       opts.Logger.With().Str("component", "movieverse").Logger(),
	}
	c.breaker = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        "movieverse",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// OnUnauthorized registers fn to run whenever a protected call is answered
// with 401 or 403. Hooks run on the calling goroutine.
func (c *Client) OnUnauthorized(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

func (c *Client) notifyUnauthorized() {
	c.mu.RLock()
	hooks := append([]func(){}, c.onUnauthorized...)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// CSRFToken returns the anti-forgery token cookie, if the backend set one.
func (c *Client) CSRFToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	return c.do(ctx, call{method: http.MethodGet, rel: rel}, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, call{method: http.MethodPost, rel: &url.URL{Path: path}, body: body}, dest)
}

func (c *Client) do(ctx context.Context, cl call, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if err := c.checkStatus(cl, resp); err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, cl call) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	var payload io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	reqURL := c.baseURL.ResolveReference(cl.rel)
	req, err := http.NewRequestWithContext(ctx, cl.method, reqURL.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDName, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if isMutating(cl.method) {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(csrfHeaderName, token)
		} else {
			c.log.Warn().Str("path", cl.rel.Path).Msg("no csrf token for mutating request")
		}
	}

	started := time.Now()
	resp, err := c.breaker.Execute(func() (*response, error) {
		r, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Body.Close() }()
		body, err := io.ReadAll(io.LimitReader(r.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		out := &response{status: r.StatusCode, body: body}
		if r.StatusCode >= http.StatusInternalServerError {
			return out, c.statusError(cl, out, ErrUnavailable)
		}
		return out, nil
	})

	event := c.log.Debug()
	if err != nil {
		event = c.log.Warn().Err(err)
	}
	if resp != nil {
		event = event.Int("status", resp.status)
	}
	event.Str("method", cl.method).
		Str("path", cl.rel.Path).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(started)).
		Msg("backend request")

	if err != nil {
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			return nil, err
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("execute request: %w", err)
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		default:
			return nil, fmt.Errorf("execute request: %w: %w", ErrUnavailable, err)
		}
	}
	return resp, nil
}

func (c *Client) checkStatus(cl call, resp *response) error {
	switch {
	case resp.status < 400:
		return nil
	case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
		if !cl.expectAuthFailure {
			c.notifyUnauthorized()
		}
		return c.statusError(cl, resp, ErrUnauthorized)
	case resp.status == http.StatusNotFound:
		return c.statusError(cl, resp, ErrNotFound)
	default:
		return c.statusError(cl, resp, nil)
	}
}

func (c *Client) statusError(cl call, resp *response, kind error) error {
	apiErr := &APIError{
		Method: cl.method,
		Path:   cl.rel.Path,
		Status: resp.status,
		kind:   kind,
	}
	apiErr.Message, apiErr.Fields = parseErrorBody(resp.body)
	return apiErr
}

// parseErrorBody pulls a message out of the shapes the backend uses:
// {"error": ...}, {"message": ...}, {"detail": ...} or a field-keyed object.
func parseErrorBody(body []byte) (string, FieldErrors) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return "", nil
	}
	if body[0] != '{' {
		return strings.TrimSpace(string(body)), nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}
	for _, key := range []string{"error", "message", "detail"} {
		if v, ok := raw[key]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				return s, nil
			}
		}
	}
	fields := FieldErrors{}
	for key, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			fields[key] = list
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[key] = []string{s}
		}
	}
	if len(fields) == 0 {
		return "", nil
	}
	return fields.Error(), fields
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	// Keep any path prefix so deployments under a sub-path resolve correctly.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
