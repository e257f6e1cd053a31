package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Store is the fixed CRUD contract of the remote collection.
// It is implemented by *Client and *MemoryStore.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, fields Fields) (Record, error)
	Update(ctx context.Context, id ID, fields Fields) (Record, error)
	Delete(ctx context.Context, id ID) error
}

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

const (
	DefaultBaseURL    = "http://127.0.0.1:3001"
	defaultUserAgent  = "shelf/0.1"
	defaultTimeout    = 5 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxRetries        = 1
	maxErrorBody      = 4 << 10
	collectionSegment = "books"
)

// Options configure a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration // per request; zero uses 5s
	Retries           int           // extra attempts for idempotent requests on transport failure; clamped to 0..1
	RetryDelay        time.Duration // first backoff step; doubles per attempt
	RequestsPerSecond float64       // zero or negative disables pacing
	UserAgent         string
}

// Client talks to the remote collection over HTTP/JSON.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
}

// NewClient builds a Client for the given options.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := min(max(opts.Retries, 0), maxRetries)
	retryDelay := opts.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	} else if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		retries:    retries,
		retryDelay: retryDelay,
	}, nil
}

// BaseURL returns the normalized collection host.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	if c == nil {
		return nil, transportError("list", "", fmt.Errorf("client is nil"))
	}
	var payload []Record
	if err := c.do(ctx, "list", "", http.MethodGet, collectionPath(), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create submits a new record; the store assigns its id.
func (c *Client) Create(ctx context.Context, fields Fields) (Record, error) {
	if c == nil {
		return Record{}, transportError("create", "", fmt.Errorf("client is nil"))
	}
	var payload Record
	if err := c.do(ctx, "create", "", http.MethodPost, collectionPath(), fields, &payload); err != nil {
		return Record{}, err
	}
	if !payload.Saved() {
		return Record{}, transportError("create", "", fmt.Errorf("response carried no id"))
	}
	return payload, nil
}

// Update replaces every field of the record with the given id.
func (c *Client) Update(ctx context.Context, id ID, fields Fields) (Record, error) {
	if c == nil {
		return Record{}, transportError("update", id, fmt.Errorf("client is nil"))
	}
	if id.IsZero() {
		return Record{}, validationError("update", id, []string{"id"}, fmt.Errorf("id required"))
	}
	var payload Record
	if err := c.do(ctx, "update", id, http.MethodPut, recordPath(id), fields.WithID(id), &payload); err != nil {
		return Record{}, err
	}
	if !payload.Saved() {
		payload.ID = id
	}
	return payload, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id ID) error {
	if c == nil {
		return transportError("delete", id, fmt.Errorf("client is nil"))
	}
	if id.IsZero() {
		return validationError("delete", id, []string{"id"}, fmt.Errorf("id required"))
	}
	return c.do(ctx, "delete", id, http.MethodDelete, recordPath(id), nil, nil)
}

func collectionPath() []string {
	return []string{collectionSegment}
}

func recordPath(id ID) []string {
	return []string{collectionSegment, url.PathEscape(string(id))}
}

func (c *Client) do(ctx context.Context, op string, id ID, method string, path []string, body, dest any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return validationError(op, id, nil, fmt.Errorf("encode request: %w", err))
		}
	}

	attempts := 1
	if method != http.MethodPost {
		attempts += c.retries
	}

	var lastErr *Error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return transportError(op, id, ctx.Err())
			}
		}
		err := c.attempt(ctx, op, id, method, path, encoded, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if err.Kind != KindTransport || ctx.Err() != nil {
			return err
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, op string, id ID, method string, path []string, body []byte, dest any) *Error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(op, id, fmt.Errorf("wait for rate limiter: %w", err))
	}

	reqURL := c.baseURL.JoinPath(path...)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return transportError(op, id, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(op, id, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return classifyResponse(op, id, resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return transportError(op, id, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// problem is the error body shelfd and similar backends return.
type problem struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func classifyResponse(op string, id ID, resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var p problem
	if err := json.Unmarshal(raw, &p); err != nil || p.Error == "" {
		p.Error = strings.TrimSpace(string(raw))
	}
	cause := statusError(resp.StatusCode, p.Error)

	switch resp.StatusCode {
	case http.StatusNotFound:
		e := notFoundError(op, id)
		e.Err = cause
		return e
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return validationError(op, id, p.Fields, cause)
	default:
		return transportError(op, id, cause)
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: %w", raw, errors.New("missing host"))
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
