package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines the operations the dashboard needs from the product API.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the products REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "https://api.escuelajs.co/api/v1/products"
	defaultUserAgent = "stockroom/0.1"
	requestTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-ID"
	maxErrorBody     = 512
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the collection rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the collection URL the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// List retrieves the whole product collection.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Product
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Get retrieves a single product.
func (c *Client) Get(ctx context.Context, id int64) (*Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Product
	if err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Create posts a new product and returns the stored record.
func (c *Client) Create(ctx context.Context, input ProductInput) (*Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Product
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), input, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Update replaces the product with the given id.
func (c *Client) Update(ctx context.Context, id int64, input ProductInput) (*Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Product
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), input, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Delete removes the product with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) itemURL(id int64) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strconv.FormatInt(id, 10)
	return &u
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, target.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:  method,
			URL:     target.String(),
			Status:  resp.StatusCode,
			Message: readErrorMessage(resp.Body),
		}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage prefers the API's JSON "message" field, falling back to a
// trimmed body snippet.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != nil {
		switch msg := payload.Message.(type) {
		case string:
			return strings.TrimSpace(msg)
		case []any:
			parts := make([]string, 0, len(msg))
			for _, part := range msg {
				parts = append(parts, fmt.Sprint(part))
			}
			return strings.Join(parts, "; ")
		}
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
