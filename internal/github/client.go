package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://api.github.com"
	acceptHeader    = "application/vnd.github.v3+json"
	defaultTimeout  = 30 * time.Second
	defaultMaxPages = 10
	perPage         = "100"
)

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// Config holds connection settings for the GitHub REST API.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	MaxPages int
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	return c
}

// Response is a successful (2xx) API answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// transport issues raw requests with an explicit Authorization header. It is
// shared by Client and the app installation resolver, which authenticates
// with a JWT instead of a repository credential.
type transport struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func newTransport(cfg Config, logger *slog.Logger) *transport {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &transport{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (t *transport) send(ctx context.Context, method, rawURL, authorization string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: "creating request", Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", authorization)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.logger.DebugContext(ctx, "github_request", "method", method, "url", rawURL, "error", err.Error())
		return nil, &APIError{Status: http.StatusBadGateway, Message: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "reading response", Err: err}
	}
	t.logger.DebugContext(ctx, "github_request",
		"method", method,
		"url", rawURL,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (t *transport) url(path string, query url.Values) string {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// errorMessage extracts the provider's "message" field, falling back to the
// status text when the body is not the usual error JSON.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(status)
}

// Client issues repository-scoped calls, resolving a credential for the target
// repository before each request.
type Client struct {
	t        *transport
	creds    CredentialResolver
	maxPages int
}

// NewClient creates a Client. logger may be nil.
func NewClient(cfg Config, creds CredentialResolver, logger *slog.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		t:        newTransport(cfg, logger),
		creds:    creds,
		maxPages: cfg.MaxPages,
	}
}

// Do performs one request against path (e.g. "/repos/o/r/branches") on behalf
// of owner/repo. No request is sent when no credential can be resolved.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, owner, repo string) (*Response, error) {
	return c.doURL(ctx, method, c.t.url(path, query), owner, repo)
}

func (c *Client) doURL(ctx context.Context, method, rawURL, owner, repo string) (*Response, error) {
	if c.creds == nil {
		return nil, errNoCredential(owner, repo)
	}
	cred, err := c.creds.ResolveCredential(ctx, owner, repo)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "resolving credential: " + err.Error(), Err: err}
	}
	return c.t.send(ctx, method, rawURL, cred.header(), nil)
}

// getJSON decodes a single response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, owner, repo string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, query, owner, repo)
	if err != nil {
		return err
	}
	return decode(resp.Body, out)
}

// getPages walks a paginated list endpoint, handing each page body to fn.
// Pagination stops after maxPages pages.
func (c *Client) getPages(ctx context.Context, path string, query url.Values, owner, repo string, fn func(body []byte) error) error {
	next := c.t.url(path, query)
	for page := 0; next != "" && page < c.maxPages; page++ {
		resp, err := c.doURL(ctx, http.MethodGet, next, owner, repo)
		if err != nil {
			return err
		}
		if err := fn(resp.Body); err != nil {
			return err
		}
		next = nextLink(resp.Header.Get("Link"))
	}
	return nil
}

func nextLink(header string) string {
	m := nextLinkPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Status: http.StatusInternalServerError, Message: "decoding response: " + err.Error(), Err: err}
	}
	return nil
}
