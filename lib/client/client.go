// Package client fetches page objects from an inertia server the way the
// browser client does: with the protocol headers of full and partial
// visits. It is used by the inertia CLI and by integration tests.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pthm/inertia"
)

// ErrVersionConflict is returned when the server rejects the client's
// asset version or asks for a full navigation.
var ErrVersionConflict = errors.New("client: version conflict")

// ConflictError carries the location a 409 response points to.
type ConflictError struct {
	Location string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("client: version conflict, reload %s", e.Location)
}

func (e *ConflictError) Unwrap() error { return ErrVersionConflict }

// StatusError is returned for responses that carry no page object.
type StatusError struct {
	StatusCode int
	Location   string
}

func (e *StatusError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("client: status %d, location %s", e.StatusCode, e.Location)
	}
	return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
}

// Visit describes one request.
type Visit struct {
	// Component targets a partial reload. Only, Except and Reset are only
	// honoured by the server when Component matches the rendered page.
	Component  string
	Only       []string
	Except     []string
	ExceptOnce []string
	Reset      []string
	ErrorBag   string
	// HTML requests the first-load document instead of a protocol visit.
	HTML bool
}

// Client performs protocol visits against a base URL.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithVersion sets the asset version sent with every visit.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the asset version the client sends.
func (c *Client) Version() string { return c.version }

// Get visits path and returns the page object.
//
// A 409 yields a *ConflictError; when the server reported a new version
// the client adopts it so the next visit succeeds. Redirects are not
// followed and yield a *StatusError.
func (c *Client) Get(ctx context.Context, path string, v Visit) (*inertia.Page, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, v)

	c.logger.Debug("visit", zap.String("url", target), zap.String("component", v.Component))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		if sv := resp.Header.Get(inertia.HeaderVersion); sv != "" {
			c.version = sv
		}
		return nil, &ConflictError{Location: resp.Header.Get(inertia.HeaderLocation)}
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, &StatusError{StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	page, err := decodePage(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}
	if v := page.VersionString(); v != "" {
		c.version = v
	}
	return page, nil
}

// Reload follows a page with a partial reload of its deferred group.
func (c *Client) Reload(ctx context.Context, page *inertia.Page, group string) (*inertia.Page, error) {
	keys := page.DeferredProps[group]
	if len(keys) == 0 {
		return page, nil
	}
	return c.Get(ctx, page.URL, Visit{Component: page.Component, Only: keys})
}

func (c *Client) resolve(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	u, err := url.Parse(c.baseURL + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("client: invalid path %q: %w", path, err)
	}
	return u.String(), nil
}

func (c *Client) setHeaders(req *http.Request, v Visit) {
	req.Header.Set("Accept", "text/html, application/xhtml+xml")
	if v.HTML {
		return
	}
	req.Header.Set(inertia.HeaderInertia, "true")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.version != "" {
		req.Header.Set(inertia.HeaderVersion, c.version)
	}
	if v.Component != "" {
		req.Header.Set(inertia.HeaderPartialComponent, v.Component)
	}
	setList(req, inertia.HeaderPartialData, v.Only)
	setList(req, inertia.HeaderPartialExcept, v.Except)
	setList(req, inertia.HeaderExceptOnceProps, v.ExceptOnce)
	setList(req, inertia.HeaderReset, v.Reset)
	if v.ErrorBag != "" {
		req.Header.Set(inertia.HeaderErrorBag, v.ErrorBag)
	}
}

func setList(req *http.Request, header string, values []string) {
	if len(values) > 0 {
		req.Header.Set(header, strings.Join(values, ","))
	}
}

// decodePage reads a page object from a JSON body or the data-page
// attribute of an HTML document.
func decodePage(contentType string, body []byte) (*inertia.Page, error) {
	data := body
	if !strings.HasPrefix(contentType, "application/json") {
		const attr = `data-page="`
		s := string(body)
		start := strings.Index(s, attr)
		if start == -1 {
			return nil, errors.New("client: response carries no page object")
		}
		start += len(attr)
		end := strings.Index(s[start:], `"`)
		if end == -1 {
			return nil, errors.New("client: unterminated data-page attribute")
		}
		data = []byte(html.UnescapeString(s[start : start+end]))
	}

	var page inertia.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("client: decode page: %w", err)
	}
	return &page, nil
}
