package inertia

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
)

// TestResult holds a recorded response for testing.
//
// Provides convenience methods for asserting on the page object, headers,
// status codes and redirects.
type TestResult struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

// Page decodes the page object from a JSON body or from the data-page
// attribute of an HTML shell.
func (r *TestResult) Page() (*Page, error) {
	data := r.Body
	if !strings.HasPrefix(r.Headers.Get("Content-Type"), "application/json") {
		const attr = `data-page="`
		start := strings.Index(r.Body, attr)
		if start == -1 {
			return nil, errors.New("inertia: response carries no page object")
		}
		start += len(attr)
		end := strings.Index(r.Body[start:], `"`)
		if end == -1 {
			return nil, errors.New("inertia: unterminated data-page attribute")
		}
		data = html.UnescapeString(r.Body[start : start+end])
	}

	var page Page
	if err := json.Unmarshal([]byte(data), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// IsConflict checks for a version conflict or external redirect.
func (r *TestResult) IsConflict() bool {
	return r.StatusCode == http.StatusConflict
}

// RedirectURL returns the Location or X-Inertia-Location header.
func (r *TestResult) RedirectURL() string {
	if loc := r.Headers.Get("Location"); loc != "" {
		return loc
	}
	return r.Headers.Get(HeaderLocation)
}

// TestRequestBuilder provides a fluent interface for building protocol
// requests in tests:
//
//	result := inertia.NewTestRequest("GET", "/users").
//	    Partial("Users/Index", "users").
//	    WithSession(sess).
//	    Execute(handler)
type TestRequestBuilder struct {
	method  string
	url     string
	body    string
	headers http.Header
	shared  Props
	session Session
	ctx     context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:  method,
		url:     url,
		headers: make(http.Header),
		shared:  make(Props),
		ctx:     context.Background(),
	}
}

// WithHeader sets a header on the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers.Set(key, value)
	return b
}

// WithBody sets the request body.
func (b *TestRequestBuilder) WithBody(body string) *TestRequestBuilder {
	b.body = body
	return b
}

// Inertia marks the request as a protocol visit.
func (b *TestRequestBuilder) Inertia() *TestRequestBuilder {
	return b.WithHeader(HeaderInertia, "true")
}

// Partial makes the request a partial reload of component asking for
// only the given keys.
func (b *TestRequestBuilder) Partial(component string, only ...string) *TestRequestBuilder {
	b.Inertia().WithHeader(HeaderPartialComponent, component)
	if len(only) > 0 {
		b.WithHeader(HeaderPartialData, strings.Join(only, ","))
	}
	return b
}

// Except excludes keys from a partial reload.
func (b *TestRequestBuilder) Except(keys ...string) *TestRequestBuilder {
	return b.WithHeader(HeaderPartialExcept, strings.Join(keys, ","))
}

// ExceptOnce lists once props the client already has.
func (b *TestRequestBuilder) ExceptOnce(keys ...string) *TestRequestBuilder {
	return b.WithHeader(HeaderExceptOnceProps, strings.Join(keys, ","))
}

// Reset lists merge props the client wants replaced.
func (b *TestRequestBuilder) Reset(keys ...string) *TestRequestBuilder {
	return b.WithHeader(HeaderReset, strings.Join(keys, ","))
}

// Version sets the client asset version.
func (b *TestRequestBuilder) Version(v string) *TestRequestBuilder {
	return b.WithHeader(HeaderVersion, v)
}

// ErrorBag names the error bag of the submission.
func (b *TestRequestBuilder) ErrorBag(bag string) *TestRequestBuilder {
	return b.WithHeader(HeaderErrorBag, bag)
}

// Precognition makes the request a validation probe, optionally limited
// to fields.
func (b *TestRequestBuilder) Precognition(fields ...string) *TestRequestBuilder {
	b.WithHeader(HeaderPrecognition, "true")
	if len(fields) > 0 {
		b.WithHeader(HeaderPrecognitionValidateOnly, strings.Join(fields, ","))
	}
	return b
}

// Share adds a request-scoped shared prop.
func (b *TestRequestBuilder) Share(key string, value any) *TestRequestBuilder {
	b.shared[key] = value
	return b
}

// WithSession attaches a session to the request.
func (b *TestRequestBuilder) WithSession(s Session) *TestRequestBuilder {
	b.session = s
	return b
}

// WithContext sets the base context of the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Request builds the request with a RequestContext installed, as
// Inertia.Middleware would.
func (b *TestRequestBuilder) Request() *http.Request {
	req := httptest.NewRequest(b.method, b.url, strings.NewReader(b.body))
	for k, vs := range b.headers {
		req.Header[k] = vs
	}
	rc := NewRequestContext(b.session)
	for k, v := range b.shared {
		rc.Share(k, v)
	}
	return req.WithContext(WithRequestContext(b.ctx, rc))
}

// Execute serves the request with h and records the response.
func (b *TestRequestBuilder) Execute(h http.Handler) *TestResult {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, b.Request())
	return &TestResult{
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Body:       rec.Body.String(),
	}
}

// MemorySession is an in-memory Session for tests. Its fields are
// exported for assertions.
type MemorySession struct {
	// FlashData is the page flash bundle.
	FlashData map[string]any
	// Flashed holds plain flash values.
	Flashed map[string]any
	// Previous is the remembered previous URL.
	Previous string

	// Err, when set, is returned by every method.
	Err error
}

// NewMemorySession returns an empty session.
func NewMemorySession() *MemorySession {
	return &MemorySession{
		FlashData: make(map[string]any),
		Flashed:   make(map[string]any),
	}
}

func (s *MemorySession) All() (map[string]any, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return maps.Clone(s.FlashData), nil
}

func (s *MemorySession) Clear() error {
	if s.Err != nil {
		return s.Err
	}
	clear(s.FlashData)
	return nil
}

func (s *MemorySession) Put(key string, value any) error {
	if s.Err != nil {
		return s.Err
	}
	s.FlashData[key] = value
	return nil
}

func (s *MemorySession) PutRaw(key string, value any) error {
	if s.Err != nil {
		return s.Err
	}
	s.Flashed[key] = value
	return nil
}

func (s *MemorySession) Raw(key string) (any, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Flashed[key], nil
}

func (s *MemorySession) SetPreviousURL(url string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Previous = url
	return nil
}

func (s *MemorySession) PreviousURL() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Previous, nil
}
