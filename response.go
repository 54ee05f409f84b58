package inertia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"go.uber.org/zap"
)

// Mode is the transport a built response uses.
type Mode int

const (
	// ModeHTML renders the page into the root view. First loads and
	// non-protocol requests use it.
	ModeHTML Mode = iota
	// ModeJSON sends the page object as JSON to the client.
	ModeJSON
	// ModeConflict tells the client its assets are stale: 409 with the
	// location header and no body.
	ModeConflict
)

func (m Mode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeConflict:
		return "conflict"
	}
	return "html"
}

// Response renders one component for one request.
//
// A response is configured with NewResponse and optionally Prepare, then
// built once by Build or ServeHTTP. Building is idempotent: later calls
// reuse the first result. Reconfiguring a built response panics with
// ErrAlreadyBuilt.
//
// A Response is not safe for concurrent use.
type Response struct {
	in        *Inertia
	req       *http.Request
	component string
	props     Props

	built  bool
	err    error
	mode   Mode
	page   *Page
	status int
	header http.Header
	body   []byte
}

// NewResponse creates a response rendering component with props for r.
func (in *Inertia) NewResponse(r *http.Request, component string, props Props) *Response {
	res := &Response{in: in, req: r}
	return res.Prepare(component, props)
}

// Prepare replaces the component and props of an unbuilt response.
func (res *Response) Prepare(component string, props Props) *Response {
	res.mustBeUnbuilt()
	res.component = component
	res.props = maps.Clone(props)
	if res.props == nil {
		res.props = make(Props)
	}
	return res
}

// With sets a single prop on an unbuilt response.
func (res *Response) With(key string, value any) *Response {
	res.mustBeUnbuilt()
	res.props[key] = value
	return res
}

func (res *Response) mustBeUnbuilt() {
	if res.built {
		panic(ErrAlreadyBuilt)
	}
}

// Component returns the component name.
func (res *Response) Component() string { return res.component }

// Page returns the page object, or nil before a successful build.
func (res *Response) Page() *Page { return res.page }

// Mode returns the transport chosen by Build.
func (res *Response) Mode() Mode { return res.mode }

// Status returns the status code chosen by Build.
func (res *Response) Status() int { return res.status }

// Header returns the headers chosen by Build.
func (res *Response) Header() http.Header { return res.header }

// Body returns the body produced by Build.
func (res *Response) Body() []byte { return res.body }

// Build computes the page object and the transport fields. It runs once;
// later calls return the first result.
func (res *Response) Build() error {
	if res.built {
		return res.err
	}
	res.built = true
	res.err = res.build()
	return res.err
}

func (res *Response) build() error {
	r := res.req
	ctx := r.Context()
	rc := requestContext(r)
	sess := rc.Session()
	logger := res.in.logger

	url := r.URL.RequestURI()
	version, hasVersion := res.in.versioner.Version()
	if !hasVersion {
		version = ""
	}

	merged := res.in.SharedProps()
	maps.Copy(merged, rc.SharedProps())
	maps.Copy(merged, res.props)

	v := newVisit(r, res.component)
	deferred := buildDeferredMeta(merged, v)
	once := buildOnceMeta(merged, v)
	merge := buildMergeMeta(merged, v)

	props, err := mergeFlashed(filterProps(merged, v), sess, v.errorBag)
	if err != nil {
		return err
	}
	resolved, err := resolveMap(ctx, props)
	if err != nil {
		return fmt.Errorf("resolve props: %w", err)
	}
	page := newPage(res.component, normalizeMap(resolved), url, version, once, merge, deferred)

	flash, err := sess.All()
	if err != nil {
		return fmt.Errorf("read flash: %w", err)
	}
	if len(flash) > 0 {
		page.Flash = normalizeMap(flash)
	}
	if err := sess.Clear(); err != nil {
		return fmt.Errorf("clear flash: %w", err)
	}

	if r.Method == http.MethodGet {
		if err := sess.SetPreviousURL(url); err != nil {
			return fmt.Errorf("store previous url: %w", err)
		}
	}

	res.page = page
	res.header = make(http.Header)

	if v.inertia {
		client := ClientVersion(r)
		if r.Method == http.MethodGet && hasVersion && client != "" && client != version {
			logger.Debug("asset version mismatch",
				zap.String("component", res.component),
				zap.String("client", client),
				zap.String("server", version))
			res.mode = ModeConflict
			res.status = http.StatusConflict
			res.header.Set(HeaderLocation, url)
			return nil
		}

		body, err := json.Marshal(page)
		if err != nil {
			return fmt.Errorf("encode page: %w", err)
		}
		res.mode = ModeJSON
		res.status = http.StatusOK
		res.header.Set("Content-Type", "application/json")
		res.header.Set(HeaderInertia, "true")
		res.header.Set("Vary", "Accept")
		if hasVersion {
			res.header.Set(HeaderVersion, version)
		}
		res.body = body
		logger.Debug("built page", zap.String("component", res.component), zap.Stringer("mode", res.mode))
		return nil
	}

	var buf bytes.Buffer
	if err := res.in.root.RenderRoot(ctx, &buf, page); err != nil {
		return fmt.Errorf("render root view: %w", err)
	}
	res.mode = ModeHTML
	res.status = http.StatusOK
	res.header.Set("Content-Type", "text/html; charset=utf-8")
	res.body = buf.Bytes()
	logger.Debug("built page", zap.String("component", res.component), zap.Stringer("mode", res.mode))
	return nil
}

// ServeHTTP builds the response if needed and writes it. Build errors
// are passed to the instance's OnError.
func (res *Response) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := res.Build(); err != nil {
		res.in.OnError(w, r, err)
		return
	}
	writeReply(w, res.status, res.header, res.body)
}

// Render builds a response for component and writes it to w.
//
//	func show(w http.ResponseWriter, r *http.Request) {
//	    err := in.Render(w, r, "Users/Show", inertia.Props{
//	        "user":  user,
//	        "posts": inertia.Defer(loadPosts),
//	    })
//	}
func (in *Inertia) Render(w http.ResponseWriter, r *http.Request, component string, props Props) error {
	res := in.NewResponse(r, component, props)
	if err := res.Build(); err != nil {
		return err
	}
	res.ServeHTTP(w, r)
	return nil
}

// normalizeMap normalizes every value of m.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
