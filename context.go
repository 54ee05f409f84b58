package inertia

import (
	"context"
	"maps"
	"net/http"
)

type contextKey struct{}

// RequestContext carries the per-request state of the protocol: props
// shared with every response built for the request and the session the
// flash channel and history live in.
//
// It is created by Inertia.Middleware when a request arrives and dropped
// once the response is written. Nothing in it outlives the request.
type RequestContext struct {
	shared  Props
	session Session
}

// NewRequestContext creates request state over session. A nil session
// disables flash and history.
func NewRequestContext(session Session) *RequestContext {
	if session == nil {
		session = nopSession{}
	}
	return &RequestContext{shared: make(Props), session: session}
}

// Session returns the session of the request.
func (rc *RequestContext) Session() Session {
	return rc.session
}

// Share adds a prop to every response built for this request.
func (rc *RequestContext) Share(key string, value any) {
	rc.shared[key] = value
}

// SharedProps returns a copy of the props shared for this request.
func (rc *RequestContext) SharedProps() Props {
	return maps.Clone(rc.shared)
}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the request state stored in ctx, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(contextKey{}).(*RequestContext)
	return rc
}

// requestContext returns the state of r, creating an empty one for
// requests that did not pass through the middleware.
func requestContext(r *http.Request) *RequestContext {
	if rc := FromContext(r.Context()); rc != nil {
		return rc
	}
	return NewRequestContext(nil)
}

// Share adds a prop to every response built for the request carrying
// ctx. It is a no-op outside the middleware.
//
//	inertia.Share(r.Context(), "auth", inertia.Always(currentUser(r)))
func Share(ctx context.Context, key string, value any) {
	if rc := FromContext(ctx); rc != nil {
		rc.Share(key, value)
	}
}

// ShareMap adds several shared props at once.
func ShareMap(ctx context.Context, props Props) {
	if rc := FromContext(ctx); rc != nil {
		for k, v := range props {
			rc.Share(k, v)
		}
	}
}

// Flash stores a value in the page flash bundle of the next response.
func Flash(ctx context.Context, key string, value any) error {
	rc := FromContext(ctx)
	if rc == nil {
		return nil
	}
	return rc.session.Put(key, value)
}
