package inertia

import (
	"fmt"
	"maps"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/pthm/inertia/lib/session"
)

var _ Session = (*session.Session)(nil)

// Inertia holds the process-wide protocol settings: the root view, the
// asset versioner, default shared props and the session source. It is
// safe for concurrent use.
type Inertia struct {
	mu     sync.RWMutex
	shared Props

	cfg       Config
	versioner Versioner
	root      RootRenderer
	logger    *zap.Logger
	sessions  func(*http.Request) Session
	store     *session.Store

	// OnError is called by Handle when a handler returns an error.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// Option configures an Inertia instance.
type Option func(*Inertia) error

// WithConfig replaces the configuration.
func WithConfig(cfg Config) Option {
	return func(in *Inertia) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		in.cfg = cfg
		return nil
	}
}

// WithVersioner sets the asset version source, overriding Config.Version
// and Config.ManifestPath.
func WithVersioner(v Versioner) Option {
	return func(in *Inertia) error {
		in.versioner = v
		return nil
	}
}

// WithRoot sets the HTML shell renderer, overriding Config.RootView.
func WithRoot(root RootRenderer) Option {
	return func(in *Inertia) error {
		in.root = root
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Inertia) error {
		if logger != nil {
			in.logger = logger
		}
		return nil
	}
}

// WithSessionLoader sets how the middleware finds the session of a
// request. It takes precedence over the cookie session configured by
// Config.Session.
func WithSessionLoader(load func(*http.Request) Session) Option {
	return func(in *Inertia) error {
		in.sessions = load
		return nil
	}
}

// New creates an Inertia instance from DefaultConfig and opts.
func New(opts ...Option) (*Inertia, error) {
	in := &Inertia{
		shared: make(Props),
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(in); err != nil {
			return nil, err
		}
	}

	if in.versioner == nil {
		switch {
		case in.cfg.Version != "":
			in.versioner = StaticVersion(in.cfg.Version)
		case in.cfg.ManifestPath != "":
			in.versioner = ManifestVersion(in.cfg.ManifestPath, in.logger)
		default:
			in.versioner = StaticVersion("")
		}
	}

	if in.root == nil {
		if in.cfg.RootView != "" {
			root, err := TemplateRoot(in.cfg.RootView)
			if err != nil {
				return nil, err
			}
			in.root = root
		} else {
			in.root = DefaultRoot
		}
	}

	if in.sessions == nil && in.cfg.Session.Secret != "" {
		store, err := session.NewStore([]byte(in.cfg.Session.Secret), session.Options{
			CookieName: in.cfg.Session.CookieName,
			Encrypt:    in.cfg.Session.Encrypt,
			Logger:     in.logger.Named("session"),
		})
		if err != nil {
			return nil, fmt.Errorf("inertia: session store: %w", err)
		}
		in.store = store
	}

	in.OnError = in.renderError
	return in, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Inertia {
	in, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("inertia: %v", err))
	}
	return in
}

// Config returns the active configuration.
func (in *Inertia) Config() Config {
	return in.cfg
}

// Logger returns the instance logger.
func (in *Inertia) Logger() *zap.Logger {
	return in.logger
}

// Share registers a prop included in every response. Request-scoped
// shared props and response props override it.
func (in *Inertia) Share(key string, value any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.shared[key] = value
}

// SharedProps returns a copy of the process-wide shared props.
func (in *Inertia) SharedProps() Props {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return maps.Clone(in.shared)
}

// Middleware installs a fresh RequestContext on every request. When a
// cookie session is configured the session is loaded before next runs and
// saved before the response header is written.
func (in *Inertia) Middleware(next http.Handler) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := NewRequestContext(in.loadSession(r))
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
	if in.store != nil {
		return in.store.Middleware(inner)
	}
	return inner
}

func (in *Inertia) loadSession(r *http.Request) Session {
	if in.sessions != nil {
		return in.sessions(r)
	}
	if s := session.FromContext(r.Context()); s != nil {
		return s
	}
	return nil
}
