package session

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pthm/inertia/lib/encoding"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	Path       string
	MaxAge     int
	Secure     bool
	SameSite   http.SameSite
	// Encrypt makes the cookie opaque instead of only signed.
	Encrypt bool
	Logger  *zap.Logger
}

// Store loads and saves sessions in a sealed cookie.
type Store struct {
	codec  *encoding.Codec
	opts   Options
	logger *zap.Logger
}

// NewStore creates a cookie store sealing with secret.
func NewStore(secret []byte, opts Options) (*Store, error) {
	if len(secret) == 0 {
		return nil, errors.New("session: empty secret")
	}
	codec, err := encoding.NewCodec(secret)
	if err != nil {
		return nil, err
	}
	if opts.CookieName == "" {
		opts.CookieName = "inertia_session"
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{codec: codec, opts: opts, logger: logger}, nil
}

// Load reads the session from r. A missing, tampered or undecodable
// cookie yields an empty session.
func (st *Store) Load(r *http.Request) *Session {
	c, err := r.Cookie(st.opts.CookieName)
	if err != nil || c.Value == "" {
		return New()
	}
	var p payload
	if err := st.codec.Open(c.Value, st.opts.Encrypt, &p); err != nil {
		st.logger.Warn("discarding unreadable session cookie", zap.Error(err))
		return New()
	}
	return fromPayload(p)
}

// Save writes s to w as a cookie. It must be called before the response
// header is written.
func (st *Store) Save(w http.ResponseWriter, s *Session) error {
	sealed, err := st.codec.Seal(s.payload(), st.opts.Encrypt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     st.opts.CookieName,
		Value:    sealed,
		Path:     st.opts.Path,
		MaxAge:   st.opts.MaxAge,
		Secure:   st.opts.Secure,
		HttpOnly: true,
		SameSite: st.opts.SameSite,
	})
	return nil
}

// Middleware loads the session for each request, stores it in the
// request context and saves it just before the response header is
// written.
func (st *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := st.Load(r)
		sw := &saveWriter{ResponseWriter: w, store: st, session: s}
		next.ServeHTTP(sw, r.WithContext(NewContext(r.Context(), s)))
		sw.save()
	})
}

type saveWriter struct {
	http.ResponseWriter
	store   *Store
	session *Session
	saved   bool
}

func (w *saveWriter) save() {
	if w.saved {
		return
	}
	w.saved = true
	if !w.session.Dirty() {
		return
	}
	if err := w.store.Save(w.ResponseWriter, w.session); err != nil {
		w.store.logger.Error("failed to save session", zap.Error(err))
	}
}

func (w *saveWriter) WriteHeader(code int) {
	w.save()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *saveWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
