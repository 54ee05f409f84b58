package inertia

import (
	"fmt"
	"maps"
	"net/http"

	"go.uber.org/zap"
)

// Redirect is a 303 redirect that flashes data into the session when it
// is served.
//
//	return in.Back().With("success", "Saved"), nil
//	return in.To("/users").Status(http.StatusFound), nil
type Redirect struct {
	in     *Inertia
	target string
	back   bool
	status int
	flash  map[string]any
	raw    map[string]any
}

// To creates a redirect to url.
func (in *Inertia) To(url string) *Redirect {
	return &Redirect{in: in, target: url, status: http.StatusSeeOther}
}

// Back creates a redirect to the previous page: the Referer of the
// request, else the last GET URL remembered by the session, else
// Config.BaseURL.
func (in *Inertia) Back() *Redirect {
	return &Redirect{in: in, back: true, status: http.StatusSeeOther}
}

// Status overrides the redirect status.
func (rd *Redirect) Status(code int) *Redirect {
	rd.status = code
	return rd
}

// With adds a value to the page flash bundle of the next response.
func (rd *Redirect) With(key string, value any) *Redirect {
	if rd.flash == nil {
		rd.flash = make(map[string]any)
	}
	rd.flash[key] = value
	return rd
}

// WithMap adds several values to the page flash bundle.
func (rd *Redirect) WithMap(values map[string]any) *Redirect {
	for k, v := range values {
		rd.With(k, v)
	}
	return rd
}

// WithInput flashes the submitted input so the next page can refill its
// form from props.old.
func (rd *Redirect) WithInput(input map[string]any) *Redirect {
	return rd.FlashRaw(SessionOldInput, maps.Clone(input))
}

// FlashRaw stores value as a plain session flash under key.
func (rd *Redirect) FlashRaw(key string, value any) *Redirect {
	if rd.raw == nil {
		rd.raw = make(map[string]any)
	}
	rd.raw[key] = value
	return rd
}

// ServeHTTP writes the flashes to the request session and redirects.
// Session failures go to OnError.
func (rd *Redirect) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := requestContext(r).Session()
	target, err := rd.resolve(r, sess)
	if err == nil {
		err = rd.apply(sess)
	}
	if err != nil {
		rd.in.logger.Error("redirect failed", zap.String("target", target), zap.Error(err))
		rd.in.OnError(w, r, err)
		return
	}
	w.Header().Set("Location", target)
	w.WriteHeader(rd.status)
}

func (rd *Redirect) resolve(r *http.Request, history HistoryStore) (string, error) {
	if !rd.back {
		return rd.target, nil
	}
	if ref := r.Referer(); ref != "" {
		return ref, nil
	}
	prev, err := history.PreviousURL()
	if err != nil {
		return "", fmt.Errorf("read previous url: %w", err)
	}
	if prev != "" {
		return prev, nil
	}
	if base := rd.in.cfg.BaseURL; base != "" {
		return base, nil
	}
	return "/", nil
}

func (rd *Redirect) apply(flash FlashChannel) error {
	for _, k := range sortedKeys(rd.flash) {
		if err := flash.Put(k, rd.flash[k]); err != nil {
			return fmt.Errorf("flash %q: %w", k, err)
		}
	}
	for _, k := range sortedKeys(rd.raw) {
		if err := flash.PutRaw(k, rd.raw[k]); err != nil {
			return fmt.Errorf("flash %q: %w", k, err)
		}
	}
	return nil
}

// Location redirects to an external url. Protocol visits get a 409 with
// the location header so the client performs a full page navigation;
// other requests get an ordinary 302.
func Location(url string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsInertia(r) {
			w.Header().Set(HeaderLocation, url)
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.Header().Set("Location", url)
		w.WriteHeader(http.StatusFound)
	})
}
