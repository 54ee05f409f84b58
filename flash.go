package inertia

import "fmt"

// Session keys shared with the session store.
const (
	// SessionErrors holds flashed validation errors, keyed by error bag.
	SessionErrors = "inertia.errors"
	// SessionOldInput holds the flashed input of a failed submission.
	SessionOldInput = "_old_input"
	// SessionFlashData is the prefix of the page flash bundle.
	SessionFlashData = "inertia.flash_data"
	// SessionPreviousURL holds the last GET URL rendered.
	SessionPreviousURL = "_previous.url"
)

// FlashChannel is the session-backed one-shot data channel.
//
// All, Clear and Put operate on the page flash bundle that is attached to
// the next page object as page.flash. PutRaw and Raw access plain
// session flash values, which survive exactly one redirect.
type FlashChannel interface {
	All() (map[string]any, error)
	Clear() error
	Put(key string, value any) error
	PutRaw(key string, value any) error
	Raw(key string) (any, error)
}

// HistoryStore remembers the last GET URL so Back can fall back to it.
type HistoryStore interface {
	SetPreviousURL(url string) error
	PreviousURL() (string, error)
}

// Session is the per-request store the builder reads and writes. Errors
// returned by a Session propagate to the caller unchanged.
type Session interface {
	FlashChannel
	HistoryStore
}

// nopSession is used when no session is attached to the request. It
// drops writes and reads nothing.
type nopSession struct{}

func (nopSession) All() (map[string]any, error) { return nil, nil }
func (nopSession) Clear() error                 { return nil }
func (nopSession) Put(string, any) error        { return nil }
func (nopSession) PutRaw(string, any) error     { return nil }
func (nopSession) Raw(string) (any, error)      { return nil, nil }
func (nopSession) SetPreviousURL(string) error  { return nil }
func (nopSession) PreviousURL() (string, error) { return "", nil }

// mergeFlashed injects flashed validation errors into props.errors and
// flashed old input into props.old.
//
// Errors are flashed per bag. For the default bag only its own entry is
// merged; for a named bag the whole bag map is merged so the client can
// address errors as errors.<bag>.<field>.
func mergeFlashed(props Props, flash FlashChannel, bag string) (Props, error) {
	raw, err := flash.Raw(SessionErrors)
	if err != nil {
		return nil, fmt.Errorf("read flashed errors: %w", err)
	}
	if errs := asMap(raw); len(errs) > 0 {
		if bag == DefaultErrorBag {
			errs = asMap(errs[DefaultErrorBag])
		}
		if len(errs) > 0 {
			props["errors"] = mergeMaps(props["errors"], errs)
		}
	}

	raw, err = flash.Raw(SessionOldInput)
	if err != nil {
		return nil, fmt.Errorf("read flashed input: %w", err)
	}
	if old := asMap(raw); len(old) > 0 {
		props["old"] = mergeMaps(props["old"], old)
	}
	return props, nil
}

// mergeMaps overlays src onto base when base is a map. Any other base is
// replaced.
func mergeMaps(base any, src map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range asMap(base) {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

// asMap converts the map shapes produced by sessions and callers into
// map[string]any. Anything else yields nil.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Props:
		return m
	case ValidationErrors:
		out := make(map[string]any, len(m))
		for k, msgs := range m {
			out[k] = msgs
		}
		return out
	case map[string][]string:
		out := make(map[string]any, len(m))
		for k, msgs := range m {
			out[k] = msgs
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if s, ok := k.(string); ok {
				out[s] = val
			}
		}
		return out
	}
	return nil
}
