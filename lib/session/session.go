// Package session provides a signed cookie session that backs the
// flash channel and previous-URL history of inertia responses.
//
// A Session holds persistent values and one-shot flash values. Flash
// values written during a request are readable during that request and
// the next one, then dropped; this is what carries validation errors and
// old input across a redirect.
//
//	store, _ := session.NewStore(secret, session.Options{})
//	handler := store.Middleware(app)
package session

import (
	"fmt"
	"maps"

	"github.com/vmihailenco/msgpack/v5"
)

// Keys used by inertia inside the session.
const (
	KeyErrors      = "inertia.errors"
	KeyOldInput    = "_old_input"
	KeyFlashData   = "inertia.flash_data"
	KeyPreviousURL = "_previous.url"
)

// Session is the state of one request. It is not safe for concurrent
// use.
type Session struct {
	values   map[string]any
	incoming map[string]any
	outgoing map[string]any
	dirty    bool
}

// New returns an empty session.
func New() *Session {
	return &Session{
		values:   make(map[string]any),
		incoming: make(map[string]any),
		outgoing: make(map[string]any),
	}
}

// Get returns a persistent value.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a persistent value. The value must be msgpack-encodable.
func (s *Session) Set(key string, value any) error {
	if err := encodable(value); err != nil {
		return fmt.Errorf("session: set %q: %w", key, err)
	}
	s.values[key] = value
	s.dirty = true
	return nil
}

// Delete removes a persistent value.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// GetFlash returns a flash value written by this or the previous
// request.
func (s *Session) GetFlash(key string) (any, bool) {
	if v, ok := s.outgoing[key]; ok {
		return v, true
	}
	v, ok := s.incoming[key]
	return v, ok
}

// SetFlash stores a value for the next request.
func (s *Session) SetFlash(key string, value any) error {
	if err := encodable(value); err != nil {
		return fmt.Errorf("session: flash %q: %w", key, err)
	}
	s.outgoing[key] = value
	s.dirty = true
	return nil
}

// All returns the page flash bundle.
func (s *Session) All() (map[string]any, error) {
	v, _ := s.Get(KeyFlashData)
	m, _ := v.(map[string]any)
	return maps.Clone(m), nil
}

// Clear empties the page flash bundle.
func (s *Session) Clear() error {
	s.Delete(KeyFlashData)
	return nil
}

// Put adds a value to the page flash bundle.
func (s *Session) Put(key string, value any) error {
	bundle, _ := s.All()
	if bundle == nil {
		bundle = make(map[string]any)
	}
	bundle[key] = value
	return s.Set(KeyFlashData, bundle)
}

// PutRaw stores a one-shot flash value under key.
func (s *Session) PutRaw(key string, value any) error {
	return s.SetFlash(key, value)
}

// Raw returns the flash value under key, or nil.
func (s *Session) Raw(key string) (any, error) {
	v, _ := s.GetFlash(key)
	return v, nil
}

// SetPreviousURL remembers url as the fallback target of back redirects.
func (s *Session) SetPreviousURL(url string) error {
	return s.Set(KeyPreviousURL, url)
}

// PreviousURL returns the remembered URL, or empty string.
func (s *Session) PreviousURL() (string, error) {
	v, _ := s.Get(KeyPreviousURL)
	url, _ := v.(string)
	return url, nil
}

// Dirty reports whether the session must be written back. Consumed
// incoming flash values also require a write so they are not replayed.
func (s *Session) Dirty() bool {
	return s.dirty || len(s.incoming) > 0
}

func encodable(value any) error {
	_, err := msgpack.Marshal(value)
	return err
}

// payload is the sealed cookie content.
type payload struct {
	Values map[string]any `msgpack:"v,omitempty"`
	Flash  map[string]any `msgpack:"f,omitempty"`
}

func (s *Session) payload() payload {
	return payload{Values: s.values, Flash: s.outgoing}
}

func fromPayload(p payload) *Session {
	s := New()
	if p.Values != nil {
		s.values = p.Values
	}
	if p.Flash != nil {
		s.incoming = p.Flash
	}
	return s
}
