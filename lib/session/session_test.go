package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	st, err := NewStore([]byte("test-secret"), opts)
	require.NoError(t, err)
	return st
}

func TestNewStoreRequiresSecret(t *testing.T) {
	_, err := NewStore(nil, Options{})
	assert.Error(t, err)
}

func TestSessionValues(t *testing.T) {
	s := New()
	assert.False(t, s.Dirty())

	require.NoError(t, s.Set("user", "ada"))
	v, ok := s.Get("user")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)
	assert.True(t, s.Dirty())

	s.Delete("user")
	_, ok = s.Get("user")
	assert.False(t, ok)

	assert.Error(t, s.Set("fn", func() {}), "values must be encodable")
}

func TestSessionFlashBundle(t *testing.T) {
	s := New()
	require.NoError(t, s.Put("success", "Saved"))
	require.NoError(t, s.Put("count", 2))

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"success": "Saved", "count": 2}, all)

	all["extra"] = true
	again, _ := s.All()
	assert.NotContains(t, again, "extra", "All returns a copy")

	require.NoError(t, s.Clear())
	all, _ = s.All()
	assert.Empty(t, all)
}

func TestSessionRawFlash(t *testing.T) {
	s := New()
	require.NoError(t, s.PutRaw(KeyErrors, map[string]any{"default": map[string][]string{"email": {"required"}}}))

	v, err := s.Raw(KeyErrors)
	require.NoError(t, err)
	assert.NotNil(t, v, "readable in the same request")

	missing, err := s.Raw("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionPreviousURL(t *testing.T) {
	s := New()
	prev, err := s.PreviousURL()
	require.NoError(t, err)
	assert.Empty(t, prev)

	require.NoError(t, s.SetPreviousURL("/users?page=2"))
	prev, _ = s.PreviousURL()
	assert.Equal(t, "/users?page=2", prev)
}

func TestStoreRoundTrip(t *testing.T) {
	for _, encrypt := range []bool{false, true} {
		st := newTestStore(t, Options{Encrypt: encrypt})

		s := New()
		require.NoError(t, s.SetPreviousURL("/a"))
		require.NoError(t, s.SetFlash(KeyOldInput, map[string]any{"name": "Ada"}))

		rec := httptest.NewRecorder()
		require.NoError(t, st.Save(rec, s))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, "/", cookies[0].Path)

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(cookies[0])
		loaded := st.Load(req)

		prev, _ := loaded.PreviousURL()
		assert.Equal(t, "/a", prev)
		old, _ := loaded.Raw(KeyOldInput)
		assert.Equal(t, map[string]any{"name": "Ada"}, old)
		assert.True(t, loaded.Dirty(), "consumed flash must be written back")
	}
}

func TestStoreLoadRejectsTampering(t *testing.T) {
	st := newTestStore(t, Options{})
	other, err := NewStore([]byte("other-secret"), Options{})
	require.NoError(t, err)

	s := New()
	require.NoError(t, s.Set("user", "ada"))
	rec := httptest.NewRecorder()
	require.NoError(t, other.Save(rec, s))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	loaded := st.Load(req)

	_, ok := loaded.Get("user")
	assert.False(t, ok)

	garbage := httptest.NewRequest("GET", "/", nil)
	garbage.AddCookie(&http.Cookie{Name: "inertia_session", Value: "not-a-session"})
	_, ok = st.Load(garbage).Get("user")
	assert.False(t, ok)
}

func TestMiddlewareFlashLifecycle(t *testing.T) {
	st := newTestStore(t, Options{CookieName: "app"})

	write := st.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.NotNil(t, s)
		require.NoError(t, s.PutRaw("notice", "hello"))
		w.WriteHeader(http.StatusSeeOther)
	}))
	read := st.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := FromContext(r.Context()).Raw("notice")
		if v != nil {
			_, _ = w.Write([]byte(v.(string)))
		}
	}))

	rec := httptest.NewRecorder()
	write.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	first := rec.Result().Cookies()
	require.Len(t, first, 1)
	assert.Equal(t, "app", first[0].Name)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(first[0])
	rec = httptest.NewRecorder()
	read.ServeHTTP(rec, req)
	assert.Equal(t, "hello", rec.Body.String())
	second := rec.Result().Cookies()
	require.Len(t, second, 1)

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(second[0])
	rec = httptest.NewRecorder()
	read.ServeHTTP(rec, req)
	assert.Empty(t, rec.Body.String(), "flash survives exactly one request")
}

func TestMiddlewareSkipsCleanSessions(t *testing.T) {
	st := newTestStore(t, Options{})
	h := st.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Empty(t, rec.Result().Cookies())
}
