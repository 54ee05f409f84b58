package inertiaecho

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/inertia"
)

func newEcho(t *testing.T, in *inertia.Inertia) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(in)
	e.Use(Middleware(in))

	e.GET("/users", func(c echo.Context) error {
		Share(c, "app", "demo")
		return Render(c, in, "Users/Index", inertia.Props{"users": []string{"ada"}})
	})
	e.POST("/users", func(c echo.Context) error {
		errs := inertia.ValidationErrors{}
		if c.FormValue("name") == "" {
			errs.Add("name", "The name field is required.")
		}
		if done, err := Validate(c, in, errs, "", map[string]any{"name": c.FormValue("name")}); done {
			return err
		}
		return Serve(c, in.To("/users"))
	})
	e.GET("/missing", func(c echo.Context) error {
		return inertia.ErrNotFound
	})
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRender(t *testing.T) {
	in := inertia.MustNew(inertia.WithVersioner(inertia.StaticVersion("1")))
	e := newEcho(t, in)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(inertia.HeaderInertia, "true")
	rec := serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page inertia.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Users/Index", page.Component)
	assert.Equal(t, "demo", page.Props["app"])
	assert.Equal(t, []any{"ada"}, page.Props["users"])
}

func TestRenderHTML(t *testing.T) {
	in := inertia.MustNew()
	e := newEcho(t, in)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "data-page=")
}

func TestValidateAndRedirect(t *testing.T) {
	in := inertia.MustNew()
	e := newEcho(t, in)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "/users/new")
		req.Header.Set(inertia.HeaderInertia, "true")
		return serve(e, req)
	}

	rec := post("name=")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users/new", rec.Header().Get("Location"))

	rec = post("name=ada")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))
}

func TestValidatePrecognition(t *testing.T) {
	in := inertia.MustNew()
	e := newEcho(t, in)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("name="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(inertia.HeaderPrecognition, "true")
	rec := serve(e, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(inertia.HeaderPrecognition))
	assert.Contains(t, rec.Body.String(), "The name field is required.")
}

func TestErrorHandler(t *testing.T) {
	in := inertia.MustNew()
	e := newEcho(t, in)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/users", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorHandlerRendersErrorPage(t *testing.T) {
	cfg := inertia.DefaultConfig()
	cfg.RenderErrors = true
	in := inertia.MustNew(inertia.WithConfig(cfg))
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(in)
	e.Use(Middleware(in))
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(inertia.HeaderInertia, "true")
	rec := serve(e, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var page inertia.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "Error", page.Component)
	assert.Equal(t, float64(500), page.Props["status"])
}
