// Package inertiaecho provides Echo framework integration for inertia.
//
// Install the middleware once, then render pages from Echo handlers:
//
//	in := inertia.MustNew(inertia.WithConfig(cfg))
//	e := echo.New()
//	e.Use(inertiaecho.Middleware(in))
//
//	e.GET("/users", func(c echo.Context) error {
//	    return inertiaecho.Render(c, in, "Users/Index", inertia.Props{"users": users})
//	})
package inertiaecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pthm/inertia"
)

// Middleware installs the request scope of in, and its cookie session when
// one is configured, on every request.
func Middleware(in *inertia.Inertia) echo.MiddlewareFunc {
	return echo.WrapMiddleware(in.Middleware)
}

// Render writes component with props to the Echo response. Build errors
// are returned to Echo's error handler.
func Render(c echo.Context, in *inertia.Inertia, component string, props inertia.Props) error {
	return in.Render(c.Response(), c.Request(), component, props)
}

// Serve writes any inertia handler, such as a redirect or a Location, to
// the Echo response.
//
//	return inertiaecho.Serve(c, in.Back().With("status", "saved"))
func Serve(c echo.Context, h http.Handler) error {
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}

// Share adds a request-scoped shared prop.
func Share(c echo.Context, key string, value any) {
	inertia.Share(c.Request().Context(), key, value)
}

// Validate runs the validation flow for a submission. It reports whether
// a response was written; handlers return early when it was.
//
//	if done, err := inertiaecho.Validate(c, in, errs, "", input); done {
//	    return err
//	}
func Validate(c echo.Context, in *inertia.Inertia, errs inertia.ValidationErrors, bag string, input map[string]any) (bool, error) {
	out := in.ProcessValidation(c.Request(), errs, bag, input)
	if !out.ShouldRespond() {
		return false, nil
	}
	return true, Serve(c, out)
}

// ErrorHandler returns an Echo HTTPErrorHandler that reports errors
// through in.OnError. Echo's own HTTPErrors keep their status code.
func ErrorHandler(in *inertia.Inertia) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			err = inertia.NewStatusError(he.Code, he)
		}
		in.OnError(c.Response(), c.Request(), err)
	}
}
