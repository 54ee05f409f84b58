package inertia

import (
	"errors"
	"net/http"
)

// Sentinel errors for handlers and the response lifecycle.
var (
	ErrNotFound   = errors.New("inertia: resource not found")
	ErrForbidden  = errors.New("inertia: access denied")
	ErrBadRequest = errors.New("inertia: bad request")

	// ErrAlreadyBuilt is the panic value raised when a built response is
	// reconfigured. It signals a bug in the caller, not a runtime failure.
	ErrAlreadyBuilt = errors.New("inertia: response has already been built")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusError attaches an explicit HTTP status to an error.
type StatusError struct {
	Code int
	Err  error
}

// NewStatusError wraps err with code.
func NewStatusError(code int, err error) *StatusError {
	return &StatusError{Code: code, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusFromError maps err to the HTTP status of the error page.
func StatusFromError(err error) int {
	var se *StatusError
	if errors.As(err, &se) && se.Code != 0 {
		return se.Code
	}
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
