package inertia

import "net/http"

// Outcome is returned by steps that may take over the response, such as
// ProcessValidation. It either lets the caller continue or carries the
// handler that must be served instead.
//
//	if out := in.ProcessValidation(r, errs, "", input); out.ShouldRespond() {
//	    out.ServeHTTP(w, r)
//	    return
//	}
//
// Taking over is not an error; callers branch on ShouldRespond.
type Outcome struct {
	handler http.Handler
}

// Continue creates an outcome that lets normal processing go on.
func Continue() Outcome {
	return Outcome{}
}

// RespondWith creates an outcome that replaces normal processing with h.
func RespondWith(h http.Handler) Outcome {
	return Outcome{handler: h}
}

// ShouldRespond reports whether the caller must serve Handler and stop.
func (o Outcome) ShouldRespond() bool {
	return o.handler != nil
}

// Handler returns the response to send, or nil for Continue.
func (o Outcome) Handler() http.Handler {
	return o.handler
}

// ServeHTTP serves the carried handler. It is a no-op for Continue.
func (o Outcome) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if o.handler != nil {
		o.handler.ServeHTTP(w, r)
	}
}
