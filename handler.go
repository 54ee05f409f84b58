package inertia

import (
	"net/http"

	"go.uber.org/zap"
)

// HandlerFunc is a page handler. It returns the response to serve (a
// Response, Redirect, Outcome or any other http.Handler) or an error for
// OnError.
type HandlerFunc func(r *http.Request) (http.Handler, error)

// Handle adapts fn to http.Handler.
//
//	mux.Handle("GET /users/{id}", in.Handle(func(r *http.Request) (http.Handler, error) {
//	    user, err := users.Find(r.PathValue("id"))
//	    if err != nil {
//	        return nil, inertia.ErrNotFound
//	    }
//	    return in.NewResponse(r, "Users/Show", inertia.Props{"user": user}), nil
//	}))
func (in *Inertia) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := fn(r)
		if err != nil {
			in.OnError(w, r, err)
			return
		}
		if h == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// renderError is the default OnError. With Config.RenderErrors it renders
// Config.ErrorComponent with a status prop; otherwise it writes a plain
// text error.
func (in *Inertia) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		in.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		in.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	if !in.cfg.RenderErrors {
		http.Error(w, http.StatusText(status), status)
		return
	}

	res := in.NewResponse(r, in.cfg.ErrorComponent, Props{"status": status})
	if buildErr := res.Build(); buildErr != nil {
		in.logger.Error("error page failed", zap.Error(buildErr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if res.Mode() == ModeConflict {
		writeReply(w, res.Status(), res.Header(), res.Body())
		return
	}
	writeReply(w, status, res.Header(), res.Body())
}
