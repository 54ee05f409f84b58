// Package inertia implements the server side of the Inertia.js protocol
// for net/http applications.
//
// A handler renders a page component with props. The first visit gets an
// HTML document embedding the page object; later visits from the client
// get the page object as JSON, and the client swaps the component
// without a full reload.
//
//	in, err := inertia.New(inertia.WithConfig(cfg))
//
//	mux.Handle("GET /users", in.Handle(func(r *http.Request) (http.Handler, error) {
//	    return in.NewResponse(r, "Users/Index", inertia.Props{
//	        "users": users,
//	    }), nil
//	}))
//	http.ListenAndServe(":8080", in.Middleware(mux))
//
// # Props
//
// Plain values are always sent. Wrappers change when and how a prop is
// sent:
//   - Optional: only on partial reloads that ask for it
//   - Always: even when a partial reload excludes it
//   - Defer: skipped on the first load and fetched by the client in a
//     follow-up partial reload, grouped by name
//   - Merge / DeepMerge: merged into the client's current value instead of
//     replacing it
//   - Once: resolved once and cached by the client, optionally with a TTL
//
// Values may be lazy: any func with no arguments (or a context.Context)
// returning a value, or a value and an error, is called only if the prop
// is sent. Host types can implement Exporter to control their encoding.
//
// # Request scope
//
// Middleware installs a RequestContext on each request. It carries props
// shared with every response of the request (Share) and the Session that
// holds flashed data and the previous URL. With Config.Session.Secret set
// the session is a signed cookie from package lib/session.
//
// # Validation
//
// ProcessValidation turns validation errors into the right response:
// precognition probes get 204 or 422, and failed submissions redirect
// back with the errors and input flashed for the next page.
package inertia
