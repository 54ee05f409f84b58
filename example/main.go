// Command example serves a todo list over the inertia protocol.
//
// The frontend is expected to be built separately; every page is sent as
// a page object inside the default root view.
package main

import (
	"flag"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/inertia"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "configuration file")
	flag.Parse()

	cfg := inertia.DefaultConfig()
	cfg.Session.Secret = "example-secret-change-me"
	if *configPath != "" {
		var err error
		if cfg, err = inertia.LoadConfig(*configPath); err != nil {
			panic(err)
		}
	}

	logger, err := zap.NewDevelopment(zap.IncreaseLevel(cfg.LogLevel()))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := NewApp(NewStore(), cfg, logger)
	if err != nil {
		logger.Fatal("create app", zap.Error(err))
	}

	logger.Info("listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, app.Routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// App wires the store to inertia pages.
type App struct {
	in    *inertia.Inertia
	store *Store
}

// NewApp creates the application.
func NewApp(store *Store, cfg inertia.Config, logger *zap.Logger) (*App, error) {
	in, err := inertia.New(inertia.WithConfig(cfg), inertia.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	in.Share("app", map[string]any{"name": "Todos"})
	return &App{in: in, store: store}, nil
}

// Routes returns the application handler.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", a.in.To("/todos"))
	mux.Handle("GET /todos", a.in.Handle(a.index))
	mux.Handle("POST /todos", a.in.Handle(a.create))
	mux.Handle("GET /todos/{id}", a.in.Handle(a.show))
	mux.Handle("POST /todos/{id}/toggle", a.in.Handle(a.toggle))
	mux.Handle("DELETE /todos/{id}", a.in.Handle(a.remove))
	mux.Handle("GET /docs", inertia.Location("https://inertiajs.com"))
	return a.in.Middleware(mux)
}

func (a *App) index(r *http.Request) (http.Handler, error) {
	status := Status(r.URL.Query().Get("status"))
	return a.in.NewResponse(r, "Todos/Index", inertia.Props{
		"filter": status,
		"todos":  inertia.Merge(a.store.List(status)).MatchOn("id"),
		"tags":   inertia.Once(a.store.Tags),
		"stats":  inertia.Defer(a.store.Stats, "sidebar"),
	}), nil
}

func (a *App) show(r *http.Request) (http.Handler, error) {
	todo := a.store.Get(r.PathValue("id"))
	if todo == nil {
		return nil, inertia.ErrNotFound
	}
	return a.in.NewResponse(r, "Todos/Show", inertia.Props{
		"todo": todo,
		"related": inertia.Optional(func() []Todo {
			return a.store.List(todo.Status)
		}),
	}), nil
}

func (a *App) create(r *http.Request) (http.Handler, error) {
	if err := r.ParseForm(); err != nil {
		return nil, inertia.ErrBadRequest
	}
	title := strings.TrimSpace(r.PostForm.Get("title"))
	description := strings.TrimSpace(r.PostForm.Get("description"))

	errs := inertia.ValidationErrors{}
	if title == "" {
		errs.Add("title", "The title field is required.")
	}
	if len(title) > 80 {
		errs.Add("title", "The title may not be longer than 80 characters.")
	}
	if len(description) > 500 {
		errs.Add("description", "The description may not be longer than 500 characters.")
	}

	input := map[string]any{"title": title, "description": description}
	if out := a.in.ProcessValidation(r, errs, inertia.ErrorBag(r), input); out.ShouldRespond() {
		return out, nil
	}

	var tags []string
	for _, tag := range strings.Split(r.PostForm.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	id := a.store.Add(title, description, tags)
	if err := inertia.Flash(r.Context(), "message", "Todo created."); err != nil {
		return nil, err
	}
	return a.in.To("/todos/" + id), nil
}

func (a *App) toggle(r *http.Request) (http.Handler, error) {
	if !a.store.Toggle(r.PathValue("id")) {
		return nil, inertia.ErrNotFound
	}
	return a.in.Back().With("message", "Todo updated."), nil
}

func (a *App) remove(r *http.Request) (http.Handler, error) {
	if !a.store.Delete(r.PathValue("id")) {
		return nil, inertia.ErrNotFound
	}
	return a.in.To("/todos").With("message", "Todo deleted."), nil
}
