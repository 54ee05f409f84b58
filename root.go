package inertia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// RootRenderer renders the HTML shell of a first page load. The shell
// must embed the page object, usually through PageElement.
type RootRenderer interface {
	RenderRoot(ctx context.Context, w io.Writer, page *Page) error
}

// TemplRoot adapts a templ layout to RootRenderer:
//
//	inertia.New(inertia.WithRoot(inertia.TemplRoot(func(page *inertia.Page) templ.Component {
//	    return layout(page)
//	})))
//
// where the layout calls @inertia.PageElement(page) where the app mounts.
type TemplRoot func(page *Page) templ.Component

// RenderRoot renders the layout for page.
func (f TemplRoot) RenderRoot(ctx context.Context, w io.Writer, page *Page) error {
	return f(page).Render(ctx, w)
}

// PageElement returns the mount element carrying the page object:
//
//	<div id="app" data-page="{...}"></div>
func PageElement(page *Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := json.Marshal(page)
		if err != nil {
			return fmt.Errorf("encode page: %w", err)
		}
		_, err = io.WriteString(w, `<div id="app" data-page="`+html.EscapeString(string(data))+`"></div>`)
		return err
	})
}

// DefaultRoot is the shell used when no root view is configured. It is a
// bare document with the mount element; real applications provide their
// own layout with asset tags.
var DefaultRoot RootRenderer = TemplRoot(func(page *Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body>\n"); err != nil {
			return err
		}
		if err := PageElement(page).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
})

// templateRoot renders an html/template root view. The template is
// executed with .Page (the page object) and .Inertia (the rendered mount
// element).
type templateRoot struct {
	tmpl *template.Template
}

// TemplateRoot parses the root view at path.
func TemplateRoot(path string) (RootRenderer, error) {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse root view: %w", err)
	}
	return &templateRoot{tmpl: tmpl}, nil
}

func (t *templateRoot) RenderRoot(ctx context.Context, w io.Writer, page *Page) error {
	var mount bytes.Buffer
	if err := PageElement(page).Render(ctx, &mount); err != nil {
		return err
	}
	return t.tmpl.Execute(w, map[string]any{
		"Page":    page,
		"Inertia": template.HTML(mount.String()),
	})
}
