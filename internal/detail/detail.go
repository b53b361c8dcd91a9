// Package detail renders catalog records into the markup shown inside an overlay.
package detail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("detail").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// Fragment is rendered detail markup for one record.
type Fragment struct {
	Kind string
	ID   string
	HTML template.HTML
}

func (f Fragment) String() string { return string(f.HTML) }

// Renderer produces the detail fragment of a record.
type Renderer interface {
	// Render returns an error wrapping catalog.ErrRecordNotFound when id is unknown.
	Render(id string) (Fragment, error)
}

// Option customises a renderer.
type Option func(*options)

type options struct {
	policy *bluemonday.Policy
}

// WithPolicy replaces the sanitizer applied to rich text blocks.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(o *options) { o.policy = p }
}

func newOptions(opts []Option) options {
	o := options{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DefaultPolicy allows user-generated-content markup plus presentation classes.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "div", "code", "pre", "figure", "figcaption")
	p.AllowElements("figure", "figcaption")
	p.RequireNoFollowOnLinks(true)
	return p
}

func (o options) sanitize(rich template.HTML) template.HTML {
	return template.HTML(o.policy.Sanitize(string(rich)))
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
