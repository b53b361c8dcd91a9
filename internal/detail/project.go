package detail

import (
	"fmt"
	"html/template"

	"github.com/circuitfolio/folio/internal/catalog"
)

// Link kinds, in the order they appear in the actions block.
const (
	LinkLive     = "live"
	LinkSource   = "source"
	LinkDocument = "document"
	LinkVideo    = "video"
)

type metaCard struct {
	Icon, Label, Value string
}

type action struct {
	Kind, Href, Class, Icon, Label string
}

type projectView struct {
	ID           string
	Category     catalog.Category
	Title        string
	Meta         []metaCard
	Description  template.HTML
	Features     []string
	Technologies []string
	Challenges   []string
	Results      []string
	Actions      []action
}

// ProjectRenderer renders projects from a catalog source.
type ProjectRenderer struct {
	src  catalog.Source[catalog.Project]
	opts options
}

// NewProjectRenderer binds a renderer to src.
func NewProjectRenderer(src catalog.Source[catalog.Project], opts ...Option) *ProjectRenderer {
	return &ProjectRenderer{src: src, opts: newOptions(opts)}
}

// Render implements Renderer.
func (r *ProjectRenderer) Render(id string) (Fragment, error) {
	p, err := catalog.Lookup(r.src, id)
	if err != nil {
		return Fragment{}, err
	}
	view := projectView{
		ID:       p.ID,
		Category: p.Category,
		Title:    p.Title,
		Meta: []metaCard{
			{Icon: "bx-building", Label: "Organization", Value: p.Organization},
			{Icon: "bx-calendar", Label: "Completed", Value: p.Completed},
			{Icon: "bx-time", Label: "Duration", Value: p.Duration},
		},
		Description:  r.opts.sanitize(p.Description),
		Features:     p.Features,
		Technologies: p.Technologies,
		Challenges:   p.Challenges,
		Results:      p.Results,
		Actions:      actions(p.Links),
	}
	markup, err := execute("project", view)
	if err != nil {
		return Fragment{}, fmt.Errorf("project %q: %w", id, err)
	}
	return Fragment{Kind: p.Kind(), ID: p.ID, HTML: markup}, nil
}

// actions lists one link per non-empty link field.
func actions(l catalog.Links) []action {
	candidates := []action{
		{Kind: LinkLive, Href: l.Live, Class: "btn-primary", Icon: "bx-link-external", Label: "Live Demo"},
		{Kind: LinkSource, Href: l.Source, Class: "btn-secondary", Icon: "bx-code", Label: "Source Code"},
		{Kind: LinkDocument, Href: l.Document, Class: "btn-pdf", Icon: "bxs-file-pdf", Label: "Project Report"},
		{Kind: LinkVideo, Href: l.Video, Class: "btn-video", Icon: "bx-video", Label: "Video"},
	}
	out := make([]action, 0, len(candidates))
	for _, a := range candidates {
		if a.Href != "" {
			out = append(out, a)
		}
	}
	return out
}
