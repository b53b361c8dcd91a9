package detail

import (
	"fmt"
	"html/template"

	"github.com/circuitfolio/folio/internal/catalog"
)

type articleView struct {
	ID        string
	Category  catalog.Category
	Title     string
	Published string
	ReadTime  string
	Author    string
	Abstract  string
	Content   template.HTML
}

// ArticleRenderer renders blog articles from a catalog source.
type ArticleRenderer struct {
	src  catalog.Source[catalog.Article]
	opts options
}

// NewArticleRenderer binds a renderer to src.
func NewArticleRenderer(src catalog.Source[catalog.Article], opts ...Option) *ArticleRenderer {
	return &ArticleRenderer{src: src, opts: newOptions(opts)}
}

// Render implements Renderer.
func (r *ArticleRenderer) Render(id string) (Fragment, error) {
	a, err := catalog.Lookup(r.src, id)
	if err != nil {
		return Fragment{}, err
	}
	markup, err := execute("article", articleView{
		ID:        a.ID,
		Category:  a.Category,
		Title:     a.Title,
		Published: a.Published,
		ReadTime:  a.ReadTime,
		Author:    a.Author,
		Abstract:  a.Abstract,
		Content:   r.opts.sanitize(a.Content),
	})
	if err != nil {
		return Fragment{}, fmt.Errorf("article %q: %w", id, err)
	}
	return Fragment{Kind: a.Kind(), ID: a.ID, HTML: markup}, nil
}
