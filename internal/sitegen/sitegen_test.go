package sitegen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/circuitfolio/folio/internal/catalog"
)

func embeddedStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return store
}

func render(t *testing.T, b *Builder) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, b.RenderIndex(&buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func attrs(sel *goquery.Selection, name string) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(name)
		out = append(out, v)
	})
	return out
}

func TestRenderIndexGallery(t *testing.T) {
	t.Parallel()

	doc := render(t, New(Options{SiteTitle: "Portfolio"}, embeddedStore(t), nil))

	require.Equal(t, "Portfolio", doc.Find("title").Text())
	require.Equal(t, []string{"all", "Design", "University"}, attrs(doc.Find(".filter-btn"), "data-filter"))
	require.Equal(t, "All", doc.Find(".filter-btn.active").Text())
	require.Equal(t, 1, doc.Find(".filter-btn.active").Length())

	require.Equal(t,
		[]string{"Ibex", "A2O", "Boom", "Bandpass", "HydrodynamicFocusing"},
		attrs(doc.Find(".work-item .view-details"), "data-project"))
	require.Equal(t,
		[]string{"Design", "Design", "Design", "University", "University"},
		attrs(doc.Find(".work-item"), "data-category"))
	doc.Find(".work-item").Each(func(_ int, s *goquery.Selection) {
		require.LessOrEqual(t, s.Find(".work-tags span").Length(), 3)
	})

	require.Equal(t, 1, doc.Find("#projectModal .modal-body").Length())
	require.Equal(t, "display: none;", doc.Find("#projectModal").AttrOr("style", ""))
	require.Equal(t, 1, doc.Find("#menu-icon").Length())
	require.Equal(t, "folio.wasm", doc.Find("script[data-wasm]").AttrOr("data-wasm", ""))
}

func TestRenderIndexBlogNewestFirst(t *testing.T) {
	t.Parallel()

	doc := render(t, New(Options{}, embeddedStore(t), nil))

	require.Equal(t,
		[]string{"ns-sar-adc", "gan-power-devices", "ml-physical-design", "power-gating-techniques"},
		attrs(doc.Find(".blog-card .read-more"), "data-post"))
	require.Equal(t, "all", doc.Find(".blog-filter-btn.active").AttrOr("data-filter", ""))
	require.Equal(t, 4, doc.Find(".blog-filter-btn").Length())
	require.Equal(t, 1, doc.Find("#blogModal .blog-modal-body").Length())
}

func TestRenderIndexWithoutArticles(t *testing.T) {
	t.Parallel()

	store, err := catalog.NewStore([]catalog.Project{{ID: "p", Title: "P", Category: catalog.CategoryDesign}}, nil)
	require.NoError(t, err)

	doc := render(t, New(Options{}, store, nil))
	require.Zero(t, doc.Find("#blog").Length())
	require.Zero(t, doc.Find("#blogModal").Length())
	require.Equal(t, 1, doc.Find(".work-item").Length())
}

func TestSortNewestFirst(t *testing.T) {
	t.Parallel()

	articles := []catalog.Article{
		{ID: "undated-1", Published: "soon"},
		{ID: "old", Published: "January 5, 2023"},
		{ID: "undated-2"},
		{ID: "new", Published: "March 1, 2024"},
	}
	sortNewestFirst(articles)

	var ids []string
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	require.Equal(t, []string{"new", "old", "undated-1", "undated-2"}, ids)
}

func TestRenderIndexDeterministic(t *testing.T) {
	t.Parallel()

	b := New(Options{SiteTitle: "x"}, embeddedStore(t), nil)
	var first, second bytes.Buffer
	require.NoError(t, b.RenderIndex(&first))
	require.NoError(t, b.RenderIndex(&second))
	require.Equal(t, first.String(), second.String())
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out := filepath.Join(root, "public")
	static := filepath.Join(root, "static")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "documents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "documents", "ibex.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "folio.wasm"), []byte("\x00asm"), 0o644))
	loader := filepath.Join(root, "wasm_exec.js")
	require.NoError(t, os.WriteFile(loader, []byte("// loader"), 0o644))

	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644))

	b := New(Options{OutputDir: out, StaticDir: static, WasmExec: loader}, embeddedStore(t), nil)
	require.NoError(t, b.Build(context.Background()))

	for _, name := range []string{"index.html", "css/style.css", "js/boot.js", "js/wasm_exec.js", "documents/ibex.pdf", "folio.wasm"} {
		require.FileExists(t, filepath.Join(out, filepath.FromSlash(name)))
	}
	require.NoFileExists(t, filepath.Join(out, "stale.html"))
}

func TestBuildRequiresOutputDir(t *testing.T) {
	t.Parallel()
	require.Error(t, New(Options{}, nil, nil).Build(context.Background()))
}

func TestBuildCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(Options{OutputDir: t.TempDir()}, nil, nil).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
