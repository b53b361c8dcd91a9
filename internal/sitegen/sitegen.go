// Package sitegen writes the static page shell the engine mounts onto.
package sitegen

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/circuitfolio/folio/internal/catalog"
	"github.com/circuitfolio/folio/internal/filter"
)

//go:embed layouts/*.html
var layoutFS embed.FS

//go:embed all:assets
var assetFS embed.FS

// PublishedLayout is the date format of article publication dates.
const PublishedLayout = "January 2, 2006"

const (
	indexFile  = "index.html"
	cardTags   = 3
	execScript = "js/wasm_exec.js"
)

var layouts = template.Must(template.New("site").ParseFS(layoutFS, "layouts/*.html"))

// Options configures a Builder.
type Options struct {
	SiteTitle  string
	BaseURL    string
	OutputDir  string
	StaticDir  string
	WasmBinary string
	// WasmExec is the Go runtime loader copied to js/wasm_exec.js when set.
	WasmExec string
}

// Builder renders the page shell for a catalog.
type Builder struct {
	opts  Options
	store *catalog.Store
	log   *zap.Logger
}

// New returns a Builder for store.
func New(opts Options, store *catalog.Store, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.WasmBinary == "" {
		opts.WasmBinary = "folio.wasm"
	}
	if store == nil {
		store = &catalog.Store{}
	}
	return &Builder{opts: opts, store: store, log: log}
}

type filterButton struct {
	Value  string
	Label  string
	Active bool
}

type projectCard struct {
	ID       string
	Title    string
	Category catalog.Category
	Summary  string
	Tags     []string
}

type articleCard struct {
	ID        string
	Title     string
	Category  catalog.Category
	Published string
	ReadTime  string
	Abstract  string
}

type pageData struct {
	SiteTitle      string
	BaseURL        string
	ExecScript     string
	WasmBinary     string
	ProjectFilters []filterButton
	Projects       []projectCard
	ArticleFilters []filterButton
	Articles       []articleCard
}

// RenderIndex writes index.html to w.
func (b *Builder) RenderIndex(w io.Writer) error {
	if err := layouts.ExecuteTemplate(w, "index", b.page()); err != nil {
		return fmt.Errorf("render %s: %w", indexFile, err)
	}
	return nil
}

func (b *Builder) page() pageData {
	projects := catalog.All(b.store.Projects)
	articles := catalog.All(b.store.Articles)
	sortNewestFirst(articles)

	data := pageData{
		SiteTitle:      b.opts.SiteTitle,
		BaseURL:        b.opts.BaseURL,
		ExecScript:     execScript,
		WasmBinary:     b.opts.WasmBinary,
		ProjectFilters: filterButtons(catalog.Categories(b.store.Projects, func(p catalog.Project) catalog.Category { return p.Category })),
		ArticleFilters: filterButtons(catalog.Categories(b.store.Articles, func(a catalog.Article) catalog.Category { return a.Category })),
	}
	for _, p := range projects {
		tags := p.Technologies
		if len(tags) > cardTags {
			tags = tags[:cardTags]
		}
		data.Projects = append(data.Projects, projectCard{
			ID: p.ID, Title: p.Title, Category: p.Category, Summary: p.Summary, Tags: tags,
		})
	}
	for _, a := range articles {
		data.Articles = append(data.Articles, articleCard{
			ID: a.ID, Title: a.Title, Category: a.Category,
			Published: a.Published, ReadTime: a.ReadTime, Abstract: a.Abstract,
		})
	}
	return data
}

func filterButtons(categories []catalog.Category) []filterButton {
	out := []filterButton{{
		Value:  filter.All,
		Label:  cases.Title(language.English).String(filter.All),
		Active: true,
	}}
	for _, c := range categories {
		out = append(out, filterButton{Value: string(c), Label: string(c)})
	}
	return out
}

// sortNewestFirst orders articles by publication date. Undated articles keep
// their catalog order after every dated one.
func sortNewestFirst(articles []catalog.Article) {
	slices.SortStableFunc(articles, func(a, b catalog.Article) int {
		ta, errA := time.Parse(PublishedLayout, a.Published)
		tb, errB := time.Parse(PublishedLayout, b.Published)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return tb.Compare(ta)
	})
}

// Build cleans the output directory, writes the bundled assets, copies the
// static directory over them and writes index.html.
func (b *Builder) Build(ctx context.Context) error {
	out := b.opts.OutputDir
	if out == "" {
		return fmt.Errorf("sitegen: output directory not set")
	}
	start := time.Now()

	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}

	assets, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return err
	}
	if err := copyFS(ctx, assets, out); err != nil {
		return fmt.Errorf("write bundled assets: %w", err)
	}

	if dir := b.opts.StaticDir; dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			b.log.Info("static directory not found, skipping", zap.String("dir", dir))
		} else if err := copyFS(ctx, os.DirFS(dir), out); err != nil {
			return fmt.Errorf("copy static %s: %w", dir, err)
		}
	}

	if b.opts.WasmExec != "" {
		dir, name := filepath.Split(b.opts.WasmExec)
		if err := copyFile(os.DirFS(filepath.Clean(dir)), name, filepath.Join(out, filepath.FromSlash(execScript))); err != nil {
			return fmt.Errorf("copy wasm loader: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := b.RenderIndex(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, indexFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", indexFile, err)
	}

	b.log.Info("site built",
		zap.String("output", out),
		zap.Int("bytes", buf.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// copyFS recursively copies every file of src into dst.
func copyFS(ctx context.Context, src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dstPath := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(src, path, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

func copyFile(src fs.FS, name, dstFile string) error {
	srcF, err := src.Open(name)
	if err != nil {
		return err
	}
	defer srcF.Close()

	dstF, err := os.Create(dstFile)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstF, srcF); err != nil {
		dstF.Close()
		return err
	}
	return dstF.Close()
}
