package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	projectsFile = "projects.yaml"
	articlesDir  = "articles"

	formatMarkdown = "markdown"
	formatHTML     = "html"
)

//go:embed content
var embedded embed.FS

// Embedded returns the catalog content compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}

// LoadEmbedded loads the catalog compiled into the binary.
func LoadEmbedded() (*Store, error) {
	return Load(Embedded())
}

type projectDoc struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Category     string   `yaml:"category"`
	Summary      string   `yaml:"summary"`
	Description  string   `yaml:"description"`
	Format       string   `yaml:"format"`
	Organization string   `yaml:"organization"`
	Completed    string   `yaml:"completed"`
	Duration     string   `yaml:"duration"`
	Technologies []string `yaml:"technologies"`
	Features     []string `yaml:"features"`
	Challenges   []string `yaml:"challenges"`
	Results      []string `yaml:"results"`
	Links        struct {
		Live     string `yaml:"live"`
		Source   string `yaml:"source"`
		Document string `yaml:"document"`
		Video    string `yaml:"video"`
	} `yaml:"links"`
}

type articleFrontMatter struct {
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Published string `yaml:"published"`
	ReadTime  string `yaml:"read_time"`
	Abstract  string `yaml:"abstract"`
	Author    string `yaml:"author"`
}

// Load reads projects.yaml and articles/*.md from fsys. Either part may be absent.
func Load(fsys fs.FS) (*Store, error) {
	md := newMarkdown()

	projects, err := loadProjects(fsys, md)
	if err != nil {
		return nil, err
	}
	articles, err := loadArticles(fsys, md)
	if err != nil {
		return nil, err
	}
	return NewStore(projects, articles)
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Raw HTML passes through here and is sanitized by the detail renderer.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
}

func loadProjects(fsys fs.FS, md goldmark.Markdown) ([]Project, error) {
	raw, err := fs.ReadFile(fsys, projectsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", projectsFile, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var docs []projectDoc
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", projectsFile, err)
	}

	out := make([]Project, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.project(md)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d projectDoc) project(md goldmark.Markdown) (Project, error) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return Project{}, fmt.Errorf("%w: project without id (title %q)", ErrInvalidRecord, d.Title)
	}
	if strings.TrimSpace(d.Title) == "" {
		return Project{}, fmt.Errorf("%w: project %q: title is required", ErrInvalidRecord, id)
	}
	category, err := parseCategory(d.Category, ProjectCategories)
	if err != nil {
		return Project{}, fmt.Errorf("project %q: %w", id, err)
	}
	desc, err := richText(md, d.Description, d.Format)
	if err != nil {
		return Project{}, fmt.Errorf("project %q: %w", id, err)
	}
	return Project{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		Category:     category,
		Summary:      strings.TrimSpace(d.Summary),
		Description:  desc,
		Organization: strings.TrimSpace(d.Organization),
		Completed:    strings.TrimSpace(d.Completed),
		Duration:     strings.TrimSpace(d.Duration),
		Technologies: trimAll(d.Technologies),
		Features:     trimAll(d.Features),
		Challenges:   trimAll(d.Challenges),
		Results:      trimAll(d.Results),
		Links: Links{
			Live:     strings.TrimSpace(d.Links.Live),
			Source:   strings.TrimSpace(d.Links.Source),
			Document: strings.TrimSpace(d.Links.Document),
			Video:    strings.TrimSpace(d.Links.Video),
		},
	}, nil
}

func loadArticles(fsys fs.FS, md goldmark.Markdown) ([]Article, error) {
	entries, err := fs.ReadDir(fsys, articlesDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", articlesDir, err)
	}

	var out []Article
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		a, err := loadArticle(fsys, md, path.Join(articlesDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func loadArticle(fsys fs.FS, md goldmark.Markdown, name string) (Article, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Article{}, fmt.Errorf("read %s: %w", name, err)
	}
	var fm articleFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Article{}, fmt.Errorf("parse front matter %s: %w", name, err)
	}

	id := strings.TrimSuffix(path.Base(name), path.Ext(name))
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = titleFromID(id)
	}
	category, err := parseCategory(fm.Category, ArticleCategories)
	if err != nil {
		return Article{}, fmt.Errorf("article %q: %w", id, err)
	}
	content, err := richText(md, string(body), formatMarkdown)
	if err != nil {
		return Article{}, fmt.Errorf("article %q: %w", id, err)
	}
	return Article{
		ID:        id,
		Title:     title,
		Category:  category,
		Published: strings.TrimSpace(fm.Published),
		ReadTime:  strings.TrimSpace(fm.ReadTime),
		Abstract:  strings.TrimSpace(fm.Abstract),
		Content:   content,
		Author:    strings.TrimSpace(fm.Author),
	}, nil
}

func parseCategory(raw string, allowed []Category) (Category, error) {
	c := Category(strings.TrimSpace(raw))
	if !slices.Contains(allowed, c) {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, raw)
	}
	return c, nil
}

func richText(md goldmark.Markdown, src, format string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatMarkdown:
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			return "", fmt.Errorf("convert markdown: %w", err)
		}
		return template.HTML(buf.String()), nil
	case formatHTML:
		return template.HTML(src), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidRecord, format)
	}
}

// titleFromID turns "ml-physical-design" into "Ml Physical Design".
func titleFromID(id string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return cases.Title(language.English).String(s)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
