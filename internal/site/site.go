// Package site mounts the page engine onto a document.
package site

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/catalog"
	"github.com/circuitfolio/folio/internal/detail"
	"github.com/circuitfolio/folio/internal/dom"
	"github.com/circuitfolio/folio/internal/filter"
	"github.com/circuitfolio/folio/internal/nav"
	"github.com/circuitfolio/folio/internal/overlay"
)

// ErrMissingTarget reports that an element a feature needs is absent from the page.
var ErrMissingTarget = errors.New("site: missing target element")

// Overlay names double as scroll lock owners.
const (
	ProjectOverlay = "project"
	ArticleOverlay = "article"
)

// Selectors locates the elements each feature binds to.
type Selectors struct {
	ProjectButtons  string
	ProjectCards    string
	ProjectTriggers string
	ProjectIDAttr   string
	ProjectModal    string
	ProjectBody     string
	ProjectClose    string

	BlogButtons  string
	BlogCards    string
	BlogTriggers string
	BlogIDAttr   string
	BlogModal    string
	BlogBody     string
	BlogClose    string

	MenuIcon   string
	Navbar     string
	NavOverlay string
	NavLinks   string
}

// DefaultSelectors matches the markup produced by sitegen.
func DefaultSelectors() Selectors {
	return Selectors{
		ProjectButtons:  ".filter-btn",
		ProjectCards:    ".work-item",
		ProjectTriggers: ".view-details",
		ProjectIDAttr:   "data-project",
		ProjectModal:    "#projectModal",
		ProjectBody:     "#projectModal .modal-body",
		ProjectClose:    "#projectModal .close-modal",

		BlogButtons:  ".blog-filter-btn",
		BlogCards:    ".blog-card",
		BlogTriggers: ".read-more, .btn-read",
		BlogIDAttr:   "data-post",
		BlogModal:    "#blogModal",
		BlogBody:     "#blogModal .blog-modal-body",
		BlogClose:    "#blogModal .close-modal",

		MenuIcon:   "#menu-icon",
		Navbar:     ".navbar",
		NavOverlay: "#navbar-overlay",
		NavLinks:   ".navbar a",
	}
}

// Option customises Mount.
type Option func(*mountConfig)

type mountConfig struct {
	sel Selectors
	log *zap.Logger
}

// WithSelectors overrides DefaultSelectors.
func WithSelectors(s Selectors) Option { return func(c *mountConfig) { c.sel = s } }

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option { return func(c *mountConfig) { c.log = log } }

// Page is a mounted document. Features whose elements were not found are nil
// and recorded in Missing.
type Page struct {
	Projects     *filter.Controller
	Blog         *filter.Controller
	ProjectModal *overlay.Manager
	ArticleModal *overlay.Manager
	Menu         *nav.Menu
	Lock         *overlay.ScrollLock

	// Missing holds one error wrapping ErrMissingTarget per skipped feature.
	Missing []error
}

// Mount binds every feature it can find on doc. A missing element only
// disables the feature that needs it.
func Mount(doc dom.Document, store *catalog.Store, opts ...Option) *Page {
	cfg := mountConfig{sel: DefaultSelectors()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	if store == nil {
		store = &catalog.Store{}
	}

	m := &mounter{doc: doc, sel: cfg.sel, log: cfg.log}
	p := &Page{Lock: overlay.NewScrollLock(doc.Body())}
	s := cfg.sel

	p.Projects = m.gallery("projects", s.ProjectButtons, s.ProjectCards, filter.ClassToggle{Class: "hidden"})
	p.Blog = m.gallery("blog", s.BlogButtons, s.BlogCards, filter.DisplayToggle{})

	p.ProjectModal = m.modal(ProjectOverlay, s.ProjectModal, s.ProjectBody, s.ProjectClose, s.ProjectTriggers, s.ProjectIDAttr,
		detail.NewProjectRenderer(store.Projects), p.Lock)
	p.ArticleModal = m.modal(ArticleOverlay, s.BlogModal, s.BlogBody, s.BlogClose, s.BlogTriggers, s.BlogIDAttr,
		detail.NewArticleRenderer(store.Articles), p.Lock)

	p.Menu = m.menu(p.Lock)

	p.Missing = m.missing
	cfg.log.Info("page mounted",
		zap.Bool("projects", p.Projects != nil),
		zap.Bool("blog", p.Blog != nil),
		zap.Bool("projectModal", p.ProjectModal != nil),
		zap.Bool("articleModal", p.ArticleModal != nil),
		zap.Bool("menu", p.Menu != nil),
	)
	return p
}

type mounter struct {
	doc     dom.Document
	sel     Selectors
	log     *zap.Logger
	missing []error
}

func (m *mounter) skip(feature, selector string) {
	err := fmt.Errorf("%w: %s needs %q", ErrMissingTarget, feature, selector)
	m.missing = append(m.missing, err)
	m.log.Info("feature skipped", zap.String("feature", feature), zap.Error(err))
}

func (m *mounter) gallery(name, buttons, cards string, vis filter.Visibility) *filter.Controller {
	btns := m.doc.QueryAll(buttons)
	if len(btns) == 0 {
		m.skip(name+" filter", buttons)
		return nil
	}
	c := filter.New(btns, m.doc.QueryAll(cards),
		filter.WithVisibility(vis),
		filter.WithName(name),
		filter.WithLogger(m.log),
	)
	c.Bind()
	return c
}

func (m *mounter) modal(name, rootSel, bodySel, closeSel, triggerSel, idAttr string, r detail.Renderer, lock *overlay.ScrollLock) *overlay.Manager {
	root := m.doc.Query(rootSel)
	if root == nil {
		m.skip(name+" overlay", rootSel)
		return nil
	}
	body := m.doc.Query(bodySel)
	if body == nil {
		m.skip(name+" overlay", bodySel)
		return nil
	}
	control := m.doc.Query(closeSel)
	if control == nil {
		m.log.Warn("overlay without close control", zap.String("overlay", name), zap.String("selector", closeSel))
	}
	mgr := overlay.New(name, root, body, r, lock, m.log)
	mgr.Bind(m.doc, control, m.doc.QueryAll(triggerSel), idAttr)
	return mgr
}

func (m *mounter) menu(lock *overlay.ScrollLock) *nav.Menu {
	icon := m.doc.Query(m.sel.MenuIcon)
	if icon == nil {
		m.skip("menu", m.sel.MenuIcon)
		return nil
	}
	navbar := m.doc.Query(m.sel.Navbar)
	if navbar == nil {
		m.skip("menu", m.sel.Navbar)
		return nil
	}
	menu := nav.NewMenu(icon, navbar, m.doc.Query(m.sel.NavOverlay), lock, m.log)
	menu.Bind(m.doc, m.doc.QueryAll(m.sel.NavLinks))
	return menu
}
