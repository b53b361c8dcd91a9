// Package filter applies a category selection to a gallery of cards.
package filter

import (
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/dom"
)

// All is the wildcard category that shows every card.
const All = "all"

const (
	defaultButtonAttr  = "data-filter"
	defaultCardAttr    = "data-category"
	defaultActiveClass = "active"
)

// Visible reports whether a card tagged category is shown while selected is active.
func Visible(selected, category string) bool {
	return selected == All || category == selected
}

// Visibility shows and hides cards.
type Visibility interface {
	Show(card dom.Element)
	Hide(card dom.Element)
	Shown(card dom.Element) bool
}

// ClassToggle hides cards by adding Class.
type ClassToggle struct{ Class string }

func (v ClassToggle) Show(card dom.Element)       { card.RemoveClass(v.Class) }
func (v ClassToggle) Hide(card dom.Element)       { card.AddClass(v.Class) }
func (v ClassToggle) Shown(card dom.Element) bool { return !card.HasClass(v.Class) }

// DisplayToggle hides cards through the display style property.
type DisplayToggle struct{}

func (DisplayToggle) Show(card dom.Element)       { card.SetStyle("display", "block") }
func (DisplayToggle) Hide(card dom.Element)       { card.SetStyle("display", "none") }
func (DisplayToggle) Shown(card dom.Element) bool { return card.Style("display") != "none" }

// Option customises a Controller.
type Option func(*Controller)

// WithVisibility sets how cards are shown and hidden. Defaults to ClassToggle{"hidden"}.
func WithVisibility(v Visibility) Option { return func(c *Controller) { c.vis = v } }

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option { return func(c *Controller) { c.log = log } }

// WithName labels the controller in diagnostics.
func WithName(name string) Option { return func(c *Controller) { c.name = name } }

// Controller owns the selected category of one gallery.
type Controller struct {
	name        string
	buttons     []dom.Element
	cards       []dom.Element
	vis         Visibility
	activeClass string
	selected    string
	log         *zap.Logger
}

// New builds a controller over buttons tagged with data-filter and cards tagged with
// data-category. The selection starts at All.
func New(buttons, cards []dom.Element, opts ...Option) *Controller {
	c := &Controller{
		name:        "gallery",
		buttons:     buttons,
		cards:       cards,
		vis:         ClassToggle{Class: "hidden"},
		activeClass: defaultActiveClass,
		selected:    All,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Bind registers a click listener on every button.
func (c *Controller) Bind() {
	for _, b := range c.buttons {
		b.On(dom.EventClick, func(*dom.Event) { c.Activate(b) })
	}
}

// Activate makes button the only active button and applies its category.
func (c *Controller) Activate(button dom.Element) {
	for _, b := range c.buttons {
		if b.Same(button) {
			b.AddClass(c.activeClass)
		} else {
			b.RemoveClass(c.activeClass)
		}
	}
	category, ok := button.Attr(defaultButtonAttr)
	if !ok {
		c.log.Warn("filter button without category", zap.String("gallery", c.name))
		category = All
	}
	c.Select(category)
}

// Select shows exactly the cards matching category.
func (c *Controller) Select(category string) {
	c.selected = category
	if len(c.cards) == 0 {
		return
	}
	shown := 0
	for _, card := range c.cards {
		tag, _ := card.Attr(defaultCardAttr)
		if Visible(category, tag) {
			c.vis.Show(card)
			shown++
		} else {
			c.vis.Hide(card)
		}
	}
	c.log.Debug("filter applied",
		zap.String("gallery", c.name),
		zap.String("category", category),
		zap.Int("visible", shown),
		zap.Int("total", len(c.cards)),
	)
}

// Selected returns the current category.
func (c *Controller) Selected() string { return c.selected }

// VisibleCards returns the cards currently shown, in document order.
func (c *Controller) VisibleCards() []dom.Element {
	var out []dom.Element
	for _, card := range c.cards {
		if c.vis.Shown(card) {
			out = append(out, card)
		}
	}
	return out
}
