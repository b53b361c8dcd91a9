package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Headless is a goquery-backed Document. Events are delivered synchronously by
// Click, KeyDown and Dispatch. It is not safe for concurrent use.
type Headless struct {
	doc       *goquery.Document
	listeners map[*html.Node]map[string][]Listener
	window    map[string][]Listener
}

// Parse reads an HTML page into a Headless document.
func Parse(r io.Reader) (*Headless, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Headless{
		doc:       doc,
		listeners: map[*html.Node]map[string][]Listener{},
		window:    map[string][]Listener{},
	}, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*Headless, error) {
	return Parse(strings.NewReader(markup))
}

// Selection exposes the underlying goquery document for assertions.
func (h *Headless) Selection() *goquery.Selection { return h.doc.Selection }

// HTML renders the current document.
func (h *Headless) HTML() (string, error) { return h.doc.Html() }

func (h *Headless) Query(selector string) Element {
	return h.wrap(h.doc.Find(selector).First())
}

func (h *Headless) QueryAll(selector string) []Element {
	return h.wrapAll(h.doc.Find(selector))
}

func (h *Headless) ByID(id string) Element {
	return h.wrap(h.doc.Find(`[id="` + id + `"]`).First())
}

func (h *Headless) Body() Element {
	return h.wrap(h.doc.Find("body").First())
}

func (h *Headless) On(event string, fn Listener) {
	h.window[event] = append(h.window[event], fn)
}

// Click dispatches a click targeting el.
func (h *Headless) Click(el Element) *Event {
	ev := &Event{Type: EventClick, Target: el}
	h.Dispatch(ev)
	return ev
}

// KeyDown dispatches a keydown with the given key at the document level.
func (h *Headless) KeyDown(key string) *Event {
	ev := &Event{Type: EventKeyDown, Key: key, Target: h.Body()}
	h.Dispatch(ev)
	return ev
}

// Scroll dispatches a window scroll event.
func (h *Headless) Scroll() *Event {
	ev := &Event{Type: EventScroll}
	h.Dispatch(ev)
	return ev
}

// Dispatch bubbles ev from its target to the root, then to window listeners.
func (h *Headless) Dispatch(ev *Event) {
	if target, ok := ev.Target.(*headlessElement); ok && target != nil {
		for n := target.node(); n != nil; n = n.Parent {
			for _, fn := range h.listeners[n][ev.Type] {
				fn(ev)
			}
		}
	}
	for _, fn := range h.window[ev.Type] {
		fn(ev)
	}
}

func (h *Headless) wrap(sel *goquery.Selection) Element {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return &headlessElement{h: h, sel: sel.First()}
}

func (h *Headless) wrapAll(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &headlessElement{h: h, sel: s})
	})
	return out
}

type headlessElement struct {
	h   *Headless
	sel *goquery.Selection
}

func (e *headlessElement) node() *html.Node { return e.sel.Get(0) }

func (e *headlessElement) Attr(name string) (string, bool) { return e.sel.Attr(name) }
func (e *headlessElement) SetAttr(name, value string)      { e.sel.SetAttr(name, value) }
func (e *headlessElement) HasClass(name string) bool       { return e.sel.HasClass(name) }
func (e *headlessElement) AddClass(name string)            { e.sel.AddClass(name) }
func (e *headlessElement) RemoveClass(name string)         { e.sel.RemoveClass(name) }

func (e *headlessElement) ToggleClass(name string) bool {
	e.sel.ToggleClass(name)
	return e.sel.HasClass(name)
}

func (e *headlessElement) Style(property string) string {
	raw, _ := e.sel.Attr("style")
	for _, decl := range parseStyle(raw) {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

func (e *headlessElement) SetStyle(property, value string) {
	raw, _ := e.sel.Attr("style")
	decls := parseStyle(raw)
	replaced := false
	for i := range decls {
		if decls[i][0] == property {
			decls[i][1] = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, [2]string{property, value})
	}

	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d[1] == "" {
			continue
		}
		parts = append(parts, d[0]+": "+d[1])
	}
	if len(parts) == 0 {
		e.sel.RemoveAttr("style")
		return
	}
	e.sel.SetAttr("style", strings.Join(parts, "; ")+";")
}

func (e *headlessElement) InnerHTML() string {
	markup, _ := e.sel.Html()
	return markup
}

func (e *headlessElement) SetInnerHTML(markup string) { e.sel.SetHtml(markup) }

func (e *headlessElement) Query(selector string) Element {
	return e.h.wrap(e.sel.Find(selector).First())
}

func (e *headlessElement) QueryAll(selector string) []Element {
	return e.h.wrapAll(e.sel.Find(selector))
}

func (e *headlessElement) On(event string, fn Listener) {
	n := e.node()
	if e.h.listeners[n] == nil {
		e.h.listeners[n] = map[string][]Listener{}
	}
	e.h.listeners[n][event] = append(e.h.listeners[n][event], fn)
}

func (e *headlessElement) Same(other Element) bool {
	o, ok := other.(*headlessElement)
	return ok && o != nil && o.node() == e.node()
}

// parseStyle splits an inline style attribute into ordered property/value pairs.
func parseStyle(raw string) [][2]string {
	var out [][2]string
	for _, decl := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		out = append(out, [2]string{prop, strings.TrimSpace(value)})
	}
	return out
}
