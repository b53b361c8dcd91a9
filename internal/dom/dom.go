// Package dom is the narrow slice of the browser document the page engine drives.
//
// Two implementations exist: a goquery-backed headless document (Parse) used by
// tests and tooling, and a syscall/js-backed document compiled only for js/wasm.
package dom

// Event types dispatched by the engine.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
	EventScroll  = "scroll"
)

// KeyEscape is the Key value of an Escape key press.
const KeyEscape = "Escape"

// Element is a single node of the document.
type Element interface {
	Attr(name string) (string, bool)
	SetAttr(name, value string)

	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	// ToggleClass flips name and reports whether it is now present.
	ToggleClass(name string) bool

	Style(property string) string
	SetStyle(property, value string)

	InnerHTML() string
	SetInnerHTML(markup string)

	// Query returns the first descendant matching selector, or nil.
	Query(selector string) Element
	QueryAll(selector string) []Element

	// On registers fn for events of type event targeting this element or its descendants.
	On(event string, fn Listener)

	// Same reports whether other refers to the same underlying node.
	Same(other Element) bool
}

// Document is the page.
type Document interface {
	Query(selector string) Element
	QueryAll(selector string) []Element
	ByID(id string) Element
	Body() Element

	// On registers a window-level listener. Every dispatched event reaches it after
	// element listeners have run.
	On(event string, fn Listener)
}

// Listener handles an event.
type Listener func(*Event)

// Event is a dispatched UI event.
type Event struct {
	Type   string
	Target Element
	Key    string

	defaultPrevented bool
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Same is a nil-safe comparison of two elements.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Same(b)
}
