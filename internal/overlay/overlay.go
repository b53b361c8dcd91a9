// Package overlay drives the modal dialog that presents a rendered record.
package overlay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/detail"
	"github.com/circuitfolio/folio/internal/dom"
)

// State is the lifecycle state of one overlay.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Manager owns one overlay root and the fragment shown inside it.
// It is driven from a single event loop and is not safe for concurrent use.
type Manager struct {
	name     string
	root     dom.Element
	body     dom.Element
	renderer detail.Renderer
	lock     *ScrollLock
	log      *zap.Logger

	state   State
	current string
}

// New builds a closed overlay. root is shown and hidden, body receives the
// rendered markup. lock may be shared with other managers.
func New(name string, root, body dom.Element, renderer detail.Renderer, lock *ScrollLock, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		name:     name,
		root:     root,
		body:     body,
		renderer: renderer,
		lock:     lock,
		log:      log.With(zap.String("overlay", name)),
	}
}

// Name labels the overlay; it is also the scroll lock owner name.
func (m *Manager) Name() string { return m.name }

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// Current returns the id of the record on display, or "" when closed.
func (m *Manager) Current() string { return m.current }

// Open renders id and shows it. Opening while already open replaces the
// content. When rendering fails nothing on the page changes.
func (m *Manager) Open(id string) error {
	frag, err := m.renderer.Render(id)
	if err != nil {
		m.log.Warn("render failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("overlay %s: %w", m.name, err)
	}
	m.body.SetInnerHTML(frag.String())
	m.root.SetStyle("display", "block")
	m.lock.Acquire(m.name)
	m.state = Open
	m.current = id
	m.log.Debug("opened", zap.String("id", id))
	return nil
}

// Close hides the overlay and releases its scroll lock. Closing a closed
// overlay does nothing.
func (m *Manager) Close() {
	if m.state == Closed {
		return
	}
	m.root.SetStyle("display", "none")
	m.lock.Release(m.name)
	m.state = Closed
	m.log.Debug("closed", zap.String("id", m.current))
	m.current = ""
}

// Bind wires every close trigger and every open trigger.
//
// Clicking control closes the overlay, as do a click landing on the root
// itself (the backdrop) and an Escape key press anywhere on doc. Each trigger
// opens the record named by its idAttr attribute. control and doc may be nil.
func (m *Manager) Bind(doc dom.Document, control dom.Element, triggers []dom.Element, idAttr string) {
	if control != nil {
		control.On(dom.EventClick, func(*dom.Event) { m.Close() })
	}
	m.root.On(dom.EventClick, func(ev *dom.Event) {
		if dom.Same(ev.Target, m.root) {
			m.Close()
		}
	})
	if doc != nil {
		doc.On(dom.EventKeyDown, func(ev *dom.Event) {
			if ev.Key == dom.KeyEscape {
				m.Close()
			}
		})
	}
	for _, t := range triggers {
		t.On(dom.EventClick, func(ev *dom.Event) {
			ev.PreventDefault()
			id, ok := t.Attr(idAttr)
			if !ok || id == "" {
				m.log.Warn("trigger without record id", zap.String("attr", idAttr))
				return
			}
			// Failures are already logged and leave the page untouched.
			_ = m.Open(id)
		})
	}
}
