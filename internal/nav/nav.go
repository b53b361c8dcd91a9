// Package nav toggles the collapsible navigation menu.
package nav

import (
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/dom"
	"github.com/circuitfolio/folio/internal/overlay"
)

const (
	activeClass = "active"
	iconOpen    = "bx-x"
	lockOwner   = "nav"
)

// Menu is the navigation menu opened from the menu icon.
type Menu struct {
	icon, navbar, backdrop dom.Element
	lock                   *overlay.ScrollLock
	log                    *zap.Logger
	open                   bool
}

// NewMenu builds a closed menu. backdrop and lock are optional.
func NewMenu(icon, navbar, backdrop dom.Element, lock *overlay.ScrollLock, log *zap.Logger) *Menu {
	if log == nil {
		log = zap.NewNop()
	}
	return &Menu{icon: icon, navbar: navbar, backdrop: backdrop, lock: lock, log: log}
}

// Open reports whether the menu is expanded.
func (m *Menu) Open() bool { return m.open }

// Toggle flips the menu.
func (m *Menu) Toggle() {
	m.set(!m.open)
}

// Close collapses the menu if it is open.
func (m *Menu) Close() {
	if m.open {
		m.set(false)
	}
}

func (m *Menu) set(open bool) {
	m.open = open
	toggle(m.icon, iconOpen, open)
	toggle(m.navbar, activeClass, open)
	toggle(m.backdrop, activeClass, open)
	if open {
		m.lock.Acquire(lockOwner)
	} else {
		m.lock.Release(lockOwner)
	}
	m.log.Debug("menu toggled", zap.Bool("open", open))
}

// Bind wires the icon, the backdrop, every link and the window-level
// scroll and Escape handlers.
func (m *Menu) Bind(doc dom.Document, links []dom.Element) {
	m.icon.On(dom.EventClick, func(*dom.Event) { m.Toggle() })
	if m.backdrop != nil {
		m.backdrop.On(dom.EventClick, func(*dom.Event) { m.Close() })
	}
	for _, l := range links {
		l.On(dom.EventClick, func(*dom.Event) { m.Close() })
	}
	if doc == nil {
		return
	}
	doc.On(dom.EventScroll, func(*dom.Event) { m.Close() })
	doc.On(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key == dom.KeyEscape {
			m.Close()
		}
	})
}

func toggle(el dom.Element, class string, on bool) {
	switch {
	case el == nil:
	case on:
		el.AddClass(class)
	default:
		el.RemoveClass(class)
	}
}
