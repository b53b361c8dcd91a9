package overlay

import (
	"slices"

	"github.com/circuitfolio/folio/internal/dom"
)

// ScrollLock suppresses page scrolling while at least one owner holds it.
//
// Several surfaces (the project overlay, the article overlay, the navigation
// menu) share one lock so that closing one of them never re-enables scrolling
// underneath another that is still open.
type ScrollLock struct {
	body   dom.Element
	owners []string
}

// NewScrollLock builds a lock over body. A nil body yields a lock that tracks
// owners without touching the page.
func NewScrollLock(body dom.Element) *ScrollLock {
	return &ScrollLock{body: body}
}

// Acquire registers owner. Acquiring twice under the same name is a no-op.
func (l *ScrollLock) Acquire(owner string) {
	if l == nil || slices.Contains(l.owners, owner) {
		return
	}
	l.owners = append(l.owners, owner)
	l.apply()
}

// Release drops owner. Scrolling comes back once the last owner is gone.
func (l *ScrollLock) Release(owner string) {
	if l == nil {
		return
	}
	i := slices.Index(l.owners, owner)
	if i < 0 {
		return
	}
	l.owners = slices.Delete(l.owners, i, i+1)
	l.apply()
}

// Locked reports whether any owner holds the lock.
func (l *ScrollLock) Locked() bool { return l != nil && len(l.owners) > 0 }

// Holds reports whether owner holds the lock.
func (l *ScrollLock) Holds(owner string) bool {
	return l != nil && slices.Contains(l.owners, owner)
}

func (l *ScrollLock) apply() {
	if l.body == nil {
		return
	}
	if len(l.owners) > 0 {
		l.body.SetStyle("overflow", "hidden")
	} else {
		l.body.SetStyle("overflow", "auto")
	}
}
