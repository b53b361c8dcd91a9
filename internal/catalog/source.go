package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrRecordNotFound is returned when an identifier has no catalog entry.
	ErrRecordNotFound = errors.New("catalog: record not found")
	// ErrDuplicateID is returned when two records share an identifier.
	ErrDuplicateID = errors.New("catalog: duplicate id")
	// ErrInvalidRecord is returned when a record fails validation while loading.
	ErrInvalidRecord = errors.New("catalog: invalid record")
)

// Entry is the constraint satisfied by Project and Article.
type Entry[T any] interface {
	Record
	Clone() T
}

// Source is a read-only catalog of records keyed by identifier.
type Source[T any] interface {
	// Get returns the record stored under id.
	Get(id string) (T, bool)
	// IDs lists every identifier in catalog order.
	IDs() []string
}

// Memory is an in-memory Source that preserves insertion order.
type Memory[T Entry[T]] struct {
	order   []string
	records map[string]T
}

// NewMemory builds a Memory source. Identifiers must be non-empty and unique.
func NewMemory[T Entry[T]](records ...T) (*Memory[T], error) {
	m := &Memory[T]{
		order:   make([]string, 0, len(records)),
		records: make(map[string]T, len(records)),
	}
	for _, rec := range records {
		id := rec.Key()
		if id == "" {
			return nil, fmt.Errorf("%w: %s without id", ErrInvalidRecord, rec.Kind())
		}
		if _, ok := m.records[id]; ok {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateID, rec.Kind(), id)
		}
		m.order = append(m.order, id)
		m.records[id] = rec.Clone()
	}
	return m, nil
}

// Get implements Source.
func (m *Memory[T]) Get(id string) (T, bool) {
	rec, ok := m.records[id]
	if !ok {
		var zero T
		return zero, false
	}
	return rec.Clone(), true
}

// IDs implements Source.
func (m *Memory[T]) IDs() []string {
	return slices.Clone(m.order)
}

// Store bundles the two independent catalogs of the site.
type Store struct {
	Projects Source[Project]
	Articles Source[Article]
}

// NewStore builds a Store from record slices.
func NewStore(projects []Project, articles []Article) (*Store, error) {
	ps, err := NewMemory(projects...)
	if err != nil {
		return nil, err
	}
	as, err := NewMemory(articles...)
	if err != nil {
		return nil, err
	}
	return &Store{Projects: ps, Articles: as}, nil
}

// Lookup fetches id from src, reporting ErrRecordNotFound when absent.
func Lookup[T any](src Source[T], id string) (T, error) {
	if src == nil {
		var zero T
		return zero, fmt.Errorf("%w: %q (no catalog)", ErrRecordNotFound, id)
	}
	rec, ok := src.Get(id)
	if !ok {
		return rec, fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	return rec, nil
}

// All returns every record of src in catalog order.
func All[T any](src Source[T]) []T {
	if src == nil {
		return nil
	}
	ids := src.IDs()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if rec, ok := src.Get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Categories returns the distinct categories of records in first-seen order.
func Categories[T any](src Source[T], category func(T) Category) []Category {
	var out []Category
	for _, rec := range All(src) {
		c := category(rec)
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
