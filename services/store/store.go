package store

import "sort"

// Store persists the set of already-notified listing identifiers between
// runs. Load must never fail a run over a missing or corrupt store; Save
// must replace the previous contents atomically.
type Store interface {
	// Load reads the persisted seen-set. A missing store yields an empty
	// set and no error; an unreadable one yields an empty set together
	// with a non-fatal store_corrupt error.
	Load() (*SeenSet, error)

	// Save writes the full set, replacing prior contents. Idempotent:
	// saving the same set twice produces the same durable content.
	Save(set *SeenSet) error
}

// SeenSet is the set of listing identifiers already notified. Append-only
// for the lifetime of a deployment; identifiers are never removed.
type SeenSet struct {
	ids map[string]struct{}
}

// NewSeenSet creates a seen-set holding the given identifiers
func NewSeenSet(ids ...string) *SeenSet {
	set := &SeenSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Add inserts an identifier; empty identifiers are ignored
func (s *SeenSet) Add(id string) {
	if id == "" {
		return
	}
	s.ids[id] = struct{}{}
}

// Contains reports whether the identifier has been notified before
func (s *SeenSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the set
func (s *SeenSet) Len() int {
	return len(s.ids)
}

// Identifiers returns the identifiers in sorted order, so persisted output
// is stable across saves of the same set
func (s *SeenSet) Identifiers() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
