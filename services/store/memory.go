package store

import "sync"

// MemoryStore is an in-process Store for tests and dry runs
type MemoryStore struct {
	mu      sync.Mutex
	ids     []string
	loadErr error
	saveErr error
	saves   int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ids ...string) *MemoryStore {
	return &MemoryStore{ids: ids}
}

// FailLoadWith makes every Load also return err alongside an empty set
func (m *MemoryStore) FailLoadWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSaveWith makes every Save return err
func (m *MemoryStore) FailSaveWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Load returns the stored identifiers
func (m *MemoryStore) Load() (*SeenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return NewSeenSet(), m.loadErr
	}
	return NewSeenSet(m.ids...), nil
}

// Save replaces the stored identifiers
func (m *MemoryStore) Save(set *SeenSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ids = set.Identifiers()
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Identifiers returns the currently stored identifiers
func (m *MemoryStore) Identifiers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}
