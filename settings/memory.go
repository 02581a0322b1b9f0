package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps locales in a map. Values are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	locales map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{locales: map[string]string{}}
}

// Locale returns the locale stored for id.
func (m *MemoryStore) Locale(_ context.Context, id string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locale, ok := m.locales[id]
	return locale, ok, nil
}

// SetLocale stores locale for id.
func (m *MemoryStore) SetLocale(_ context.Context, id, locale string) error {
	if err := checkID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.locales[id] = locale
	return nil
}

// DeleteLocale forgets id.
func (m *MemoryStore) DeleteLocale(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.locales, id)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
