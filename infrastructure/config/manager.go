package config

import (
	"fmt"
	"strings"
)

// Entry is one key and its current value
type Entry struct {
	Key   string
	Value string
}

// Manager edits single settings keys and persists them
type Manager struct {
	settings *Settings
	path     string
}

// NewManager creates a new settings manager
func NewManager(s *Settings, path string) *Manager {
	return &Manager{
		settings: s,
		path:     path,
	}
}

// Get returns the current value of key
func (m *Manager) Get(key string) (string, error) {
	return m.settings.Get(normalizeKey(key))
}

// Set validates and stores a new value for key
func (m *Manager) Set(key, value string) error {
	key = normalizeKey(key)

	updated := *m.settings
	if err := updated.Set(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	*m.settings = updated
	return Save(m.settings, m.path)
}

// List returns every key with its value in key order
func (m *Manager) List() []Entry {
	keys := Keys()
	result := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, _ := m.settings.Get(k)
		result = append(result, Entry{Key: k, Value: v})
	}
	return result
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
