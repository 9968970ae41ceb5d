package draft

import (
	"fmt"
	"sync"
)

const (
	KeyName              = "name"
	KeyEmoji             = "emoji"
	KeyColor             = "color"
	KeyDescription       = "description"
	KeyRecurring         = "recurring"
	KeyRecurringInterval = "recurringInterval"
	KeyDeadline          = "deadline"
	KeyCategories        = "categories"
)

// Keys is every key the add-task form mirrors.
var Keys = []string{
	KeyName, KeyEmoji, KeyColor, KeyDescription,
	KeyRecurring, KeyRecurringInterval, KeyDeadline, KeyCategories,
}

// CommitKeys are removed after a task is created. The recurrence toggle
// and interval are left behind so the next task starts with them.
var CommitKeys = []string{
	KeyName, KeyColor, KeyDescription, KeyEmoji, KeyDeadline, KeyCategories,
}

// Store is a durable key/value mirror scoped to one session.
type Store interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
	Remove(keys ...string) error
}

// Clear drops the named keys from the store.
func Clear(s Store, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.Remove(keys...); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// Snapshot returns the raw stored value of every form key present in s.
func Snapshot(s Store) (map[string]string, error) {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		v, ok, err := s.Load(k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
