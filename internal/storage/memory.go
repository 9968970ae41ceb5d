package storage

import (
	"fmt"
	"slices"
	"sync"

	"tasknest/internal/task"
)

// MemoryTasks is an in-process task collection.
type MemoryTasks struct {
	mu    sync.RWMutex
	tasks []task.Task
}

func NewMemoryTasks() *MemoryTasks {
	return &MemoryTasks{}
}

func (m *MemoryTasks) AppendTask(t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tasks {
		if existing.ID == t.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *MemoryTasks) FetchTasks() ([]task.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.tasks), nil
}

func (m *MemoryTasks) update(id string, fn func(*task.Task)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			fn(&m.tasks[i])
			return nil
		}
	}
	return nil
}

func (m *MemoryTasks) SetDone(id string, done bool) error {
	return m.update(id, func(t *task.Task) { t.Done = done })
}

func (m *MemoryTasks) SetPinned(id string, pinned bool) error {
	return m.update(id, func(t *task.Task) { t.Pinned = pinned })
}

func (m *MemoryTasks) DeleteTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = slices.DeleteFunc(m.tasks, func(t task.Task) bool { return t.ID == id })
	return nil
}

// FetchCategories returns the default set; the memory collection does not
// keep its own category list.
func (m *MemoryTasks) FetchCategories() ([]task.Category, error) {
	cats := DefaultCategories()
	for i := range cats {
		cats[i].ID = fmt.Sprintf("default-%d", i+1)
	}
	return cats, nil
}
