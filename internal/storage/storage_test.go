package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/draft"
	"tasknest/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTask(id, name string) task.Task {
	desc := "details"
	emoji := "🛒"
	deadline := time.Date(2026, 10, 20, 18, 30, 0, 0, time.UTC)
	iv := task.IntervalWeekly
	return task.Task{
		ID:                id,
		Name:              name,
		Description:       &desc,
		Emoji:             &emoji,
		Color:             "#b624ff",
		Date:              time.Date(2026, 10, 18, 9, 15, 30, 123, time.UTC),
		Deadline:          &deadline,
		Category:          []task.Category{{ID: "c1", Name: "Home", Emoji: "🏠", Color: "#1e90ff"}},
		Recurring:         true,
		RecurringInterval: &iv,
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestAppendAndFetchTasks(t *testing.T) {
	s := openTestStore(t)

	full := sampleTask("a", "Buy milk")
	bare := task.Task{ID: "b", Name: "Stretch", Color: "#fff", Date: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), Category: []task.Category{}}
	require.NoError(t, s.AppendTask(full))
	require.NoError(t, s.AppendTask(bare))

	got, err := s.FetchTasks()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].ID)
	require.NotNil(t, got[0].Description)
	assert.Equal(t, "details", *got[0].Description)
	require.NotNil(t, got[0].Deadline)
	assert.True(t, full.Deadline.Equal(*got[0].Deadline))
	assert.True(t, full.Date.Equal(got[0].Date))
	assert.Equal(t, full.Category, got[0].Category)
	require.NotNil(t, got[0].RecurringInterval)
	assert.Equal(t, task.IntervalWeekly, *got[0].RecurringInterval)

	assert.Equal(t, "b", got[1].ID)
	assert.Nil(t, got[1].Description)
	assert.Nil(t, got[1].Emoji)
	assert.Nil(t, got[1].Deadline)
	assert.Nil(t, got[1].RecurringInterval)
	assert.Empty(t, got[1].Category)
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AppendTask(sampleTask("dup", "one")))
	err := s.AppendTask(sampleTask("dup", "two"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	got, err := s.FetchTasks()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDoneAndPinned(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AppendTask(sampleTask("a", "x")))
	require.NoError(t, s.SetDone("a", true))
	require.NoError(t, s.SetPinned("a", true))

	got, err := s.FetchTasks()
	require.NoError(t, err)
	assert.True(t, got[0].Done)
	assert.True(t, got[0].Pinned)

	require.NoError(t, s.DeleteTask("a"))
	got, err = s.FetchTasks()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeedCategoriesOnce(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SeedCategories())
	require.NoError(t, s.SeedCategories())

	cats, err := s.FetchCategories()
	require.NoError(t, err)
	require.Len(t, cats, len(DefaultCategories()))
	assert.Equal(t, "Home", cats[0].Name)
	assert.NotEmpty(t, cats[0].ID)
}

func TestDraftStoreIsScopedBySession(t *testing.T) {
	s := openTestStore(t)
	a := s.Drafts("tty1")
	b := s.Drafts("tty2")

	require.NoError(t, a.Save(draft.KeyName, `"from a"`))
	require.NoError(t, a.Save(draft.KeyName, `"updated"`))

	v, ok, err := a.Load(draft.KeyName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"updated"`, v)

	_, ok, err = b.Load(draft.KeyName)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraftSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	s, err := Open(path)
	require.NoError(t, err)
	f, err := draft.Bind(s.Drafts("main"), draft.KeyDescription, "")
	require.NoError(t, err)
	require.NoError(t, f.Set("half written"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	f, err = draft.Bind(s.Drafts("main"), draft.KeyDescription, "")
	require.NoError(t, err)
	assert.Equal(t, "half written", f.Get())
}

func TestDraftStoreRemove(t *testing.T) {
	s := openTestStore(t)
	d := s.Drafts("main")
	for _, k := range draft.Keys {
		require.NoError(t, d.Save(k, `""`))
	}
	require.NoError(t, draft.Clear(d, draft.CommitKeys...))

	snap, err := draft.Snapshot(d)
	require.NoError(t, err)
	assert.Len(t, snap, len(draft.Keys)-len(draft.CommitKeys))
	assert.NoError(t, d.Remove())
}

func TestMemoryTasks(t *testing.T) {
	m := NewMemoryTasks()
	require.NoError(t, m.AppendTask(sampleTask("a", "one")))
	require.NoError(t, m.AppendTask(sampleTask("b", "two")))
	assert.ErrorIs(t, m.AppendTask(sampleTask("a", "again")), ErrDuplicateID)

	require.NoError(t, m.SetDone("b", true))
	require.NoError(t, m.DeleteTask("a"))

	got, err := m.FetchTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.True(t, got[0].Done)

	cats, err := m.FetchCategories()
	require.NoError(t, err)
	assert.NotEmpty(t, cats[0].ID)
}
