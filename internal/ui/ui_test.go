package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/config"
	"tasknest/internal/draft"
	"tasknest/internal/form"
	"tasknest/internal/storage"
	"tasknest/internal/task"
)

func testConfig() config.Config {
	return config.Config{
		NameMax:          40,
		DescriptionMax:   350,
		DefaultColor:     "#b624ff",
		EnableCategories: true,
		Keys: config.Keymap{
			Quit: "q", Add: "a", Up: "k", Down: "j", Toggle: " ", Pin: "p",
			Delete: "d", Detail: "enter", Confirm: "ctrl+s", Cancel: "esc",
			NextField: "tab", PrevField: "shift+tab",
		},
	}
}

type fixture struct {
	tasks  *storage.MemoryTasks
	drafts *draft.MemoryStore
	model  Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{tasks: storage.NewMemoryTasks(), drafts: draft.NewMemoryStore()}
	m, err := New(fx.tasks, fx.drafts, testConfig())
	require.NoError(t, err)
	fx.model = m
	return fx
}

func (fx *fixture) send(msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		next, _ := fx.model.Update(msg)
		fx.model = next.(Model)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func TestCreateTaskFromForm(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"))
	require.Equal(t, modeAdd, fx.model.mode)

	fx.send(runes("Buy milk"), keySave)

	assert.Equal(t, modeList, fx.model.mode)
	assert.Nil(t, fx.model.add)
	assert.Equal(t, "Added task - Buy milk", fx.model.status)
	assert.Equal(t, form.KindSuccess, fx.model.statusKind)

	got, err := fx.tasks.FetchTasks()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Name)
	assert.Nil(t, got[0].Description)
	assert.Equal(t, "#b624ff", got[0].Color)
	assert.Len(t, fx.model.tasks, 1)

	for _, k := range draft.CommitKeys {
		_, ok, _ := fx.drafts.Load(k)
		assert.False(t, ok, k)
	}
}

func TestAddFormForwardsCursorBlink(t *testing.T) {
	fx := newFixture(t)
	next, cmd := fx.model.Update(runes("a"))
	fx.model = next.(Model)
	require.NotNil(t, cmd)
	fx.send(runes("Tea"))

	next, blink := fx.model.Update(cmd())
	fx.model = next.(Model)
	assert.NotNil(t, blink, "focused input should schedule the next blink")
	assert.Equal(t, "Tea", fx.model.add.nameInput.Value())
	assert.Equal(t, "Tea", fx.model.add.form.Name())
}

func TestEmptyNameShowsToast(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), keySave)

	assert.Equal(t, modeAdd, fx.model.mode)
	assert.Equal(t, "Task name is required.", fx.model.status)
	assert.Equal(t, form.KindError, fx.model.statusKind)
	got, _ := fx.tasks.FetchTasks()
	assert.Empty(t, got)
}

func TestLeavingFormKeepsDraft(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Half done"), keyEsc)
	assert.Equal(t, modeList, fx.model.mode)

	fx.send(runes("a"))
	require.NotNil(t, fx.model.add)
	assert.Equal(t, "Half done", fx.model.add.nameInput.Value())
	assert.Equal(t, "Recovered unsaved draft", fx.model.status)
}

func TestTooLongNameDisablesCreate(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes(strings.Repeat("x", 41)))

	view := fx.model.View()
	assert.Contains(t, view, "Name should be less than or equal to 40 characters")
	assert.False(t, fx.model.add.form.CanCreate())

	fx.send(keySave)
	assert.Equal(t, modeAdd, fx.model.mode)
	got, _ := fx.tasks.FetchTasks()
	assert.Empty(t, got)
}

func TestLengthCounterShown(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Walk"))
	assert.Contains(t, fx.model.View(), "4/40")
}

func TestRecurringAndIntervalPickers(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Water plants"))
	fx.send(keyTab, keyTab, keyTab)
	require.Equal(t, fieldRecurring, fx.model.add.focus)

	fx.send(keySpace)
	assert.True(t, fx.model.add.form.Recurring())

	fx.send(keyTab)
	require.Equal(t, fieldInterval, fx.model.add.focus)
	fx.send(keyRight, keyRight)
	assert.Equal(t, "weekly", fx.model.add.form.RecurringInterval())

	fx.send(keySave)
	got, _ := fx.tasks.FetchTasks()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].RecurringInterval)
	assert.Equal(t, task.IntervalWeekly, *got[0].RecurringInterval)
}

func TestIntervalHiddenWhenNotRecurring(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), keyTab, keyTab, keyTab, keyTab)
	assert.Equal(t, fieldCategories, fx.model.add.focus)
}

func TestCategoryToggle(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Gym"), keyTab, keyTab, keyTab, keyTab)
	require.Equal(t, fieldCategories, fx.model.add.focus)
	fx.send(runes("j"), runes("j"), runes("j"), keySpace, keySave)

	got, _ := fx.tasks.FetchTasks()
	require.Len(t, got, 1)
	require.Len(t, got[0].Category, 1)
	assert.Equal(t, "Health/Fitness", got[0].Category[0].Name)
}

func TestDeadlineTypedThenSaved(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Dentist"), keyTab, keyTab, runes("2026-11-03T09:30"), keySave)

	got, _ := fx.tasks.FetchTasks()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Deadline)
	assert.Equal(t, "2026-11-03T09:30", task.FormatDeadline(got[0].Deadline))
}

func TestPartialDeadlineBlocksCreate(t *testing.T) {
	fx := newFixture(t)
	fx.send(runes("a"), runes("Dentist"), keyTab, keyTab, runes("2026-11"), keySave)

	assert.Equal(t, modeAdd, fx.model.mode)
	assert.Equal(t, fieldDeadline, fx.model.add.focus)
	got, _ := fx.tasks.FetchTasks()
	assert.Empty(t, got)
}

func TestListToggleAndPin(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.tasks.AppendTask(task.Task{ID: "1", Name: "one"}))
	require.NoError(t, fx.tasks.AppendTask(task.Task{ID: "2", Name: "two"}))
	fx.model = fx.model.reload("")

	fx.send(runes("j"), keySpace)
	got, _ := fx.tasks.FetchTasks()
	assert.True(t, got[1].Done)

	fx.send(runes("p"))
	assert.Equal(t, "2", fx.model.tasks[0].ID, "pinned tasks are listed first")
	assert.Equal(t, 0, fx.model.cursor)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.tasks.AppendTask(task.Task{ID: "1", Name: "one"}))
	fx.model = fx.model.reload("")

	fx.send(runes("d"), runes("n"))
	got, _ := fx.tasks.FetchTasks()
	assert.Len(t, got, 1)

	fx.send(runes("d"), runes("y"))
	got, _ = fx.tasks.FetchTasks()
	assert.Empty(t, got)
	assert.Equal(t, "Deleted task - one", fx.model.status)
}
