package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"tasknest/internal/config"
	"tasknest/internal/draft"
	"tasknest/internal/form"
	"tasknest/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// TaskStore is the task collection the UI lists and appends to.
type TaskStore interface {
	FetchTasks() ([]task.Task, error)
	AppendTask(t task.Task) error
	SetDone(id string, done bool) error
	SetPinned(id string, pinned bool) error
	DeleteTask(id string) error
	FetchCategories() ([]task.Category, error)
}

// bridge collects what the form reports during Submit. The Bubble Tea
// model is copied on every update, so the form cannot call back into it
// directly.
type bridge struct {
	message  string
	kind     form.Kind
	notified bool
	navigate bool
}

func (b *bridge) Notify(message string, kind form.Kind) {
	b.message, b.kind, b.notified = message, kind, true
}

func (b *bridge) GoToTaskList() { b.navigate = true }

type Model struct {
	store      TaskStore
	drafts     draft.Store
	cfg        config.Config
	tasks      []task.Task
	categories []task.Category
	cursor     int
	mode       mode
	status     string
	statusKind form.Kind
	confirmDel bool
	pendingDel *task.Task

	add *addState
}

func New(store TaskStore, drafts draft.Store, cfg config.Config) (Model, error) {
	tasks, err := store.FetchTasks()
	if err != nil {
		return Model{}, err
	}
	var cats []task.Category
	if cfg.EnableCategories {
		cats, err = store.FetchCategories()
		if err != nil {
			return Model{}, err
		}
	}
	return Model{
		store:      store,
		drafts:     drafts,
		cfg:        cfg,
		tasks:      orderForDisplay(tasks),
		categories: cats,
		cursor:     clampCursor(0, len(tasks)),
		status:     fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
		mode:       modeList,
	}, nil
}

func Run(store TaskStore, drafts draft.Store, cfg config.Config) error {
	m, err := New(store, drafts, cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		if m.add != nil {
			m.add.resize(msg.Width)
		}
	default:
		if m.mode == modeAdd && m.add != nil {
			return m, m.add.updateFocused(msg)
		}
	}
	return m, nil
}

func (m Model) setStatus(msg string, kind form.Kind) Model {
	m.status = msg
	m.statusKind = kind
	return m
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		return m.openAddForm()
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.store.SetDone(t.ID, !t.Done); err != nil {
			return m.setStatus(fmt.Sprintf("toggle failed: %v", err), form.KindError), nil
		}
		m = m.reload(t.ID)
		m = m.setStatus("Toggled task", form.KindInfo)
	case m.cfg.Keys.Pin:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.store.SetPinned(t.ID, !t.Pinned); err != nil {
			return m.setStatus(fmt.Sprintf("pin failed: %v", err), form.KindError), nil
		}
		m = m.reload(t.ID)
		if t.Pinned {
			m = m.setStatus("Unpinned task", form.KindInfo)
		} else {
			m = m.setStatus("Pinned task", form.KindInfo)
		}
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m = m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Name), form.KindInfo)
	case m.cfg.Keys.Detail:
		if len(m.tasks) == 0 {
			return m.setStatus("No tasks", form.KindInfo), nil
		}
		m = m.setStatus(taskDetail(m.tasks[m.cursor]), form.KindInfo)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.confirmDel = false
		m.pendingDel = nil
		return m.setStatus("Delete cancelled", form.KindInfo), nil
	case "y", "Y":
		pending := m.pendingDel
		m.confirmDel = false
		m.pendingDel = nil
		if pending == nil {
			return m.setStatus("Nothing to delete", form.KindInfo), nil
		}
		if err := m.store.DeleteTask(pending.ID); err != nil {
			return m.setStatus(fmt.Sprintf("delete failed: %v", err), form.KindError), nil
		}
		m = m.reload("")
		return m.setStatus(fmt.Sprintf("Deleted task - %s", pending.Name), form.KindInfo), nil
	default:
		return m, nil
	}
}

// reload refreshes the task list, keeping the cursor on focusID when given.
func (m Model) reload(focusID string) Model {
	tasks, err := m.store.FetchTasks()
	if err != nil {
		return m.setStatus(fmt.Sprintf("reload failed: %v", err), form.KindError)
	}
	m.tasks = orderForDisplay(tasks)
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	if focusID != "" {
		for i, t := range m.tasks {
			if t.ID == focusID {
				m.cursor = i
				break
			}
		}
	}
	return m
}

func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	b := &bridge{}
	f, err := form.New(m.drafts, form.Options{
		Limits:       form.Limits{NameMax: m.cfg.NameMax, DescriptionMax: m.cfg.DescriptionMax},
		DefaultColor: m.cfg.DefaultColor,
		Sink:         m.store,
		Notifier:     b,
		Navigator:    b,
	})
	if err != nil {
		log.Error().Err(err).Msg("open add form")
		return m.setStatus(fmt.Sprintf("could not open form: %v", err), form.KindError), nil
	}
	m.add = newAddState(f, b, m.cfg.EnableCategories && len(m.categories) > 0)
	m.mode = modeAdd
	if f.Name() != "" || f.Description() != "" {
		m = m.setStatus("Recovered unsaved draft", form.KindInfo)
	} else {
		m = m.setStatus("New task: tab to move, ctrl+s to create, esc to leave", form.KindInfo)
	}
	return m, textinput.Blink
}

// orderForDisplay puts pinned tasks first and otherwise keeps insertion order.
func orderForDisplay(tasks []task.Task) []task.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b task.Task) int {
		switch {
		case a.Pinned == b.Pinned:
			return 0
		case a.Pinned:
			return -1
		default:
			return 1
		}
	})
	return out
}

func taskDetail(t task.Task) string {
	info := fmt.Sprintf("%s • %s", t.Name, humanDone(t.Done))
	if t.Description != nil {
		info += " • " + *t.Description
	}
	if t.Deadline != nil {
		info += " • due:" + t.Deadline.Format("2006-01-02 15:04")
	}
	if len(t.Category) > 0 {
		names := make([]string, len(t.Category))
		for i, c := range t.Category {
			names[i] = c.Name
		}
		info += " • " + strings.Join(names, ", ")
	}
	if t.Recurring {
		info += " • recurring"
		if t.RecurringInterval != nil {
			info += ":" + string(*t.RecurringInterval)
		}
	}
	info += " • created " + t.Date.Format("2006-01-02 15:04")
	return info
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
