package ui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasknest/internal/form"
	"tasknest/internal/task"
)

type field int

const (
	fieldName field = iota
	fieldDescription
	fieldDeadline
	fieldRecurring
	fieldInterval
	fieldCategories
	fieldColor
	fieldEmoji
	fieldCreate
	fieldCount
)

var palette = []string{
	"#b624ff", "#ff3131", "#ff9318", "#ffdd11", "#a4e34a",
	"#2ec03c", "#00c7be", "#1e90ff", "#ff69b4", "#8a8a8a",
}

// intervalChoices starts with "" so the picker can be left unset.
var intervalChoices = append([]task.Interval{""}, task.Intervals...)

type addState struct {
	form          *form.Form
	events        *bridge
	withCats      bool
	focus         field
	catCursor     int
	nameInput     textinput.Model
	descInput     textarea.Model
	deadlineInput textinput.Model
	emojiInput    textinput.Model
}

func newAddState(f *form.Form, b *bridge, withCats bool) *addState {
	name := textinput.New()
	name.Placeholder = "Enter task name"
	name.Width = 40
	name.SetValue(f.Name())

	desc := textarea.New()
	desc.Placeholder = "Enter task description"
	desc.ShowLineNumbers = false
	desc.CharLimit = 0
	desc.SetHeight(4)
	desc.SetWidth(50)
	desc.SetValue(f.Description())

	deadline := textinput.New()
	deadline.Placeholder = "YYYY-MM-DDTHH:MM"
	deadline.CharLimit = len(task.DeadlineLayout)
	deadline.Width = 20
	deadline.SetValue(f.Deadline())

	emoji := textinput.New()
	emoji.Placeholder = "emoji (optional)"
	emoji.CharLimit = 8
	emoji.Width = 10
	emoji.SetValue(f.Emoji())

	a := &addState{
		form:          f,
		events:        b,
		withCats:      withCats,
		nameInput:     name,
		descInput:     desc,
		deadlineInput: deadline,
		emojiInput:    emoji,
	}
	a.setFocus(fieldName)
	return a
}

func (a *addState) resize(width int) {
	if width <= 10 {
		return
	}
	a.nameInput.Width = width - 10
	a.descInput.SetWidth(width - 10)
}

// skipped reports fields that are hidden in the current form state.
func (a *addState) skipped(f field) bool {
	switch f {
	case fieldInterval:
		return !a.form.Recurring()
	case fieldCategories:
		return !a.withCats
	}
	return false
}

func (a *addState) move(delta int) {
	next := a.focus
	for i := field(0); i < fieldCount; i++ {
		next = (next + field(delta) + fieldCount) % fieldCount
		if !a.skipped(next) {
			break
		}
	}
	a.setFocus(next)
}

func (a *addState) setFocus(f field) {
	a.focus = f
	a.nameInput.Blur()
	a.descInput.Blur()
	a.deadlineInput.Blur()
	a.emojiInput.Blur()
	switch f {
	case fieldName:
		a.nameInput.Focus()
	case fieldDescription:
		a.descInput.Focus()
	case fieldDeadline:
		a.deadlineInput.Focus()
	case fieldEmoji:
		a.emojiInput.Focus()
	}
}

// updateFocused hands non-key messages, such as cursor blinks, to the
// focused input.
func (a *addState) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case fieldName:
		a.nameInput, cmd = a.nameInput.Update(msg)
	case fieldDescription:
		a.descInput, cmd = a.descInput.Update(msg)
	case fieldDeadline:
		a.deadlineInput, cmd = a.deadlineInput.Update(msg)
	case fieldEmoji:
		a.emojiInput, cmd = a.emojiInput.Update(msg)
	}
	return cmd
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.add
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		// leaving keeps the draft so it can be recovered next time
		m.mode = modeList
		m.add = nil
		return m.setStatus("Draft kept", form.KindInfo), nil
	case m.cfg.Keys.NextField:
		a.move(1)
		return m, nil
	case m.cfg.Keys.PrevField:
		a.move(-1)
		return m, nil
	case m.cfg.Keys.Confirm:
		return m.submit()
	}

	var cmd tea.Cmd
	var err error
	switch a.focus {
	case fieldName:
		if key == "enter" {
			a.move(1)
			return m, nil
		}
		a.nameInput, cmd = a.nameInput.Update(msg)
		if v := a.nameInput.Value(); v != a.form.Name() {
			err = a.form.SetName(v)
		}
	case fieldDescription:
		a.descInput, cmd = a.descInput.Update(msg)
		if v := a.descInput.Value(); v != a.form.Description() {
			err = a.form.SetDescription(v)
		}
	case fieldDeadline:
		if key == "enter" {
			a.move(1)
			return m, nil
		}
		if key == "ctrl+x" {
			a.deadlineInput.SetValue("")
		} else {
			a.deadlineInput, cmd = a.deadlineInput.Update(msg)
		}
		err = m.syncDeadline()
	case fieldRecurring:
		if key == " " || key == "enter" {
			err = a.form.SetRecurring(!a.form.Recurring())
		}
	case fieldInterval:
		switch key {
		case "left", "h":
			err = a.form.SetRecurringInterval(string(cycleInterval(a.form.RecurringInterval(), -1)))
		case "right", "l", " ":
			err = a.form.SetRecurringInterval(string(cycleInterval(a.form.RecurringInterval(), 1)))
		}
	case fieldCategories:
		switch key {
		case "up", "k":
			a.catCursor = clampCursor(a.catCursor-1, len(m.categories))
		case "down", "j":
			a.catCursor = clampCursor(a.catCursor+1, len(m.categories))
		case " ", "enter":
			if len(m.categories) > 0 {
				err = a.form.ToggleCategory(m.categories[clampCursor(a.catCursor, len(m.categories))])
			}
		}
	case fieldColor:
		switch key {
		case "left", "h":
			err = a.form.SetColor(cycleColor(a.form.Color(), -1))
		case "right", "l", " ":
			err = a.form.SetColor(cycleColor(a.form.Color(), 1))
		}
	case fieldEmoji:
		if key == "enter" {
			a.move(1)
			return m, nil
		}
		a.emojiInput, cmd = a.emojiInput.Update(msg)
		if v := a.emojiInput.Value(); v != a.form.Emoji() {
			err = a.form.SetEmoji(v)
		}
	case fieldCreate:
		if key == "enter" || key == " " {
			return m.submit()
		}
	}
	if err != nil {
		return m.setStatus(err.Error(), form.KindError), cmd
	}
	return m, cmd
}

// syncDeadline copies the deadline input into the draft once it holds a
// complete value, and clears it when the input is emptied.
func (m Model) syncDeadline() error {
	a := m.add
	v := a.deadlineInput.Value()
	if v == a.form.Deadline() {
		return nil
	}
	if v == "" {
		return a.form.SetDeadline("")
	}
	if len(v) < len(task.DeadlineLayout) {
		return nil
	}
	return a.form.SetDeadline(v)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	a := m.add
	if !a.form.CanCreate() {
		return m.setStatus("Fix the highlighted fields first", form.KindError), nil
	}
	// a half-typed deadline that never reached the draft would be lost silently
	if v := a.deadlineInput.Value(); v != a.form.Deadline() {
		if err := a.form.SetDeadline(v); err != nil {
			a.setFocus(fieldDeadline)
			return m.setStatus(fmt.Sprintf("Deadline must look like %s", task.DeadlineLayout), form.KindError), nil
		}
	}

	created, err := a.form.Submit()
	if a.events.notified {
		m = m.setStatus(a.events.message, a.events.kind)
		a.events.notified = false
	}
	if err != nil {
		var lerr *task.LengthError
		switch {
		case errors.Is(err, form.ErrNameRequired):
			a.setFocus(fieldName)
		case errors.As(err, &lerr):
			m = m.setStatus(err.Error(), form.KindError)
		}
		return m, nil
	}
	if a.events.navigate {
		m.mode = modeList
		m.add = nil
		m = m.reload(created.ID)
	}
	return m, nil
}

func cycleInterval(cur string, delta int) task.Interval {
	idx := slices.Index(intervalChoices, task.Interval(cur))
	if idx < 0 {
		idx = 0
	}
	n := len(intervalChoices)
	return intervalChoices[(idx+delta+n)%n]
}

func cycleColor(cur string, delta int) string {
	idx := slices.Index(palette, cur)
	if idx < 0 {
		if delta > 0 {
			return palette[0]
		}
		return palette[len(palette)-1]
	}
	n := len(palette)
	return palette[(idx+delta+n)%n]
}
