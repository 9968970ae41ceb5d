package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasknest/internal/config"
	"tasknest/internal/form"
	"tasknest/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Faint(true)
	focusStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b624ff"))
	helperStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3131"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ec03c"))
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Bold(true).Border(lipgloss.RoundedBorder())
)

func (m Model) View() string {
	var b strings.Builder

	if m.mode == modeAdd && m.add != nil {
		b.WriteString(titleStyle.Render("Add New Task"))
		b.WriteString("\n\n")
		b.WriteString(m.renderAddForm())
	} else {
		b.WriteString(titleStyle.Render("Todo"))
		b.WriteString("\n\n")
		if len(m.tasks) == 0 {
			b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		} else {
			b.WriteString(m.renderTaskList())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(renderStatus(m.status, m.statusKind))
	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString(helperStyle.Render(renderAddHelp(m.cfg.Keys)))
	} else {
		b.WriteString(helperStyle.Render(renderHelp(m.cfg.Keys)))
	}
	return b.String()
}

func renderStatus(msg string, kind form.Kind) string {
	switch kind {
	case form.KindError:
		return errorStyle.Render(msg)
	case form.KindSuccess:
		return successStyle.Render(msg)
	default:
		return msg
	}
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s detail • space toggle • %s pin • %s delete • %s quit",
		k.Up, k.Down, k.Add, k.Detail, k.Pin, k.Delete, k.Quit)
}

func renderAddHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s field • %s create • %s back (draft is kept) • ctrl+x clear deadline",
		k.NextField, k.PrevField, k.Confirm, k.Cancel)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		name := t.Name
		if t.Emoji != nil {
			name = *t.Emoji + " " + name
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")

		extras := make([]string, 0, 3)
		if t.Pinned {
			extras = append(extras, "pinned")
		}
		if t.Deadline != nil {
			extras = append(extras, "D:"+t.Deadline.Format("2006-01-02 15:04"))
		}
		if t.Recurring {
			extras = append(extras, "R")
		}

		body := fmt.Sprintf("%s %s %s %s", cursor, checkbox, swatch, name)
		if len(extras) > 0 {
			body += " [" + strings.Join(extras, " | ") + "]"
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) label(f field, text string) string {
	if m.add.focus == f {
		return focusStyle.Render("> " + text)
	}
	return labelStyle.Render("  " + text)
}

// lengthHelper renders the counter under a text field, or the length error
// when the field is over its limit.
func lengthHelper(value string, max int, err error) string {
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	if value == "" {
		return ""
	}
	return helperStyle.Render(fmt.Sprintf("%d/%d", task.Len(value), max))
}

func (m Model) renderAddForm() string {
	a := m.add
	f := a.form
	limits := f.Limits()
	var b strings.Builder

	b.WriteString(m.label(fieldName, "Task Name"))
	b.WriteString("\n  ")
	b.WriteString(a.nameInput.View())
	if h := lengthHelper(f.Name(), limits.NameMax, f.NameError()); h != "" {
		b.WriteString("\n  " + h)
	}
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldDescription, "Task Description (optional)"))
	b.WriteString("\n")
	b.WriteString(a.descInput.View())
	if h := lengthHelper(f.Description(), limits.DescriptionMax, f.DescriptionError()); h != "" {
		b.WriteString("\n  " + h)
	}
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldDeadline, "Task Deadline (optional)"))
	b.WriteString("\n  ")
	b.WriteString(a.deadlineInput.View())
	b.WriteString("\n\n")

	check := "[ ]"
	if f.Recurring() {
		check = "[x]"
	}
	b.WriteString(m.label(fieldRecurring, "Is recurring task? "+check))
	b.WriteString("\n")
	if f.Recurring() {
		iv := f.RecurringInterval()
		if iv == "" {
			iv = "(choose)"
		}
		b.WriteString(m.label(fieldInterval, "Interval: ◀ "+iv+" ▶"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if a.withCats {
		b.WriteString(m.label(fieldCategories, "Categories"))
		b.WriteString("\n")
		for i, c := range m.categories {
			cursor := " "
			if a.focus == fieldCategories && i == a.catCursor {
				cursor = ">"
			}
			mark := "[ ]"
			if f.HasCategory(c.ID) {
				mark = "[x]"
			}
			name := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(strings.TrimSpace(c.Emoji + " " + c.Name))
			b.WriteString(fmt.Sprintf("   %s %s %s\n", cursor, mark, name))
		}
		b.WriteString("\n")
	}

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(f.Color())).Render("    ")
	b.WriteString(m.label(fieldColor, "Color: ◀ "+swatch+" "+f.Color()+" ▶"))
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldEmoji, "Emoji"))
	b.WriteString("\n  ")
	b.WriteString(a.emojiInput.View())
	b.WriteString("\n\n")

	button := "Create Task"
	if !f.CanCreate() {
		button = disabledStyle.Render(button)
	} else if a.focus == fieldCreate {
		button = focusStyle.Render(button)
	}
	b.WriteString(buttonStyle.Render(button))
	return b.String()
}
