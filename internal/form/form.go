// Package form drives the add-task form: every field is mirrored into a
// draft store while the user edits, and Submit turns the draft into a
// task exactly once.
package form

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"tasknest/internal/draft"
	"tasknest/internal/task"
)

var (
	ErrNameRequired     = errors.New("task name is required")
	ErrAlreadyCommitted = errors.New("form already committed")
)

type State int

const (
	StateEditing State = iota
	StateValidating
	StateRejected
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateCommitted:
		return "committed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// Sink receives committed tasks.
type Sink interface {
	AppendTask(t task.Task) error
}

type Notifier interface {
	Notify(message string, kind Kind)
}

type Navigator interface {
	GoToTaskList()
}

type Limits struct {
	NameMax        int
	DescriptionMax int
}

type Options struct {
	Limits       Limits
	DefaultColor string
	Sink         Sink
	Notifier     Notifier
	Navigator    Navigator
	Assembler    task.Assembler
}

type Form struct {
	store draft.Store
	opts  Options
	state State

	name        *draft.Field[string]
	emoji       *draft.Field[*string]
	color       *draft.Field[string]
	description *draft.Field[string]
	recurring   *draft.Field[bool]
	interval    *draft.Field[string]
	deadline    *draft.Field[string]
	categories  *draft.Field[[]task.Category]
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, Kind) {}

type nopNavigator struct{}

func (nopNavigator) GoToTaskList() {}

// New binds a form to store, recovering any draft it already holds.
func New(store draft.Store, opts Options) (*Form, error) {
	if opts.Sink == nil {
		return nil, errors.New("form: nil task sink")
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Navigator == nil {
		opts.Navigator = nopNavigator{}
	}
	if opts.Limits.NameMax <= 0 {
		opts.Limits.NameMax = task.DefaultNameMax
	}
	if opts.Limits.DescriptionMax <= 0 {
		opts.Limits.DescriptionMax = task.DefaultDescriptionMax
	}
	if opts.Assembler.Now == nil && opts.Assembler.NewID == nil {
		opts.Assembler = task.NewAssembler()
	}

	f := &Form{store: store, opts: opts}
	var err error
	if f.name, err = draft.Bind(store, draft.KeyName, ""); err != nil {
		return nil, err
	}
	if f.emoji, err = draft.Bind[*string](store, draft.KeyEmoji, nil); err != nil {
		return nil, err
	}
	if f.color, err = draft.Bind(store, draft.KeyColor, opts.DefaultColor); err != nil {
		return nil, err
	}
	if f.description, err = draft.Bind(store, draft.KeyDescription, ""); err != nil {
		return nil, err
	}
	if f.recurring, err = draft.Bind(store, draft.KeyRecurring, false); err != nil {
		return nil, err
	}
	if f.interval, err = draft.Bind(store, draft.KeyRecurringInterval, ""); err != nil {
		return nil, err
	}
	if f.deadline, err = draft.Bind(store, draft.KeyDeadline, ""); err != nil {
		return nil, err
	}
	if f.categories, err = draft.Bind(store, draft.KeyCategories, []task.Category{}); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Form) State() State { return f.state }
func (f *Form) Limits() Limits { return f.opts.Limits }

func (f *Form) Name() string { return f.name.Get() }
func (f *Form) Color() string { return f.color.Get() }
func (f *Form) Description() string { return f.description.Get() }
func (f *Form) Recurring() bool { return f.recurring.Get() }
func (f *Form) RecurringInterval() string { return f.interval.Get() }
func (f *Form) Deadline() string { return f.deadline.Get() }

func (f *Form) Emoji() string {
	if e := f.emoji.Get(); e != nil {
		return *e
	}
	return ""
}

func (f *Form) Categories() []task.Category {
	return slices.Clone(f.categories.Get())
}

func (f *Form) editable() error {
	if f.state == StateCommitted {
		return ErrAlreadyCommitted
	}
	return nil
}

func (f *Form) SetName(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	return f.name.Set(v)
}

func (f *Form) SetDescription(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	return f.description.Set(v)
}

func (f *Form) SetColor(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	return f.color.Set(v)
}

// SetEmoji stores the chosen glyph; an empty string clears it.
func (f *Form) SetEmoji(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if v == "" {
		return f.emoji.Set(nil)
	}
	return f.emoji.Set(&v)
}

// SetRecurring leaves any chosen interval in the draft so it comes back
// when recurrence is switched on again.
func (f *Form) SetRecurring(v bool) error {
	if err := f.editable(); err != nil {
		return err
	}
	return f.recurring.Set(v)
}

func (f *Form) SetRecurringInterval(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if v != "" {
		iv, err := task.ParseInterval(v)
		if err != nil {
			return err
		}
		v = string(iv)
	}
	return f.interval.Set(v)
}

// SetDeadline accepts "" or a value in task.DeadlineLayout. Anything else
// is refused so the draft never holds an unparseable deadline.
func (f *Form) SetDeadline(v string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if v != "" {
		if _, err := task.ParseDeadline(v); err != nil {
			return err
		}
	}
	return f.deadline.Set(v)
}

func (f *Form) SetCategories(cats []task.Category) error {
	if err := f.editable(); err != nil {
		return err
	}
	return f.categories.Set(slices.Clone(cats))
}

// ToggleCategory adds c to the selection, or removes it if already selected.
func (f *Form) ToggleCategory(c task.Category) error {
	cur := f.Categories()
	idx := slices.IndexFunc(cur, func(x task.Category) bool { return x.ID == c.ID })
	if idx >= 0 {
		cur = slices.Delete(cur, idx, idx+1)
	} else {
		cur = append(cur, c)
	}
	return f.SetCategories(cur)
}

func (f *Form) HasCategory(id string) bool {
	return slices.ContainsFunc(f.categories.Get(), func(c task.Category) bool { return c.ID == id })
}

func (f *Form) NameError() error {
	return task.ValidateLength("Name", task.Len(f.Name()), f.opts.Limits.NameMax)
}

func (f *Form) DescriptionError() error {
	return task.ValidateLength("Description", task.Len(f.Description()), f.opts.Limits.DescriptionMax)
}

// Validate joins the active length errors.
func (f *Form) Validate() error {
	return errors.Join(f.NameError(), f.DescriptionError())
}

// CanCreate reports whether the create control should be enabled.
func (f *Form) CanCreate() bool {
	return f.state != StateCommitted && f.Validate() == nil
}

func (f *Form) Draft() task.Draft {
	return task.Draft{
		Name:              f.name.Get(),
		Emoji:             f.emoji.Get(),
		Color:             f.color.Get(),
		Description:       f.description.Get(),
		Recurring:         f.recurring.Get(),
		RecurringInterval: f.interval.Get(),
		Deadline:          f.deadline.Get(),
		Categories:        f.Categories(),
	}
}

// Submit validates the draft and, if it passes, creates the task, hands it
// to the sink, notifies, navigates and clears the draft. On any rejection
// the form goes back to editing with the draft untouched.
func (f *Form) Submit() (task.Task, error) {
	if f.state == StateCommitted {
		return task.Task{}, ErrAlreadyCommitted
	}
	f.state = StateValidating

	if f.Name() == "" {
		f.reject()
		f.opts.Notifier.Notify("Task name is required.", KindError)
		return task.Task{}, ErrNameRequired
	}
	if err := f.Validate(); err != nil {
		f.reject()
		return task.Task{}, err
	}

	t, err := f.opts.Assembler.Assemble(f.Draft())
	if err != nil {
		f.reject()
		log.Error().Err(err).Msg("assemble task")
		return task.Task{}, err
	}
	if err := f.opts.Sink.AppendTask(t); err != nil {
		f.reject()
		f.opts.Notifier.Notify(fmt.Sprintf("Could not save task: %v", err), KindError)
		return task.Task{}, fmt.Errorf("append task: %w", err)
	}

	f.state = StateCommitted
	log.Info().Str("id", t.ID).Str("name", t.Name).Msg("task created")
	f.opts.Notifier.Notify("Added task - "+t.Name, KindSuccess)
	f.opts.Navigator.GoToTaskList()
	if err := draft.Clear(f.store, draft.CommitKeys...); err != nil {
		log.Warn().Err(err).Msg("task created but draft was not cleared")
	}
	return t, nil
}

func (f *Form) reject() {
	f.state = StateRejected
	log.Debug().Stringer("state", f.state).Msg("submission rejected")
	f.state = StateEditing
}
