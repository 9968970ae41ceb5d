package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tasknest/internal/form"
	"tasknest/internal/task"
)

type addOptions struct {
	name        string
	description string
	deadline    string
	emoji       string
	color       string
	recurring   bool
	interval    string
	categories  []string
}

type cliNotifier struct {
	out, errOut io.Writer
	failed      bool
}

func (n *cliNotifier) Notify(message string, kind form.Kind) {
	if kind == form.KindError {
		n.failed = true
		fmt.Fprintln(n.errOut, message)
		return
	}
	fmt.Fprintln(n.out, message)
}

// listNavigator shows the task list once a task has been created.
type listNavigator struct {
	out   io.Writer
	store interface {
		FetchTasks() ([]task.Task, error)
	}
}

func (n listNavigator) GoToTaskList() {
	tasks, err := n.store.FetchTasks()
	if err != nil {
		fmt.Fprintf(n.out, "could not load tasks: %v\n", err)
		return
	}
	fmt.Fprintln(n.out)
	printTasksText(n.out, tasks)
}

func newAddCmd(root *rootOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task from flags.",
		Long: `add writes the given flags into the session draft and submits it, exactly like the
interactive form. Flags that are not given keep their draft value, so a draft started in the
form can be finished here. A rejected task leaves the draft in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			notifier := &cliNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			f, err := form.New(a.drafts, form.Options{
				Limits:       form.Limits{NameMax: a.cfg.NameMax, DescriptionMax: a.cfg.DescriptionMax},
				DefaultColor: a.cfg.DefaultColor,
				Sink:         a.store,
				Notifier:     notifier,
				Navigator:    listNavigator{out: cmd.OutOrStdout(), store: a.store},
			})
			if err != nil {
				return err
			}
			if err := applyAddFlags(cmd, f, opts, a.store); err != nil {
				return err
			}
			if _, err := f.Submit(); err != nil {
				if notifier.failed {
					return reportedError{err: err}
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Task name.")
	cmd.Flags().StringVarP(&opts.description, "description", "D", "", "Task description.")
	cmd.Flags().StringVar(&opts.deadline, "deadline", "", "Deadline as "+task.DeadlineLayout+".")
	cmd.Flags().StringVar(&opts.emoji, "emoji", "", "Emoji shown next to the task.")
	cmd.Flags().StringVar(&opts.color, "color", "", "Task color (hex).")
	cmd.Flags().BoolVar(&opts.recurring, "recurring", false, "Mark the task as recurring.")
	cmd.Flags().StringVar(&opts.interval, "interval", "", "Recurring interval: daily, weekly, monthly or yearly.")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Category name; repeat for several.")
	return cmd
}

type categorySource interface {
	FetchCategories() ([]task.Category, error)
}

func applyAddFlags(cmd *cobra.Command, f *form.Form, opts *addOptions, cats categorySource) error {
	flags := cmd.Flags()
	steps := []struct {
		flag string
		set  func() error
	}{
		{"name", func() error { return f.SetName(opts.name) }},
		{"description", func() error { return f.SetDescription(opts.description) }},
		{"deadline", func() error { return f.SetDeadline(opts.deadline) }},
		{"emoji", func() error { return f.SetEmoji(opts.emoji) }},
		{"color", func() error { return f.SetColor(opts.color) }},
		{"recurring", func() error { return f.SetRecurring(opts.recurring) }},
		{"interval", func() error { return f.SetRecurringInterval(opts.interval) }},
		{"category", func() error {
			selected, err := resolveCategories(cats, opts.categories)
			if err != nil {
				return err
			}
			return f.SetCategories(selected)
		}},
	}
	for _, s := range steps {
		if !flags.Changed(s.flag) {
			continue
		}
		if err := s.set(); err != nil {
			return fmt.Errorf("--%s: %w", s.flag, err)
		}
	}
	return nil
}

func resolveCategories(src categorySource, names []string) ([]task.Category, error) {
	all, err := src.FetchCategories()
	if err != nil {
		return nil, err
	}
	out := make([]task.Category, 0, len(names))
	for _, name := range names {
		found := false
		for _, c := range all {
			if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
				out = append(out, c)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown category %q", name)
		}
	}
	return out, nil
}
