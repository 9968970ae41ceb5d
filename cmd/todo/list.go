package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tasknest/internal/task"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all tasks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.store.FetchTasks()
			if err != nil {
				return err
			}
			return writeTasks(cmd.OutOrStdout(), tasks, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml.")
	return cmd
}

func writeTasks(w io.Writer, tasks []task.Task, format string) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch strings.ToLower(format) {
	case "text", "":
		printTasksText(w, tasks)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printTasksText(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}
	for _, t := range tasks {
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		name := t.Name
		if t.Emoji != nil {
			name = *t.Emoji + " " + name
		}
		extras := make([]string, 0, 3)
		if t.Pinned {
			extras = append(extras, "pinned")
		}
		if t.Deadline != nil {
			extras = append(extras, "due "+task.FormatDeadline(t.Deadline))
		}
		if t.Recurring {
			if t.RecurringInterval != nil {
				extras = append(extras, "every "+string(*t.RecurringInterval))
			} else {
				extras = append(extras, "recurring")
			}
		}
		for _, c := range t.Category {
			extras = append(extras, "#"+c.Name)
		}
		line := fmt.Sprintf("%s %s", checkbox, name)
		if len(extras) > 0 {
			line += " (" + strings.Join(extras, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}
