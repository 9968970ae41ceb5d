package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"tasknest/internal/draft"
)

func newDraftCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or discard the unsaved new-task draft.",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored draft fields.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := draft.Snapshot(a.drafts)
			if err != nil {
				return err
			}
			if len(snap) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No draft.")
				return nil
			}
			keys := make([]string, 0, len(snap))
			for k := range snap {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, snap[k])
			}
			return nil
		},
	}

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Remove every stored draft field for this session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := draft.Clear(a.drafts, draft.Keys...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discarded draft for session %q.\n", a.cfg.Session)
			return nil
		},
	}

	cmd.AddCommand(show, discard)
	return cmd
}
