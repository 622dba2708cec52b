package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bmake/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Run targets, then run them again whenever files change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, _ := cmd.Flags().GetStringSlice("pattern")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			return c.app.Watch(cmd.Context(), args, app.WatchOptions{
				RunOptions: runOptions(cmd),
				Patterns:   patterns,
				Debounce:   debounce,
			})
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringSlice("pattern", nil, "Only re-run for files matching these globs (repeatable)")
	cmd.Flags().Duration("debounce", 0, "Quiet period before re-running (default from bmake.yaml, else 300ms)")
	return cmd
}
