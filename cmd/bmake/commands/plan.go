package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bmake/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Print the execution plan without running it",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			format, _ := cmd.Flags().GetString("format")
			legacy, _ := cmd.Flags().GetBool("legacy-expansion")

			return c.app.Plan(cmd.Context(), args, app.PlanOptions{
				File:            file,
				Format:          format,
				LegacyExpansion: legacy,
			})
		},
	}
	cmd.Flags().StringP("file", "f", "", "Script to read (default: Bmakefile, then example.bmake)")
	cmd.Flags().String("format", app.FormatText, "Output format: text or yaml")
	cmd.Flags().Bool("legacy-expansion", false, "Expand references with the single-pass legacy rules")
	return cmd
}

func (c *CLI) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the parsed variables and targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			return c.app.Dump(cmd.Context(), app.DumpOptions{File: file})
		},
	}
	cmd.Flags().StringP("file", "f", "", "Script to read (default: Bmakefile, then example.bmake)")
	return cmd
}
