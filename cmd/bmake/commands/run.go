package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bmake/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run targets and their dependencies",
		Long: "Run the given targets after all of their dependencies. Without targets the\n" +
			"default target from bmake.yaml (or \"all\") is run.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), args, runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Script to read (default: Bmakefile, then example.bmake)")
	cmd.Flags().IntP("jobs", "j", 0, "Number of targets to run in parallel (default from bmake.yaml, else 1)")
	cmd.Flags().BoolP("dry-run", "n", false, "Print the commands without running them")
	cmd.Flags().Bool("cache", false, "Skip targets whose commands and dependencies are unchanged since their last success")
	cmd.Flags().Bool("legacy-expansion", false, "Expand references with the single-pass legacy rules")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, linear, plain, or quiet")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().BoolP("inspect", "i", false, "Keep the TUI open after the run (prevents auto-exit)")
	cmd.Flags().Bool("inspect-on-error", false, "Keep the TUI open only when the run fails")
	cmd.Flags().String("trace-file", "", "Write an OpenTelemetry trace of the run to this file")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this file")
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	file, _ := cmd.Flags().GetString("file")
	jobs, _ := cmd.Flags().GetInt("jobs")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cache, _ := cmd.Flags().GetBool("cache")
	legacy, _ := cmd.Flags().GetBool("legacy-expansion")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	inspect, _ := cmd.Flags().GetBool("inspect")
	inspectOnError, _ := cmd.Flags().GetBool("inspect-on-error")
	traceFile, _ := cmd.Flags().GetString("trace-file")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		File:            file,
		Jobs:            jobs,
		DryRun:          dryRun,
		Cache:           cache,
		LegacyExpansion: legacy,
		OutputMode:      outputMode,
		Inspect:         inspect,
		InspectOnError:  inspectOnError,
		TraceFile:       traceFile,
		MetricsFile:     metricsFile,
	}
}
