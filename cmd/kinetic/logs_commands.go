package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kinetic/internal/logs"
)

type logsOptions struct {
	lines     int
	follow    bool
	raw       bool
	jobID     int64
	component string
	level     string
	interval  time.Duration
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	opts := logsOptions{}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogFilePath()
			if path == "" {
				return errors.New("file logging is disabled; set paths.log_dir")
			}
			return printLogs(cmd.Context(), cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Keep printing new lines as they are written")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print JSON lines without formatting")
	cmd.Flags().Int64Var(&opts.jobID, "job", 0, "Only show lines for this job ID")
	cmd.Flags().StringVar(&opts.component, "component", "", "Only show lines from this component")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 500*time.Millisecond, "Poll interval when following")
	return cmd
}

func printLogs(ctx context.Context, out io.Writer, path string, opts logsOptions) error {
	filter := logs.Filter{JobID: opts.jobID, Component: opts.component, MinLevel: opts.level}
	emit := func(lines []string) error {
		for _, line := range lines {
			entry, parsed := logs.ParseEntry(line)
			if !filter.Match(entry, parsed) {
				continue
			}
			if opts.raw {
				fmt.Fprintln(out, line)
			} else {
				fmt.Fprintln(out, logs.FormatEntry(entry, parsed))
			}
		}
		return nil
	}

	result, err := logs.Tail(path, logs.TailOptions{Offset: -1, Limit: opts.lines})
	if err != nil {
		return err
	}
	if err := emit(result.Lines); err != nil {
		return err
	}
	if !opts.follow {
		if len(result.Lines) == 0 && result.Offset == 0 {
			fmt.Fprintf(out, "No log entries at %s\n", path)
		}
		return nil
	}
	return logs.Follow(ctx, path, result.Offset, opts.interval, emit)
}
