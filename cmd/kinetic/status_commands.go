package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"kinetic/internal/api"
	"kinetic/internal/daemonctl"
	"kinetic/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, queue, and dependency status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, reachable, err := daemonctl.BuildStatusSnapshot(cmd.Context(), client, cfg)
			if err != nil {
				return wrapAPIError(err)
			}
			out := cmd.OutOrStdout()
			renderStatus(out, status, reachable, client.BaseURL(), shouldColorize(out))
			return nil
		},
	}
}

func renderStatus(out io.Writer, status *api.DaemonStatus, reachable bool, baseURL string, colorize bool) {
	lines := renderSectionHeader("Daemon", colorize)
	if reachable && status.Running {
		lines = append(lines, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
	} else if reachable {
		lines = append(lines, renderStatusLine("Daemon", statusWarn, "api up, worker stopped", colorize))
	} else {
		lines = append(lines, renderStatusLine("Daemon", statusError, "not reachable at "+baseURL, colorize))
	}
	lines = append(lines,
		renderStatusLine("Database", statusInfo, status.DatabasePath, colorize),
		renderStatusLine("Queue backend", statusInfo, status.QueueBackend, colorize),
	)
	if reachable {
		wf := status.Workflow
		lines = append(lines, renderStatusLine("Worker running", statusInfo, yesNo(wf.Running), colorize))
		lines = append(lines, renderStatusLine("Queue depth", statusInfo, strconv.Itoa(wf.QueueDepth), colorize))
		if wf.CurrentJob != nil {
			job := wf.CurrentJob
			lines = append(lines, renderStatusLine("Current job", statusInfo,
				fmt.Sprintf("#%d %d%% %s", job.ID, job.Progress, deref(job.Message)), colorize))
		}
		if wf.LastError != "" {
			lines = append(lines, renderStatusLine("Last error", statusWarn, wf.LastError, colorize))
		}
		lines = append(lines, renderStatusLine("Processed", statusInfo, strconv.Itoa(wf.Processed), colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Jobs", colorize)...)
	if len(status.Workflow.JobCounts) == 0 {
		lines = append(lines, renderStatusLine("Jobs", statusInfo, "none", colorize))
	}
	statuses := make([]string, 0, len(status.Workflow.JobCounts))
	for name := range status.Workflow.JobCounts {
		statuses = append(statuses, name)
	}
	sort.Strings(statuses)
	for _, name := range statuses {
		kind := statusInfo
		if name == "error" {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(titleCaser.String(name), kind, strconv.Itoa(status.Workflow.JobCounts[name]), colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	lines = append(lines, dependencyLines(status.Dependencies, colorize)...)

	if len(status.Preflight) > 0 {
		lines = append(lines, "")
		lines = append(lines, renderSectionHeader("Preflight", colorize)...)
		for _, check := range status.Preflight {
			kind := statusOK
			if !check.Passed {
				kind = statusError
			}
			lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
		}
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

func dependencyLines(deps []api.DependencyStatus, colorize bool) []string {
	lines := make([]string, 0, len(deps))
	for _, dep := range deps {
		switch {
		case dep.Available:
			lines = append(lines, renderStatusLine(dep.Name, statusOK, dep.Path, colorize))
		case dep.Optional:
			lines = append(lines, renderStatusLine(dep.Name, statusWarn, dep.Detail, colorize))
		default:
			lines = append(lines, renderStatusLine(dep.Name, statusError, dep.Detail, colorize))
		}
	}
	return lines
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external engine binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := api.FromDependencies(preflight.CheckSystemDeps(cmd.Context(), cfg))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.Join(dependencyLines(statuses, shouldColorize(out)), "\n"))
			missing := 0
			for _, dep := range statuses {
				if !dep.Available && !dep.Optional {
					missing++
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d required engine(s) missing", missing)
			}
			return nil
		},
	}
}
