package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kinetic/internal/api"
)

func newJobCommand(ctx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:     "job",
		Aliases: []string{"jobs"},
		Short:   "Submit and inspect jobs",
	}

	var projectID int64
	addCmd := &cobra.Command{
		Use:   "add <audio> <video>",
		Short: "Queue a job with explicit inputs for an existing project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID <= 0 {
				return errors.New("--project is required")
			}
			audio, video, err := resolveInputs(args[0], args[1])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := client.CreateJob(cmd.Context(), api.CreateJobRequest{
				ProjectID: projectID,
				AudioPath: audio,
				VideoPath: video,
			})
			if err != nil {
				return wrapAPIError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d for project %d\n", job.ID, job.ProjectID)
			return nil
		},
	}
	addCmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Project id")

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			jobs, err := client.ListJobs(cmd.Context(), limit)
			if err != nil {
				return wrapAPIError(err)
			}
			out := cmd.OutOrStdout()
			writeTable(out, jobColumns(), jobRows(jobs, shouldColorize(out)), "No jobs")
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum jobs to list (default 200)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "job")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := client.GetJob(cmd.Context(), id)
			if err != nil {
				return wrapAPIError(err)
			}
			out := cmd.OutOrStdout()
			renderJob(out, job, shouldColorize(out))
			return nil
		},
	}

	var interval time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow a job's progress until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "job")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := watchJob(cmd.Context(), client, id, interval, cmd.OutOrStdout())
			if err != nil {
				return wrapAPIError(err)
			}
			if job.Status == "error" {
				return fmt.Errorf("job %d failed: %s", job.ID, deref(job.Error))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", deref(job.OutputPath))
			return nil
		},
	}
	watchCmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval")

	jobCmd.AddCommand(addCmd, listCmd, showCmd, watchCmd)
	return jobCmd
}

// watchJob polls until the job reaches done or error, printing each change.
func watchJob(ctx context.Context, client *api.Client, id int64, interval time.Duration, out io.Writer) (*api.Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	lastProgress := -1
	lastMessage := ""
	for {
		job, err := client.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		message := deref(job.Message)
		if job.Progress != lastProgress || message != lastMessage {
			fmt.Fprintf(out, "[%3d%%] %s: %s\n", job.Progress, titleCaser.String(job.Status), message)
			lastProgress, lastMessage = job.Progress, message
		}
		if job.Status == "done" || job.Status == "error" {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func renderJob(out io.Writer, job *api.Job, colorize bool) {
	fmt.Fprintf(out, "Job %d (%s)\n", job.ID, job.UUID)
	fmt.Fprintf(out, "  Project:  %d\n", job.ProjectID)
	fmt.Fprintf(out, "  Status:   %s\n", jobStatusLabel(job.Status, colorize))
	fmt.Fprintf(out, "  Progress: %d%%\n", job.Progress)
	fmt.Fprintf(out, "  Message:  %s\n", dashIfEmpty(deref(job.Message)))
	fmt.Fprintf(out, "  Audio:    %s\n", job.AudioPath)
	fmt.Fprintf(out, "  Video:    %s\n", job.VideoPath)
	fmt.Fprintf(out, "  Output:   %s\n", dashIfEmpty(deref(job.OutputPath)))
	if job.Error != nil {
		fmt.Fprintf(out, "  Error:    %s\n", *job.Error)
	}
	fmt.Fprintf(out, "  Created:  %s\n", dashIfEmpty(deref(job.CreatedAt)))
	fmt.Fprintf(out, "  Updated:  %s\n", dashIfEmpty(deref(job.UpdatedAt)))
}

func jobColumns() []column {
	return []column{
		{header: "ID", right: true},
		{header: "Project", right: true},
		{header: "Status"},
		{header: "Progress", right: true},
		{header: "Message", maxWidth: 40},
		{header: "Updated"},
	}
}

func jobRows(jobs []api.Job, colorize bool) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		message := deref(job.Message)
		if job.Error != nil {
			message = *job.Error
		}
		rows = append(rows, []string{
			strconv.FormatInt(job.ID, 10),
			strconv.FormatInt(job.ProjectID, 10),
			jobStatusLabel(job.Status, colorize),
			strconv.Itoa(job.Progress) + "%",
			dashIfEmpty(message),
			dashIfEmpty(deref(job.UpdatedAt)),
		})
	}
	return rows
}
