package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"kinetic/internal/api"
	"kinetic/internal/config"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	var name string
	addCmd := &cobra.Command{
		Use:   "add <audio> <video>",
		Short: "Create a project and queue its first job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, video, err := resolveInputs(args[0], args[1])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			created, err := client.CreateProject(cmd.Context(), api.CreateProjectRequest{
				Name:      name,
				AudioPath: audio,
				VideoPath: video,
			})
			if err != nil {
				return wrapAPIError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %d (%s); queued job %d\n",
				created.Project.ID, created.Project.Name, created.Job.ID)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&name, "name", "n", "", "Project name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return wrapAPIError(err)
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					p.AudioPath,
					p.VideoPath,
					dashIfEmpty(deref(p.CreatedAt)),
				})
			}
			writeTable(cmd.OutOrStdout(), []column{
				{header: "ID", right: true},
				{header: "Name", maxWidth: 32},
				{header: "Audio", maxWidth: 40},
				{header: "Video", maxWidth: 40},
				{header: "Created"},
			}, rows, "No projects")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project with its jobs and media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			detail, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return wrapAPIError(err)
			}
			out := cmd.OutOrStdout()
			renderProjectDetail(out, detail, shouldColorize(out))
			return nil
		},
	}

	rerunCmd := &cobra.Command{
		Use:   "rerun <id>",
		Short: "Queue a new job using the project's inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := client.CreateProjectJob(cmd.Context(), id)
			if err != nil {
				return wrapAPIError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d for project %d\n", job.ID, id)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project with its jobs and media records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.DeleteProject(cmd.Context(), id); err != nil {
				if api.IsNotFound(err) {
					return fmt.Errorf("project %d not found", id)
				}
				return wrapAPIError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %d (files on disk are kept)\n", id)
			return nil
		},
	}

	projectCmd.AddCommand(addCmd, listCmd, showCmd, rerunCmd, removeCmd)
	return projectCmd
}

func renderProjectDetail(out io.Writer, detail *api.ProjectDetail, colorize bool) {
	p := detail.Project
	fmt.Fprintf(out, "Project %d: %s\n", p.ID, p.Name)
	fmt.Fprintf(out, "  Audio:   %s\n", p.AudioPath)
	fmt.Fprintf(out, "  Video:   %s\n", p.VideoPath)
	fmt.Fprintf(out, "  Created: %s\n\n", dashIfEmpty(deref(p.CreatedAt)))

	writeTable(out, jobColumns(), jobRows(detail.Jobs, colorize), "No jobs")
	fmt.Fprintln(out)
	writeTable(out, mediaColumns(), mediaRows(detail.Media), "No media")
}

// resolveInputs expands user paths so the daemon receives absolute paths.
func resolveInputs(audio, video string) (string, string, error) {
	resolvedAudio, err := config.ExpandPath(audio)
	if err != nil {
		return "", "", fmt.Errorf("resolve audio path: %w", err)
	}
	resolvedVideo, err := config.ExpandPath(video)
	if err != nil {
		return "", "", fmt.Errorf("resolve video path: %w", err)
	}
	return resolvedAudio, resolvedVideo, nil
}
