package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"kinetic/internal/api"
)

func newMediaCommand(ctx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Inspect produced media",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List produced media, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			media, err := client.ListMedia(cmd.Context())
			if err != nil {
				return wrapAPIError(err)
			}
			writeTable(cmd.OutOrStdout(), mediaColumns(), mediaRows(media), "No media")
			return nil
		},
	}

	mediaCmd.AddCommand(listCmd)
	return mediaCmd
}

func mediaColumns() []column {
	return []column{
		{header: "ID", right: true},
		{header: "Project", right: true},
		{header: "Job", right: true},
		{header: "Type"},
		{header: "File", maxWidth: 60},
		{header: "Created"},
	}
}

func mediaRows(media []api.Media) [][]string {
	rows := make([][]string, 0, len(media))
	for _, m := range media {
		job := "-"
		if m.JobID != nil {
			job = strconv.FormatInt(*m.JobID, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.ProjectID, 10),
			job,
			m.MediaType,
			m.FilePath,
			dashIfEmpty(deref(m.CreatedAt)),
		})
	}
	return rows
}
