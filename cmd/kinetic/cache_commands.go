package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"kinetic/internal/artifactcache"
	"kinetic/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the artifact cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts and beat lists, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := artifactcache.New(cfg.Paths.CacheDir, logging.NewNop())
			if err != nil {
				return err
			}
			entries, err := cache.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			rows := make([][]string, 0, len(entries))
			var total int64
			for i, entry := range entries {
				total += entry.Size
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					entry.Class,
					entry.Fingerprint,
					humanize.IBytes(uint64(entry.Size)),
					entry.ModTime.Local().Format("2006-01-02 15:04:05"),
				})
			}
			out := cmd.OutOrStdout()
			writeTable(out, []column{
				{header: "#", right: true},
				{header: "Class"},
				{header: "Fingerprint", maxWidth: 20},
				{header: "Size", right: true},
				{header: "Modified"},
			}, rows, "Cache is empty")
			fmt.Fprintf(out, "%s: %d entries, %s\n", cache.Root(), len(entries), humanize.IBytes(uint64(total)))
			return nil
		},
	}

	cacheCmd.AddCommand(listCmd)
	return cacheCmd
}
