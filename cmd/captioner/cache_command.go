package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"captioner/internal/transcriptcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func withCache(ctx *commandContext, fn func(*transcriptcache.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cache, err := transcriptcache.Open(cfg)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cache *transcriptcache.Cache) error {
				entries, err := cache.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					type row struct {
						ResourceID string    `json:"resource_id"`
						TrackKind  string    `json:"track_kind"`
						Language   string    `json:"language"`
						Format     string    `json:"format"`
						Provenance string    `json:"provenance"`
						Characters int       `json:"characters"`
						CreatedAt  time.Time `json:"created_at"`
					}
					rows := make([]row, 0, len(entries))
					for _, e := range entries {
						rows = append(rows, row{e.ResourceID, string(e.TrackKind), e.Language, e.Format.String(), string(e.Provenance), len([]rune(e.Text)), e.CreatedAt})
					}
					return writeJSON(cmd, rows)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No cached transcripts")
					return nil
				}
				const stampLayout = "2006-01-02 15:04"
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.ResourceID,
						string(e.TrackKind),
						e.Language,
						e.Format.String(),
						string(e.Provenance),
						strconv.Itoa(len([]rune(e.Text))),
						e.CreatedAt.Local().Format(stampLayout),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Resource", "Track", "Lang", "Format", "Source", "Chars", "Cached"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <resource>...",
		Aliases: []string{"remove"},
		Short:   "Remove cached transcripts for resources",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cache *transcriptcache.Cache) error {
				var total int64
				for _, id := range args {
					n, err := cache.Remove(cmd.Context(), id)
					if err != nil {
						return err
					}
					total += n
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcript(s)\n", total)
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var all bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached transcripts older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive (or pass --all)")
			}
			if all {
				olderThan = 0
			}
			return withCache(ctx, func(cache *transcriptcache.Cache) error {
				n, err := cache.Prune(cmd.Context(), olderThan)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached transcript(s)\n", n)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Remove entries cached longer ago than this")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every entry")
	return cmd
}
