package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"captioner/internal/acquire"
	"captioner/internal/captions"
	"captioner/internal/pagination"
	"captioner/internal/preflight"
	"captioner/internal/services"
	"captioner/internal/transcripts"
)

type fetchOutput struct {
	ResourceID string            `json:"resource_id"`
	TrackKind  string            `json:"track_kind"`
	Language   string            `json:"language"`
	Format     captions.Format   `json:"format"`
	Provenance string            `json:"provenance"`
	Cached     bool              `json:"cached"`
	Window     pagination.Window `json:"window"`
	Raw        string            `json:"raw,omitempty"`
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		auto           bool
		lang           string
		formatFlag     string
		window         int
		cursor         string
		raw            bool
		jsonOut        bool
		refresh        bool
		noCache        bool
		captionTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <resource>",
		Short: "Fetch the transcript for a video id or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			kind := acquire.TrackOfficial
			if auto {
				kind = acquire.TrackAuto
			}
			var preferred *captions.Format
			if strings.TrimSpace(formatFlag) != "" {
				f, err := captions.ParseFormat(formatFlag)
				if err != nil {
					return err
				}
				preferred = &f
			}
			req, err := acquire.NewRequest(args[0], kind, lang, preferred)
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg, false)); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "cli", "preflight", fmt.Sprintf("%s: %s", failed[0].Name, failed[0].Detail), nil)
			}

			rt, err := transcripts.Open(cmd.Context(), cfg, logger, transcripts.BuildOptions{NoCache: noCache})
			if err != nil {
				return err
			}
			defer rt.Close()

			opts := transcripts.FetchOptions{
				// The cache keeps only normalized text.
				Refresh:  refresh || raw,
				Timeouts: acquire.Timeouts{Captions: captionTimeout},
			}
			t, page, err := rt.Page(cmd.Context(), req, opts, window, cursor)
			if err != nil {
				return err
			}

			if jsonOut {
				out := fetchOutput{
					ResourceID: t.ResourceID,
					TrackKind:  string(t.TrackKind),
					Language:   t.Language,
					Format:     t.Format,
					Provenance: string(t.Provenance),
					Cached:     t.Cached,
					Window:     page,
				}
				if raw {
					out.Raw = t.Raw
				}
				return writeJSON(cmd, out)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprint(out, t.Raw)
				return nil
			}
			fmt.Fprintln(out, page.Chunk)
			if page.NextCursor != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "next cursor: %s (%d of %d characters)\n", *page.NextCursor, page.EndOffset, page.TotalLength)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Use auto-generated captions instead of uploader-provided ones")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Caption language (BCP 47 tag or name; default en)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Preferred caption format to request (srt, vtt, ass, lrc)")
	cmd.Flags().IntVarP(&window, "window", "w", 0, "Characters per page (0 uses pagination.default_window)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Cursor returned by a previous page")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the caption file as downloaded instead of plain text")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached transcripts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or write the transcript cache")
	cmd.Flags().DurationVar(&captionTimeout, "caption-timeout", 0, "Override extraction.caption_timeout_seconds")
	return cmd
}
