package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"captioner/internal/captions"
	"captioner/internal/pagination"
	"captioner/internal/services"
)

// readCaptionFile reads path, or stdin when path is "-".
func readCaptionFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, "cli", "read caption file", path, err)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// parseContent parses content as formatFlag, or as its detected format when
// the flag is blank.
func parseContent(content, formatFlag string) (captions.Format, string, error) {
	if strings.TrimSpace(formatFlag) == "" {
		format, text := captions.Normalize(content)
		return format, text, nil
	}
	format, err := captions.ParseFormat(formatFlag)
	if err != nil {
		return 0, "", err
	}
	text, err := captions.Parse(content, format)
	return format, text, err
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "detect <file>",
		Short:       "Print the caption format of a file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCaptionFile(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), captions.Detect(content))
			return nil
		},
	}
}

func newParseCommand() *cobra.Command {
	var formatFlag string
	var lines bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "parse <file>",
		Short:       "Convert a caption file to plain text",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCaptionFile(cmd, args[0])
			if err != nil {
				return err
			}
			format, text, err := parseContent(content, formatFlag)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, struct {
					Format captions.Format `json:"format"`
					Text   string          `json:"text"`
				}{format, text})
			}
			out := cmd.OutOrStdout()
			if lines {
				fragments, err := captions.Fragments(content, format)
				if err != nil {
					return err
				}
				for _, f := range fragments {
					fmt.Fprintln(out, f)
				}
				return nil
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Parse as this format instead of detecting it")
	cmd.Flags().BoolVar(&lines, "lines", false, "Print one cleaned fragment per line")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newPageCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var window int
	var cursor string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "page <file>",
		Short: "Print one window of a caption file's plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			content, err := readCaptionFile(cmd, args[0])
			if err != nil {
				return err
			}
			_, text, err := parseContent(content, formatFlag)
			if err != nil {
				return err
			}
			size := pagination.ClampWindow(window, cfg.Pagination.DefaultWindow, cfg.Pagination.MinWindow, cfg.Pagination.MaxWindow)
			page, err := pagination.Page(text, size, cursor)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, page)
			}
			fmt.Fprintln(cmd.OutOrStdout(), page.Chunk)
			if page.NextCursor != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "next cursor: %s (%d of %d characters)\n", *page.NextCursor, page.EndOffset, page.TotalLength)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Parse as this format instead of detecting it")
	cmd.Flags().IntVarP(&window, "window", "w", 0, "Characters per page (0 uses pagination.default_window)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Cursor returned by a previous page")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
