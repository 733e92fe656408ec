package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"captioner/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var network bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools, directories, and the transcription provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					if s.Optional {
						state = "missing (optional)"
					} else {
						missing++
					}
				}
				location := s.Path
				if location == "" {
					location = s.Command
				}
				detail := s.Detail
				if detail == "" {
					detail = s.Version
				}
				if detail == "" {
					detail = s.Description
				}
				rows = append(rows, []string{s.Name, location, state, detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status", "Detail"}, rows, nil))

			results := preflight.RunAll(cmd.Context(), cfg, network)
			checkRows := make([][]string, 0, len(results))
			for _, r := range results {
				checkRows = append(checkRows, []string{r.Name, yesNo(r.Passed), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Passed", "Detail"}, checkRows, nil))

			failed := len(preflight.Failed(results))
			if missing > 0 || failed > 0 {
				return fmt.Errorf("%d required tool(s) missing, %d check(s) failed", missing, failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&network, "network", false, "Also contact the transcription provider")
	return cmd
}
