package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatvault/internal/migrate"
	"chatvault/internal/paths"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Relocate data from legacy locations into the current layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := ctx.appRoot()
			if err != nil {
				return err
			}

			report := migrate.Run(root, paths.NewPathSet(root), logger)
			out := cmd.OutOrStdout()

			if report.LockBusy {
				fmt.Fprintln(out, "Migration skipped: another instance holds the migration lock")
				return nil
			}

			var rows [][]string
			for _, step := range report.Steps {
				detail := ""
				if step.Err != nil {
					detail = step.Err.Error()
				}
				rows = append(rows, []string{step.Label, step.Legacy, string(step.Status), detail})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "Nothing to migrate")
				return nil
			}

			fmt.Fprintln(out, renderTable([]string{"Item", "Legacy location", "Result", "Detail"}, rows))
			fmt.Fprintf(out, "Migrated: %d, failed: %d\n", len(report.Migrated()), len(report.Failed()))
			return nil
		},
	}
}
