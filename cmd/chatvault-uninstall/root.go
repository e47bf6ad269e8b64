package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"chatvault/internal/logging"
	"chatvault/internal/uninstall"
)

func newRootCommand() *cobra.Command {
	var rootFlag string
	var force bool
	var includeConfig bool
	var logLevel string

	cmd := &cobra.Command{
		Use:           "chatvault-uninstall",
		Short:         "Remove all ChatVault data from this machine",
		Long:          "Scans the canonical and legacy ChatVault data locations and removes everything found.\nThe config file is kept unless --include-config is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{Level: logLevel, Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}

			root := strings.TrimSpace(rootFlag)
			if root == "" {
				root, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			plan := uninstall.Scan(root, includeConfig)
			if plan.Empty() {
				fmt.Fprintln(out, "Nothing to remove")
				return nil
			}

			fmt.Fprintln(out, renderPlan(plan))
			fmt.Fprintf(out, "Total: %d items, %s\n", len(plan.Items), humanize.IBytes(uint64(plan.TotalSize())))

			if !force {
				confirmed, err := confirm(cmd.InOrStdin(), out, len(plan.Items))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Aborted, nothing removed")
					return nil
				}
			}

			result := uninstall.Execute(plan, logger)
			for _, item := range result.Removed {
				fmt.Fprintf(out, "Removed %s (%s)\n", item.Path, item.Label)
			}
			for _, failure := range result.Failed {
				fmt.Fprintf(out, "Failed to remove %s: %v\n", failure.Item.Path, failure.Err)
			}
			fmt.Fprintf(out, "Removed %d of %d items\n", len(result.Removed), len(plan.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Application root directory (defaults to the working directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&includeConfig, "include-config", false, "Also remove the config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func renderPlan(plan uninstall.Plan) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Item", "Path", "Size"})
	for _, item := range plan.Items {
		size := ""
		if item.Size > 0 {
			size = humanize.IBytes(uint64(item.Size))
		}
		tw.AppendRow(table.Row{item.Label, item.Path, size})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// confirm asks for an explicit "yes" before destruction. A non-interactive
// stdin without --force refuses rather than silently deleting.
func confirm(in io.Reader, out io.Writer, count int) (bool, error) {
	if file, ok := in.(*os.File); ok {
		fd := file.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false, errors.New("refusing to remove without confirmation on non-interactive input; pass --force")
		}
	}

	fmt.Fprintf(out, "Remove %d items? Type 'yes' to confirm: ", count)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}
