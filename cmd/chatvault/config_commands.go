package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"chatvault/internal/paths"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage the ChatVault configuration",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigGetCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			sections := cfg.Sections()
			for _, section := range sortedKeys(sections) {
				values := sections[section].(map[string]any)
				for _, key := range sortedKeys(values) {
					rows = append(rows, []string{section, key, fmt.Sprint(values[key])})
				}
			}
			for key, value := range cfg.Paths.AsMap() {
				rows = append(rows, []string{"Paths", key, fmt.Sprint(value)})
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i][0] != rows[j][0] {
					return rows[i][0] < rows[j][0]
				}
				return rows[i][1] < rows[j][1]
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Section", "Key", "Value"}, rows))
			fmt.Fprintf(out, "Config file existed at load: %s\n", yesNo(cfg.FileExisted))
			return nil
		},
	}
}

func newConfigGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <dotted.path>",
		Short: "Print one configuration value by dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			value, ok := cfg.Value(args[0])
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not set")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.appRoot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), paths.NewPathSet(root).ConfigFile)
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file with factory defaults if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.appRoot()
			if err != nil {
				return err
			}
			configPath := paths.NewPathSet(root).ConfigFile
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", configPath)
				return nil
			}

			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
			return nil
		},
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
