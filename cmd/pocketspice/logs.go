package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pocketspice/internal/config"
	"github.com/five82/pocketspice/internal/logtail"
)

func logsCmd(g *globalFlags) *cobra.Command {
	var lines int
	var noColor bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the pocketspice log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", cfg.LogFile)
				return nil
			}
			if g.json {
				return writeJSON(out, tail)
			}
			return logtail.Render(out, tail, !noColor)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
