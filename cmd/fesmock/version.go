package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fesmock/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := config.NewBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "fesmock %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildTime)
		},
	}
}
