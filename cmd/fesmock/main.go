// Package main is the entry point for the FES mock server.
//
// The default command loads configuration from the environment (and an
// optional .env file), builds the HTTP chassis around the FES dispatcher and
// serves it until SIGINT or SIGTERM.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand serves the mock.
func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	root := &cobra.Command{
		Use:   "fesmock",
		Short: "Mock FlowCrypt Enterprise Server for end-to-end tests",
		Long: `fesmock emulates the enterprise server API used by mail clients under test.
It answers service discovery, client configuration, reply token issuance,
message upload and gateway callbacks for a fixed set of hosts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	root.Flags().AddFlagSet(serveCmd.Flags())

	root.AddCommand(serveCmd)
	root.AddCommand(newVersionCmd())
	return root
}

// newLogger creates a structured JSON logger with the specified level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}
