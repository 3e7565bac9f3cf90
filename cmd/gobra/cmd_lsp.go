package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gobra/codebase"
)

func newLSPCmd() *cobra.Command {
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Run a language server that publishes syntax errors and document
symbols for the Gobra files of the workspace.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version)
			server.PollInterval = poll
			return server.RunStdio()
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "how often to check the workspace for changes (0 to disable)")

	return cmd
}
