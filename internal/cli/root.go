// Package cli implements the cockpit command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cockpit",
	Short: "Local management hub for AI agents, projects and chats",
	Long: `cockpit is a local hub for managing AI agents, projects and chats.

Agent definitions, conversations and usage analytics live in an embedded
database; agent runs are delegated to an AgentScope execution backend.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
