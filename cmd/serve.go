package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/vitrine/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func mcpOptions() mcpserver.Options {
	return mcpserver.Options{
		MinSearchLength: cfg.MinSearchLength,
		MaxSuggestions:  cfg.MaxSuggestions,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting vitrine MCP server on stdio...")

	if err := mcpserver.Serve(svc, mcpOptions()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
