package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing deskpilot tools",
	Long: `Start a Model Context Protocol (MCP) server so AI agents can run
commands and plans directly, keeping one session context across calls.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  deskpilot serve
  deskpilot serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("model", "", "Gemini model to use")
	serveCmd.Flags().String("debug-dir", "", "Write annotated vision screenshots to this directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	model, _ := cmd.Flags().GetString("model")
	debugDir, _ := cmd.Flags().GetString("debug-dir")

	cfg := MCPConfig{
		Transport: transport,
		Port:      port,
		Model:     model,
		DebugDir:  debugDir,
	}

	srv, err := newMCPServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return srv.serve(cfg)
}
