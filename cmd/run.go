package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"deskpilot/internal/output"
	"deskpilot/pkg/logging"
)

var runCmd = &cobra.Command{
	Use:   "run <command...>",
	Short: "Execute a natural-language command",
	Long: `Parse a natural-language command, generate an action plan for it and
execute the plan step by step. The session context from the run is discarded
on exit; use the MCP server for multi-command sessions.

Examples:
  deskpilot run "open the calculator and press 2 + 2"
  deskpilot run --model gemini-1.5-pro-latest "search the web for Go generics"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("model", "", "Gemini model to use (default from GEMINI_MODEL or built-in)")
	runCmd.Flags().String("debug-dir", "", "Write annotated vision screenshots to this directory")
}

func runRun(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	debugDir, _ := cmd.Flags().GetString("debug-dir")

	s, err := buildSession(engineOptions{geminiModel: model, debugDir: debugDir})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := strings.Join(args, " ")
	logging.Info("cmd", "running command: %s", command)

	out, err := s.HandleCommand(ctx, command)
	if err != nil {
		return err
	}
	if err := output.Print(out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("command did not complete")
	}
	return nil
}
