package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"deskpilot/internal/model"
	"deskpilot/internal/output"
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Execute a hand-written action plan",
	Long: `Execute a plan authored as a YAML (or JSON) list of action steps, read
from the given file or from stdin. Intent extraction and plan generation are
skipped; the steps run as written.

Example plan:
  - action_type: open_application
    application_name: Calculator
  - action_type: click_element_by_accessibility
    element_name: "2"

Examples:
  deskpilot plan calc.yaml
  cat calc.yaml | deskpilot plan`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("model", "", "Gemini model for vision fallbacks and generation steps")
	planCmd.Flags().String("debug-dir", "", "Write annotated vision screenshots to this directory")
}

func runPlan(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading plan: %w", err)
	}

	steps, err := DecodePlan(raw)
	if err != nil {
		return err
	}

	modelName, _ := cmd.Flags().GetString("model")
	debugDir, _ := cmd.Flags().GetString("debug-dir")
	s, err := buildSession(engineOptions{geminiModel: modelName, debugDir: debugDir})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := s.RunPlan(ctx, steps)
	if err != nil {
		return err
	}
	if err := output.Print(out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("plan did not complete")
	}
	return nil
}

// DecodePlan parses a YAML or JSON step list and validates that every step
// carries an action_type. YAML handles both since JSON is a YAML subset.
// Steps may carry their parameters flat next to action_type or nested under
// a "parameters" map; the nested form is flattened.
func DecodePlan(raw []byte) ([]model.ActionStep, error) {
	var steps []model.ActionStep
	if err := yaml.Unmarshal(raw, &steps); err != nil {
		return nil, fmt.Errorf("plan must be a list of action steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("plan contains no steps")
	}
	for i, step := range steps {
		flattenParams(step)
		if step.Type() == "" {
			return nil, fmt.Errorf("plan step %d has no action_type", i)
		}
	}
	return steps, nil
}

// flattenParams lifts a nested "parameters" map into the step itself. Keys
// already present on the step win over nested ones.
func flattenParams(step model.ActionStep) {
	nested, ok := step["parameters"].(map[string]any)
	if !ok {
		return
	}
	delete(step, "parameters")
	for k, v := range nested {
		if _, exists := step[k]; !exists {
			step[k] = v
		}
	}
}
