package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"deskpilot/internal/plan"
)

func capture(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	ferr := fn()
	w.Close()
	os.Stdout = old
	if ferr != nil {
		t.Fatal(ferr)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestPrintYAML(t *testing.T) {
	report := plan.Report{RunID: "r-1", State: plan.StateCompleted}
	out := capture(t, func() error { return PrintYAML(report) })
	if !strings.Contains(out, "run_id: r-1") {
		t.Errorf("expected run_id line, got:\n%s", out)
	}
	if !strings.Contains(out, "state: completed") {
		t.Errorf("expected state line, got:\n%s", out)
	}
}

func TestPrintJSONSingleLine(t *testing.T) {
	report := plan.Report{RunID: "r-2", State: plan.StateHalted, Halt: "boom"}
	out := capture(t, func() error { return PrintJSON(report) })
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Errorf("expected single-line JSON, got:\n%s", out)
	}
	if !strings.Contains(out, `"halt":"boom"`) {
		t.Errorf("expected halt field, got:\n%s", out)
	}
}

func TestPrintDispatchesOnFormat(t *testing.T) {
	defer func() { OutputFormat = FormatYAML; PrettyOutput = false }()

	OutputFormat = FormatJSON
	PrettyOutput = true
	out := capture(t, func() error { return Print(map[string]int{"a": 1}) })
	if !strings.Contains(out, "\n  \"a\": 1") {
		t.Errorf("expected indented JSON, got:\n%s", out)
	}

	OutputFormat = Format("csv")
	if err := Print(map[string]int{"a": 1}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
