package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/llm"
	"deskpilot/internal/model"
	"deskpilot/internal/nlu"
	"deskpilot/internal/plan"
	"deskpilot/internal/planner"
)

type recordingExecutor struct {
	ran     []model.ActionStep
	results map[string]model.ActionResult
}

func (e *recordingExecutor) Execute(_ context.Context, step model.ActionStep, _ map[string]any) model.ActionResult {
	e.ran = append(e.ran, step)
	if res, ok := e.results[step.Type()]; ok {
		return res
	}
	return model.Succeed(nil)
}

func newTestSession(mock *llm.Mock, exec plan.Executor) *Session {
	runner := plan.NewRunner(exec)
	return New(nlu.NewParser(mock), planner.NewPlanner(mock), runner)
}

func TestHandleCommandRunsPlannedSteps(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		// intent extraction, then planning
		`{"intent": "achieve_goal", "entities": {"goal_description": "open the calculator", "app_hint": "Calculator"}}`,
		`[{"action_type": "open_application", "application_name": "Calculator"}]`,
	}}
	exec := &recordingExecutor{results: map[string]model.ActionResult{
		"open_application": model.Succeed(map[string]any{"last_opened_window_title": "Calculator"}),
	}}
	s := newTestSession(mock, exec)

	out, err := s.HandleCommand(context.Background(), "open the calculator")
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, nlu.IntentAchieveGoal, out.Intent)
	assert.Equal(t, plan.StateCompleted, out.Report.State)
	require.Len(t, exec.ran, 1)

	// execution results persist for the next command
	assert.Equal(t, "Calculator", s.Context()["last_opened_window_title"])
	assert.Equal(t, "Calculator", s.Context()["app_hint"])
}

func TestHandleCommandReportsUnparseable(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{"no json here"}}
	s := newTestSession(mock, &recordingExecutor{})

	out, err := s.HandleCommand(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, nlu.IntentParsingError, out.Intent)
	assert.Contains(t, out.Message, "could not understand")
}

func TestHandleCommandReportsDeclinedPlan(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`{"intent": "achieve_goal", "entities": {"goal_description": "order pizza"}}`,
		`[{"action_type": "error", "message": "no such capability"}]`,
	}}
	s := newTestSession(mock, &recordingExecutor{})

	out, err := s.HandleCommand(context.Background(), "order pizza")
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Contains(t, out.Message, "no such capability")
}

func TestHandleCommandHaltedRun(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`{"intent": "achieve_goal", "entities": {"goal_description": "press a key"}}`,
		`[{"action_type": "press_key", "key_name": "enter"}]`,
	}}
	exec := &recordingExecutor{results: map[string]model.ActionResult{
		"press_key": model.Fail("no keyboard"),
	}}
	s := newTestSession(mock, exec)

	out, err := s.HandleCommand(context.Background(), "press enter")
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, plan.StateHalted, out.Report.State)
	assert.Equal(t, "no keyboard", out.Message)
}

func TestFreshAppHintClearsRememberedWindow(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`{"intent": "achieve_goal", "entities": {"goal_description": "open notepad", "app_hint": "Notepad"}}`,
		`[{"action_type": "open_application", "application_name": "Notepad"}]`,
	}}
	exec := &recordingExecutor{}
	s := newTestSession(mock, exec)
	s.mu.Lock()
	s.ectx["last_opened_window_title"] = "Calculator"
	s.mu.Unlock()

	_, err := s.HandleCommand(context.Background(), "open notepad")
	require.NoError(t, err)
	// the stale Calculator title must not leak into the Notepad plan's
	// window targeting
	assert.NotEqual(t, "Calculator", s.Context()["last_opened_window_title"])
}

func TestRunPlanBypassesPlanning(t *testing.T) {
	mock := &llm.Mock{}
	exec := &recordingExecutor{}
	s := newTestSession(mock, exec)

	out, err := s.RunPlan(context.Background(), []model.ActionStep{
		{"action_type": "wait", "duration_seconds": 0},
	})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Empty(t, mock.TextPrompts, "no backend calls for hand-written plans")
}
