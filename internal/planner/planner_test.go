package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/llm"
	"deskpilot/internal/model"
)

func TestPlanParsesStepList(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{`[
		{"action_type": "open_application", "application_name": "Calculator"},
		{"action_type": "click_element_by_accessibility", "element_name": "Two"}
	]`}}
	p := NewPlanner(mock)

	steps, err := p.Plan(context.Background(), "open the calculator and press two", nil)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, model.ActionOpenApplication, steps[0].Type())
	assert.Equal(t, "Calculator", steps[0]["application_name"])
}

func TestPlanRepairsSloppyJSON(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		"```json\n[{'action_type': 'wait', 'duration_seconds': 2},]\n```",
	}}
	p := NewPlanner(mock)

	steps, err := p.Plan(context.Background(), "wait a moment", nil)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.ActionWait, steps[0].Type())
}

func TestPlanErrorStepBecomesError(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`[{"action_type": "error", "message": "I cannot order pizza"}]`,
	}}
	p := NewPlanner(mock)

	_, err := p.Plan(context.Background(), "order a pizza", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "I cannot order pizza")
}

func TestPlanRejectsStepWithoutType(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`[{"action_type": "wait", "duration_seconds": 1}, {"application_name": "Calculator"}]`,
	}}
	p := NewPlanner(mock)

	_, err := p.Plan(context.Background(), "do things", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no action_type")
}

func TestPlanBackendError(t *testing.T) {
	mock := &llm.Mock{Err: errors.New("quota exceeded")}
	p := NewPlanner(mock)

	_, err := p.Plan(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestPlanEmptyListRejected(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{`[]`}}
	p := NewPlanner(mock)

	_, err := p.Plan(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no steps")
}

func TestPlanPromptNamesEveryAction(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{`[{"action_type": "wait", "duration_seconds": 1}]`}}
	p := NewPlanner(mock)

	_, err := p.Plan(context.Background(), "wait", map[string]any{"app_hint": "Calculator"})
	require.NoError(t, err)
	require.Len(t, mock.TextPrompts, 1)
	prompt := mock.TextPrompts[0]
	for _, a := range actionCatalogue {
		assert.Contains(t, prompt, a.name)
	}
	assert.Contains(t, prompt, "app_hint: Calculator")
}
