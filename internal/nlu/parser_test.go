package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/llm"
)

func TestParseAchieveGoal(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`{"intent": "achieve_goal", "entities": {"goal_description": "open the calculator", "app_hint": "Calculator"}}`,
	}}
	p := NewParser(mock)

	res := p.Parse(context.Background(), "open the calculator please", nil)
	assert.Equal(t, IntentAchieveGoal, res.Intent)
	assert.Equal(t, "open the calculator", res.Entity("goal_description"))
	assert.Equal(t, "Calculator", res.Entity("app_hint"))
}

func TestParseRepairsFencedAnswer(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		"```json\n{'intent': 'achieve_goal', 'entities': {'goal_description': 'type a note',}}\n```",
	}}
	p := NewParser(mock)

	res := p.Parse(context.Background(), "type a note", nil)
	assert.Equal(t, IntentAchieveGoal, res.Intent)
	assert.Equal(t, "type a note", res.Entity("goal_description"))
}

func TestParseBackendErrorBecomesErrorIntent(t *testing.T) {
	mock := &llm.Mock{Err: errors.New("connection refused")}
	p := NewParser(mock)

	res := p.Parse(context.Background(), "do something", nil)
	assert.Equal(t, IntentError, res.Intent)
	assert.Contains(t, res.Entity("error_message"), "connection refused")
}

func TestParseProseBecomesParsingError(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{"Sure, I can help with that!"}}
	p := NewParser(mock)

	res := p.Parse(context.Background(), "do something", nil)
	assert.Equal(t, IntentParsingError, res.Intent)
	assert.NotEmpty(t, res.Entity("raw_response"))
}

func TestParseGoalWithoutDescriptionRejected(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{`{"intent": "achieve_goal", "entities": {}}`}}
	p := NewParser(mock)

	res := p.Parse(context.Background(), "do something", nil)
	assert.Equal(t, IntentParsingError, res.Intent)
	assert.Contains(t, res.Entity("error_message"), "goal_description")
}

func TestPromptCarriesContextWithoutSecrets(t *testing.T) {
	mock := &llm.Mock{TextResponses: []string{
		`{"intent": "achieve_goal", "entities": {"goal_description": "close it"}}`,
	}}
	p := NewParser(mock)

	ectx := map[string]any{
		"last_opened_window_title": "Notepad",
		"my_bank_password":         "hunter2",
	}
	p.Parse(context.Background(), "now close it", ectx)

	require.Len(t, mock.TextPrompts, 1)
	assert.Contains(t, mock.TextPrompts[0], "Notepad")
	assert.NotContains(t, mock.TextPrompts[0], "hunter2")
	assert.NotContains(t, mock.TextPrompts[0], "my_bank_password")
}
