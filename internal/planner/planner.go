// Package planner asks the generative backend for a linear action plan
// that achieves a stated goal.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"deskpilot/internal/llm"
	"deskpilot/internal/model"
	"deskpilot/pkg/logging"
)

const subsystem = "planner"

// actionCatalogue documents the executable vocabulary for the prompt. The
// model may only plan with these; anything else fails at dispatch.
var actionCatalogue = []struct {
	name   string
	params string
}{
	{model.ActionOpenApplication, "application_name; optional activate_if_running (default true)"},
	{model.ActionActivateWindow, "window_title_hint"},
	{model.ActionCloseApplication, "application_name or window_title_hint"},
	{model.ActionSearchWeb, "search_query"},
	{model.ActionTypeText, "text_to_type; optional target_window_title"},
	{model.ActionPressKey, "key_name, e.g. \"enter\" or \"ctrl+s\"; optional target_window_title"},
	{model.ActionClearTextInWindow, "window_title_hint"},
	{model.ActionWait, "duration_seconds"},
	{model.ActionLogMessage, "message; optional level"},
	{model.ActionClickByA11y, "element_name and/or automation_id; optional window_title_hint, element_description for the visual fallback"},
	{model.ActionTypeIntoByA11y, "text_to_type plus element_name and/or automation_id; optional window_title_hint, element_description"},
	{model.ActionGetTextByA11y, "element_name and/or automation_id; optional store_result_as (default last_element_text)"},
	{model.ActionClickByDescription, "element_description; optional window_title_hint, context_instructions_for_vision"},
	{model.ActionTypeByDescription, "element_description, text_to_type; optional window_title_hint, context_instructions_for_vision"},
	{model.ActionGetInfoFromScreen, "query_details; optional store_result_as (default last_perception_data)"},
	{model.ActionGenerateText, "prompt_for_generation; optional store_result_as (default generated_text_content)"},
	{model.ActionGetCredentials, "service_name; results appear as {service}_username and {service}_password"},
}

const planPromptFmt = `You are the planner of a desktop automation assistant. Produce a linear
plan of action steps that achieves the user's goal on their computer.

Available actions and their parameters:
%s
Every step's string parameters may reference earlier results with
{{placeholder}} syntax, e.g. {{last_element_text}}.

Respond with a JSON array of steps and nothing else:
[{"action_type": "<name>", "<param>": "<value>", ...}, ...]

If the goal cannot be achieved with these actions, respond with a single
step: [{"action_type": "error", "message": "<why not>"}].

Goal: %s
%s`

// Planner generates plans via the generative backend.
type Planner struct {
	client llm.Client
}

func NewPlanner(client llm.Client) *Planner {
	return &Planner{client: client}
}

// Plan returns the step list for the goal. A backend answer of the
// single "error" step, the model's way of declining, surfaces as a Go
// error carrying the model's message.
func (p *Planner) Plan(ctx context.Context, goal string, entities map[string]any) ([]model.ActionStep, error) {
	prompt := fmt.Sprintf(planPromptFmt, catalogueSection(), goal, entitiesSection(entities))

	raw, err := p.client.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var steps []model.ActionStep
	if err := llm.DecodeJSON(raw, &steps); err != nil {
		return nil, fmt.Errorf("plan response was not a step list: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("plan response contained no steps")
	}
	if steps[0].Type() == "error" {
		msg, _ := steps[0]["message"].(string)
		if msg == "" {
			msg = "the goal cannot be achieved with the available actions"
		}
		return nil, fmt.Errorf("planning declined: %s", msg)
	}
	for i, step := range steps {
		if step.Type() == "" {
			return nil, fmt.Errorf("plan step %d has no action_type: %s", i, previewStep(step))
		}
	}
	logging.Info(subsystem, "planned %d steps for goal %q", len(steps), goal)
	return steps, nil
}

func catalogueSection() string {
	var b strings.Builder
	for _, a := range actionCatalogue {
		fmt.Fprintf(&b, "- %s: %s\n", a.name, a.params)
	}
	return b.String()
}

// entitiesSection passes extracted entities to the planner. Secrets never
// appear here; credential values only exist after get_credentials_for_service
// runs.
func entitiesSection(entities map[string]any) string {
	if len(entities) == 0 {
		return ""
	}
	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Details extracted from the user's command:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, entities[k])
	}
	return b.String()
}

func previewStep(step model.ActionStep) string {
	raw, err := json.Marshal(step)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(step))
	}
	return string(raw)
}
