// Package nlu extracts the user's intent from a natural-language command.
package nlu

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"deskpilot/internal/llm"
	"deskpilot/internal/template"
	"deskpilot/pkg/logging"
)

const subsystem = "nlu"

// Intents the session layer dispatches on. IntentError and
// IntentParsingError are synthesized locally when the backend fails or
// answers garbage; they never come from the model itself.
const (
	IntentAchieveGoal  = "achieve_goal"
	IntentError        = "nlu_error"
	IntentParsingError = "nlu_parsing_error"
)

const parsePromptFmt = `You are the natural-language front end of a desktop automation assistant.
Extract the user's intent from their command.

Respond with a single JSON object and nothing else:
{"intent": "<intent name>", "entities": {<string keys and values>}}

Use the intent "achieve_goal" for any command that asks the assistant to do
something on the computer, and put a concise restatement of the task in
entities.goal_description. Include an entities.app_hint when the command
names a specific application. Copy concrete values the command mentions
(names, text to type, search terms) into entities verbatim.

%sUser command: %s`

// Result is an extracted intent. Entities is never nil.
type Result struct {
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// Entity returns the named entity as a trimmed string, "" when absent.
func (r Result) Entity(name string) string {
	v, ok := r.Entities[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// Parser turns commands into intents using the generative backend.
type Parser struct {
	client llm.Client
}

func NewParser(client llm.Client) *Parser {
	return &Parser{client: client}
}

// Parse extracts the intent of command. It never returns a Go error:
// backend failures yield IntentError and unusable answers yield
// IntentParsingError, both with an error_message entity, so the session can
// report them like any other outcome.
func (p *Parser) Parse(ctx context.Context, command string, ectx map[string]any) Result {
	prompt := fmt.Sprintf(parsePromptFmt, contextSection(ectx), command)

	raw, err := p.client.GenerateText(ctx, prompt)
	if err != nil {
		logging.Warn(subsystem, "intent extraction failed: %v", err)
		return errorResult(IntentError, fmt.Sprintf("intent extraction failed: %v", err))
	}

	var res Result
	if err := llm.DecodeJSON(raw, &res); err != nil {
		logging.Warn(subsystem, "unusable intent response: %v", err)
		r := errorResult(IntentParsingError, err.Error())
		r.Entities["raw_response"] = template.Preview(raw)
		return r
	}
	if res.Entities == nil {
		res.Entities = map[string]any{}
	}
	if res.Intent == "" {
		return errorResult(IntentParsingError, "response carried no intent name")
	}
	if res.Intent == IntentAchieveGoal && res.Entity("goal_description") == "" {
		return errorResult(IntentParsingError, "achieve_goal intent without a goal_description")
	}
	logging.Debug(subsystem, "intent %q entities=%v", res.Intent, res.Entities)
	return res
}

func errorResult(intent, message string) Result {
	return Result{Intent: intent, Entities: map[string]any{"error_message": message}}
}

// contextSection summarizes the session context for the prompt so follow-up
// commands ("now close it") resolve against what happened before.
func contextSection(ectx map[string]any) string {
	if len(ectx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ectx))
	for k := range ectx {
		if strings.HasSuffix(k, "_password") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Session context from earlier steps:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, template.Preview(fmt.Sprintf("%v", ectx[k])))
	}
	b.WriteString("\n")
	return b.String()
}
