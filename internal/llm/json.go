package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StripFences removes a Markdown code fence wrapper from model output.
// Models routinely wrap JSON answers in ```json fences despite being asked
// not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// DecodeJSON decodes a model's JSON answer into v. Fences are stripped
// first; when strict parsing fails the payload goes through repair before
// giving up.
func DecodeJSON(raw string, v any) error {
	cleaned := StripFences(raw)
	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}
	repaired, repErr := jsonrepair.JSONRepair(cleaned)
	if repErr != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if json.Unmarshal([]byte(repaired), v) != nil {
		return fmt.Errorf("response is not valid JSON, even after repair: %w", err)
	}
	return nil
}
