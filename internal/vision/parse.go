package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"deskpilot/internal/llm"
	"deskpilot/internal/model"
)

// coordFields must all carry numeric values for a found answer to be usable.
var coordFields = []string{"x_center", "y_center", "x_top_left", "y_top_left", "width", "height"}

// ParseLocateResponse turns the model's raw answer into a VisionLocate.
// Malformed JSON is run through repair before giving up; an answer that
// claims found but lacks numeric coordinates is downgraded to not-found
// with the problem recorded in Reasoning. Parsing never returns an error:
// an unusable response is a not-found result with diagnostics.
func ParseLocateResponse(raw string) model.VisionLocate {
	var fields map[string]any
	if err := llm.DecodeJSON(raw, &fields); err != nil {
		return model.VisionLocate{
			Reasoning: fmt.Sprintf("could not parse vision response: %v", err),
		}
	}

	loc := model.VisionLocate{}
	loc.Found, _ = fields["found"].(bool)
	loc.Reasoning, _ = fields["reasoning"].(string)
	// confidence is advisory; a missing or malformed value stays 0
	if c, ok := asFloat(fields["confidence"]); ok {
		loc.Confidence = c
	}

	if !loc.Found {
		return loc
	}

	var missing []string
	coords := map[string]*int{
		"x_center":   &loc.XCenter,
		"y_center":   &loc.YCenter,
		"x_top_left": &loc.XTopLeft,
		"y_top_left": &loc.YTopLeft,
		"width":      &loc.Width,
		"height":     &loc.Height,
	}
	for _, name := range coordFields {
		v, ok := asInt(fields[name])
		if !ok {
			missing = append(missing, name)
			continue
		}
		*coords[name] = v
	}
	if len(missing) > 0 {
		loc.Found = false
		diag := fmt.Sprintf("response claimed found but had no usable %s", strings.Join(missing, ", "))
		if loc.Reasoning != "" {
			loc.Reasoning += "; " + diag
		} else {
			loc.Reasoning = diag
		}
	}
	return loc
}

// asInt accepts the numeric shapes JSON decoding can produce.
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
