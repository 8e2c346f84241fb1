package action

import (
	"fmt"
	"strconv"
	"strings"

	"deskpilot/internal/model"
	"deskpilot/internal/template"
)

// args gives handlers resolved access to a step's parameters. String
// parameters are passed through the context resolver on every read.
type args struct {
	step model.ActionStep
	ctx  map[string]any
}

// str returns the resolved string parameter, "" when absent.
func (a args) str(key string) string {
	v, ok := a.step[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	return template.Resolve(s, a.ctx)
}

// strAny returns the first non-empty resolved value among alias names of
// the same parameter.
func (a args) strAny(keys ...string) string {
	for _, k := range keys {
		if s := a.str(k); s != "" {
			return s
		}
	}
	return ""
}

// strOr returns the resolved string parameter or def when absent/empty.
func (a args) strOr(key, def string) string {
	if s := a.str(key); s != "" {
		return s
	}
	return def
}

// raw returns the unresolved parameter value.
func (a args) raw(key string) (any, bool) {
	v, ok := a.step[key]
	return v, ok
}

// boolOr returns the boolean parameter, accepting bools and truthy strings.
func (a args) boolOr(key string, def bool) bool {
	v, ok := a.step[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(template.Resolve(b, a.ctx))
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// number returns the parameter as a float64, resolving templated strings.
func (a args) number(key string) (float64, error) {
	v, ok := a.step[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		resolved := strings.TrimSpace(template.Resolve(n, a.ctx))
		f, err := strconv.ParseFloat(resolved, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q is not numeric: %q", key, resolved)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("parameter %q is not numeric", key)
	}
}

// keyList returns the key_name parameter, which may be a single string
// ("ctrl+a") or a list of keys.
func (a args) keyList(key string) []string {
	v, ok := a.step[key]
	if !ok || v == nil {
		return nil
	}
	switch k := v.(type) {
	case string:
		resolved := template.Resolve(k, a.ctx)
		return splitCombo(resolved)
	case []any:
		var keys []string
		for _, item := range k {
			if s, ok := item.(string); ok {
				keys = append(keys, template.Resolve(s, a.ctx))
			}
		}
		return keys
	case []string:
		return k
	default:
		return nil
	}
}

// splitCombo turns "ctrl+shift+t" into its constituent keys.
func splitCombo(s string) []string {
	parts := strings.Split(s, "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// query assembles the element query parameters.
func (a args) query() model.ElementQuery {
	return model.ElementQuery{
		Name:         a.str("element_name"),
		AutomationID: a.str("automation_id"),
		ClassNameRe:  a.str("class_name_re"),
		ControlType:  a.str("control_type"),
		FrameworkID:  a.str("framework_id"),
	}
}

// targetWindow returns the step's window hint, falling back to the window
// the session last opened.
func (a args) targetWindow() string {
	if s := a.str("target_window_title"); s != "" {
		return s
	}
	if s := a.str("window_title_hint"); s != "" {
		return s
	}
	if last, ok := a.ctx["last_opened_window_title"].(string); ok {
		return last
	}
	return ""
}

// loggable renders a resolved parameter safely for logs and error text.
func (a args) loggable(key string) string {
	raw, _ := a.step[key].(string)
	return template.Loggable(a.str(key), raw, a.ctx)
}
