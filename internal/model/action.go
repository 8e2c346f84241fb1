package model

import "fmt"

// Action type tags understood by the dispatcher. The set is closed: a step
// carrying any other tag fails with an "unimplemented action type" error.
const (
	ActionOpenApplication    = "open_application"
	ActionActivateWindow     = "activate_window"
	ActionCloseApplication   = "close_application"
	ActionSearchWeb          = "search_web"
	ActionTypeText           = "type_text"
	ActionPressKey           = "press_key"
	ActionClearTextInWindow  = "clear_text_in_window"
	ActionWait               = "wait"
	ActionLogMessage         = "log_message"
	ActionClickByA11y        = "click_element_by_accessibility"
	ActionTypeIntoByA11y     = "type_text_into_element_by_accessibility"
	ActionGetTextByA11y      = "get_element_text_by_accessibility"
	ActionClickByDescription = "click_element_by_description"
	ActionTypeByDescription  = "type_text_into_element_by_description"
	ActionGetInfoFromScreen  = "get_info_from_screen"
	ActionGenerateText       = "generate_text_content"
	ActionGetCredentials     = "get_credentials_for_service"
)

// ActionStep is one step of a plan: a flat map of parameters plus the
// "action_type" tag. Plans arrive as YAML/JSON lists of these maps.
type ActionStep map[string]any

// Type returns the step's action tag, or "" when absent.
func (s ActionStep) Type() string {
	t, _ := s["action_type"].(string)
	return t
}

// Params returns the step's parameters without the action_type tag. The
// returned map is a copy; mutating it does not affect the step.
func (s ActionStep) Params() map[string]any {
	p := make(map[string]any, len(s))
	for k, v := range s {
		if k == "action_type" {
			continue
		}
		p[k] = v
	}
	return p
}

// ActionResult is the outcome of executing one step. Data carries
// result values to merge into the execution context; on failure it holds
// at least an "error" entry.
type ActionResult struct {
	Success bool           `json:"success" yaml:"success"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Succeed builds a successful result. data may be nil.
func Succeed(data map[string]any) ActionResult {
	if data == nil {
		data = map[string]any{}
	}
	return ActionResult{Success: true, Data: data}
}

// Fail builds a failed result with a formatted error message.
func Fail(format string, args ...any) ActionResult {
	return ActionResult{
		Success: false,
		Data:    map[string]any{"error": fmt.Sprintf(format, args...)},
	}
}

// Put stores an extra key on the result's data map and returns the result,
// allowing call chaining when assembling warnings alongside an outcome.
func (r ActionResult) Put(key string, value any) ActionResult {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// Error returns the result's error message, or "" for successful results.
func (r ActionResult) Error() string {
	if r.Data == nil {
		return ""
	}
	msg, _ := r.Data["error"].(string)
	return msg
}
