package model

// Element represents one node of a window's accessibility tree.
type Element struct {
	ID           int       `json:"id"`
	ControlType  string    `json:"control_type"`            // canonical control-type code, see controltypes.go
	Name         string    `json:"name,omitempty"`          // visible label / title
	Value        string    `json:"value,omitempty"`         // current value (text fields, sliders)
	AutomationID string    `json:"automation_id,omitempty"` // backend automation identifier
	ClassName    string    `json:"class_name,omitempty"`    // backend class name
	FrameworkID  string    `json:"framework_id,omitempty"`  // UI framework hint (Win32, XAML, ...)
	Bounds       Bounds    `json:"bounds"`                  // screen-absolute
	Focused      bool      `json:"focused,omitempty"`
	Enabled      *bool     `json:"enabled,omitempty"` // nil or true = enabled
	Children     []Element `json:"children,omitempty"`
	Actions      []string  `json:"actions,omitempty"` // backend-invokable actions, e.g. "press"
}

// IsEnabled reports whether the element accepts interaction. Backends that
// cannot determine the state leave Enabled nil, which counts as enabled.
func (e *Element) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Center returns the screen-absolute center point of the element.
func (e *Element) Center() (int, int) {
	return e.Bounds.Left + e.Bounds.Width/2, e.Bounds.Top + e.Bounds.Height/2
}

// HasAction reports whether the backend advertises the named action.
func (e *Element) HasAction(name string) bool {
	for _, a := range e.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Walk visits e and every descendant in depth-first order. The visit
// function returns false to stop the traversal.
func (e *Element) Walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Walk(visit) {
			return false
		}
	}
	return true
}
