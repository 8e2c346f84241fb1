package model

import "strings"

// ElementQuery selects an element inside a window's accessibility tree.
// At least one of Name, AutomationID or ClassNameRe must be set; ControlType
// and FrameworkID only narrow a match, they cannot select on their own.
type ElementQuery struct {
	Name         string // matched case-insensitively as a substring
	AutomationID string // exact match
	ClassNameRe  string // regular expression over the element class name
	ControlType  string // canonical control-type code or backend name
	FrameworkID  string // exact match
}

// Empty reports whether the query has no selecting criterion.
func (q ElementQuery) Empty() bool {
	return q.Name == "" && q.AutomationID == "" && q.ClassNameRe == ""
}

// String renders the query compactly for logs and error messages.
func (q ElementQuery) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("name", q.Name)
	add("automation_id", q.AutomationID)
	add("class_name_re", q.ClassNameRe)
	add("control_type", q.ControlType)
	add("framework_id", q.FrameworkID)
	if len(parts) == 0 {
		return "(empty query)"
	}
	return strings.Join(parts, " ")
}
