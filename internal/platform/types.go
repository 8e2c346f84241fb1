package platform

import (
	"fmt"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ParseMouseButton converts a string value to a MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// ReadOptions controls which elements to read.
type ReadOptions struct {
	App         string // scope to application name
	Window      string // scope to window title substring
	WindowID    int    // scope to system window ID (0 = unset)
	PID         int    // scope to process ID (0 = unset)
	Depth       int    // max traversal depth (0 = unlimited)
	VisibleOnly bool   // only include on-screen elements
}

// ListOptions controls window listing.
type ListOptions struct {
	App string // filter by app name
	PID int    // filter by PID
}

// ActivateOptions specifies the window to bring to the foreground.
type ActivateOptions struct {
	App      string
	Window   string
	WindowID int
	PID      int
}

// ScreenshotOptions configures a window capture. Output is always PNG;
// the vision backend requires lossless input at native scale.
type ScreenshotOptions struct {
	App      string // frontmost window of this app
	Window   string // window matching this title substring
	WindowID int    // window by system ID
	PID      int    // frontmost window of this PID
}

// ActionOptions names an element (by sequential ID within the read scope)
// and the accessibility action to invoke on it.
type ActionOptions struct {
	App      string
	Window   string
	WindowID int
	PID      int
	ID       int
	Action   string // "press", "confirm", "cancel", "showMenu", ...
}

// SetValueOptions names an element and the value to write into it.
type SetValueOptions struct {
	App      string
	Window   string
	WindowID int
	PID      int
	ID       int
	Value    string
}
