// Package platform abstracts the OS-level collaborators the action engine
// drives: accessibility reading, input synthesis, window management, screen
// capture and application launching. Concrete backends register themselves
// per GOOS; the engine only sees these interfaces.
package platform

import "deskpilot/internal/model"

// Reader reads the UI element tree and window list from the OS
// accessibility layer.
type Reader interface {
	// ReadElements returns the element tree for the specified scope.
	ReadElements(opts ReadOptions) ([]model.Element, error)

	// ListWindows returns every top-level window the backend can see,
	// optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)
}

// Inputter synthesizes mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}

// WindowManager activates windows and reports the foreground application.
type WindowManager interface {
	// ActivateWindow brings the matching window to the foreground,
	// restoring it from a minimized state if needed.
	ActivateWindow(opts ActivateOptions) error

	// FrontmostApp returns the name and PID of the foreground application.
	FrontmostApp() (string, int, error)
}

// Screenshotter captures PNG screenshots for the vision pipeline.
type Screenshotter interface {
	// CaptureWindow captures the window matching the options.
	CaptureWindow(opts ScreenshotOptions) ([]byte, error)

	// CaptureScreen captures the entire primary display.
	CaptureScreen() ([]byte, error)
}

// ActionPerformer invokes accessibility actions (press, confirm, ...)
// directly on elements, bypassing synthetic input.
type ActionPerformer interface {
	PerformAction(opts ActionOptions) error
}

// ValueSetter writes values straight into accessible elements, the reliable
// way to fill text fields that ignore synthetic keystrokes.
type ValueSetter interface {
	SetValue(opts SetValueOptions) error
}

// Launcher starts applications and opens URLs in the default browser.
type Launcher interface {
	OpenApplication(name string) error
	OpenURL(url string) error
}
