package model

// Window represents one top-level application window.
type Window struct {
	App       string `json:"app"`
	PID       int    `json:"pid"`
	Title     string `json:"title"`
	ID        int    `json:"id"`
	Bounds    Bounds `json:"bounds"`
	Focused   bool   `json:"focused,omitempty"`
	Visible   bool   `json:"visible,omitempty"`
	Minimized bool   `json:"minimized,omitempty"`
}
