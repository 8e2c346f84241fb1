package model

// Bounds is a screen rectangle in absolute coordinates. A negative width or
// height marks the full-screen sentinel: coordinates expressed relative to
// such bounds are already absolute.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FullScreen returns the sentinel bounds meaning "the entire screen".
func FullScreen() Bounds {
	return Bounds{Left: 0, Top: 0, Width: -1, Height: -1}
}

// IsFullScreen reports whether b is the full-screen sentinel.
func (b Bounds) IsFullScreen() bool {
	return b.Width < 0 || b.Height < 0
}

// Absolute maps a point relative to b's top-left corner to absolute screen
// coordinates. For the full-screen sentinel the point passes through
// unchanged. No range checking is done; callers that clip must do so
// themselves.
func (b Bounds) Absolute(rx, ry int) (int, int) {
	if b.IsFullScreen() {
		return rx, ry
	}
	return b.Left + rx, b.Top + ry
}
