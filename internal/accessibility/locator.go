// Package accessibility locates windows and elements through the OS
// accessibility layer and drives interactions on them. It is the first,
// preferred strategy for element-targeted actions; the vision package is
// the fallback.
package accessibility

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/pkg/logging"
)

const subsystem = "accessibility"

// ErrWindowNotFound reports that no window matched the title hint. It is
// distinct from ErrElementNotFound: when the window itself is missing,
// falling back to vision would scan the wrong surface.
var ErrWindowNotFound = errors.New("window not found")

// ErrElementNotFound reports that the window was found but no element in
// its tree matched the query.
var ErrElementNotFound = errors.New("element not found")

// Locator finds windows and elements via a platform.Reader.
type Locator struct {
	reader platform.Reader
}

// NewLocator creates a Locator over the given reader.
func NewLocator(reader platform.Reader) *Locator {
	return &Locator{reader: reader}
}

// ResolveWindow returns the window whose title contains hint,
// case-insensitively. When several match, SelectWindow's preference order
// decides. Returns ErrWindowNotFound when nothing matches.
func (l *Locator) ResolveWindow(hint string) (*model.Window, error) {
	windows, err := l.reader.ListWindows(platform.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing windows: %w", err)
	}
	w := SelectWindow(windows, hint)
	if w == nil {
		return nil, fmt.Errorf("%w: no window title contains %q", ErrWindowNotFound, hint)
	}
	logging.Debug(subsystem, "resolved window hint %q to %q (pid %d)", hint, w.Title, w.PID)
	return w, nil
}

// SelectWindow picks the best window whose title contains hint. Preference:
// a focused visible window, then any visible (not minimized) window, then
// the first match in enumeration order. Deliberately not an error when
// several windows tie; plans routinely say "Notepad" with two notepads open
// and whichever the user interacted with last is the sensible pick.
func SelectWindow(windows []model.Window, hint string) *model.Window {
	needle := strings.ToLower(hint)
	var visible, first *model.Window
	for i := range windows {
		w := &windows[i]
		if !strings.Contains(strings.ToLower(w.Title), needle) {
			continue
		}
		if w.Focused && w.Visible {
			return w
		}
		if visible == nil && w.Visible && !w.Minimized {
			visible = w
		}
		if first == nil {
			first = w
		}
	}
	if visible != nil {
		return visible
	}
	return first
}

// FindElement searches the window's accessibility tree depth-first and
// returns the first element matching the query, in traversal order. Plans
// disambiguate with control_type or automation_id rather than the locator
// guessing among matches. Returns ErrElementNotFound when the tree has no
// match.
func (l *Locator) FindElement(win *model.Window, q model.ElementQuery) (*model.Element, error) {
	if q.Empty() {
		return nil, fmt.Errorf("element query needs at least one of name, automation_id or class_name_re")
	}
	match, err := compileQuery(q)
	if err != nil {
		return nil, err
	}

	roots, err := l.reader.ReadElements(platform.ReadOptions{PID: win.PID, Window: win.Title})
	if err != nil {
		return nil, fmt.Errorf("reading element tree of %q: %w", win.Title, err)
	}

	var found *model.Element
	for i := range roots {
		roots[i].Walk(func(e *model.Element) bool {
			if match(e) {
				found = e
				return false
			}
			return true
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in window %q", ErrElementNotFound, q, win.Title)
}

// compileQuery turns a query into a matcher, validating the class regex up
// front so a bad pattern fails the step instead of silently matching nothing.
func compileQuery(q model.ElementQuery) (func(*model.Element) bool, error) {
	var classRe *regexp.Regexp
	if q.ClassNameRe != "" {
		var err error
		classRe, err = regexp.Compile(q.ClassNameRe)
		if err != nil {
			return nil, fmt.Errorf("invalid class_name_re %q: %w", q.ClassNameRe, err)
		}
	}
	nameNeedle := strings.ToLower(q.Name)
	wantType := model.NormalizeControlType(q.ControlType)

	return func(e *model.Element) bool {
		if q.Name != "" && !strings.Contains(strings.ToLower(e.Name), nameNeedle) {
			return false
		}
		if q.AutomationID != "" && e.AutomationID != q.AutomationID {
			return false
		}
		if classRe != nil && !classRe.MatchString(e.ClassName) {
			return false
		}
		if wantType != "" && e.ControlType != wantType {
			return false
		}
		if q.FrameworkID != "" && e.FrameworkID != q.FrameworkID {
			return false
		}
		return true
	}, nil
}
