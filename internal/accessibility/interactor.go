package accessibility

import (
	"fmt"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/pkg/logging"
)

// Interactor performs clicks and text entry on located elements, preferring
// the backend's native accessibility actions over synthetic input.
type Interactor struct {
	input   platform.Inputter
	actions platform.ActionPerformer
	values  platform.ValueSetter
}

// NewInteractor creates an Interactor. actions and values may be nil; the
// synthetic-input path then covers everything.
func NewInteractor(input platform.Inputter, actions platform.ActionPerformer, values platform.ValueSetter) *Interactor {
	return &Interactor{input: input, actions: actions, values: values}
}

// Click activates the element: via the backend press action when the
// element advertises one, otherwise a synthetic click at its center.
func (in *Interactor) Click(win *model.Window, el *model.Element) error {
	if !el.IsEnabled() {
		return fmt.Errorf("element %q is disabled", el.Name)
	}
	if in.actions != nil && el.HasAction("press") {
		err := in.actions.PerformAction(platform.ActionOptions{
			PID:    win.PID,
			Window: win.Title,
			ID:     el.ID,
			Action: "press",
		})
		if err == nil {
			return nil
		}
		logging.Debug(subsystem, "press action on %q failed (%v), clicking center instead", el.Name, err)
	}
	if in.input == nil {
		return fmt.Errorf("no input backend available to click element %q", el.Name)
	}
	x, y := el.Center()
	if err := in.input.Click(x, y, platform.MouseLeft, 1); err != nil {
		return fmt.Errorf("clicking element %q at (%d, %d): %w", el.Name, x, y, err)
	}
	return nil
}

// SetText puts text into the element. The element is clicked first so
// keyboard focus lands on it; the value is then written through the
// accessibility API when available, falling back to keystrokes.
func (in *Interactor) SetText(win *model.Window, el *model.Element, text string) error {
	if err := in.Click(win, el); err != nil {
		return err
	}
	if in.values != nil {
		err := in.values.SetValue(platform.SetValueOptions{
			PID:    win.PID,
			Window: win.Title,
			ID:     el.ID,
			Value:  text,
		})
		if err == nil {
			return nil
		}
		logging.Debug(subsystem, "set-value on %q failed (%v), typing instead", el.Name, err)
	}
	if in.input == nil {
		return fmt.Errorf("no input backend available to type into element %q", el.Name)
	}
	if err := in.input.TypeText(text, 0); err != nil {
		return fmt.Errorf("typing into element %q: %w", el.Name, err)
	}
	return nil
}
