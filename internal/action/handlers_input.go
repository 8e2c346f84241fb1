package action

import (
	"context"

	"deskpilot/internal/model"
)

func handleTypeText(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	text := a.str("text_to_type")
	if text == "" {
		return model.Fail("type_text requires text_to_type")
	}
	if res, ok := d.activateExplicitTarget(ctx, a); !ok {
		return res
	}
	if err := d.provider.Inputter.TypeText(text, 0); err != nil {
		return model.Fail("typing failed: %v", err)
	}
	return model.Succeed(map[string]any{"typed_characters": len(text)})
}

func handlePressKey(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	keys := a.keyList("key_name")
	if len(keys) == 0 {
		return model.Fail("press_key requires key_name")
	}
	if res, ok := d.activateExplicitTarget(ctx, a); !ok {
		return res
	}
	if err := d.provider.Inputter.KeyCombo(keys); err != nil {
		return model.Fail("key press failed: %v", err)
	}
	return model.Succeed(nil)
}

// activateExplicitTarget foregrounds the step's target_window_title before
// synthetic input. Without one the input goes to whatever currently has
// focus. ok=false carries the failure result to return.
func (d *Dispatcher) activateExplicitTarget(ctx context.Context, a args) (model.ActionResult, bool) {
	hint := a.str("target_window_title")
	if hint == "" {
		return model.ActionResult{}, true
	}
	if d.access == nil || d.provider.WindowManager == nil {
		return model.Fail("cannot target window %q: window management not available on this platform", hint), false
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		return model.Fail("could not find target window %q", hint), false
	}
	if err := d.activate(ctx, win); err != nil {
		return model.Fail("could not activate %q for input: %v", win.Title, err), false
	}
	return model.ActionResult{}, true
}

func handleClearTextInWindow(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	hint := a.targetWindow()
	if hint == "" {
		return model.Fail("clear_text_in_window requires window_title_hint")
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		return model.Fail("could not find window %q to clear", hint)
	}
	if err := d.activate(ctx, win); err != nil {
		return model.Fail("could not activate %q: %v", win.Title, err)
	}
	if err := d.provider.Inputter.KeyCombo(selectAllCombo()); err != nil {
		return model.Fail("select-all failed in %q: %v", win.Title, err)
	}
	if err := d.sleep(ctx, settleDelay); err != nil {
		return model.Fail("cancelled while clearing %q", win.Title)
	}
	if err := d.provider.Inputter.KeyCombo([]string{"forwarddelete"}); err != nil {
		return model.Fail("delete failed in %q: %v", win.Title, err)
	}
	return model.Succeed(map[string]any{"cleared_window_title": win.Title})
}
