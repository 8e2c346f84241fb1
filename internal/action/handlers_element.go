package action

import (
	"context"
	"fmt"
	"strings"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/pkg/logging"
)

// warningFallbackKey marks results obtained through the vision fallback so
// that callers can see the accessibility path did not work.
const warningFallbackKey = "warning_accessibility_fallback"

func handleClickByAccessibility(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	hint := a.targetWindow()
	if hint == "" {
		return model.Fail("no target window: set window_title_hint or open an application first")
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		// without the window there is nothing to screenshot either
		return model.Fail("window matching %q not found", hint)
	}

	var failures failureList
	q := a.query()
	if el, err := d.findElement(win, q, &failures); err == nil {
		if err := d.interact.Click(win, el); err != nil {
			failures.add(fmt.Sprintf("accessibility click on %q failed: %v", el.Name, err))
		} else {
			return model.Succeed(map[string]any{"clicked_element_name": el.Name})
		}
	}

	res, ok := d.visionClick(ctx, a, fallbackDescription(a, q), win.Title, &failures)
	if ok {
		return res.Put(warningFallbackKey,
			fmt.Sprintf("element %s was clicked via screen analysis after accessibility lookup failed", q))
	}
	return model.Fail("%s", failures.message())
}

func handleTypeByAccessibility(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	text := a.str("text_to_type")
	if text == "" {
		return model.Fail("type_text_into_element_by_accessibility requires text_to_type")
	}
	hint := a.targetWindow()
	if hint == "" {
		return model.Fail("no target window: set window_title_hint or open an application first")
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		return model.Fail("window matching %q not found", hint)
	}

	var failures failureList
	q := a.query()
	if el, err := d.findElement(win, q, &failures); err == nil {
		if err := d.interact.SetText(win, el, text); err != nil {
			failures.add(fmt.Sprintf("accessibility typing into %q failed: %v", el.Name, err))
		} else {
			return model.Succeed(map[string]any{"typed_into_element_name": el.Name})
		}
	}

	res, ok := d.visionType(ctx, a, fallbackDescription(a, q), win.Title, text, &failures)
	if ok {
		return res.Put(warningFallbackKey,
			fmt.Sprintf("text was typed into %s via screen analysis after accessibility lookup failed", q))
	}
	return model.Fail("%s", failures.message())
}

func handleGetTextByAccessibility(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	hint := a.targetWindow()
	if hint == "" {
		return model.Fail("no target window: set window_title_hint or open an application first")
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		return model.Fail("window matching %q not found", hint)
	}
	storeAs := a.strOr("store_result_as", "last_element_text")

	var failures failureList
	q := a.query()
	if el, err := d.findElement(win, q, &failures); err == nil {
		text := el.Value
		if text == "" {
			text = el.Name
		}
		return model.Succeed(map[string]any{storeAs: text})
	}

	// reading text has a natural vision fallback: ask the backend directly
	if d.vision == nil {
		failures.add("screen analysis not available on this platform")
		return model.Fail("%s", failures.message())
	}
	description := fallbackDescription(a, q)
	if description == "" {
		failures.add("no element description available for screen analysis")
		return model.Fail("%s", failures.message())
	}
	if d.has(capWindows) {
		if err := d.activate(ctx, win); err != nil {
			failures.add(fmt.Sprintf("could not bring %q to the foreground for a screenshot: %v", win.Title, err))
			return model.Fail("%s", failures.message())
		}
	}
	answer, err := d.vision.AnalyzeScreen(ctx,
		fmt.Sprintf("What is the exact text content of the element described as %q? Answer with the text only.", description),
		win.Title)
	if err != nil {
		failures.add(fmt.Sprintf("screen analysis failed: %v", err))
		return model.Fail("%s", failures.message())
	}
	return model.Succeed(map[string]any{storeAs: strings.TrimSpace(answer)}).
		Put(warningFallbackKey,
			fmt.Sprintf("text of %s was read via screen analysis after accessibility lookup failed", q))
}

func handleClickByDescription(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	description := a.str("element_description")
	if description == "" {
		return model.Fail("click_element_by_description requires element_description")
	}
	var failures failureList
	res, ok := d.visionClick(ctx, a, description, a.targetWindow(), &failures)
	if !ok {
		return model.Fail("%s", failures.message())
	}
	return res
}

func handleTypeByDescription(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	text := a.str("text_to_type")
	if text == "" {
		return model.Fail("type_text_into_element_by_description requires text_to_type")
	}
	description := a.str("element_description")
	if description == "" {
		return model.Fail("type_text_into_element_by_description requires element_description")
	}
	var failures failureList
	res, ok := d.visionType(ctx, a, description, a.targetWindow(), text, &failures)
	if !ok {
		return model.Fail("%s", failures.message())
	}
	return res
}

// findElement wraps the accessibility lookup, recording the failure reason.
func (d *Dispatcher) findElement(win *model.Window, q model.ElementQuery, failures *failureList) (*model.Element, error) {
	el, err := d.access.FindElement(win, q)
	if err != nil {
		failures.add(fmt.Sprintf("accessibility lookup for %s failed: %v", q, err))
		return nil, err
	}
	return el, nil
}

// fallbackDescription derives a vision description when the step does not
// carry one: the element's name, then its automation id.
func fallbackDescription(a args, q model.ElementQuery) string {
	if s := a.str("element_description"); s != "" {
		return s
	}
	if q.Name != "" {
		return q.Name
	}
	return q.AutomationID
}

// visionLocate runs the vision backend and maps the hit to screen space.
// ok is false when the element could not be located; the reason lands on
// failures. The target window is brought to the foreground first so the
// screenshot shows it; an element located on a buried window would map to
// coordinates that hit whatever is covering it.
func (d *Dispatcher) visionLocate(ctx context.Context, a args, description, windowHint string, failures *failureList) (x, y int, ok bool) {
	if d.vision == nil {
		failures.add("screen analysis not available on this platform")
		return 0, 0, false
	}
	if description == "" {
		failures.add("no element description available for screen analysis")
		return 0, 0, false
	}
	if windowHint != "" && d.access != nil && d.has(capWindows) {
		if win, err := d.access.ResolveWindow(windowHint); err == nil {
			if err := d.activate(ctx, win); err != nil {
				failures.add(fmt.Sprintf("could not bring %q to the foreground for a screenshot: %v", win.Title, err))
				return 0, 0, false
			}
		}
	}
	loc, bounds, err := d.vision.LocateElement(ctx, description, windowHint,
		a.strAny("context_instructions_for_vision", "visual_hints"))
	if err != nil {
		failures.add(fmt.Sprintf("screen analysis failed: %v", err))
		return 0, 0, false
	}
	if !loc.Found {
		reason := loc.Reasoning
		if reason == "" {
			reason = "no matching element on screen"
		}
		failures.add(fmt.Sprintf("screen analysis could not locate %q: %s", description, reason))
		return 0, 0, false
	}
	x, y = bounds.Absolute(loc.XCenter, loc.YCenter)
	logging.Debug(subsystem, "vision located %q at (%d,%d)", description, x, y)
	return x, y, true
}

func (d *Dispatcher) visionClick(ctx context.Context, a args, description, windowHint string, failures *failureList) (model.ActionResult, bool) {
	x, y, ok := d.visionLocate(ctx, a, description, windowHint, failures)
	if !ok {
		return model.ActionResult{}, false
	}
	if err := d.provider.Inputter.Click(x, y, platform.MouseLeft, 1); err != nil {
		failures.add(fmt.Sprintf("click at (%d,%d) failed: %v", x, y, err))
		return model.ActionResult{}, false
	}
	return model.Succeed(map[string]any{"clicked_element_description": description}), true
}

func (d *Dispatcher) visionType(ctx context.Context, a args, description, windowHint, text string, failures *failureList) (model.ActionResult, bool) {
	x, y, ok := d.visionLocate(ctx, a, description, windowHint, failures)
	if !ok {
		return model.ActionResult{}, false
	}
	// click to focus the field, then type
	if err := d.provider.Inputter.Click(x, y, platform.MouseLeft, 1); err != nil {
		failures.add(fmt.Sprintf("focusing click at (%d,%d) failed: %v", x, y, err))
		return model.ActionResult{}, false
	}
	if err := d.sleep(ctx, settleDelay); err != nil {
		failures.add("cancelled before typing")
		return model.ActionResult{}, false
	}
	if err := d.provider.Inputter.TypeText(text, 0); err != nil {
		failures.add(fmt.Sprintf("typing failed: %v", err))
		return model.ActionResult{}, false
	}
	return model.Succeed(map[string]any{"typed_into_element_description": description}), true
}
