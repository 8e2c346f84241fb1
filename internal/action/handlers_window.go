package action

import (
	"context"
	"fmt"
	"net/url"
	"runtime"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/pkg/logging"
)

// launch poll: a freshly started application can take a few seconds to put
// up its first window.
const (
	launchPollAttempts = 10
	launchPollInterval = settleDelay + 200 // 500ms
)

func handleOpenApplication(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	name := a.str("application_name")
	if name == "" {
		return model.Fail("open_application requires application_name")
	}

	if a.boolOr("activate_if_running", true) {
		if win, err := d.access.ResolveWindow(name); err == nil {
			if err := d.activate(ctx, win); err != nil {
				logging.Warn(subsystem, "could not activate running %q: %v", name, err)
			} else {
				return model.Succeed(map[string]any{
					"last_opened_app_name":     name,
					"last_opened_window_title": win.Title,
					"message":                  fmt.Sprintf("%q was already running and was activated", name),
				})
			}
		}
	}

	if err := d.provider.Launcher.OpenApplication(name); err != nil {
		return model.Fail("could not launch %q: %v", name, err)
	}

	// the window may take a few seconds to appear after launch
	for attempt := 0; attempt < launchPollAttempts; attempt++ {
		if err := d.sleep(ctx, launchPollInterval); err != nil {
			return model.Fail("cancelled while waiting for %q to open", name)
		}
		win, err := d.access.ResolveWindow(name)
		if err != nil {
			continue
		}
		if err := d.activate(ctx, win); err != nil {
			logging.Warn(subsystem, "activating new window of %q: %v", name, err)
		}
		return model.Succeed(map[string]any{
			"last_opened_app_name":     name,
			"last_opened_window_title": win.Title,
		})
	}

	// launch succeeded even though no window was identified; some apps only
	// show up in the tray or reuse an existing process
	logging.Warn(subsystem, "no window identified for %q after launch", name)
	return model.Succeed(map[string]any{
		"last_opened_app_name": name,
		"message":              fmt.Sprintf("%q launched, but its window could not be identified", name),
	})
}

func handleActivateWindow(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	hint := a.targetWindow()
	if hint == "" {
		return model.Fail("activate_window requires window_title_hint")
	}
	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		return model.Fail("could not activate: %v", err)
	}
	if err := d.activate(ctx, win); err != nil {
		return model.Fail("could not activate window %q: %v", win.Title, err)
	}
	return model.Succeed(map[string]any{"activated_window_title": win.Title})
}

func handleCloseApplication(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	hint := a.str("application_name")
	if hint == "" {
		hint = a.targetWindow()
	}
	if hint == "" {
		return model.Fail("close_application requires application_name or window_title_hint")
	}

	// closing clears the session's window memory either way
	cleared := map[string]any{
		"last_opened_window_title": nil,
		"last_opened_app_name":     nil,
	}

	win, err := d.access.ResolveWindow(hint)
	if err != nil {
		cleared["message"] = fmt.Sprintf("no window matching %q; it may already be closed", hint)
		return model.Succeed(cleared)
	}
	if err := d.activate(ctx, win); err != nil {
		return model.Fail("could not activate %q before closing: %v", win.Title, err)
	}
	if err := d.provider.Inputter.KeyCombo(closeKeyCombo()); err != nil {
		return model.Fail("could not send close shortcut to %q: %v", win.Title, err)
	}
	if err := d.sleep(ctx, settleDelay); err != nil {
		return model.Fail("cancelled while closing %q", win.Title)
	}

	// one follow-up check; disappearance means closed
	if _, err := d.access.ResolveWindow(hint); err == nil {
		return model.Fail("window %q is still present after the close shortcut", win.Title)
	}
	cleared["message"] = fmt.Sprintf("closed %q", win.Title)
	return model.Succeed(cleared)
}

func handleSearchWeb(_ context.Context, d *Dispatcher, a args) model.ActionResult {
	query := a.str("search_query")
	if query == "" {
		return model.Fail("search_web requires search_query")
	}
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := d.provider.Launcher.OpenURL(searchURL); err != nil {
		return model.Fail("could not open browser: %v", err)
	}
	return model.Succeed(map[string]any{"last_search_query": query})
}

// activate foregrounds the window and waits for focus to settle.
func (d *Dispatcher) activate(ctx context.Context, win *model.Window) error {
	err := d.provider.WindowManager.ActivateWindow(platform.ActivateOptions{
		Window:   win.Title,
		WindowID: win.ID,
		PID:      win.PID,
	})
	if err != nil {
		return err
	}
	return d.sleep(ctx, settleDelay)
}

// closeKeyCombo is the OS shortcut that closes the focused window.
func closeKeyCombo() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"cmd", "w"}
	case "windows":
		return []string{"alt", "f4"}
	default:
		return []string{"ctrl", "w"}
	}
}

// selectAllCombo selects the focused window's editable content.
func selectAllCombo() []string {
	if runtime.GOOS == "darwin" {
		return []string{"cmd", "a"}
	}
	return []string{"ctrl", "a"}
}
