// Package vision locates UI elements and answers questions about the screen
// by sending screenshots to the generative vision backend. It is the
// fallback strategy when the accessibility tree cannot resolve an element,
// and the only strategy for description-based actions.
package vision

import (
	"context"
	"fmt"
	"strings"

	"deskpilot/internal/accessibility"
	"deskpilot/internal/llm"
	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/pkg/logging"
)

const subsystem = "vision"

const locatePromptFmt = `You are analyzing a screenshot of a computer screen to locate a UI element.

Element to find: %s
%s
Respond with ONLY a JSON object, no other text:
{
  "found": true or false,
  "x_center": <int, pixels from the image left edge>,
  "y_center": <int, pixels from the image top edge>,
  "x_top_left": <int>,
  "y_top_left": <int>,
  "width": <int>,
  "height": <int>,
  "confidence": <float between 0.0 and 1.0>,
  "reasoning": "<one sentence on how you identified it, or why it is not visible>"
}

All coordinates are relative to this image. If the element is not clearly
visible, answer found=false and explain in reasoning.`

const analyzePromptFmt = `You are analyzing a screenshot of a computer screen.

Question: %s

Answer concisely based only on what is visible in the screenshot.`

// Locator captures the screen and asks the vision backend where things are.
type Locator struct {
	client   llm.Client
	screens  platform.Screenshotter
	windows  *accessibility.Locator
	debugDir string
}

// NewLocator creates a vision locator. windows may be nil; every capture is
// then full-screen.
func NewLocator(client llm.Client, screens platform.Screenshotter, windows *accessibility.Locator) *Locator {
	return &Locator{client: client, screens: screens, windows: windows}
}

// SetDebugDir enables saving annotated screenshots of every successful
// locate into dir.
func (l *Locator) SetDebugDir(dir string) {
	l.debugDir = dir
}

// LocateElement finds the element matching the description. When windowHint
// resolves to a window, only that window is captured and the returned bounds
// map image coordinates back to the screen; otherwise the full screen is
// captured and the bounds are the full-screen sentinel. A response the model
// claims is found but lacks usable coordinates is downgraded to not-found.
func (l *Locator) LocateElement(ctx context.Context, description, windowHint, hints string) (model.VisionLocate, model.Bounds, error) {
	png, bounds, err := l.capture(windowHint)
	if err != nil {
		return model.VisionLocate{}, bounds, err
	}

	extra := ""
	if hints != "" {
		extra = "Context: " + hints + "\n"
	}
	prompt := fmt.Sprintf(locatePromptFmt, description, extra)

	raw, err := l.client.AnalyzeImage(ctx, png, prompt)
	if err != nil {
		return model.VisionLocate{
			Reasoning: fmt.Sprintf("vision backend request failed: %v", err),
		}, bounds, nil
	}

	loc := ParseLocateResponse(raw)
	if loc.Found {
		logging.Debug(subsystem, "located %q at image (%d, %d) confidence=%.2f", description, loc.XCenter, loc.YCenter, loc.Confidence)
		l.saveDebugImage(png, loc, description)
	} else {
		logging.Debug(subsystem, "did not locate %q: %s", description, loc.Reasoning)
	}
	return loc, bounds, nil
}

// AnalyzeScreen answers a free-form question about the current screen.
func (l *Locator) AnalyzeScreen(ctx context.Context, query, windowHint string) (string, error) {
	png, _, err := l.capture(windowHint)
	if err != nil {
		return "", err
	}
	raw, err := l.client.AnalyzeImage(ctx, png, fmt.Sprintf(analyzePromptFmt, query))
	if err != nil {
		return "", fmt.Errorf("vision backend request failed: %w", err)
	}
	return strings.TrimSpace(llm.StripFences(raw)), nil
}

// capture grabs the target window's pixels, or the whole screen when no
// window hint is given or the hinted window cannot be found.
func (l *Locator) capture(windowHint string) ([]byte, model.Bounds, error) {
	if windowHint != "" && l.windows != nil {
		win, err := l.windows.ResolveWindow(windowHint)
		if err == nil {
			png, err := l.screens.CaptureWindow(platform.ScreenshotOptions{WindowID: win.ID, Window: win.Title, PID: win.PID})
			if err != nil {
				return nil, win.Bounds, fmt.Errorf("capturing window %q: %w", win.Title, err)
			}
			return png, win.Bounds, nil
		}
		logging.Warn(subsystem, "window hint %q did not resolve (%v), capturing full screen", windowHint, err)
	}
	png, err := l.screens.CaptureScreen()
	if err != nil {
		return nil, model.FullScreen(), fmt.Errorf("capturing screen: %w", err)
	}
	return png, model.FullScreen(), nil
}
