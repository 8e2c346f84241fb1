package cmd

import (
	"fmt"

	"deskpilot/internal/accessibility"
	"deskpilot/internal/action"
	"deskpilot/internal/creds"
	"deskpilot/internal/llm"
	"deskpilot/internal/nlu"
	"deskpilot/internal/plan"
	"deskpilot/internal/planner"
	"deskpilot/internal/platform"
	"deskpilot/internal/session"
	"deskpilot/internal/vision"
)

// engineOptions are the knobs the run/plan/serve commands share.
type engineOptions struct {
	geminiModel string
	debugDir    string
}

// buildSession assembles the full execution stack: platform provider,
// generative backend, vision locator, credential store, dispatcher, runner.
func buildSession(opts engineOptions) (*session.Session, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}

	gem, err := llm.NewGemini(llm.GeminiConfig{
		TextModel:   opts.geminiModel,
		VisionModel: opts.geminiModel,
	})
	if err != nil {
		return nil, fmt.Errorf("generative backend: %w", err)
	}

	dispatcher, _, err := buildDispatcher(provider, gem, opts.debugDir)
	if err != nil {
		return nil, err
	}

	runner := plan.NewRunner(dispatcher)
	return session.New(nlu.NewParser(gem), planner.NewPlanner(gem), runner), nil
}

// buildDispatcher wires the action dispatcher over the provider and backend.
// The vision locator is returned separately for callers that expose it
// directly (the MCP locate_element tool).
func buildDispatcher(provider *platform.Provider, client llm.Client, debugDir string) (*action.Dispatcher, *vision.Locator, error) {
	credPath, err := creds.DefaultPath()
	if err != nil {
		return nil, nil, fmt.Errorf("credential store path: %w", err)
	}

	var vloc *vision.Locator
	if provider.Screenshotter != nil {
		var windows *accessibility.Locator
		if provider.Reader != nil {
			windows = accessibility.NewLocator(provider.Reader)
		}
		vloc = vision.NewLocator(client, provider.Screenshotter, windows)
		if debugDir != "" {
			vloc.SetDebugDir(debugDir)
		}
	}

	dispatcher := action.New(action.Config{
		Provider: provider,
		Vision:   vloc,
		LLM:      client,
		Creds:    creds.NewStore(credPath),
		Prompter: creds.TerminalPrompter{},
	})
	return dispatcher, vloc, nil
}
