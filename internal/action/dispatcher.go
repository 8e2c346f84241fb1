// Package action executes individual plan steps. The dispatcher maps each
// step's action_type tag to a handler, checks the handler's capability
// preconditions, and post-processes results so that every failure carries
// an error message.
package action

import (
	"context"
	"fmt"
	"time"

	"deskpilot/internal/accessibility"
	"deskpilot/internal/creds"
	"deskpilot/internal/llm"
	"deskpilot/internal/model"
	"deskpilot/internal/platform"
	"deskpilot/internal/template"
	"deskpilot/internal/vision"
	"deskpilot/pkg/logging"
)

const subsystem = "action"

// settleDelay gives the OS a moment after focus changes before input lands.
const settleDelay = 300 * time.Millisecond

// capability names a collaborator a handler needs before it can run.
type capability string

const (
	capReader   capability = "accessibility reader"
	capInput    capability = "input synthesis"
	capWindows  capability = "window management"
	capLauncher capability = "application launcher"
	capVision   capability = "vision backend"
	capLLM      capability = "text generation backend"
	capCreds    capability = "credential store"
)

type handlerFunc func(ctx context.Context, d *Dispatcher, a args) model.ActionResult

type handler struct {
	fn       handlerFunc
	requires []capability
}

// Config wires the dispatcher's collaborators. Any of them may be nil;
// actions needing a missing one fail their capability precondition instead
// of panicking.
type Config struct {
	Provider *platform.Provider
	Vision   *vision.Locator
	LLM      llm.Client
	Creds    *creds.Store
	Prompter creds.Prompter
}

// Dispatcher executes single action steps against the wired collaborators.
type Dispatcher struct {
	provider *platform.Provider
	access   *accessibility.Locator
	interact *accessibility.Interactor
	vision   *vision.Locator
	llm      llm.Client
	creds    *creds.Store
	prompter creds.Prompter

	handlers map[string]handler

	// sleep is cancellable and injectable for tests.
	sleep func(context.Context, time.Duration) error
}

// New creates a Dispatcher with the closed handler registry.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		provider: cfg.Provider,
		vision:   cfg.Vision,
		llm:      cfg.LLM,
		creds:    cfg.Creds,
		prompter: cfg.Prompter,
		sleep:    sleepCtx,
	}
	if cfg.Provider != nil {
		if cfg.Provider.Reader != nil {
			d.access = accessibility.NewLocator(cfg.Provider.Reader)
		}
		d.interact = accessibility.NewInteractor(
			cfg.Provider.Inputter, cfg.Provider.ActionPerformer, cfg.Provider.ValueSetter)
	}
	d.handlers = map[string]handler{
		model.ActionOpenApplication:   {handleOpenApplication, []capability{capReader, capWindows, capLauncher}},
		model.ActionActivateWindow:    {handleActivateWindow, []capability{capReader, capWindows}},
		model.ActionCloseApplication:  {handleCloseApplication, []capability{capReader, capWindows, capInput}},
		model.ActionSearchWeb:         {handleSearchWeb, []capability{capLauncher}},
		model.ActionTypeText:          {handleTypeText, []capability{capInput}},
		model.ActionPressKey:          {handlePressKey, []capability{capInput}},
		model.ActionClearTextInWindow: {handleClearTextInWindow, []capability{capReader, capWindows, capInput}},
		model.ActionWait:              {handleWait, nil},
		model.ActionLogMessage:        {handleLogMessage, nil},
		model.ActionClickByA11y:       {handleClickByAccessibility, []capability{capReader, capInput}},
		model.ActionTypeIntoByA11y:    {handleTypeByAccessibility, []capability{capReader, capInput}},
		model.ActionGetTextByA11y:     {handleGetTextByAccessibility, []capability{capReader}},
		model.ActionClickByDescription: {handleClickByDescription, []capability{capVision, capInput}},
		model.ActionTypeByDescription:  {handleTypeByDescription, []capability{capVision, capInput}},
		model.ActionGetInfoFromScreen:  {handleGetInfoFromScreen, []capability{capVision}},
		model.ActionGenerateText:       {handleGenerateText, []capability{capLLM}},
		model.ActionGetCredentials:     {handleGetCredentials, []capability{capCreds}},
	}
	return d
}

// Execute runs one step against the execution context. The context map is
// read for parameter resolution but never mutated; result data flows back
// to the caller, which owns the merge. A failed result always has an
// "error" entry.
func (d *Dispatcher) Execute(ctx context.Context, step model.ActionStep, ectx map[string]any) model.ActionResult {
	actionType := step.Type()
	a := args{step: step, ctx: ectx}

	logging.Info(subsystem, "executing %s params=%v", actionType, template.RedactParams(step.Params(), ectx))

	var result model.ActionResult
	h, ok := d.handlers[actionType]
	switch {
	case actionType == "":
		result = model.Fail("step has no action_type")
	case !ok:
		result = model.Fail("unimplemented action type %q", actionType)
	default:
		if msg := d.missingCapability(h.requires); msg != "" {
			result = model.Fail("action %q unavailable: %s", actionType, msg)
		} else {
			result = h.fn(ctx, d, a)
		}
	}

	if !result.Success && result.Error() == "" {
		result = result.Put("error", fmt.Sprintf("Action '%s' failed.", actionType))
	}
	if result.Success {
		logging.Debug(subsystem, "%s succeeded", actionType)
	} else {
		logging.Warn(subsystem, "%s failed: %s", actionType, result.Error())
	}
	return result
}

// missingCapability returns a message naming the first absent collaborator.
func (d *Dispatcher) missingCapability(requires []capability) string {
	for _, c := range requires {
		if !d.has(c) {
			return fmt.Sprintf("%s not available on this platform", c)
		}
	}
	return ""
}

func (d *Dispatcher) has(c capability) bool {
	switch c {
	case capReader:
		return d.access != nil
	case capInput:
		return d.provider != nil && d.provider.Inputter != nil
	case capWindows:
		return d.provider != nil && d.provider.WindowManager != nil
	case capLauncher:
		return d.provider != nil && d.provider.Launcher != nil
	case capVision:
		return d.vision != nil
	case capLLM:
		return d.llm != nil
	case capCreds:
		return d.creds != nil && d.prompter != nil
	default:
		return false
	}
}

func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}
