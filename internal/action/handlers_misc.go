package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deskpilot/internal/creds"
	"deskpilot/internal/model"
	"deskpilot/pkg/logging"
)

func handleWait(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	seconds, err := a.number("duration_seconds")
	if err != nil {
		return model.Fail("wait: %v", err)
	}
	if seconds < 0 {
		seconds = 0
	}
	dur := time.Duration(seconds * float64(time.Second))
	if err := d.sleep(ctx, dur); err != nil {
		return model.Fail("wait cancelled after being asked for %.1fs", seconds)
	}
	return model.Succeed(map[string]any{"waited_seconds": seconds})
}

func handleLogMessage(_ context.Context, _ *Dispatcher, a args) model.ActionResult {
	message := a.loggable("message")
	if message == "" {
		return model.Fail("log_message requires message")
	}
	switch strings.ToLower(a.strOr("level", "info")) {
	case "debug":
		logging.Debug(subsystem, "%s", message)
	case "warn", "warning":
		logging.Warn(subsystem, "%s", message)
	case "error":
		logging.Error(subsystem, "%s", message)
	default:
		logging.Info(subsystem, "%s", message)
	}
	return model.Succeed(map[string]any{"logged_message": message})
}

func handleGetInfoFromScreen(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	query := a.strAny("query_details", "information_query")
	if query == "" {
		return model.Fail("get_info_from_screen requires query_details")
	}
	answer, err := d.vision.AnalyzeScreen(ctx, query, a.targetWindow())
	if err != nil {
		return model.Fail("screen analysis failed: %v", err)
	}
	storeAs := a.strOr("store_result_as", "last_perception_data")
	return model.Succeed(map[string]any{storeAs: strings.TrimSpace(answer)})
}

func handleGenerateText(ctx context.Context, d *Dispatcher, a args) model.ActionResult {
	prompt := a.strAny("prompt_for_generation", "generation_prompt")
	if prompt == "" {
		return model.Fail("generate_text_content requires prompt_for_generation")
	}
	text, err := d.llm.GenerateText(ctx, prompt)
	if err != nil {
		return model.Fail("text generation failed: %v", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Fail("text generation returned an empty response")
	}
	storeAs := a.strOr("store_result_as", "generated_text_content")
	return model.Succeed(map[string]any{storeAs: text})
}

func handleGetCredentials(_ context.Context, d *Dispatcher, a args) model.ActionResult {
	service := a.str("service_name")
	if service == "" {
		return model.Fail("get_credentials_for_service requires service_name")
	}

	if res, ok := d.ensureVaultReady(); !ok {
		return res
	}

	cred, found, err := d.creds.Get(service)
	if err != nil {
		return model.Fail("credential lookup for %q failed: %v", service, err)
	}
	if !found {
		answered, save, ok := d.prompter.ServiceCredential(service, a.str("username_hint"))
		if !ok {
			return model.Fail("credential entry for %q was cancelled by user", service)
		}
		cred = answered
		if save {
			if err := d.creds.AddOrUpdate(service, cred); err != nil {
				// the credential is still usable this run
				logging.Warn(subsystem, "could not save credential for %q: %v", service, err)
			}
		}
	}

	slug := serviceSlug(service)
	return model.Succeed(map[string]any{
		slug + "_username": cred.Username,
		slug + "_password": cred.Password,
		"message":          fmt.Sprintf("credentials for %q are available as %s_username and %s_password", service, slug, slug),
	})
}

// ensureVaultReady walks the store through setup or unlock as needed.
// ok=false carries the failure result to return.
func (d *Dispatcher) ensureVaultReady() (model.ActionResult, bool) {
	if !d.creds.IsInitialized() {
		master, ok := d.prompter.MasterPassword(true)
		if !ok {
			return model.Fail("credential store setup was cancelled by user"), false
		}
		if err := d.creds.Setup(master); err != nil {
			return model.Fail("credential store setup failed: %v", err), false
		}
		return model.ActionResult{}, true
	}
	if d.creds.IsUnlocked() {
		return model.ActionResult{}, true
	}
	master, ok := d.prompter.MasterPassword(false)
	if !ok {
		return model.Fail("credential store unlock was cancelled by user"), false
	}
	if err := d.creds.Unlock(master); err != nil {
		if errors.Is(err, creds.ErrBadPassword) {
			return model.Fail("credential store unlock failed: wrong master password"), false
		}
		return model.Fail("credential store unlock failed: %v", err), false
	}
	return model.ActionResult{}, true
}

// serviceSlug turns a service name into the context-key prefix its
// credentials are stored under.
func serviceSlug(service string) string {
	slug := strings.ToLower(strings.TrimSpace(service))
	slug = strings.ReplaceAll(slug, " ", "_")
	return slug
}
