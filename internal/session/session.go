// Package session orchestrates one user command end to end: intent
// extraction, plan generation, plan execution. The session owns the
// execution context that persists across commands, which is what lets
// "now close it" work after "open the calculator".
package session

import (
	"context"
	"fmt"
	"sync"

	"deskpilot/internal/model"
	"deskpilot/internal/nlu"
	"deskpilot/internal/plan"
	"deskpilot/internal/planner"
	"deskpilot/pkg/logging"
)

const subsystem = "session"

// Outcome is the result of handling one command.
type Outcome struct {
	Command string      `json:"command" yaml:"command"`
	Intent  string      `json:"intent" yaml:"intent"`
	Goal    string      `json:"goal,omitempty" yaml:"goal,omitempty"`
	Report  plan.Report `json:"report,omitempty" yaml:"report,omitempty"`
	// Message explains outcomes that never reached execution (error
	// intents, planning failures).
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	OK      bool   `json:"ok" yaml:"ok"`
}

// Session ties the collaborators together and carries context between
// commands.
type Session struct {
	parser  *nlu.Parser
	planner *planner.Planner
	runner  *plan.Runner

	mu   sync.Mutex
	ectx map[string]any
}

func New(parser *nlu.Parser, pl *planner.Planner, runner *plan.Runner) *Session {
	return &Session{
		parser:  parser,
		planner: pl,
		runner:  runner,
		ectx:    map[string]any{},
	}
}

// HandleCommand processes one natural-language command. Failures that are
// part of normal operation (unparseable commands, declined plans, halted
// runs) come back as an unsuccessful Outcome; the error return is for
// plumbing problems such as a busy runner.
func (s *Session) HandleCommand(ctx context.Context, command string) (Outcome, error) {
	out := Outcome{Command: command}

	res := s.parser.Parse(ctx, command, s.Context())
	out.Intent = res.Intent
	switch res.Intent {
	case nlu.IntentError, nlu.IntentParsingError:
		out.Message = fmt.Sprintf("could not understand the command: %s", res.Entity("error_message"))
		return out, nil
	case nlu.IntentAchieveGoal:
		// handled below
	default:
		out.Message = fmt.Sprintf("no handler for intent %q", res.Intent)
		return out, nil
	}
	out.Goal = res.Entity("goal_description")

	s.absorbEntities(res.Entities)

	steps, err := s.planner.Plan(ctx, out.Goal, res.Entities)
	if err != nil {
		out.Message = err.Error()
		return out, nil
	}

	ectx, report, err := s.runner.Run(ctx, steps, s.Context())
	if err != nil {
		return out, err
	}
	s.replaceContext(ectx)
	out.Report = report
	out.OK = report.State == plan.StateCompleted
	if !out.OK {
		out.Message = report.Halt
	}
	return out, nil
}

// RunPlan executes an already-authored plan (the `deskpilot plan` path),
// bypassing intent extraction and planning.
func (s *Session) RunPlan(ctx context.Context, steps []model.ActionStep) (Outcome, error) {
	out := Outcome{Intent: nlu.IntentAchieveGoal}
	ectx, report, err := s.runner.Run(ctx, steps, s.Context())
	if err != nil {
		return out, err
	}
	s.replaceContext(ectx)
	out.Report = report
	out.OK = report.State == plan.StateCompleted
	if !out.OK {
		out.Message = report.Halt
	}
	return out, nil
}

// Stop cancels the in-flight run, if any.
func (s *Session) Stop() bool {
	return s.runner.Stop()
}

// Context returns a snapshot of the session's execution context.
func (s *Session) Context() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneContext(s.ectx)
}

// ResetContext drops everything the session has remembered.
func (s *Session) ResetContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ectx = map[string]any{}
}

// absorbEntities folds extracted entities into the session context so
// plans can reference them as {{placeholders}}. A fresh app_hint clears the
// remembered window title: the new command targets a different application
// and steps must not land in the old one.
func (s *Session) absorbEntities(entities map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entities {
		if v == nil {
			continue
		}
		s.ectx[k] = v
	}
	if hint, ok := entities["app_hint"].(string); ok && hint != "" {
		if last, ok := s.ectx["last_opened_window_title"].(string); ok && last != "" {
			logging.Debug(subsystem, "app hint %q supersedes remembered window %q", hint, last)
			delete(s.ectx, "last_opened_window_title")
		}
	}
}

// replaceContext installs the post-run context wholesale; merging already
// happened step by step on the runner goroutine.
func (s *Session) replaceContext(ectx map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ectx = ectx
}
