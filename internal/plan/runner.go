// Package plan runs linear action plans: one step at a time, each step's
// result merged into the shared execution context before the next starts.
package plan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"deskpilot/internal/model"
	"deskpilot/pkg/logging"
)

const subsystem = "plan"

// stepDelay paces consecutive steps so the desktop can settle between them.
const stepDelay = 500 * time.Millisecond

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("a plan is already running")

// State is the runner's lifecycle state. Completed and Halted are terminal
// for a run; the runner itself accepts a new run from either.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateHalted    State = "halted"
)

// Executor runs a single step. *action.Dispatcher is the production
// implementation.
type Executor interface {
	Execute(ctx context.Context, step model.ActionStep, ectx map[string]any) model.ActionResult
}

// StepOutcome records one executed step of a run.
type StepOutcome struct {
	Index  int                `json:"index" yaml:"index"`
	Type   string             `json:"action_type" yaml:"action_type"`
	Result model.ActionResult `json:"result" yaml:"result"`
}

// Report summarizes a finished run.
type Report struct {
	RunID string        `json:"run_id" yaml:"run_id"`
	State State         `json:"state" yaml:"state"`
	Steps []StepOutcome `json:"steps" yaml:"steps"`
	// Halt names why a halted run stopped: the failing step's error or
	// "stopped by user".
	Halt string `json:"halt,omitempty" yaml:"halt,omitempty"`
}

// Status is pushed to the status callback after every step.
type Status struct {
	RunID      string
	State      State
	StepIndex  int
	TotalSteps int
	Outcome    StepOutcome
}

// StatusFunc receives per-step progress. Called from the running goroutine;
// implementations must not block.
type StatusFunc func(Status)

// Runner executes plans sequentially. One run at a time; a second Run while
// one is in flight returns ErrBusy instead of queueing.
type Runner struct {
	exec     Executor
	onStatus StatusFunc

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc

	sleep func(context.Context, time.Duration) error
}

// NewRunner creates an idle Runner over the executor.
func NewRunner(exec Executor) *Runner {
	return &Runner{exec: exec, state: StateIdle, sleep: sleepCtx}
}

// OnStatus registers the progress callback. Must be called before Run.
func (r *Runner) OnStatus(fn StatusFunc) {
	r.onStatus = fn
}

// State returns the runner's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Stop cancels the in-flight run. Returns false when nothing is running.
// The run halts cooperatively: the current step finishes first.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning || r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

// Run executes the steps in order against a copy of ectx and returns the
// final context alongside the report. The input context map is never
// mutated. A failing step halts the run; remaining steps do not execute.
func (r *Runner) Run(ctx context.Context, steps []model.ActionStep, ectx map[string]any) (map[string]any, Report, error) {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return ectx, Report{}, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.state = StateRunning
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	report := Report{RunID: uuid.NewString(), State: StateRunning}
	ectx = model.CloneContext(ectx)
	logging.Info(subsystem, "run %s starting: %d steps", report.RunID, len(steps))

	for i, step := range steps {
		if runCtx.Err() != nil {
			report.State = StateHalted
			report.Halt = "stopped by user"
			break
		}

		res := r.exec.Execute(runCtx, step, ectx)
		outcome := StepOutcome{Index: i, Type: step.Type(), Result: res}
		report.Steps = append(report.Steps, outcome)
		r.notify(Status{
			RunID: report.RunID, State: StateRunning,
			StepIndex: i, TotalSteps: len(steps), Outcome: outcome,
		})

		// a failing step's data (its "error" entry included) stays out of
		// the context; the report carries it
		if !res.Success {
			report.State = StateHalted
			report.Halt = res.Error()
			break
		}
		ectx = model.MergeResult(ectx, res.Data)
		if i < len(steps)-1 {
			if err := r.sleep(runCtx, stepDelay); err != nil {
				report.State = StateHalted
				report.Halt = "stopped by user"
				break
			}
		}
	}
	if report.State == StateRunning {
		report.State = StateCompleted
	}

	r.mu.Lock()
	r.state = report.State
	r.cancel = nil
	r.mu.Unlock()

	if report.State == StateCompleted {
		logging.Info(subsystem, "run %s completed: %d steps", report.RunID, len(report.Steps))
	} else {
		logging.Warn(subsystem, "run %s halted after %d steps: %s", report.RunID, len(report.Steps), report.Halt)
	}
	return ectx, report, nil
}

func (r *Runner) notify(s Status) {
	if r.onStatus != nil {
		r.onStatus(s)
	}
}

func sleepCtx(ctx context.Context, dur time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}
