// Package saga runs ordered multi-store workflows with reverse-order,
// best-effort compensation when a forward step fails.
package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step is one forward action in a workflow. Compensate undoes the forward
// action when a later step fails; nil means the step has nothing to undo.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationOutcome reports how the rollback sweep went after a forward
// failure. Failures holds the errors of compensations that themselves
// failed; the sweep never stops early.
type CompensationOutcome struct {
	Attempted    int
	AllSucceeded bool
	Failures     []error
}

// Error wraps the triggering forward failure together with the rollback
// outcome. The cause is reachable through errors.Is/As via Unwrap.
type Error struct {
	Workflow     string
	Step         string
	Cause        error
	Compensation CompensationOutcome
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: step %s: %v", e.Workflow, e.Step, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Executor runs step sequences. It carries no per-workflow state and is
// safe for concurrent use.
type Executor struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Executor {
	return &Executor{log: log.Named("saga")}
}

// Run executes steps in order. On the first forward failure it compensates
// every previously completed step in strict reverse order and returns an
// *Error; compensation failures are logged and collected but never halt
// the sweep. Returns nil when every forward step succeeds.
func (e *Executor) Run(ctx context.Context, workflow string, steps []Step) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			e.log.Warn("workflow step failed",
				zap.String("workflow", workflow),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			outcome := e.compensate(ctx, workflow, steps[:i])
			return &Error{
				Workflow:     workflow,
				Step:         step.Name,
				Cause:        err,
				Compensation: outcome,
			}
		}
	}
	return nil
}

func (e *Executor) compensate(ctx context.Context, workflow string, completed []Step) CompensationOutcome {
	outcome := CompensationOutcome{AllSucceeded: true}
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		outcome.Attempted++
		if err := step.Compensate(ctx); err != nil {
			outcome.AllSucceeded = false
			outcome.Failures = append(outcome.Failures, fmt.Errorf("compensate %s: %w", step.Name, err))
			e.log.Error("compensation failed, manual cleanup may be required",
				zap.String("workflow", workflow),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			continue
		}
		e.log.Info("compensated step",
			zap.String("workflow", workflow),
			zap.String("step", step.Name),
		)
	}
	return outcome
}
