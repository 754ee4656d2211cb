package pipeline

import (
	"context"
	"log/slog"

	"helix-hq/warden/pkg/intake"
)

// Step is the capability abstraction for one unit of business logic.
// Implementations must be stateless with respect to shared process
// state: each invocation receives its own view of the working request
// and communicates with later steps only through its returned output.
type Step interface {
	// Name identifies the step in execution contexts and audit records.
	Name() string

	// Invoke runs the step against a snapshot of the working request.
	Invoke(ctx context.Context, req intake.Request) (*StepResult, error)
}

// Executor runs ordered step lists. It is stateless and safe for
// concurrent use.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new pipeline executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		logger: logger.With("component", "pipeline.executor"),
	}
}

// Run executes the steps in order against the initial request and
// returns the accumulated execution context.
//
// Each step sees the initial request plus the merged output of all
// earlier steps. Field collisions are resolved last-writer-wins. A
// failing step aborts the run and Run returns a *StepError wrapping the
// step's error; the partially built context is discarded. Context
// cancellation between steps also aborts the run.
func (e *Executor) Run(ctx context.Context, steps []Step, initial intake.Request) (*Context, error) {
	working := initial.Clone()

	pc := &Context{
		InitialInput: initial.Clone(),
		Steps:        make([]StepTrace, 0, len(steps)),
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, NewStepError(step.Name(), err)
		}

		result, err := step.Invoke(ctx, working.Clone())
		if err != nil {
			e.logger.Error("pipeline step failed",
				"step", step.Name(),
				"error", err,
			)
			return nil, NewStepError(step.Name(), err)
		}

		pc.Steps = append(pc.Steps, StepTrace{
			Agent:  step.Name(),
			Output: result.Output,
			Meta:   result.Meta,
		})

		// Merge: later steps overwrite earlier fields of the same name.
		for k, v := range result.Output {
			working[k] = v
		}

		e.logger.Debug("pipeline step completed",
			"step", step.Name(),
			"output_fields", len(result.Output),
		)
	}

	pc.FinalOutput = working
	return pc, nil
}
