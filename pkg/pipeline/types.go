package pipeline

import (
	"fmt"

	"helix-hq/warden/pkg/intake"
)

// StepResult is the immutable output of one step invocation.
type StepResult struct {
	// Output contains fields merged into the working request and
	// visible to subsequent steps.
	Output map[string]any `json:"output"`

	// Meta contains step diagnostics that are recorded in the execution
	// context but never merged into the working request.
	Meta map[string]any `json:"meta,omitempty"`
}

// StepTrace records one step's contribution to a run.
type StepTrace struct {
	// Agent is the step name.
	Agent string `json:"agent"`

	// Output is the step's output mapping.
	Output map[string]any `json:"output"`

	// Meta is the step's diagnostic metadata.
	Meta map[string]any `json:"meta,omitempty"`
}

// Context is the accumulated result of one pipeline run. It is created
// fresh per invocation and mutated only by the executor during that
// run.
type Context struct {
	// InitialInput is the request the run started from.
	InitialInput intake.Request `json:"initial_input"`

	// Steps lists each step's contribution in invocation order.
	Steps []StepTrace `json:"steps"`

	// FinalOutput is the working request after the last step's output
	// has been merged.
	FinalOutput map[string]any `json:"final_output"`
}

// AgentNames returns the ordered list of step names that ran.
func (c *Context) AgentNames() []string {
	names := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		names[i] = s.Agent
	}
	return names
}

// StepError reports a step invocation failure. The run aborts at the
// failing step; no subsequent steps execute.
type StepError struct {
	StepName string // Name of the failing step
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %q failed: %v", e.StepName, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StepError) Unwrap() error {
	return e.Cause
}

// NewStepError creates a new StepError.
func NewStepError(stepName string, cause error) *StepError {
	return &StepError{StepName: stepName, Cause: cause}
}
