package steps

import (
	"context"

	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/pipeline"
)

// Resolver proposes next actions and an escalation decision based on
// the priority assigned by an earlier step.
type Resolver struct{}

// NewResolver creates a new resolver step.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Name implements pipeline.Step.
func (r *Resolver) Name() string {
	return "resolver_agent"
}

// Invoke implements pipeline.Step.
func (r *Resolver) Invoke(ctx context.Context, req intake.Request) (*pipeline.StepResult, error) {
	priority := req.String(FieldPriority)
	if priority == "" {
		priority = "P2"
	}

	escalation := priority == "P0" || priority == "P1"
	reason := "Standard handling"
	if escalation {
		reason = "High priority issue"
	}

	return &pipeline.StepResult{
		Output: map[string]any{
			"suggested_actions": []string{
				"Check system logs",
				"Validate dependencies",
				"Notify stakeholders",
			},
			"draft_response": "We are investigating the issue and will provide updates shortly.",
			"escalation": map[string]any{
				"required": escalation,
				"reason":   reason,
			},
		},
	}, nil
}

// Default returns the step list registered into the orchestrator when
// no custom pipeline is supplied: classification then resolution.
func Default() []pipeline.Step {
	return []pipeline.Step{
		NewClassifier(),
		NewResolver(),
	}
}
