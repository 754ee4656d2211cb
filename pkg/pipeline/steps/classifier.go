// Package steps contains the built-in business-logic steps registered
// into the default pipeline: classification and resolution. They are
// rule based and deterministic, which keeps replay reproducible.
package steps

import (
	"context"
	"strings"

	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/pipeline"
)

// Field names produced by the built-in steps.
const (
	FieldCategory    = "category"
	FieldPriority    = "priority"
	FieldRoutingTeam = "routing_team"
)

// Classifier assigns a category, a priority, and a routing team based
// on the request title and urgency.
type Classifier struct{}

// NewClassifier creates a new classifier step.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Name implements pipeline.Step.
func (c *Classifier) Name() string {
	return "classifier_agent"
}

// Invoke implements pipeline.Step.
func (c *Classifier) Invoke(ctx context.Context, req intake.Request) (*pipeline.StepResult, error) {
	title := strings.ToLower(req.String(intake.FieldTitle))
	urgency := req.String(intake.FieldUrgency)
	if urgency == "" {
		urgency = "low"
	}

	category := "request"
	if strings.Contains(title, "dashboard") || strings.Contains(title, "outage") {
		category = "incident"
	}

	var priority string
	switch urgency {
	case "critical":
		priority = "P0"
	case "high":
		priority = "P1"
	default:
		priority = "P2"
	}

	return &pipeline.StepResult{
		Output: map[string]any{
			FieldCategory:    category,
			FieldPriority:    priority,
			FieldRoutingTeam: "Data Platform",
		},
		Meta: map[string]any{"rule_based": true},
	}, nil
}
