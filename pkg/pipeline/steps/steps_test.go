package steps

import (
	"context"
	"testing"

	"helix-hq/warden/pkg/intake"
	"helix-hq/warden/pkg/pipeline"
)

// TestClassifier_Incident tests incident classification from title keywords.
func TestClassifier_Incident(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		urgency      string
		wantCategory string
		wantPriority string
	}{
		{"dashboard outage critical", "Dashboard outage", "critical", "incident", "P0"},
		{"outage high", "Regional outage ongoing", "high", "incident", "P1"},
		{"plain request low", "Access to reporting tool", "low", "request", "P2"},
		{"missing urgency", "New laptop", "", "request", "P2"},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := intake.Request{
				intake.FieldTitle:   tt.title,
				intake.FieldUrgency: tt.urgency,
			}
			result, err := c.Invoke(context.Background(), req)
			if err != nil {
				t.Fatalf("Invoke() failed: %v", err)
			}
			if result.Output[FieldCategory] != tt.wantCategory {
				t.Errorf("Expected category %q, got %v", tt.wantCategory, result.Output[FieldCategory])
			}
			if result.Output[FieldPriority] != tt.wantPriority {
				t.Errorf("Expected priority %q, got %v", tt.wantPriority, result.Output[FieldPriority])
			}
		})
	}
}

// TestResolver_Escalation tests that P0/P1 priorities escalate.
func TestResolver_Escalation(t *testing.T) {
	r := NewResolver()

	for priority, want := range map[string]bool{"P0": true, "P1": true, "P2": false, "": false} {
		req := intake.Request{FieldPriority: priority}
		result, err := r.Invoke(context.Background(), req)
		if err != nil {
			t.Fatalf("Invoke() failed: %v", err)
		}

		escalation, ok := result.Output["escalation"].(map[string]any)
		if !ok {
			t.Fatalf("Expected escalation map, got %T", result.Output["escalation"])
		}
		if escalation["required"] != want {
			t.Errorf("priority %q: expected escalation %v, got %v", priority, want, escalation["required"])
		}
	}
}

// TestDefault_PipelineFlow tests the default step list end to end
// through the executor.
func TestDefault_PipelineFlow(t *testing.T) {
	req := intake.Request{
		intake.FieldTitle:   "Dashboard outage",
		intake.FieldUrgency: "critical",
	}

	e := pipeline.NewExecutor(nil)
	pc, err := e.Run(context.Background(), Default(), req)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if pc.FinalOutput[FieldCategory] != "incident" {
		t.Errorf("Expected category incident, got %v", pc.FinalOutput[FieldCategory])
	}
	if pc.FinalOutput[FieldPriority] != "P0" {
		t.Errorf("Expected priority P0, got %v", pc.FinalOutput[FieldPriority])
	}

	escalation, ok := pc.FinalOutput["escalation"].(map[string]any)
	if !ok || escalation["required"] != true {
		t.Errorf("Expected escalation required, got %v", pc.FinalOutput["escalation"])
	}

	names := pc.AgentNames()
	if len(names) != 2 || names[0] != "classifier_agent" || names[1] != "resolver_agent" {
		t.Errorf("Unexpected agent names: %v", names)
	}
}
