/*-------------------------------------------------------------------------
 *
 * classifier_test.go
 *    Unit tests for failure classification
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/suggest/classifier_test.go
 *
 *-------------------------------------------------------------------------
 */

package suggest

import (
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		wantType     string
		wantPriority string
	}{
		{"timeout", "Network timeout while loading page", TypeTimeout, PriorityHigh},
		{"timeout uppercase", "TIMEOUT waiting for response", TypeTimeout, PriorityHigh},
		{"element missing", "Element not found: #submit-button", TypeElementMissing, PriorityHigh},
		{"http error", "HTTP error 500", TypeHTTPError, PriorityCritical},
		{"http error lowercase", "got http error 404 from server", TypeHTTPError, PriorityCritical},
		{"general", "something unexpected happened", TypeGeneralFailure, PriorityMedium},
		{"empty", "", TypeGeneralFailure, PriorityMedium},
		// "timeout" outranks "http error" because rules match in order
		{"rule order", "timeout after http error", TypeTimeout, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotPriority := ClassifyError(tt.errMsg)
			if gotType != tt.wantType {
				t.Errorf("ClassifyError(%q) type = %q, want %q", tt.errMsg, gotType, tt.wantType)
			}
			if gotPriority != tt.wantPriority {
				t.Errorf("ClassifyError(%q) priority = %q, want %q", tt.errMsg, gotPriority, tt.wantPriority)
			}
		})
	}
}

func TestClassifyErrorIdempotent(t *testing.T) {
	msg := "HTTP error 503"
	firstType, firstPriority := ClassifyError(msg)
	for i := 0; i < 5; i++ {
		gotType, gotPriority := ClassifyError(msg)
		if gotType != firstType || gotPriority != firstPriority {
			t.Fatalf("classification changed between calls: (%q,%q) vs (%q,%q)",
				firstType, firstPriority, gotType, gotPriority)
		}
	}
}

func TestClassify_PerFailure(t *testing.T) {
	failures := []Failure{
		{StepIndex: 2, Action: "submit", Error: "HTTP error 500"},
	}

	got := Classify(failures, 5, "contact")
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Type != TypeHTTPError {
		t.Errorf("type = %q, want %q", got[0].Type, TypeHTTPError)
	}
	if got[0].Priority != PriorityCritical {
		t.Errorf("priority = %q, want %q", got[0].Priority, PriorityCritical)
	}
	if got[0].StepIndex != 2 {
		t.Errorf("step index = %d, want 2", got[0].StepIndex)
	}
	if got[0].Recommendation == "" {
		t.Error("expected a recommendation")
	}
}

func TestClassify_FlowHealthAggregate(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		executed   int
		wantHealth bool
	}{
		{"no failures", 0, 4, false},
		{"exactly half", 2, 4, false},
		{"more than half", 3, 4, true},
		{"all failed", 4, 4, true},
		{"nothing executed", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := make([]Failure, tt.failures)
			for i := range failures {
				failures[i] = Failure{StepIndex: i + 1, Action: "click", Error: "boom"}
			}

			got := Classify(failures, tt.executed, "generic")
			found := false
			for _, s := range got {
				if s.Type == TypeFlowHealth {
					found = true
					if s.Priority != PriorityCritical {
						t.Errorf("flow_health priority = %q, want %q", s.Priority, PriorityCritical)
					}
				}
			}
			if found != tt.wantHealth {
				t.Errorf("flow_health present = %v, want %v", found, tt.wantHealth)
			}
		})
	}
}

func TestClassify_FlowTypeAggregates(t *testing.T) {
	failure := []Failure{{StepIndex: 1, Action: "fill_form", Error: "boom"}}

	t.Run("registration", func(t *testing.T) {
		got := Classify(failure, 3, "registration")
		if !hasType(got, TypeRegistrationSpecific) {
			t.Error("expected registration_specific suggestion")
		}
	})

	t.Run("woocommerce prefix", func(t *testing.T) {
		got := Classify(failure, 3, "woocommerce_checkout")
		if !hasType(got, TypeWooCommerceSpecific) {
			t.Error("expected woocommerce_specific suggestion")
		}
	})

	t.Run("no failures no aggregates", func(t *testing.T) {
		got := Classify(nil, 3, "registration")
		if len(got) != 0 {
			t.Errorf("expected no suggestions, got %d", len(got))
		}
	})

	t.Run("other flow type", func(t *testing.T) {
		got := Classify(failure, 3, "login")
		if hasType(got, TypeRegistrationSpecific) || hasType(got, TypeWooCommerceSpecific) {
			t.Error("did not expect flow-type aggregates")
		}
	})
}

func TestClassify_PriorityOrdering(t *testing.T) {
	// Two high-priority failures surround a critical one; the critical
	// suggestion must sort first and the highs keep insertion order.
	failures := []Failure{
		{StepIndex: 1, Action: "verify", Error: "Element not found: #a"},
		{StepIndex: 2, Action: "navigate", Error: "HTTP error 502"},
		{StepIndex: 3, Action: "verify", Error: "timeout waiting for #b"},
	}

	got := Classify(failures, 10, "generic")
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	if got[0].Type != TypeHTTPError {
		t.Errorf("first suggestion = %q, want %q", got[0].Type, TypeHTTPError)
	}
	if got[1].StepIndex != 1 || got[2].StepIndex != 3 {
		t.Errorf("equal-priority order not preserved: got steps %d, %d", got[1].StepIndex, got[2].StepIndex)
	}
}

func hasType(suggestions []Suggestion, wantType string) bool {
	for _, s := range suggestions {
		if s.Type == wantType {
			return true
		}
	}
	return false
}
