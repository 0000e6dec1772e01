/*-------------------------------------------------------------------------
 *
 * step_test.go
 *    Unit tests for the step model
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/step_test.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"testing"
)

func TestActionKnown(t *testing.T) {
	known := []Action{
		ActionNavigate, ActionFillForm, ActionFillInput, ActionClick,
		ActionSubmit, ActionVerify, ActionWait, ActionScroll,
		ActionHover, ActionInteract,
	}
	for _, a := range known {
		if !a.Known() {
			t.Errorf("action %q should be known", a)
		}
	}

	for _, a := range []Action{"", "teleport", "NAVIGATE", "click "} {
		if a.Known() {
			t.Errorf("action %q should not be known", a)
		}
	}
}

func TestDecodeSteps(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		data := []byte(`[
			{"action": "navigate", "target": "https://example.com"},
			{"action": "fill_form", "selector": "#form", "data_set": "registration_data"},
			{"action": "wait", "wait_seconds": 3}
		]`)

		steps, err := DecodeSteps(data)
		if err != nil {
			t.Fatalf("DecodeSteps failed: %v", err)
		}
		if len(steps) != 3 {
			t.Fatalf("got %d steps, want 3", len(steps))
		}
		if steps[0].Action != ActionNavigate || steps[0].Target != "https://example.com" {
			t.Errorf("unexpected first step: %+v", steps[0])
		}
		if steps[1].DataSet != "registration_data" {
			t.Errorf("data_set = %q, want registration_data", steps[1].DataSet)
		}
		if steps[2].WaitSeconds != 3 {
			t.Errorf("wait_seconds = %d, want 3", steps[2].WaitSeconds)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		steps, err := DecodeSteps(nil)
		if err != nil {
			t.Fatalf("DecodeSteps(nil) failed: %v", err)
		}
		if len(steps) != 0 {
			t.Errorf("got %d steps, want 0", len(steps))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := DecodeSteps([]byte(`{"not": "a list"}`)); err == nil {
			t.Error("expected error for non-array steps")
		}
	})
}

func TestEncodeSteps_NilBecomesEmptyArray(t *testing.T) {
	data, err := EncodeSteps(nil)
	if err != nil {
		t.Fatalf("EncodeSteps(nil) failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("encoded = %q, want []", string(data))
	}
}

func TestStepLabel(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want string
	}{
		{"description wins", Step{Action: ActionClick, Selector: "#a", Description: "Open cart"}, "Open cart"},
		{"target", Step{Action: ActionNavigate, Target: "https://example.com"}, "navigate https://example.com"},
		{"selector", Step{Action: ActionClick, Selector: "#buy"}, "click #buy"},
		{"action only", Step{Action: ActionWait}, "wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.step.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
