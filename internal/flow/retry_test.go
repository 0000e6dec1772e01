/*-------------------------------------------------------------------------
 *
 * retry_test.go
 *    Unit tests for the step retry controller
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/retry_test.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"context"
	"testing"
	"time"
)

func newTestRetryController(maxRetries int) *RetryController {
	r := NewRetryController(maxRetries)
	r.sleep = func(time.Duration) {}
	return r
}

func TestRetryController_AttemptBound(t *testing.T) {
	tests := []struct {
		name         string
		maxRetries   int
		wantAttempts int
	}{
		{"no retries", 0, 1},
		{"default retries", 2, 3},
		{"max retries", 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRetryController(tt.maxRetries)
			attempts := 0
			result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionClick}, func(context.Context) StepResult {
				attempts++
				return StepResult{Success: false, Error: "boom"}
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if result.Attempts != tt.wantAttempts {
				t.Errorf("result.Attempts = %d, want %d", result.Attempts, tt.wantAttempts)
			}
			if result.Success {
				t.Error("expected failure after exhaustion")
			}
		})
	}
}

func TestRetryController_FirstSuccessWins(t *testing.T) {
	r := newTestRetryController(5)
	attempts := 0
	result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionClick}, func(context.Context) StepResult {
		attempts++
		if attempts < 3 {
			return StepResult{Success: false, Error: "flaky"}
		}
		return StepResult{Success: true, Message: "Clicked"}
	})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if result.RetryAttempt != 3 {
		t.Errorf("RetryAttempt = %d, want 3", result.RetryAttempt)
	}
}

func TestRetryController_NoRetryAnnotationOnFirstTry(t *testing.T) {
	r := newTestRetryController(2)
	result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionClick}, func(context.Context) StepResult {
		return StepResult{Success: true}
	})

	if result.RetryAttempt != 0 {
		t.Errorf("RetryAttempt = %d, want 0 for first-try success", result.RetryAttempt)
	}
}

func TestRetryController_ReturnsLastError(t *testing.T) {
	r := newTestRetryController(2)
	attempts := 0
	result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionVerify}, func(context.Context) StepResult {
		attempts++
		if attempts < 3 {
			return StepResult{Success: false, Error: "first error"}
		}
		return StepResult{Success: false, Error: "final error"}
	})

	if result.Error != "final error" {
		t.Errorf("error = %q, want the last attempt's error", result.Error)
	}
}

func TestRetryController_CriticalVerdictOnExhaustion(t *testing.T) {
	t.Run("critical action", func(t *testing.T) {
		r := newTestRetryController(1)
		result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionNavigate}, func(context.Context) StepResult {
			return StepResult{Success: false, Error: "boom"}
		})
		if !result.Critical {
			t.Error("navigate failure must be critical")
		}
	})

	t.Run("benign action benign error", func(t *testing.T) {
		r := newTestRetryController(1)
		result := r.ExecuteWithRetry(context.Background(), &Step{Action: ActionVerify}, func(context.Context) StepResult {
			return StepResult{Success: false, Error: "Element not found: #a"}
		})
		if result.Critical {
			t.Error("element miss must not be critical")
		}
	})
}

func TestRetryController_SleepsBetweenAttempts(t *testing.T) {
	r := NewRetryController(2)
	var sleeps []time.Duration
	r.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	r.ExecuteWithRetry(context.Background(), &Step{Action: ActionClick}, func(context.Context) StepResult {
		return StepResult{Success: false, Error: "boom"}
	})

	if len(sleeps) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleeps))
	}
	for _, d := range sleeps {
		if d != DefaultRetryDelay {
			t.Errorf("sleep = %v, want %v", d, DefaultRetryDelay)
		}
	}
}

func TestIsCritical(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		errMsg string
		want   bool
	}{
		{"navigate always critical", ActionNavigate, "anything", true},
		{"submit always critical", ActionSubmit, "", true},
		{"timeout marker", ActionVerify, "operation timeout exceeded", true},
		{"timeout mixed case", ActionClick, "Request Timeout", true},
		{"network error marker", ActionClick, "Network error: connection refused", true},
		{"http error marker", ActionVerify, "HTTP error 500", true},
		{"element miss benign", ActionVerify, "Element not found: #x", false},
		{"generic benign", ActionClick, "could not click", false},
		{"empty error benign action", ActionWait, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCritical(tt.action, tt.errMsg); got != tt.want {
				t.Errorf("IsCritical(%q, %q) = %v, want %v", tt.action, tt.errMsg, got, tt.want)
			}
		})
	}
}
