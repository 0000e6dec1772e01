/*-------------------------------------------------------------------------
 *
 * retry.go
 *    Step retry controller
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/retry.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"context"
	"strings"
	"time"

	"github.com/neurondb/NeuronFlow/internal/metrics"
)

/* DefaultRetryDelay is the fixed pause between step attempts */
const DefaultRetryDelay = 2 * time.Second

/* RetryController re-runs failed steps up to a bounded attempt count */
type RetryController struct {
	MaxRetries int
	Delay      time.Duration
	sleep      func(time.Duration)
}

/* NewRetryController creates a retry controller.
 * A step gets maxRetries+1 attempts in total. */
func NewRetryController(maxRetries int) *RetryController {
	return &RetryController{
		MaxRetries: maxRetries,
		Delay:      DefaultRetryDelay,
		sleep:      time.Sleep,
	}
}

/* ExecuteWithRetry runs a step attempt function until it succeeds or
 * attempts are exhausted.
 *
 * The first successful attempt wins and its result is returned with
 * the attempt number attached when a retry was needed. On exhaustion
 * the LAST failure is returned, annotated with the total attempt
 * count and the criticality verdict. Critical steps get their full
 * retry budget like any other; criticality only affects what the
 * engine does after the step has finally failed. */
func (r *RetryController) ExecuteWithRetry(ctx context.Context, step *Step, attempt func(context.Context) StepResult) StepResult {
	maxAttempts := r.MaxRetries + 1

	var last StepResult
	for n := 1; n <= maxAttempts; n++ {
		if n > 1 {
			metrics.RecordStepRetry(string(step.Action))
			r.sleep(r.Delay)
		}

		last = attempt(ctx)
		if last.Success {
			if n > 1 {
				last.RetryAttempt = n
			}
			return last
		}

		if n < maxAttempts {
			metrics.WarnWithContext(ctx, "Step failed, retrying", map[string]interface{}{
				"attempt": n,
				"action":  string(step.Action),
				"error":   last.Error,
			})
		}
	}

	last.Attempts = maxAttempts
	last.Critical = IsCritical(step.Action, last.Error)
	return last
}

/* IsCritical reports whether a step failure should stop the run.
 *
 * Navigation and submission failures leave nothing meaningful to run
 * afterwards, and timeout, network, and HTTP errors indicate the site
 * itself is unreachable rather than one element misbehaving. */
func IsCritical(action Action, errMsg string) bool {
	if action == ActionNavigate || action == ActionSubmit {
		return true
	}

	lower := strings.ToLower(errMsg)
	for _, marker := range []string{"timeout", "network error", "http error"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
