/*-------------------------------------------------------------------------
 *
 * classifier.go
 *    Failure classification and suggestion engine
 *
 * Maps step failures to typed, prioritized suggestions. Classification
 * is a pure function of the failure list, the executed step count, and
 * the flow type, so the same inputs always produce the same output.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/suggest/classifier.go
 *
 *-------------------------------------------------------------------------
 */

package suggest

import (
	"fmt"
	"sort"
	"strings"
)

/* Suggestion priorities */
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

/* Error types */
const (
	TypeTimeout        = "timeout"
	TypeElementMissing = "element_missing"
	TypeHTTPError      = "http_error"
	TypeGeneralFailure = "general_failure"

	TypeFlowHealth           = "flow_health"
	TypeRegistrationSpecific = "registration_specific"
	TypeWooCommerceSpecific  = "woocommerce_specific"
)

/* Failure is one failed step handed to the classifier */
type Failure struct {
	StepIndex int    `json:"step_index"`
	Action    string `json:"action"`
	Error     string `json:"error"`
}

/* Suggestion is an actionable finding derived from failures */
type Suggestion struct {
	Type           string `json:"type"`
	Priority       string `json:"priority"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
	StepIndex      int    `json:"step_index,omitempty"`
}

/* classifyRule maps an error substring to a type and priority.
 * Rules are checked in order; the first match wins. */
type classifyRule struct {
	marker   string
	errType  string
	priority string
}

var classifyRules = []classifyRule{
	{"timeout", TypeTimeout, PriorityHigh},
	{"element not found", TypeElementMissing, PriorityHigh},
	{"http error", TypeHTTPError, PriorityCritical},
}

/* ClassifyError maps an error message to an error type and priority */
func ClassifyError(errMsg string) (errType, priority string) {
	lower := strings.ToLower(errMsg)
	for _, rule := range classifyRules {
		if strings.Contains(lower, rule.marker) {
			return rule.errType, rule.priority
		}
	}
	return TypeGeneralFailure, PriorityMedium
}

/* titles per error type */
var titles = map[string]string{
	TypeTimeout:              "Step timed out",
	TypeElementMissing:       "Expected element missing",
	TypeHTTPError:            "Server returned an error",
	TypeGeneralFailure:       "Step failed",
	TypeFlowHealth:           "Flow is unhealthy",
	TypeRegistrationSpecific: "Registration flow broken",
	TypeWooCommerceSpecific:  "WooCommerce flow broken",
}

/* recommendations per error type */
var recommendations = map[string]string{
	TypeTimeout:              "Increase the step timeout or check server response times.",
	TypeElementMissing:       "Verify the selector still matches the current page markup.",
	TypeHTTPError:            "Check the server logs and confirm the URL is reachable.",
	TypeGeneralFailure:       "Review the run log for the failing step.",
	TypeFlowHealth:           "Review the flow definition; the site structure may have changed.",
	TypeRegistrationSpecific: "Check registration settings, required fields, and email delivery.",
	TypeWooCommerceSpecific:  "Verify WooCommerce product, cart, and checkout pages.",
}

/* Classify derives suggestions from a run's failures.
 *
 * Per-failure suggestions come first, then run-level aggregates. The
 * final list is stably sorted by priority so equal-priority entries
 * keep their insertion order. */
func Classify(failures []Failure, stepsExecuted int, flowType string) []Suggestion {
	suggestions := []Suggestion{}

	for _, f := range failures {
		errType, priority := ClassifyError(f.Error)
		suggestions = append(suggestions, Suggestion{
			Type:           errType,
			Priority:       priority,
			Title:          titles[errType],
			Message:        fmt.Sprintf("Step %d (%s) failed: %s", f.StepIndex, f.Action, f.Error),
			Recommendation: recommendations[errType],
			StepIndex:      f.StepIndex,
		})
	}

	if stepsExecuted > 0 && len(failures)*2 > stepsExecuted {
		suggestions = append(suggestions, Suggestion{
			Type:           TypeFlowHealth,
			Priority:       PriorityCritical,
			Title:          titles[TypeFlowHealth],
			Message:        fmt.Sprintf("%d of %d executed steps failed", len(failures), stepsExecuted),
			Recommendation: recommendations[TypeFlowHealth],
		})
	}

	if len(failures) > 0 {
		if flowType == "registration" {
			suggestions = append(suggestions, Suggestion{
				Type:           TypeRegistrationSpecific,
				Priority:       PriorityHigh,
				Title:          titles[TypeRegistrationSpecific],
				Message:        "Registration flow encountered failures",
				Recommendation: recommendations[TypeRegistrationSpecific],
			})
		}
		if strings.HasPrefix(flowType, "woocommerce") {
			suggestions = append(suggestions, Suggestion{
				Type:           TypeWooCommerceSpecific,
				Priority:       PriorityHigh,
				Title:          titles[TypeWooCommerceSpecific],
				Message:        "WooCommerce flow encountered failures",
				Recommendation: recommendations[TypeWooCommerceSpecific],
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank(suggestions[i].Priority) < priorityRank(suggestions[j].Priority)
	})

	return suggestions
}

func priorityRank(priority string) int {
	switch priority {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}
