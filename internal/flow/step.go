/*-------------------------------------------------------------------------
 *
 * step.go
 *    Flow step model
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/step.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"encoding/json"
	"fmt"
)

/* Action identifies a step operation */
type Action string

const (
	ActionNavigate  Action = "navigate"
	ActionFillForm  Action = "fill_form"
	ActionFillInput Action = "fill_input"
	ActionClick     Action = "click"
	ActionSubmit    Action = "submit"
	ActionVerify    Action = "verify"
	ActionWait      Action = "wait"
	ActionScroll    Action = "scroll"
	ActionHover     Action = "hover"
	ActionInteract  Action = "interact"
)

/* knownActions is the closed set of supported step actions.
 * A step with any other action fails hard rather than being skipped. */
var knownActions = map[Action]bool{
	ActionNavigate:  true,
	ActionFillForm:  true,
	ActionFillInput: true,
	ActionClick:     true,
	ActionSubmit:    true,
	ActionVerify:    true,
	ActionWait:      true,
	ActionScroll:    true,
	ActionHover:     true,
	ActionInteract:  true,
}

/* Known reports whether the action is supported */
func (a Action) Known() bool {
	return knownActions[a]
}

/* Step is one operation in a flow definition */
type Step struct {
	Action         Action `json:"action"`
	Target         string `json:"target,omitempty"`
	Selector       string `json:"selector,omitempty"`
	Value          string `json:"value,omitempty"`
	DataSet        string `json:"data_set,omitempty"`
	Expected       string `json:"expected,omitempty"`
	WaitSeconds    int    `json:"wait_seconds,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	Description    string `json:"description,omitempty"`
}

/* StepResult is the outcome of executing one step */
type StepResult struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	Critical      bool                   `json:"critical,omitempty"`
	ExecutionTime float64                `json:"execution_time"`
	RetryAttempt  int                    `json:"retry_attempt,omitempty"`
	Attempts      int                    `json:"attempts,omitempty"`
}

/* DecodeSteps parses a stored step list */
func DecodeSteps(data []byte) ([]Step, error) {
	if len(data) == 0 {
		return []Step{}, nil
	}
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}
	return steps, nil
}

/* EncodeSteps serializes a step list for storage */
func EncodeSteps(steps []Step) ([]byte, error) {
	if steps == nil {
		steps = []Step{}
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode steps: %w", err)
	}
	return data, nil
}

/* Label returns a human-readable identifier for logging */
func (s *Step) Label() string {
	if s.Description != "" {
		return s.Description
	}
	if s.Target != "" {
		return fmt.Sprintf("%s %s", s.Action, s.Target)
	}
	if s.Selector != "" {
		return fmt.Sprintf("%s %s", s.Action, s.Selector)
	}
	return string(s.Action)
}
