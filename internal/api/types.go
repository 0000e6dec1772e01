/*-------------------------------------------------------------------------
 *
 * types.go
 *    API request and response types
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/api/types.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/neurondb/NeuronFlow/internal/flow"
	"github.com/neurondb/NeuronFlow/internal/metrics"
	"github.com/neurondb/NeuronFlow/internal/report"
)

/* CreateFlowRequest registers a flow definition */
type CreateFlowRequest struct {
	Name            string      `json:"name"`
	FlowType        string      `json:"flow_type"`
	StartURL        string      `json:"start_url"`
	Steps           []flow.Step `json:"steps"`
	ExpectedOutcome string      `json:"expected_outcome,omitempty"`
	Priority        int         `json:"priority"`
	IsActive        *bool       `json:"is_active,omitempty"`
}

/* UpdateFlowRequest updates a flow's steps and scheduling fields */
type UpdateFlowRequest struct {
	Steps    []flow.Step `json:"steps"`
	Priority int         `json:"priority"`
	IsActive bool        `json:"is_active"`
}

/* BatchDeleteRequest removes several flows at once */
type BatchDeleteRequest struct {
	FlowIDs []string `json:"flow_ids"`
}

/* RunRequest triggers a run of one flow */
type RunRequest struct {
	BudgetSeconds int `json:"budget_seconds,omitempty"`
}

/* RunManyRequest triggers runs of selected flows */
type RunManyRequest struct {
	FlowIDs       []string `json:"flow_ids"`
	BudgetSeconds int      `json:"budget_seconds,omitempty"`
}

/* FlowResponse is the API shape of a flow definition */
type FlowResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	FlowType        string          `json:"flow_type"`
	StartURL        string          `json:"start_url"`
	Steps           json.RawMessage `json:"steps"`
	ExpectedOutcome string          `json:"expected_outcome,omitempty"`
	Priority        int             `json:"priority"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

/* CreateFlowResponse reports the saved flow id */
type CreateFlowResponse struct {
	ID uuid.UUID `json:"id"`
}

/* BatchDeleteResponse reports how many flows were removed */
type BatchDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

/* ResultResponse is the API shape of a stored test result */
type ResultResponse struct {
	ID            uuid.UUID       `json:"id"`
	FlowID        uuid.UUID       `json:"flow_id"`
	RunID         string          `json:"run_id"`
	Status        string          `json:"status"`
	StepsExecuted int             `json:"steps_executed"`
	StepsPassed   int             `json:"steps_passed"`
	StepsFailed   int             `json:"steps_failed"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	ExecutionTime float64         `json:"execution_time"`
	RunLog        json.RawMessage `json:"run_log,omitempty"`
	Suggestions   json.RawMessage `json:"suggestions,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   time.Time       `json:"completed_at"`
}

/* RunBatchResponse wraps the summaries of a multi-flow run */
type RunBatchResponse struct {
	Runs []flow.RunSummary `json:"runs"`
}

/* DashboardResponse pairs the result aggregates with a host snapshot */
type DashboardResponse struct {
	*report.DashboardSummary
	System *metrics.SystemSnapshot `json:"system"`
}

/* HealthResponse reports service health */
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
