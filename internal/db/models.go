/*-------------------------------------------------------------------------
 *
 * models.go
 *    Database models for NeuronFlow
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/models.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"time"

	"github.com/google/uuid"
)

/* Flow represents a registered user flow definition */
type Flow struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	FlowType        string    `db:"flow_type" json:"flow_type"`
	StartURL        string    `db:"start_url" json:"start_url"`
	Steps           JSONBRaw  `db:"steps" json:"steps"`
	ExpectedOutcome string    `db:"expected_outcome" json:"expected_outcome,omitempty"`
	Priority        int       `db:"priority" json:"priority"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

/* TestResult represents one persisted flow run outcome */
type TestResult struct {
	ID             uuid.UUID `db:"id" json:"id"`
	FlowID         uuid.UUID `db:"flow_id" json:"flow_id"`
	RunID          string    `db:"run_id" json:"run_id"`
	Status         string    `db:"status" json:"status"`
	StepsExecuted  int       `db:"steps_executed" json:"steps_executed"`
	StepsPassed    int       `db:"steps_passed" json:"steps_passed"`
	StepsFailed    int       `db:"steps_failed" json:"steps_failed"`
	ErrorMessage   *string   `db:"error_message" json:"error_message,omitempty"`
	ExecutionTime  float64   `db:"execution_time" json:"execution_time"`
	RunLog         JSONBRaw  `db:"run_log" json:"run_log,omitempty"`
	Suggestions    JSONBRaw  `db:"suggestions" json:"suggestions,omitempty"`
	StartedAt      time.Time `db:"started_at" json:"started_at"`
	CompletedAt    time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

/* Screenshot represents a captured artifact tied to a test result */
type Screenshot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ResultID  uuid.UUID `db:"result_id" json:"result_id"`
	StepIndex int       `db:"step_index" json:"step_index"`
	Label     string    `db:"label" json:"label"`
	FilePath  string    `db:"file_path" json:"file_path"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

/* ResultCounts aggregates totals for the dashboard summary */
type ResultCounts struct {
	TotalFlows   int `db:"total_flows" json:"total_flows"`
	TotalResults int `db:"total_results" json:"total_results"`
	TotalPassed  int `db:"total_passed" json:"total_passed"`
	TotalFailed  int `db:"total_failed" json:"total_failed"`
	TotalPartial int `db:"total_partial" json:"total_partial"`
}

/* FlowHealthRow aggregates recent per-flow run statistics */
type FlowHealthRow struct {
	FlowID      uuid.UUID `db:"flow_id" json:"flow_id"`
	FlowName    string    `db:"flow_name" json:"flow_name"`
	FlowType    string    `db:"flow_type" json:"flow_type"`
	RunCount    int       `db:"run_count" json:"run_count"`
	PassedCount int       `db:"passed_count" json:"passed_count"`
}

/* CriticalIssueRow is a recent failed run joined with its flow */
type CriticalIssueRow struct {
	ResultID     uuid.UUID `db:"result_id" json:"result_id"`
	FlowID       uuid.UUID `db:"flow_id" json:"flow_id"`
	FlowName     string    `db:"flow_name" json:"flow_name"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CompletedAt  time.Time `db:"completed_at" json:"completed_at"`
}
