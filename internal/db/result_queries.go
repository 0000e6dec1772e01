/*-------------------------------------------------------------------------
 *
 * result_queries.go
 *    Test result persistence and retrieval
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/result_queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const insertResultSQL = `
	INSERT INTO neuronflow.test_results
		(flow_id, run_id, status, steps_executed, steps_passed, steps_failed,
		 error_message, execution_time, run_log, suggestions, started_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11, $12)
	RETURNING id`

const insertScreenshotSQL = `
	INSERT INTO neuronflow.screenshots (result_id, step_index, label, file_path)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

/* SaveRunResult persists a test result and its screenshots in one
 * transaction and returns the inserted result id.
 *
 * Screenshot rows reference the id generated here, so either the whole
 * run outcome lands or none of it does. */
func (q *Queries) SaveRunResult(ctx context.Context, result *TestResult, screenshots []Screenshot) (uuid.UUID, error) {
	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var resultID uuid.UUID
	err = tx.GetContext(ctx, &resultID, insertResultSQL,
		result.FlowID, result.RunID, result.Status,
		result.StepsExecuted, result.StepsPassed, result.StepsFailed,
		result.ErrorMessage, result.ExecutionTime,
		result.RunLog, result.Suggestions,
		result.StartedAt, result.CompletedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert test result: %w", err)
	}

	for i := range screenshots {
		var shotID uuid.UUID
		err = tx.GetContext(ctx, &shotID, insertScreenshotSQL,
			resultID, screenshots[i].StepIndex, screenshots[i].Label, screenshots[i].FilePath)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert screenshot: %w", err)
		}
		screenshots[i].ID = shotID
		screenshots[i].ResultID = resultID
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit test result: %w", err)
	}
	return resultID, nil
}

const getResultByIDSQL = `
	SELECT id, flow_id, run_id, status, steps_executed, steps_passed, steps_failed,
	       error_message, execution_time, run_log, suggestions,
	       started_at, completed_at, created_at
	FROM neuronflow.test_results
	WHERE id = $1`

/* GetTestResultByID retrieves a test result by id */
func (q *Queries) GetTestResultByID(ctx context.Context, id uuid.UUID) (*TestResult, error) {
	var result TestResult
	err := q.db.GetContext(ctx, &result, getResultByIDSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	return &result, nil
}

const listResultsSQL = `
	SELECT id, flow_id, run_id, status, steps_executed, steps_passed, steps_failed,
	       error_message, execution_time, run_log, suggestions,
	       started_at, completed_at, created_at
	FROM neuronflow.test_results
	WHERE ($1::uuid IS NULL OR flow_id = $1)
	ORDER BY completed_at DESC
	LIMIT $2 OFFSET $3`

/* ListTestResults lists test results newest first.
 * A nil flowID lists results across all flows. */
func (q *Queries) ListTestResults(ctx context.Context, flowID *uuid.UUID, limit, offset int) ([]TestResult, error) {
	results := []TestResult{}
	if err := q.db.SelectContext(ctx, &results, listResultsSQL, flowID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	return results, nil
}

const listResultsByFlowSQL = `
	SELECT id, flow_id, run_id, status, steps_executed, steps_passed, steps_failed,
	       error_message, execution_time, run_log, suggestions,
	       started_at, completed_at, created_at
	FROM neuronflow.test_results
	WHERE flow_id = $1
	ORDER BY completed_at DESC
	LIMIT $2 OFFSET $3`

/* ListResultsByFlow lists a flow's most recent results, newest first */
func (q *Queries) ListResultsByFlow(ctx context.Context, flowID uuid.UUID, limit, offset int) ([]TestResult, error) {
	results := []TestResult{}
	if err := q.db.SelectContext(ctx, &results, listResultsByFlowSQL, flowID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list results for flow: %w", err)
	}
	return results, nil
}

const getScreenshotsByResultSQL = `
	SELECT id, result_id, step_index, label, file_path, created_at
	FROM neuronflow.screenshots
	WHERE result_id = $1
	ORDER BY step_index ASC, created_at ASC`

/* GetScreenshotsByResult lists the screenshots captured for a result */
func (q *Queries) GetScreenshotsByResult(ctx context.Context, resultID uuid.UUID) ([]Screenshot, error) {
	shots := []Screenshot{}
	if err := q.db.SelectContext(ctx, &shots, getScreenshotsByResultSQL, resultID); err != nil {
		return nil, fmt.Errorf("failed to list screenshots: %w", err)
	}
	return shots, nil
}

const getResultCountsSQL = `
	SELECT
		(SELECT COUNT(*) FROM neuronflow.flows) AS total_flows,
		COUNT(*) AS total_results,
		COUNT(*) FILTER (WHERE status = 'passed') AS total_passed,
		COUNT(*) FILTER (WHERE status = 'failed') AS total_failed,
		COUNT(*) FILTER (WHERE status = 'partial') AS total_partial
	FROM neuronflow.test_results`

/* GetResultCounts aggregates flow and result totals */
func (q *Queries) GetResultCounts(ctx context.Context) (*ResultCounts, error) {
	var counts ResultCounts
	if err := q.db.GetContext(ctx, &counts, getResultCountsSQL); err != nil {
		return nil, fmt.Errorf("failed to get result counts: %w", err)
	}
	return &counts, nil
}

const getCriticalIssuesSQL = `
	SELECT r.id AS result_id, r.flow_id, f.name AS flow_name,
	       r.status, r.error_message, r.completed_at
	FROM neuronflow.test_results r
	JOIN neuronflow.flows f ON f.id = r.flow_id
	WHERE r.status = 'failed'
	  AND r.completed_at >= NOW() - INTERVAL '24 hours'
	ORDER BY r.completed_at DESC
	LIMIT $1`

/* GetCriticalIssues lists failed runs from the last 24 hours */
func (q *Queries) GetCriticalIssues(ctx context.Context, limit int) ([]CriticalIssueRow, error) {
	issues := []CriticalIssueRow{}
	if err := q.db.SelectContext(ctx, &issues, getCriticalIssuesSQL, limit); err != nil {
		return nil, fmt.Errorf("failed to list critical issues: %w", err)
	}
	return issues, nil
}

const getFlowHealthSQL = `
	SELECT f.id AS flow_id, f.name AS flow_name, f.flow_type,
	       COUNT(r.id) AS run_count,
	       COUNT(r.id) FILTER (WHERE r.status = 'passed') AS passed_count
	FROM neuronflow.flows f
	LEFT JOIN neuronflow.test_results r
	       ON r.flow_id = f.id
	      AND r.completed_at >= NOW() - INTERVAL '7 days'
	WHERE f.is_active = TRUE
	GROUP BY f.id, f.name, f.flow_type
	ORDER BY f.priority DESC, f.created_at ASC`

/* GetFlowHealth aggregates per-flow run statistics over the last 7 days */
func (q *Queries) GetFlowHealth(ctx context.Context) ([]FlowHealthRow, error) {
	rows := []FlowHealthRow{}
	if err := q.db.SelectContext(ctx, &rows, getFlowHealthSQL); err != nil {
		return nil, fmt.Errorf("failed to get flow health: %w", err)
	}
	return rows, nil
}
