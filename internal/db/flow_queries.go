/*-------------------------------------------------------------------------
 *
 * flow_queries.go
 *    Flow definition queries
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/flow_queries.go
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
	"github.com/lib/pq"
)

const saveFlowSQL = `
	INSERT INTO neuronflow.flows (name, flow_type, start_url, steps, expected_outcome, priority, is_active)
	VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
	ON CONFLICT (name, flow_type, start_url)
	DO UPDATE SET updated_at = NOW()
	RETURNING id`

/* SaveFlow inserts a flow definition and returns its id.
 *
 * Flows are identified by (name, flow_type, start_url); saving a
 * duplicate returns the id of the existing row without modifying its
 * steps or priority. */
func (q *Queries) SaveFlow(ctx context.Context, flow *Flow) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.GetContext(ctx, &id, saveFlowSQL,
		flow.Name, flow.FlowType, flow.StartURL, flow.Steps, flow.ExpectedOutcome, flow.Priority, flow.IsActive)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save flow: %w", err)
	}
	return id, nil
}

const getFlowByIDSQL = `
	SELECT id, name, flow_type, start_url, steps, expected_outcome, priority, is_active, created_at, updated_at
	FROM neuronflow.flows
	WHERE id = $1`

/* GetFlowByID retrieves a flow by id */
func (q *Queries) GetFlowByID(ctx context.Context, id uuid.UUID) (*Flow, error) {
	var flow Flow
	err := q.db.GetContext(ctx, &flow, getFlowByIDSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}
	return &flow, nil
}

const getFlowsSQL = `
	SELECT id, name, flow_type, start_url, steps, expected_outcome, priority, is_active, created_at, updated_at
	FROM neuronflow.flows
	WHERE ($1 = FALSE OR is_active = TRUE)
	  AND ($2 = '' OR flow_type = $2)
	ORDER BY priority DESC, created_at ASC`

/* GetFlows lists flows ordered by priority then registration order.
 * activeOnly restricts to active flows; typeFilter, when non-empty,
 * restricts to one flow type. */
func (q *Queries) GetFlows(ctx context.Context, activeOnly bool, typeFilter string) ([]Flow, error) {
	flows := []Flow{}
	if err := q.db.SelectContext(ctx, &flows, getFlowsSQL, activeOnly, typeFilter); err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	return flows, nil
}

const updateFlowSQL = `
	UPDATE neuronflow.flows
	SET steps = $2::jsonb, priority = $3, is_active = $4, updated_at = NOW()
	WHERE id = $1`

/* UpdateFlow updates a flow's steps, priority, and active state */
func (q *Queries) UpdateFlow(ctx context.Context, id uuid.UUID, steps JSONBRaw, priority int, isActive bool) error {
	result, err := q.db.ExecContext(ctx, updateFlowSQL, id, steps, priority, isActive)
	if err != nil {
		return fmt.Errorf("failed to update flow: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteFlowSQL = `
	DELETE FROM neuronflow.flows
	WHERE id = $1`

/* DeleteFlow removes a flow and its results */
func (q *Queries) DeleteFlow(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deleteFlowSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteFlowsSQL = `
	DELETE FROM neuronflow.flows
	WHERE id = ANY($1)`

/* DeleteFlows removes a batch of flows and returns the deleted count */
func (q *Queries) DeleteFlows(ctx context.Context, ids []uuid.UUID) (int64, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	result, err := q.db.ExecContext(ctx, deleteFlowsSQL, pq.Array(strIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete flows: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete: %w", err)
	}
	return rows, nil
}

const countFlowsSQL = `
	SELECT COUNT(*)
	FROM neuronflow.flows`

/* CountFlows returns the total number of registered flows */
func (q *Queries) CountFlows(ctx context.Context) (int, error) {
	var count int
	if err := q.db.GetContext(ctx, &count, countFlowsSQL); err != nil {
		return 0, fmt.Errorf("failed to count flows: %w", err)
	}
	return count, nil
}
