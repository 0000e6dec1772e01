/*-------------------------------------------------------------------------
 *
 * flow_queries_test.go
 *    Unit tests for flow queries
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/flow_queries_test.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newMockQueries(t *testing.T) (*Queries, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return NewQueries(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestSaveFlow_ReturnsID(t *testing.T) {
	q, mock := newMockQueries(t)
	wantID := uuid.New()

	mock.ExpectQuery(`INSERT INTO neuronflow.flows`).
		WithArgs("Login", "login", "https://example.com/wp-login.php", sqlmock.AnyArg(), "", 5, true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(wantID.String()))

	gotID, err := q.SaveFlow(context.Background(), &Flow{
		Name:     "Login",
		FlowType: "login",
		StartURL: "https://example.com/wp-login.php",
		Steps:    JSONBRaw(`[]`),
		Priority: 5,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("SaveFlow failed: %v", err)
	}
	if gotID != wantID {
		t.Errorf("id = %s, want %s", gotID, wantID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaveFlow_DuplicateReturnsExistingID(t *testing.T) {
	q, mock := newMockQueries(t)
	existingID := uuid.New()

	// The upsert resolves the identity conflict and hands back the
	// already-stored row's id both times.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`INSERT INTO neuronflow.flows`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existingID.String()))
	}

	flow := &Flow{
		Name:     "Checkout",
		FlowType: "woocommerce_checkout",
		StartURL: "https://example.com/shop",
		Steps:    JSONBRaw(`[]`),
	}

	first, err := q.SaveFlow(context.Background(), flow)
	if err != nil {
		t.Fatalf("first SaveFlow failed: %v", err)
	}
	second, err := q.SaveFlow(context.Background(), flow)
	if err != nil {
		t.Fatalf("second SaveFlow failed: %v", err)
	}
	if first != second {
		t.Errorf("duplicate save returned %s, want %s", second, first)
	}
}

func TestGetFlowByID_NotFound(t *testing.T) {
	q, mock := newMockQueries(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM neuronflow.flows`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := q.GetFlowByID(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetFlows_OrderedQuery(t *testing.T) {
	q, mock := newMockQueries(t)

	columns := []string{"id", "name", "flow_type", "start_url", "steps", "expected_outcome", "priority", "is_active", "created_at", "updated_at"}
	mock.ExpectQuery(`ORDER BY priority DESC, created_at ASC`).
		WithArgs(true, "login").
		WillReturnRows(sqlmock.NewRows(columns))

	flows, err := q.GetFlows(context.Background(), true, "login")
	if err != nil {
		t.Fatalf("GetFlows failed: %v", err)
	}
	if flows == nil {
		t.Error("expected non-nil slice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateFlow_NotFound(t *testing.T) {
	q, mock := newMockQueries(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE neuronflow.flows`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := q.UpdateFlow(context.Background(), id, JSONBRaw(`[]`), 1, true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteFlows_ReturnsCount(t *testing.T) {
	q, mock := newMockQueries(t)

	mock.ExpectExec(`DELETE FROM neuronflow.flows`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := q.DeleteFlows(context.Background(), []uuid.UUID{uuid.New(), uuid.New()})
	if err != nil {
		t.Fatalf("DeleteFlows failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
}
