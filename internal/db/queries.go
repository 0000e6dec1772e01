/*-------------------------------------------------------------------------
 *
 * queries.go
 *    Query layer entry point
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

/* ErrNotFound is returned when a requested row does not exist */
var ErrNotFound = errors.New("not found")

/* Queries provides typed access to the database */
type Queries struct {
	db *sqlx.DB
}

/* NewQueries creates a query layer over the given connection pool */
func NewQueries(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}
