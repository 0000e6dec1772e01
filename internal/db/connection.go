/*-------------------------------------------------------------------------
 *
 * connection.go
 *    Database connection management
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/db/connection.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/neurondb/NeuronFlow/internal/config"
)

/* DB wraps the database connection pool */
type DB struct {
	*sqlx.DB
	name string
}

/* NewDB creates a database connection pool */
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	return NewDBWithRetry(cfg, 1)
}

/* NewDBWithRetry creates a database connection pool, retrying the
 * initial ping with jittered backoff */
func NewDBWithRetry(cfg *config.DatabaseConfig, maxAttempts int) (*DB, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, err := sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			conn.SetMaxOpenConns(cfg.MaxOpenConns)
			conn.SetMaxIdleConns(cfg.MaxIdleConns)
			conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

			log.Info().
				Str("host", cfg.Host).
				Int("port", cfg.Port).
				Str("database", cfg.Database).
				Msg("Database connection established")

			return &DB{DB: conn, name: cfg.Database}, nil
		}

		lastErr = err
		if attempt < maxAttempts {
			/* Jittered backoff so restarting replicas don't reconnect in lockstep */
			backoff := time.Duration(attempt) * time.Second
			jitter := time.Duration(rand.Int63n(int64(500 * time.Millisecond)))
			wait := backoff + jitter

			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Dur("retry_in", wait).
				Msg("Database connection failed, retrying")

			time.Sleep(wait)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

/* HealthCheck verifies database connectivity */
func (d *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

/* RecordPoolStats publishes current pool statistics */
func (d *DB) RecordPoolStats(record func(database string, open, idle, inUse int)) {
	stats := d.Stats()
	record(d.name, stats.OpenConnections, stats.Idle, stats.InUse)
}

/* Close closes the connection pool */
func (d *DB) Close() error {
	return d.DB.Close()
}
