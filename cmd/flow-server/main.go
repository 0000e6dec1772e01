/*-------------------------------------------------------------------------
 *
 * main.go
 *    NeuronFlow server entry point
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cmd/flow-server/main.go
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/neurondb/NeuronFlow/internal/api"
	"github.com/neurondb/NeuronFlow/internal/config"
	"github.com/neurondb/NeuronFlow/internal/db"
	"github.com/neurondb/NeuronFlow/internal/flow"
	"github.com/neurondb/NeuronFlow/internal/metrics"
	"github.com/neurondb/NeuronFlow/internal/schedule"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	migrationsDir := flag.String("migrations", "./migrations", "Path to migrations directory")
	flag.Parse()

	/* Load .env if present; environment still wins */
	_ = godotenv.Load()

	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}
	config.LoadFromEnv(cfg)
	cfg.Normalize()

	metrics.InitLogging(cfg.Logging.Level, cfg.Logging.Format)

	log.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Msg("Starting NeuronFlow server")

	database, err := db.NewDBWithRetry(&cfg.Database, 5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Connection string: host=%s port=%d user=%s dbname=%s\n",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Database)
		os.Exit(1)
	}
	defer database.Close()

	/* Run migrations */
	migrationRunner, err := db.NewMigrationRunner(database.DB, *migrationsDir)
	if err == nil {
		if err := migrationRunner.Run(context.Background()); err != nil {
			fmt.Printf("Warning: Migration failed: %v\n", err)
		}
	}

	/* Initialize components */
	queries := db.NewQueries(database.DB)
	engine := flow.NewEngine(queries, queries, &cfg.Executor, nil)
	handlers := api.NewHandlers(queries, engine, database, version)
	router := api.NewRouter(handlers)

	/* Publish pool stats */
	poolTicker := time.NewTicker(15 * time.Second)
	defer poolTicker.Stop()
	go func() {
		for range poolTicker.C {
			database.RecordPoolStats(metrics.RecordDBPoolStats)
		}
	}()

	/* Scheduler */
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	var scheduler *schedule.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = schedule.NewScheduler(engine, cfg.Scheduler)
		if err := scheduler.Start(schedCtx); err != nil {
			log.Error().Err(err).Msg("Failed to start scheduler")
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	/* Graceful shutdown */
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
