/*-------------------------------------------------------------------------
 *
 * router.go
 *    HTTP route registration
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/api/router.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neurondb/NeuronFlow/internal/metrics"
)

/* NewRouter builds the HTTP router with the full middleware chain */
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(SecurityHeadersMiddleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	/* Flows */
	v1.HandleFunc("/flows", h.CreateFlow).Methods(http.MethodPost)
	v1.HandleFunc("/flows", h.ListFlows).Methods(http.MethodGet)
	v1.HandleFunc("/flows/batch-delete", h.BatchDeleteFlows).Methods(http.MethodPost)
	v1.HandleFunc("/flows/run-all", h.RunAllFlows).Methods(http.MethodPost)
	v1.HandleFunc("/flows/run", h.RunFlows).Methods(http.MethodPost)
	v1.HandleFunc("/flows/{id}", h.GetFlow).Methods(http.MethodGet)
	v1.HandleFunc("/flows/{id}", h.UpdateFlow).Methods(http.MethodPut)
	v1.HandleFunc("/flows/{id}", h.DeleteFlow).Methods(http.MethodDelete)
	v1.HandleFunc("/flows/{id}/run", h.RunFlow).Methods(http.MethodPost)

	/* Results */
	v1.HandleFunc("/results", h.ListResults).Methods(http.MethodGet)
	v1.HandleFunc("/results/export", h.ExportResults).Methods(http.MethodGet)
	v1.HandleFunc("/results/{id}", h.GetResult).Methods(http.MethodGet)
	v1.HandleFunc("/results/{id}/report", h.GetResultReport).Methods(http.MethodGet)

	/* Dashboard */
	v1.HandleFunc("/dashboard/summary", h.GetDashboardSummary).Methods(http.MethodGet)

	return r
}
