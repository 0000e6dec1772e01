/*-------------------------------------------------------------------------
 *
 * handlers.go
 *    API handlers for NeuronFlow
 *
 * Provides HTTP handlers for flows, runs, results, reports, and
 * dashboard endpoints.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/api/handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/neurondb/NeuronFlow/internal/db"
	"github.com/neurondb/NeuronFlow/internal/flow"
	"github.com/neurondb/NeuronFlow/internal/metrics"
	"github.com/neurondb/NeuronFlow/internal/report"
	"github.com/neurondb/NeuronFlow/internal/validation"
)

/* maxBodySize bounds request bodies (1MB) */
const maxBodySize = 1024 * 1024

const defaultResultLimit = 50

type Handlers struct {
	queries  *db.Queries
	engine   *flow.Engine
	database *db.DB
	version  string
}

func NewHandlers(queries *db.Queries, engine *flow.Engine, database *db.DB, version string) *Handlers {
	return &Handlers{
		queries:  queries,
		engine:   engine,
		database: database,
		version:  version,
	}
}

/* Flows */

func (h *Handlers) CreateFlow(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	body, err := validation.ReadAndValidateBody(r, maxBodySize)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body validation failed", err, requestID))
		return
	}

	var req CreateFlowRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body parsing failed", err, requestID))
		return
	}

	if err := validation.ValidateStringRequired(req.Name, "name"); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid flow", err, requestID))
		return
	}
	if err := validation.ValidateStringRequired(req.FlowType, "flow_type"); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid flow", err, requestID))
		return
	}
	if err := validation.ValidateURL(req.StartURL, "start_url"); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid flow", err, requestID))
		return
	}

	steps, err := flow.EncodeSteps(req.Steps)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid steps", err, requestID))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	id, err := h.queries.SaveFlow(r.Context(), &db.Flow{
		Name:            req.Name,
		FlowType:        req.FlowType,
		StartURL:        req.StartURL,
		Steps:           db.JSONBRaw(steps),
		ExpectedOutcome: req.ExpectedOutcome,
		Priority:        req.Priority,
		IsActive:        isActive,
	})
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "flow creation failed", err, requestID))
		return
	}

	respondJSON(w, http.StatusCreated, CreateFlowResponse{ID: id})
}

func (h *Handlers) ListFlows(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	activeOnly := r.URL.Query().Get("active_only") == "true"
	typeFilter := r.URL.Query().Get("type")

	flows, err := h.queries.GetFlows(r.Context(), activeOnly, typeFilter)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to list flows", err, requestID))
		return
	}

	responses := make([]FlowResponse, len(flows))
	for i := range flows {
		responses[i] = toFlowResponse(&flows[i])
	}
	respondJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetFlow(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "flow_id")
	if !ok {
		return
	}

	fl, err := h.queries.GetFlowByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, WrapError(ErrNotFound, requestID))
		return
	}
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to get flow", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, toFlowResponse(fl))
}

func (h *Handlers) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "flow_id")
	if !ok {
		return
	}

	body, err := validation.ReadAndValidateBody(r, maxBodySize)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body validation failed", err, requestID))
		return
	}

	var req UpdateFlowRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body parsing failed", err, requestID))
		return
	}

	steps, err := flow.EncodeSteps(req.Steps)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid steps", err, requestID))
		return
	}

	err = h.queries.UpdateFlow(r.Context(), id, db.JSONBRaw(steps), req.Priority, req.IsActive)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, WrapError(ErrNotFound, requestID))
		return
	}
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "flow update failed", err, requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "flow_id")
	if !ok {
		return
	}

	err := h.queries.DeleteFlow(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, WrapError(ErrNotFound, requestID))
		return
	}
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "flow deletion failed", err, requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) BatchDeleteFlows(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	body, err := validation.ReadAndValidateBody(r, maxBodySize)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body validation failed", err, requestID))
		return
	}

	var req BatchDeleteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body parsing failed", err, requestID))
		return
	}
	if len(req.FlowIDs) == 0 {
		respondError(w, NewError(http.StatusBadRequest, "flow_ids is required", nil, requestID))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.FlowIDs))
	for _, raw := range req.FlowIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, NewError(http.StatusBadRequest, "invalid flow id", err, requestID))
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.queries.DeleteFlows(r.Context(), ids)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "batch deletion failed", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, BatchDeleteResponse{Deleted: deleted})
}

/* Runs */

func (h *Handlers) RunFlow(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "flow_id")
	if !ok {
		return
	}

	summary, err := h.engine.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, WrapError(ErrNotFound, requestID))
			return
		}
		respondError(w, NewError(http.StatusInternalServerError, "flow run failed", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *Handlers) RunFlows(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	body, err := validation.ReadAndValidateBody(r, maxBodySize)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body validation failed", err, requestID))
		return
	}

	var req RunManyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "request body parsing failed", err, requestID))
		return
	}
	if len(req.FlowIDs) == 0 {
		respondError(w, NewError(http.StatusBadRequest, "flow_ids is required", nil, requestID))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.FlowIDs))
	for _, raw := range req.FlowIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, NewError(http.StatusBadRequest, "invalid flow id", err, requestID))
			return
		}
		ids = append(ids, id)
	}

	budget := time.Duration(req.BudgetSeconds) * time.Second
	summaries := h.engine.ExecuteMany(r.Context(), ids, budget)
	respondJSON(w, http.StatusOK, RunBatchResponse{Runs: summaries})
}

func (h *Handlers) RunAllFlows(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req RunRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, NewError(http.StatusBadRequest, "request body parsing failed", err, requestID))
			return
		}
	}

	budget := time.Duration(req.BudgetSeconds) * time.Second
	summaries, err := h.engine.ExecuteAll(r.Context(), budget)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "run-all failed", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, RunBatchResponse{Runs: summaries})
}

/* Results */

func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	limit := queryInt(r, "limit", defaultResultLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = defaultResultLimit
	}
	if offset < 0 {
		offset = 0
	}

	var flowID *uuid.UUID
	if raw := r.URL.Query().Get("flow_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, NewError(http.StatusBadRequest, "invalid flow_id", err, requestID))
			return
		}
		flowID = &id
	}

	results, err := h.queries.ListTestResults(r.Context(), flowID, limit, offset)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to list results", err, requestID))
		return
	}

	responses := make([]ResultResponse, len(results))
	for i := range results {
		responses[i] = toResultResponse(&results[i])
	}
	respondJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "result_id")
	if !ok {
		return
	}

	result, err := h.queries.GetTestResultByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, WrapError(ErrNotFound, requestID))
		return
	}
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to get result", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, toResultResponse(result))
}

func (h *Handlers) GetResultReport(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	id, ok := h.pathUUID(w, r, "id", "result_id")
	if !ok {
		return
	}

	result, err := h.queries.GetTestResultByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, WrapError(ErrNotFound, requestID))
		return
	}
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to get result", err, requestID))
		return
	}

	history, err := h.queries.ListResultsByFlow(r.Context(), result.FlowID, report.HistoryWindow, 0)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load result history", err, requestID))
		return
	}

	screenshots, err := h.queries.GetScreenshotsByResult(r.Context(), result.ID)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load screenshots", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, report.Build(result, history, screenshots))
}

func (h *Handlers) ExportResults(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	limit := queryInt(r, "limit", 500)
	if limit < 1 || limit > 5000 {
		limit = 500
	}

	results, err := h.queries.ListTestResults(r.Context(), nil, limit, 0)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to list results", err, requestID))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		data, err := report.ExportJSON(results)
		if err != nil {
			respondError(w, NewError(http.StatusInternalServerError, "export failed", err, requestID))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="results.json"`)
		w.Write(data)
	case "csv":
		data, err := report.ExportCSV(results)
		if err != nil {
			respondError(w, NewError(http.StatusInternalServerError, "export failed", err, requestID))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
		w.Write(data)
	case "html":
		data, err := report.ExportHTML(results, time.Now())
		if err != nil {
			respondError(w, NewError(http.StatusInternalServerError, "export failed", err, requestID))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	default:
		respondError(w, NewError(http.StatusBadRequest, "unsupported export format", nil, requestID))
	}
}

/* Dashboard */

func (h *Handlers) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	counts, err := h.queries.GetResultCounts(r.Context())
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load counts", err, requestID))
		return
	}

	issues, err := h.queries.GetCriticalIssues(r.Context(), 20)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load critical issues", err, requestID))
		return
	}

	health, err := h.queries.GetFlowHealth(r.Context())
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load flow health", err, requestID))
		return
	}

	respondJSON(w, http.StatusOK, DashboardResponse{
		DashboardSummary: report.BuildDashboard(counts, issues, health),
		System:           metrics.CollectSystemSnapshot(r.Context()),
	})
}

/* Health */

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.database.HealthCheck(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, HealthResponse{
		Status:   "ok",
		Database: dbStatus,
		Version:  h.version,
	})
}

/* Helper functions */

func (h *Handlers) pathUUID(w http.ResponseWriter, r *http.Request, key, field string) (uuid.UUID, bool) {
	requestID := GetRequestID(r.Context())
	raw := mux.Vars(r)[key]

	if err := validation.ValidateUUIDRequired(raw, field); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid identifier", err, requestID))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid identifier format", err, requestID))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func toFlowResponse(f *db.Flow) FlowResponse {
	steps := json.RawMessage(f.Steps)
	if len(steps) == 0 {
		steps = json.RawMessage("[]")
	}
	return FlowResponse{
		ID:              f.ID,
		Name:            f.Name,
		FlowType:        f.FlowType,
		StartURL:        f.StartURL,
		Steps:           steps,
		ExpectedOutcome: f.ExpectedOutcome,
		Priority:        f.Priority,
		IsActive:        f.IsActive,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func toResultResponse(r *db.TestResult) ResultResponse {
	return ResultResponse{
		ID:            r.ID,
		FlowID:        r.FlowID,
		RunID:         r.RunID,
		Status:        r.Status,
		StepsExecuted: r.StepsExecuted,
		StepsPassed:   r.StepsPassed,
		StepsFailed:   r.StepsFailed,
		ErrorMessage:  r.ErrorMessage,
		ExecutionTime: r.ExecutionTime,
		RunLog:        json.RawMessage(r.RunLog),
		Suggestions:   json.RawMessage(r.Suggestions),
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err *APIError) {
	response := ErrorResponse{
		Error: err.Message,
		Code:  err.Code,
	}
	if err.Err != nil {
		response.Message = err.Err.Error()
	}
	if err.RequestID != "" {
		w.Header().Set("X-Request-ID", err.RequestID)
	}
	respondJSON(w, err.Code, response)
}
