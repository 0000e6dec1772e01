/*-------------------------------------------------------------------------
 *
 * engine.go
 *    Flow execution engine
 *
 * Orchestrates one flow run: loads the definition, executes steps
 * through the retry controller, classifies failures into suggestions,
 * and persists the outcome. A run that started always leaves a
 * persisted result, even when orchestration itself faults.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/engine.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/neurondb/NeuronFlow/internal/config"
	"github.com/neurondb/NeuronFlow/internal/db"
	"github.com/neurondb/NeuronFlow/internal/metrics"
	"github.com/neurondb/NeuronFlow/internal/suggest"
)

/* Run statuses */
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusPartial = "partial"
)

const (
	/* DefaultStepDelay is the pause between consecutive steps */
	DefaultStepDelay = 500 * time.Millisecond

	/* DefaultFlowDelay is the pause between flows in a batch run */
	DefaultFlowDelay = 2 * time.Second
)

/* timeLimitMessage marks flows skipped by an exhausted run budget */
const timeLimitMessage = "time limit reached"

/* FlowStore provides flow definitions to the engine */
type FlowStore interface {
	GetFlowByID(ctx context.Context, id uuid.UUID) (*db.Flow, error)
	GetFlows(ctx context.Context, activeOnly bool, typeFilter string) ([]db.Flow, error)
}

/* ResultStore persists run outcomes */
type ResultStore interface {
	SaveRunResult(ctx context.Context, result *db.TestResult, screenshots []db.Screenshot) (uuid.UUID, error)
}

/* RunSummary is the in-memory outcome of one flow run */
type RunSummary struct {
	RunID         string               `json:"run_id"`
	FlowID        uuid.UUID            `json:"flow_id"`
	ResultID      uuid.UUID            `json:"result_id"`
	Status        string               `json:"status"`
	StepsExecuted int                  `json:"steps_executed"`
	StepsPassed   int                  `json:"steps_passed"`
	StepsFailed   int                  `json:"steps_failed"`
	ExecutionTime float64              `json:"execution_time"`
	Error         string               `json:"error,omitempty"`
	Suggestions   []suggest.Suggestion `json:"suggestions,omitempty"`
}

/* Engine runs flows end to end */
type Engine struct {
	flows      FlowStore
	results    ResultStore
	dispatcher *Dispatcher
	retry      *RetryController
	cfg        *config.ExecutorConfig

	StepDelay time.Duration
	FlowDelay time.Duration

	sleep func(time.Duration)
	now   func() time.Time
}

/* NewEngine creates a flow execution engine */
func NewEngine(flows FlowStore, results ResultStore, cfg *config.ExecutorConfig, probe PageProbe) *Engine {
	return &Engine{
		flows:      flows,
		results:    results,
		dispatcher: NewDispatcher(cfg, probe),
		retry:      NewRetryController(cfg.RetryAttempts),
		cfg:        cfg,
		StepDelay:  DefaultStepDelay,
		FlowDelay:  DefaultFlowDelay,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

/* newRunID generates a time-keyed random run token */
func (e *Engine) newRunID() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("run_%d_%s", e.now().Unix(), hex.EncodeToString(buf))
}

/* Execute runs a single flow and persists its result.
 *
 * Orchestration faults (undecodable steps, panics) are converted into
 * a persisted failed result so no started run goes unrecorded. */
func (e *Engine) Execute(ctx context.Context, flowID uuid.UUID) (summary *RunSummary, err error) {
	fl, err := e.flows.GetFlowByID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow %s: %w", flowID, err)
	}

	runID := e.newRunID()
	ctx = metrics.WithLogContext(ctx, "", flowID.String(), runID)
	startedAt := e.now()

	defer func() {
		if r := recover(); r != nil {
			faultErr := fmt.Sprintf("run panicked: %v", r)
			metrics.ErrorWithContext(ctx, "Flow run panicked", fmt.Errorf("%s", faultErr), nil)
			summary = e.persistFault(ctx, fl, runID, startedAt, faultErr)
			err = nil
		}
	}()

	steps, decodeErr := DecodeSteps([]byte(fl.Steps))
	if decodeErr != nil {
		return e.persistFault(ctx, fl, runID, startedAt, decodeErr.Error()), nil
	}

	runLog := NewRunLog(runID, flowID.String())
	runLog.Info("Starting flow run", map[string]interface{}{
		"flow_name": fl.Name,
		"flow_type": fl.FlowType,
		"start_url": fl.StartURL,
		"steps":     len(steps),
	})

	if len(steps) == 0 {
		runLog.Warning("Flow has no steps, navigating to start URL only", map[string]interface{}{
			"start_url": fl.StartURL,
		})
		steps = []Step{{Action: ActionNavigate, Target: fl.StartURL, Description: "Open start URL"}}
	}

	var (
		executed, passed, failed int
		failures                 []suggest.Failure
		screenshots              []db.Screenshot
		firstError               string
	)

	for i := range steps {
		step := &steps[i]
		stepNumber := i + 1

		runLog.StepAnchor(stepNumber, step)
		metrics.InfoWithContext(ctx, fmt.Sprintf("Executing step %d", stepNumber), map[string]interface{}{
			"action": string(step.Action),
		})
		executed++

		result := e.retry.ExecuteWithRetry(ctx, step, func(ctx context.Context) StepResult {
			return e.dispatcher.ExecuteStep(ctx, step, fl.FlowType, fl.StartURL)
		})

		if result.Success {
			passed++
			data := map[string]interface{}{
				"step":           stepNumber,
				"execution_time": result.ExecutionTime,
			}
			if result.RetryAttempt > 0 {
				data["retry_attempt"] = result.RetryAttempt
			}
			for k, v := range result.Details {
				data[k] = v
			}
			runLog.Success(result.Message, data)
		} else {
			failed++
			if firstError == "" {
				firstError = result.Error
			}
			failures = append(failures, suggest.Failure{
				StepIndex: stepNumber,
				Action:    string(step.Action),
				Error:     result.Error,
			})
			runLog.Error(result.Error, map[string]interface{}{
				"step":           stepNumber,
				"action":         string(step.Action),
				"attempts":       result.Attempts,
				"execution_time": result.ExecutionTime,
				"critical":       result.Critical,
			})

			if e.cfg.ScreenshotOnFailure {
				screenshots = append(screenshots, db.Screenshot{
					StepIndex: stepNumber,
					Label:     "failure",
					FilePath:  e.screenshotPath(runID, stepNumber),
				})
			}

			if result.Critical {
				runLog.Error("Critical failure, skipping remaining steps", map[string]interface{}{
					"step": stepNumber,
				})
				break
			}
		}

		if i < len(steps)-1 {
			e.sleep(e.StepDelay)
		}
	}

	status := deriveStatus(executed, passed, failed)
	if status == StatusPassed && e.cfg.ScreenshotOnSuccess {
		screenshots = append(screenshots, db.Screenshot{
			StepIndex: executed,
			Label:     "final",
			FilePath:  e.screenshotPath(runID, executed),
		})
	}

	suggestions := suggest.Classify(failures, executed, fl.FlowType)
	for _, s := range suggestions {
		metrics.RecordSuggestionEmitted(s.Type, s.Priority)
	}

	completedAt := e.now()
	execTime := completedAt.Sub(startedAt).Seconds()
	runLog.Info("Flow run complete", map[string]interface{}{
		"status":         status,
		"steps_executed": executed,
		"steps_passed":   passed,
		"steps_failed":   failed,
		"execution_time": execTime,
	})

	resultID, persistErr := e.persist(ctx, fl, &db.TestResult{
		FlowID:        fl.ID,
		RunID:         runID,
		Status:        status,
		StepsExecuted: executed,
		StepsPassed:   passed,
		StepsFailed:   failed,
		ErrorMessage:  optional(firstError),
		ExecutionTime: execTime,
		RunLog:        encodeRunLog(runLog),
		Suggestions:   encodeSuggestions(suggestions),
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
	}, screenshots)
	if persistErr != nil {
		status = StatusFailed
		firstError = fmt.Sprintf("failed to persist run result: %v", persistErr)
	}

	metrics.RecordFlowRun(fl.FlowType, status, completedAt.Sub(startedAt))

	return &RunSummary{
		RunID:         runID,
		FlowID:        fl.ID,
		ResultID:      resultID,
		Status:        status,
		StepsExecuted: executed,
		StepsPassed:   passed,
		StepsFailed:   failed,
		ExecutionTime: execTime,
		Error:         firstError,
		Suggestions:   suggestions,
	}, nil
}

/* ExecuteMany runs flows sequentially with an optional wall-clock budget.
 *
 * Once the budget is exhausted, the remaining flows are not silently
 * skipped: each gets a persisted failed result so dashboards show the
 * sweep was cut short. */
func (e *Engine) ExecuteMany(ctx context.Context, flowIDs []uuid.UUID, budget time.Duration) []RunSummary {
	var deadline time.Time
	if budget > 0 {
		deadline = e.now().Add(budget)
	}

	summaries := make([]RunSummary, 0, len(flowIDs))
	for i, id := range flowIDs {
		if !deadline.IsZero() && !e.now().Before(deadline) {
			summaries = append(summaries, e.markTimedOut(ctx, id))
			continue
		}

		summary, err := e.Execute(ctx, id)
		if err != nil {
			metrics.ErrorWithContext(ctx, "Flow run failed to start", err, map[string]interface{}{
				"flow_id": id.String(),
			})
			summaries = append(summaries, RunSummary{
				FlowID: id,
				Status: StatusFailed,
				Error:  err.Error(),
			})
		} else {
			summaries = append(summaries, *summary)
		}

		if i < len(flowIDs)-1 && (deadline.IsZero() || e.now().Before(deadline)) {
			e.sleep(e.FlowDelay)
		}
	}
	return summaries
}

/* ExecuteAll runs every active flow in priority order */
func (e *Engine) ExecuteAll(ctx context.Context, budget time.Duration) ([]RunSummary, error) {
	flows, err := e.flows.GetFlows(ctx, true, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	ids := make([]uuid.UUID, len(flows))
	for i, fl := range flows {
		ids[i] = fl.ID
	}
	return e.ExecuteMany(ctx, ids, budget), nil
}

/* markTimedOut records a failed result for a flow the budget excluded */
func (e *Engine) markTimedOut(ctx context.Context, flowID uuid.UUID) RunSummary {
	runID := e.newRunID()
	ctx = metrics.WithRunIDLogContext(metrics.WithFlowIDLogContext(ctx, flowID), runID)
	now := e.now()

	runLog := NewRunLog(runID, flowID.String())
	runLog.Error(timeLimitMessage, nil)

	errMsg := timeLimitMessage
	resultID, err := e.results.SaveRunResult(ctx, &db.TestResult{
		FlowID:       flowID,
		RunID:        runID,
		Status:       StatusFailed,
		ErrorMessage: &errMsg,
		RunLog:       encodeRunLog(runLog),
		Suggestions:  encodeSuggestions(nil),
		StartedAt:    now,
		CompletedAt:  now,
	}, nil)
	if err != nil {
		metrics.ErrorWithContext(ctx, "Failed to persist time limit result", err, map[string]interface{}{
			"flow_id": flowID.String(),
		})
	} else {
		metrics.RecordResultPersisted(StatusFailed)
	}

	return RunSummary{
		RunID:    runID,
		FlowID:   flowID,
		ResultID: resultID,
		Status:   StatusFailed,
		Error:    timeLimitMessage,
	}
}

/* persistFault records a failed result for an orchestration fault */
func (e *Engine) persistFault(ctx context.Context, fl *db.Flow, runID string, startedAt time.Time, errMsg string) *RunSummary {
	runLog := NewRunLog(runID, fl.ID.String())
	runLog.Error(errMsg, nil)

	completedAt := e.now()
	result := &db.TestResult{
		FlowID:        fl.ID,
		RunID:         runID,
		Status:        StatusFailed,
		ErrorMessage:  &errMsg,
		ExecutionTime: completedAt.Sub(startedAt).Seconds(),
		RunLog:        encodeRunLog(runLog),
		Suggestions:   encodeSuggestions(nil),
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
	}
	resultID, persistErr := e.persist(ctx, fl, result, nil)
	if persistErr != nil {
		errMsg = fmt.Sprintf("%s; failed to persist run result: %v", errMsg, persistErr)
	}

	return &RunSummary{
		RunID:         runID,
		FlowID:        fl.ID,
		ResultID:      resultID,
		Status:        StatusFailed,
		ExecutionTime: result.ExecutionTime,
		Error:         errMsg,
	}
}

/* persist saves a result. A storage failure is logged and returned so
 * the caller can surface the lost write on the run summary. */
func (e *Engine) persist(ctx context.Context, fl *db.Flow, result *db.TestResult, screenshots []db.Screenshot) (uuid.UUID, error) {
	resultID, err := e.results.SaveRunResult(ctx, result, screenshots)
	if err != nil {
		metrics.ErrorWithContext(ctx, "Failed to persist test result", err, map[string]interface{}{
			"flow_id": fl.ID.String(),
			"run_id":  result.RunID,
		})
		return uuid.Nil, err
	}
	metrics.RecordResultPersisted(result.Status)
	return resultID, nil
}

func (e *Engine) screenshotPath(runID string, stepNumber int) string {
	return filepath.Join(e.cfg.ScreenshotDir, fmt.Sprintf("%s_step_%d.png", runID, stepNumber))
}

/* deriveStatus maps step counters to the run status */
func deriveStatus(executed, passed, failed int) string {
	if failed == 0 {
		return StatusPassed
	}
	if passed == 0 && executed > 0 {
		return StatusFailed
	}
	return StatusPartial
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeRunLog(l *RunLog) db.JSONBRaw {
	data, err := l.Encode()
	if err != nil {
		return nil
	}
	return db.JSONBRaw(data)
}

func encodeSuggestions(suggestions []suggest.Suggestion) db.JSONBRaw {
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return nil
	}
	return db.JSONBRaw(data)
}
