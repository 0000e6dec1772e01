/*-------------------------------------------------------------------------
 *
 * report.go
 *    Run report builders
 *
 * Rebuilds a human-readable report from a persisted test result and
 * its run log. Builders are pure: they take stored data in and return
 * report structures out, with no storage or clock access, so the same
 * result always renders the same report.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/report/report.go
 *
 *-------------------------------------------------------------------------
 */

package report

import (
	"strings"

	"github.com/neurondb/NeuronFlow/internal/db"
	"github.com/neurondb/NeuronFlow/internal/flow"
	"github.com/neurondb/NeuronFlow/internal/suggest"
)

/* ExecutionSummary is the headline block of a report */
type ExecutionSummary struct {
	RunID         string  `json:"run_id"`
	FlowID        string  `json:"flow_id"`
	Status        string  `json:"status"`
	StatusLabel   string  `json:"status_label"`
	StatusColor   string  `json:"status_color"`
	StepsExecuted int     `json:"steps_executed"`
	StepsPassed   int     `json:"steps_passed"`
	StepsFailed   int     `json:"steps_failed"`
	SuccessRate   float64 `json:"success_rate"`
	ExecutionTime float64 `json:"execution_time"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

/* StepDetail is one step segment reconstructed from the run log */
type StepDetail struct {
	StepNumber int             `json:"step_number"`
	Action     string          `json:"action"`
	Label      string          `json:"label"`
	Status     string          `json:"status"`
	Duration   float64         `json:"duration"`
	Entries    []flow.LogEntry `json:"entries"`
}

/* FailureDetail is one classified error event */
type FailureDetail struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
	Severity  string `json:"severity"`
}

/* RootCause is a canned diagnosis for a recurring error type */
type RootCause struct {
	ErrorType string   `json:"error_type"`
	Count     int      `json:"count"`
	Causes    []string `json:"causes"`
	Actions   []string `json:"actions"`
}

/* FailureAnalysis aggregates the error events of one run */
type FailureAnalysis struct {
	Failures   []FailureDetail `json:"failures"`
	Frequency  map[string]int  `json:"frequency"`
	RootCauses []RootCause     `json:"root_causes"`
}

/* HistoryPoint is one prior run in the historical view */
type HistoryPoint struct {
	ResultID      string  `json:"result_id"`
	Status        string  `json:"status"`
	SuccessRate   float64 `json:"success_rate"`
	ExecutionTime float64 `json:"execution_time"`
	CompletedAt   string  `json:"completed_at"`
}

/* History is the recent-run view for a flow */
type History struct {
	Points           []HistoryPoint `json:"points"`
	AvgSuccessRate   float64        `json:"avg_success_rate"`
	AvgExecutionTime float64        `json:"avg_execution_time"`
	Trend            string         `json:"trend"`
}

/* Report is the full rendered report for one test result */
type Report struct {
	Summary     ExecutionSummary     `json:"summary"`
	Steps       []StepDetail         `json:"steps"`
	Failures    FailureAnalysis      `json:"failure_analysis"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	History     *History             `json:"history,omitempty"`
	Screenshots []db.Screenshot      `json:"screenshots,omitempty"`
}

/* BuildSummary builds the headline block from a stored result */
func BuildSummary(result *db.TestResult) ExecutionSummary {
	label, color := statusPresentation(result.Status)

	summary := ExecutionSummary{
		RunID:         result.RunID,
		FlowID:        result.FlowID.String(),
		Status:        result.Status,
		StatusLabel:   label,
		StatusColor:   color,
		StepsExecuted: result.StepsExecuted,
		StepsPassed:   result.StepsPassed,
		StepsFailed:   result.StepsFailed,
		SuccessRate:   SuccessRate(result.StepsPassed, result.StepsExecuted),
		ExecutionTime: result.ExecutionTime,
	}
	if result.ErrorMessage != nil {
		summary.ErrorMessage = *result.ErrorMessage
	}
	return summary
}

/* SuccessRate computes passed/executed as a percentage */
func SuccessRate(passed, executed int) float64 {
	if executed == 0 {
		return 0
	}
	return float64(passed) / float64(executed) * 100
}

func statusPresentation(status string) (label, color string) {
	switch status {
	case flow.StatusPassed:
		return "Passed", "#46b450"
	case flow.StatusFailed:
		return "Failed", "#dc3232"
	case flow.StatusPartial:
		return "Partial", "#ffb900"
	default:
		return "Unknown", "#888888"
	}
}

/* BuildStepDetails segments a run log into per-step blocks.
 *
 * Step boundaries are the "Executing step N" anchor entries. Duration
 * prefers an execution_time value recorded in the segment's entries;
 * otherwise it falls back to the wall-clock delta between the anchor
 * and the segment's terminal success or error event. */
func BuildStepDetails(runLog *flow.RunLog) []StepDetail {
	details := []StepDetail{}
	if runLog == nil {
		return details
	}

	var anchors []int
	for i, entry := range runLog.Entries {
		if isStepAnchor(entry.Message) {
			anchors = append(anchors, i)
		}
	}

	for n, start := range anchors {
		end := len(runLog.Entries)
		if n+1 < len(anchors) {
			end = anchors[n+1]
		}

		anchor := runLog.Entries[start]
		detail := StepDetail{
			StepNumber: n + 1,
			Status:     "passed",
			Entries:    runLog.Entries[start:end],
		}
		if action, ok := anchor.Data["action"].(string); ok {
			detail.Action = action
		}
		if label, ok := anchor.Data["label"].(string); ok {
			detail.Label = label
		}

		recorded := false
		var terminal *flow.LogEntry
		for i := start; i < end; i++ {
			entry := &runLog.Entries[i]
			if entry.Level == flow.LogError {
				detail.Status = "failed"
			}
			if entry.Level == flow.LogSuccess || entry.Level == flow.LogError {
				terminal = entry
			}
			if v, ok := entry.Data["execution_time"]; ok {
				if seconds, ok := toFloat(v); ok {
					detail.Duration = seconds
					recorded = true
				}
			}
		}
		if !recorded && terminal != nil {
			detail.Duration = terminal.Timestamp.Sub(anchor.Timestamp).Seconds()
		}

		details = append(details, detail)
	}

	return details
}

func isStepAnchor(message string) bool {
	if !strings.HasPrefix(message, "Executing step ") {
		return false
	}
	rest := strings.TrimPrefix(message, "Executing step ")
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

/* rootCauseCatalog maps error types to canned causes and actions */
var rootCauseCatalog = map[string]struct {
	causes  []string
	actions []string
}{
	suggest.TypeTimeout: {
		causes:  []string{"Slow server response", "Network latency", "Heavy page payload"},
		actions: []string{"Increase the step timeout", "Check server load and response times"},
	},
	suggest.TypeElementMissing: {
		causes:  []string{"Page markup changed", "Selector out of date", "Element rendered conditionally"},
		actions: []string{"Update the step selector", "Confirm the element exists on the target page"},
	},
	suggest.TypeHTTPError: {
		causes:  []string{"Server-side error", "Broken or moved URL", "Access restrictions"},
		actions: []string{"Check the server error logs", "Confirm the URL and permissions"},
	},
	suggest.TypeGeneralFailure: {
		causes:  []string{"Unexpected page state", "Flow definition drift"},
		actions: []string{"Review the run log", "Re-record the failing step"},
	},
}

/* BuildFailureAnalysis classifies the error events of a run log */
func BuildFailureAnalysis(runLog *flow.RunLog) FailureAnalysis {
	analysis := FailureAnalysis{
		Failures:   []FailureDetail{},
		Frequency:  map[string]int{},
		RootCauses: []RootCause{},
	}
	if runLog == nil {
		return analysis
	}

	var typeOrder []string
	for _, entry := range runLog.Entries {
		if entry.Level != flow.LogError {
			continue
		}

		errType, _ := suggest.ClassifyError(entry.Message)
		if analysis.Frequency[errType] == 0 {
			typeOrder = append(typeOrder, errType)
		}
		analysis.Frequency[errType]++
		analysis.Failures = append(analysis.Failures, FailureDetail{
			Message:   entry.Message,
			ErrorType: errType,
			Severity:  severityOf(entry.Message),
		})
	}

	for _, errType := range typeOrder {
		catalog, ok := rootCauseCatalog[errType]
		if !ok {
			catalog = rootCauseCatalog[suggest.TypeGeneralFailure]
		}
		analysis.RootCauses = append(analysis.RootCauses, RootCause{
			ErrorType: errType,
			Count:     analysis.Frequency[errType],
			Causes:    catalog.causes,
			Actions:   catalog.actions,
		})
	}

	return analysis
}

/* severityOf grades an error message by keyword */
func severityOf(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "critical"),
		strings.Contains(lower, "fatal"),
		strings.Contains(lower, "timeout"):
		return "critical"
	case strings.Contains(lower, "not found"):
		return "high"
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return "medium"
	default:
		return "low"
	}
}

/* HistoryWindow is how many prior runs the historical view covers */
const HistoryWindow = 10

/* TrendWindow is how many recent runs the trend verdict averages */
const TrendWindow = 5

/* BuildHistory builds the recent-run view from results ordered newest
 * first */
func BuildHistory(results []db.TestResult) *History {
	if len(results) > HistoryWindow {
		results = results[:HistoryWindow]
	}

	history := &History{Points: []HistoryPoint{}}
	var rateSum, timeSum float64
	for _, r := range results {
		point := HistoryPoint{
			ResultID:      r.ID.String(),
			Status:        r.Status,
			SuccessRate:   SuccessRate(r.StepsPassed, r.StepsExecuted),
			ExecutionTime: r.ExecutionTime,
			CompletedAt:   r.CompletedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		rateSum += point.SuccessRate
		timeSum += point.ExecutionTime
		history.Points = append(history.Points, point)
	}
	if len(history.Points) > 0 {
		history.AvgSuccessRate = rateSum / float64(len(history.Points))
		history.AvgExecutionTime = timeSum / float64(len(history.Points))
	}
	history.Trend = trendOf(history.Points)
	return history
}

/* trendOf averages the most recent success rates into a verdict */
func trendOf(points []HistoryPoint) string {
	if len(points) == 0 {
		return "Unknown"
	}

	window := points
	if len(window) > TrendWindow {
		window = window[:TrendWindow]
	}

	var sum float64
	for _, p := range window {
		sum += p.SuccessRate
	}
	mean := sum / float64(len(window))

	switch {
	case mean > 80:
		return "Stable"
	case mean > 60:
		return "Declining"
	default:
		return "Critical"
	}
}

/* Build assembles the full report for one result.
 *
 * history may be nil when the caller did not fetch prior runs. A
 * malformed run log or suggestion blob never fails the report: the
 * affected sections degrade to empty and the summary, screenshots,
 * and history are still produced. */
func Build(result *db.TestResult, history []db.TestResult, screenshots []db.Screenshot) *Report {
	runLog, err := flow.DecodeRunLog([]byte(result.RunLog))
	if err != nil {
		runLog = flow.NewRunLog(result.RunID, result.FlowID.String())
	}

	suggestions := []suggest.Suggestion{}
	if len(result.Suggestions) > 0 {
		if err := decodeJSON([]byte(result.Suggestions), &suggestions); err != nil {
			suggestions = []suggest.Suggestion{}
		}
	}

	rep := &Report{
		Summary:     BuildSummary(result),
		Steps:       BuildStepDetails(runLog),
		Failures:    BuildFailureAnalysis(runLog),
		Suggestions: suggestions,
		Screenshots: screenshots,
	}
	if history != nil {
		rep.History = BuildHistory(history)
	}
	return rep
}
