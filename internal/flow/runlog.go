/*-------------------------------------------------------------------------
 *
 * runlog.go
 *    Structured per-run execution log
 *
 * The run log is the durable record a report is rebuilt from: step
 * boundaries are marked by "Executing step N" entries, and later
 * analysis keys off those anchors. The document is versioned so stored
 * logs survive format evolution.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/flow/runlog.go
 *
 *-------------------------------------------------------------------------
 */

package flow

import (
	"encoding/json"
	"fmt"
	"time"
)

/* LogLevel classifies a run log entry */
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

/* RunLogVersion is the current run log document version */
const RunLogVersion = 1

/* LogEntry is one event in a run log */
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

/* RunLog is the ordered event record of one flow run */
type RunLog struct {
	Version int        `json:"version"`
	RunID   string     `json:"run_id"`
	FlowID  string     `json:"flow_id"`
	Entries []LogEntry `json:"entries"`
}

/* NewRunLog creates an empty run log */
func NewRunLog(runID, flowID string) *RunLog {
	return &RunLog{
		Version: RunLogVersion,
		RunID:   runID,
		FlowID:  flowID,
		Entries: []LogEntry{},
	}
}

func (l *RunLog) add(level LogLevel, message string, data map[string]interface{}) {
	l.Entries = append(l.Entries, LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Data:      data,
	})
}

/* Info appends an info entry */
func (l *RunLog) Info(message string, data map[string]interface{}) {
	l.add(LogInfo, message, data)
}

/* Success appends a success entry for a completed step */
func (l *RunLog) Success(message string, data map[string]interface{}) {
	l.add(LogSuccess, message, data)
}

/* Warning appends a warning entry */
func (l *RunLog) Warning(message string, data map[string]interface{}) {
	l.add(LogWarning, message, data)
}

/* Error appends an error entry */
func (l *RunLog) Error(message string, data map[string]interface{}) {
	l.add(LogError, message, data)
}

/* StepAnchor appends the step boundary entry reports segment on */
func (l *RunLog) StepAnchor(stepNumber int, step *Step) {
	l.Info(fmt.Sprintf("Executing step %d", stepNumber), map[string]interface{}{
		"action": string(step.Action),
		"label":  step.Label(),
	})
}

/* Encode serializes the run log for storage */
func (l *RunLog) Encode() ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run log: %w", err)
	}
	return data, nil
}

/* DecodeRunLog parses a stored run log */
func DecodeRunLog(data []byte) (*RunLog, error) {
	if len(data) == 0 {
		return NewRunLog("", ""), nil
	}
	var l RunLog
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to decode run log: %w", err)
	}
	if l.Entries == nil {
		l.Entries = []LogEntry{}
	}
	return &l, nil
}
