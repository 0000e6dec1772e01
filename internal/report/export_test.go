/*-------------------------------------------------------------------------
 *
 * export_test.go
 *    Unit tests for result exports
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/report/export_test.go
 *
 *-------------------------------------------------------------------------
 */

package report

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/neurondb/NeuronFlow/internal/db"
)

func exportFixture() []db.TestResult {
	errMsg := "HTTP error 500"
	return []db.TestResult{
		{
			ID:            uuid.New(),
			FlowID:        uuid.New(),
			RunID:         "run_1700000000_aaaa",
			Status:        "passed",
			StepsExecuted: 3,
			StepsPassed:   3,
			ExecutionTime: 2.5,
			StartedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			CompletedAt:   time.Date(2026, 8, 1, 10, 0, 3, 0, time.UTC),
		},
		{
			ID:            uuid.New(),
			FlowID:        uuid.New(),
			RunID:         "run_1700000100_bbbb",
			Status:        "failed",
			StepsExecuted: 2,
			StepsFailed:   2,
			ErrorMessage:  &errMsg,
			ExecutionTime: 8.1,
			StartedAt:     time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
			CompletedAt:   time.Date(2026, 8, 1, 11, 0, 8, 0, time.UTC),
		},
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(exportFixture())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0]["status"] != "passed" {
		t.Errorf("first status = %v", records[0]["status"])
	}
	if records[1]["error_message"] != "HTTP error 500" {
		t.Errorf("second error = %v", records[1]["error_message"])
	}
	if records[0]["success_rate"] != float64(100) {
		t.Errorf("success rate = %v, want 100", records[0]["success_rate"])
	}
}

func TestExportJSON_Empty(t *testing.T) {
	data, err := ExportJSON(nil)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %q, want []", string(data))
	}
}

func TestExportCSV(t *testing.T) {
	data, err := ExportCSV(exportFixture())
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	header := rows[0]
	if len(header) != len(exportColumns) {
		t.Fatalf("header columns = %d, want %d", len(header), len(exportColumns))
	}
	for i, col := range exportColumns {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}

	// Row values line up with the header.
	statusIdx := indexOf(header, "status")
	if rows[1][statusIdx] != "passed" || rows[2][statusIdx] != "failed" {
		t.Errorf("status column = %q, %q", rows[1][statusIdx], rows[2][statusIdx])
	}
}

func TestExportCSV_EmptyHasNoHeader(t *testing.T) {
	data, err := ExportCSV(nil)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("empty export = %q, want no output", string(data))
	}
}

func TestExportHTML(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	data, err := ExportHTML(exportFixture(), now)
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}

	html := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"run_1700000000_aaaa",
		"run_1700000100_bbbb",
		"HTTP error 500",
		"2 results",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML export missing %q", want)
		}
	}
}

func TestExportHTML_EscapesContent(t *testing.T) {
	errMsg := `<script>alert("x")</script>`
	results := []db.TestResult{{
		ID:           uuid.New(),
		FlowID:       uuid.New(),
		RunID:        "run_esc",
		Status:       "failed",
		ErrorMessage: &errMsg,
	}}

	data, err := ExportHTML(results, time.Now())
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	if strings.Contains(string(data), "<script>alert") {
		t.Error("HTML export must escape error messages")
	}
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
