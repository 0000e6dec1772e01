/*-------------------------------------------------------------------------
 *
 * export.go
 *    Result export renderers
 *
 * Renders stored test results as JSON, CSV, or a printable HTML page.
 * All renderers work from the same flat record shape so the three
 * formats agree on field names and values.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/report/export.go
 *
 *-------------------------------------------------------------------------
 */

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/neurondb/NeuronFlow/internal/db"
)

/* exportColumns is the stable field order for exports.
 * The CSV header is the key set of the first record, in this order. */
var exportColumns = []string{
	"result_id",
	"flow_id",
	"run_id",
	"status",
	"steps_executed",
	"steps_passed",
	"steps_failed",
	"success_rate",
	"execution_time",
	"error_message",
	"started_at",
	"completed_at",
}

/* resultRecord flattens one result for export */
func resultRecord(r *db.TestResult) map[string]interface{} {
	errMsg := ""
	if r.ErrorMessage != nil {
		errMsg = *r.ErrorMessage
	}
	return map[string]interface{}{
		"result_id":      r.ID.String(),
		"flow_id":        r.FlowID.String(),
		"run_id":         r.RunID,
		"status":         r.Status,
		"steps_executed": r.StepsExecuted,
		"steps_passed":   r.StepsPassed,
		"steps_failed":   r.StepsFailed,
		"success_rate":   SuccessRate(r.StepsPassed, r.StepsExecuted),
		"execution_time": r.ExecutionTime,
		"error_message":  errMsg,
		"started_at":     r.StartedAt.UTC().Format(time.RFC3339),
		"completed_at":   r.CompletedAt.UTC().Format(time.RFC3339),
	}
}

/* ExportJSON renders results as an indented JSON array */
func ExportJSON(results []db.TestResult) ([]byte, error) {
	records := make([]map[string]interface{}, 0, len(results))
	for i := range results {
		records = append(records, resultRecord(&results[i]))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON export: %w", err)
	}
	return data, nil
}

/* ExportCSV renders results as CSV with a header row */
func ExportCSV(results []db.TestResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(results) > 0 {
		if err := w.Write(exportColumns); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		for i := range results {
			record := resultRecord(&results[i])
			row := make([]string, len(exportColumns))
			for j, col := range exportColumns {
				row[j] = fmt.Sprintf("%v", record[col])
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render CSV export: %w", err)
	}
	return buf.Bytes(), nil
}

var htmlExportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Flow Test Results</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 0.9em; }
th { background: #f0f0f0; }
tr.status-passed td.status { color: #46b450; }
tr.status-failed td.status { color: #dc3232; }
tr.status-partial td.status { color: #ffb900; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Flow Test Results</h1>
<p>Generated {{.GeneratedAt}} &middot; {{len .Rows}} results</p>
<table>
<tr><th>Run</th><th>Flow</th><th>Status</th><th>Executed</th><th>Passed</th><th>Failed</th><th>Success rate</th><th>Duration (s)</th><th>Completed</th><th>Error</th></tr>
{{range .Rows}}<tr class="status-{{.Status}}">
<td>{{.RunID}}</td><td>{{.FlowID}}</td><td class="status">{{.Status}}</td>
<td>{{.StepsExecuted}}</td><td>{{.StepsPassed}}</td><td>{{.StepsFailed}}</td>
<td>{{printf "%.1f%%" .SuccessRate}}</td><td>{{printf "%.2f" .ExecutionTime}}</td>
<td>{{.CompletedAt}}</td><td>{{.Error}}</td>
</tr>{{end}}
</table>
</body>
</html>
`))

type htmlRow struct {
	RunID         string
	FlowID        string
	Status        string
	StepsExecuted int
	StepsPassed   int
	StepsFailed   int
	SuccessRate   float64
	ExecutionTime float64
	CompletedAt   string
	Error         string
}

/* ExportHTML renders results as a printable HTML page */
func ExportHTML(results []db.TestResult, now time.Time) ([]byte, error) {
	rows := make([]htmlRow, 0, len(results))
	for i := range results {
		r := &results[i]
		errMsg := ""
		if r.ErrorMessage != nil {
			errMsg = *r.ErrorMessage
		}
		rows = append(rows, htmlRow{
			RunID:         r.RunID,
			FlowID:        r.FlowID.String(),
			Status:        r.Status,
			StepsExecuted: r.StepsExecuted,
			StepsPassed:   r.StepsPassed,
			StepsFailed:   r.StepsFailed,
			SuccessRate:   SuccessRate(r.StepsPassed, r.StepsExecuted),
			ExecutionTime: r.ExecutionTime,
			CompletedAt:   r.CompletedAt.UTC().Format(time.RFC3339),
			Error:         errMsg,
		})
	}

	var buf bytes.Buffer
	err := htmlExportTemplate.Execute(&buf, map[string]interface{}{
		"GeneratedAt": now.UTC().Format(time.RFC3339),
		"Rows":        rows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML export: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
