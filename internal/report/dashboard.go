/*-------------------------------------------------------------------------
 *
 * dashboard.go
 *    Dashboard summary builders
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/report/dashboard.go
 *
 *-------------------------------------------------------------------------
 */

package report

import (
	"fmt"
	"time"

	"github.com/neurondb/NeuronFlow/internal/db"
	"github.com/neurondb/NeuronFlow/internal/suggest"
)

/* CriticalIssue is a recent failure surfaced on the dashboard */
type CriticalIssue struct {
	Title       string    `json:"title"`
	FlowID      string    `json:"flow_id"`
	FlowName    string    `json:"flow_name"`
	ErrorType   string    `json:"error_type"`
	Priority    string    `json:"priority"`
	CompletedAt time.Time `json:"completed_at"`
}

/* FlowHealth is the 7-day health grade for one flow */
type FlowHealth struct {
	FlowID      string  `json:"flow_id"`
	FlowName    string  `json:"flow_name"`
	FlowType    string  `json:"flow_type"`
	RunCount    int     `json:"run_count"`
	PassedCount int     `json:"passed_count"`
	SuccessRate float64 `json:"success_rate"`
	Health      string  `json:"health"`
}

/* DashboardSummary is the aggregate view across all flows */
type DashboardSummary struct {
	TotalFlows         int             `json:"total_flows"`
	TotalResults       int             `json:"total_results"`
	TotalPassed        int             `json:"total_passed"`
	TotalFailed        int             `json:"total_failed"`
	TotalPartial       int             `json:"total_partial"`
	OverallSuccessRate float64         `json:"overall_success_rate"`
	CriticalIssues     []CriticalIssue `json:"critical_issues"`
	FlowHealth         []FlowHealth    `json:"flow_health"`
}

/* Health grade thresholds (percent of passing runs over 7 days) */
const (
	HealthExcellentMin = 90
	HealthGoodMin      = 75
	HealthFairMin      = 50
)

/* BuildDashboard assembles the dashboard summary from aggregate rows */
func BuildDashboard(counts *db.ResultCounts, issues []db.CriticalIssueRow, health []db.FlowHealthRow) *DashboardSummary {
	summary := &DashboardSummary{
		CriticalIssues: []CriticalIssue{},
		FlowHealth:     []FlowHealth{},
	}
	if counts != nil {
		summary.TotalFlows = counts.TotalFlows
		summary.TotalResults = counts.TotalResults
		summary.TotalPassed = counts.TotalPassed
		summary.TotalFailed = counts.TotalFailed
		summary.TotalPartial = counts.TotalPartial
		summary.OverallSuccessRate = SuccessRate(counts.TotalPassed, counts.TotalResults)
	}

	for _, row := range issues {
		summary.CriticalIssues = append(summary.CriticalIssues, buildCriticalIssue(row))
	}
	for _, row := range health {
		summary.FlowHealth = append(summary.FlowHealth, buildFlowHealth(row))
	}
	return summary
}

/* buildCriticalIssue synthesizes a readable title for a failed run */
func buildCriticalIssue(row db.CriticalIssueRow) CriticalIssue {
	errMsg := ""
	if row.ErrorMessage != nil {
		errMsg = *row.ErrorMessage
	}
	errType, priority := suggest.ClassifyError(errMsg)

	return CriticalIssue{
		Title:       fmt.Sprintf("%s in %s", issueHeadline(errType), row.FlowName),
		FlowID:      row.FlowID.String(),
		FlowName:    row.FlowName,
		ErrorType:   errType,
		Priority:    priority,
		CompletedAt: row.CompletedAt,
	}
}

func issueHeadline(errType string) string {
	switch errType {
	case suggest.TypeTimeout:
		return "Timeout"
	case suggest.TypeElementMissing:
		return "Missing element"
	case suggest.TypeHTTPError:
		return "HTTP error"
	default:
		return "Flow failure"
	}
}

/* buildFlowHealth grades a flow's 7-day run record */
func buildFlowHealth(row db.FlowHealthRow) FlowHealth {
	health := FlowHealth{
		FlowID:      row.FlowID.String(),
		FlowName:    row.FlowName,
		FlowType:    row.FlowType,
		RunCount:    row.RunCount,
		PassedCount: row.PassedCount,
	}

	if row.RunCount == 0 {
		health.Health = "Unknown"
		return health
	}

	health.SuccessRate = SuccessRate(row.PassedCount, row.RunCount)
	switch {
	case health.SuccessRate >= HealthExcellentMin:
		health.Health = "Excellent"
	case health.SuccessRate >= HealthGoodMin:
		health.Health = "Good"
	case health.SuccessRate >= HealthFairMin:
		health.Health = "Fair"
	default:
		health.Health = "Poor"
	}
	return health
}
