/*-------------------------------------------------------------------------
 *
 * system.go
 *    System resource snapshot for the dashboard summary
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/metrics/system.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

/* SystemSnapshot represents current host resource usage */
type SystemSnapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	CPUUsagePercent float64   `json:"cpu_usage_percent"`
	CPUCount        int       `json:"cpu_count"`
	MemoryTotal     uint64    `json:"memory_total"`
	MemoryUsed      uint64    `json:"memory_used"`
	MemoryPercent   float64   `json:"memory_percent"`
	GoRoutines      int       `json:"go_routines"`
	HeapAlloc       uint64    `json:"heap_alloc"`
}

/* CollectSystemSnapshot collects a point-in-time host resource snapshot.
 * Collection failures degrade to zero values rather than failing the
 * caller; the snapshot is informational only. */
func CollectSystemSnapshot(ctx context.Context) *SystemSnapshot {
	snap := &SystemSnapshot{
		Timestamp:  time.Now(),
		GoRoutines: runtime.NumGoroutine(),
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	snap.HeapAlloc = memStats.HeapAlloc

	if counts, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.CPUCount = counts
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		snap.CPUUsagePercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemoryTotal = vm.Total
		snap.MemoryUsed = vm.Used
		snap.MemoryPercent = vm.UsedPercent
	}

	return snap
}
