package threading

import (
	"castlight/internal/threading/core"
	"castlight/internal/threading/monitoring"
	"time"

	"github.com/sirupsen/logrus"
)

// ThreadingComponents holds the worker pool and the performance monitor
// shared by the frame pipeline.
type ThreadingComponents struct {
	// Pool is nil when parallel casting is disabled.
	Pool               *core.WorkerPool
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates and starts the threading components.
// workers <= 0 uses one worker per CPU.
func NewThreadingComponents(parallel bool, workers int) *ThreadingComponents {
	tc := &ThreadingComponents{PerformanceMonitor: monitoring.NewPerformanceMonitor()}
	if parallel {
		tc.Pool = core.NewWorkerPool(workers)
		tc.Pool.Start()
	}
	return tc
}

// Shutdown stops the worker pool and clears the counters
func (tc *ThreadingComponents) Shutdown() {
	if tc.Pool != nil {
		tc.Pool.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetDetailedPerformanceStats returns detailed performance statistics
func (tc *ThreadingComponents) GetDetailedPerformanceStats() logrus.Fields {
	if tc.PerformanceMonitor == nil {
		return logrus.Fields{}
	}
	stats := tc.PerformanceMonitor.GetDetailedStats()
	workers := 0
	if tc.Pool != nil {
		workers = tc.Pool.NumWorkers()
	}
	stats["workers"] = workers
	return stats
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *ThreadingComponents) CheckPerformanceAlerts(minFPS float64, raycastBudget time.Duration) []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor == nil {
		return nil
	}
	return tc.PerformanceMonitor.CheckPerformanceAlerts(minFPS, raycastBudget)
}
