package monitoring

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Phase names a timed stage of the frame pipeline.
type Phase int

const (
	PhaseUpdate Phase = iota
	PhaseRaycast
	PhaseCompose
	PhaseProject
	PhaseComposite
	phaseCount
)

var phaseNames = [phaseCount]string{"update", "raycast", "compose", "project", "composite"}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// smoothing is the weight of the newest sample in the running averages.
const smoothing = 0.1

// PerformanceMonitor tracks frame and per-phase timings. Counters are atomic
// so workers may report without taking the lock.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Last duration of each phase, nanoseconds
	phaseTime [phaseCount]atomic.Uint64

	// Per-frame workload
	raysCast    atomic.Uint64
	raysHit     atomic.Uint64
	tasksDrawn  atomic.Uint64
	lastTasks   atomic.Uint64
	texturesSet atomic.Int32

	mutex        sync.RWMutex
	avgFrameTime float64
	avgPhaseTime [phaseCount]float64
	startTime    time.Time

	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
	}
}

// FrameTimer measures one frame
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: pm, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	if ft == nil || ft.monitor == nil {
		return
	}
	pm := ft.monitor
	elapsed := uint64(time.Since(ft.startTime).Nanoseconds())
	pm.frameTime.Store(elapsed)
	count := pm.frameCount.Add(1)

	pm.mutex.Lock()
	if pm.enableDetailed {
		pm.avgFrameTime = average(pm.avgFrameTime, float64(elapsed), count)
	}
	pm.mutex.Unlock()
}

// PhaseTimer measures one phase of a frame
type PhaseTimer struct {
	monitor   *PerformanceMonitor
	phase     Phase
	startTime time.Time
}

// StartPhase begins timing phase
func (pm *PerformanceMonitor) StartPhase(phase Phase) *PhaseTimer {
	return &PhaseTimer{monitor: pm, phase: phase, startTime: time.Now()}
}

// End records the elapsed time of the phase and returns it.
func (pt *PhaseTimer) End() time.Duration {
	d := time.Since(pt.startTime)
	if pt.monitor != nil {
		pt.monitor.record(pt.phase, d)
	}
	return d
}

func (pm *PerformanceMonitor) record(phase Phase, d time.Duration) {
	if pm == nil || phase < 0 || phase >= phaseCount {
		return
	}
	ns := uint64(d.Nanoseconds())
	pm.phaseTime[phase].Store(ns)

	pm.mutex.Lock()
	if pm.enableDetailed {
		pm.avgPhaseTime[phase] = average(pm.avgPhaseTime[phase], float64(ns), pm.frameCount.Load()+1)
	}
	pm.mutex.Unlock()
}

// ProfiledFunction runs fn and records its duration under phase.
func (pm *PerformanceMonitor) ProfiledFunction(phase Phase, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	pm.record(phase, d)
	return d
}

// RecordRays accounts for a cast of total rays of which hits struck a wall.
func (pm *PerformanceMonitor) RecordRays(total, hits int) {
	pm.raysCast.Add(uint64(total))
	pm.raysHit.Add(uint64(hits))
}

// RecordTasks accounts for the draw tasks painted in a frame.
func (pm *PerformanceMonitor) RecordTasks(n int) {
	pm.tasksDrawn.Add(uint64(n))
	pm.lastTasks.Store(uint64(n))
}

// SetTextureCount stores the size of the texture snapshot used by the frame.
func (pm *PerformanceMonitor) SetTextureCount(n int) {
	pm.texturesSet.Store(int32(n))
}

// FrameMetrics is a point-in-time view of the monitor.
type FrameMetrics struct {
	Frames          uint64
	FramesPerSecond float64
	LastFrame       time.Duration
	AverageFrame    time.Duration
	Phases          map[Phase]time.Duration
	LastTasks       uint64
	HitRatio        float64
	Textures        int32
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	phases := make(map[Phase]time.Duration, phaseCount)
	for p := Phase(0); p < phaseCount; p++ {
		phases[p] = time.Duration(pm.phaseTime[p].Load())
	}

	hitRatio := 0.0
	if cast := pm.raysCast.Load(); cast > 0 {
		hitRatio = float64(pm.raysHit.Load()) / float64(cast)
	}

	return FrameMetrics{
		Frames:          pm.frameCount.Load(),
		FramesPerSecond: fps,
		LastFrame:       time.Duration(frameTime),
		AverageFrame:    time.Duration(pm.avgFrameTime),
		Phases:          phases,
		LastTasks:       pm.lastTasks.Load(),
		HitRatio:        hitRatio,
		Textures:        pm.texturesSet.Load(),
	}
}

// GetDetailedStats returns detailed performance statistics, ready to be
// attached to a log entry.
func (pm *PerformanceMonitor) GetDetailedStats() logrus.Fields {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = float64(time.Second) / float64(ft)
	}

	stats := logrus.Fields{
		"uptime_seconds":    time.Since(pm.startTime).Seconds(),
		"frame_count":       pm.frameCount.Load(),
		"avg_frame_time_ms": pm.avgFrameTime / 1e6,
		"current_fps":       fps,
		"rays_cast":         pm.raysCast.Load(),
		"rays_hit":          pm.raysHit.Load(),
		"tasks_drawn":       pm.tasksDrawn.Load(),
		"textures":          pm.texturesSet.Load(),
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"goroutines":        runtime.NumGoroutine(),
	}
	for p := Phase(0); p < phaseCount; p++ {
		stats["avg_"+p.String()+"_ms"] = pm.avgPhaseTime[p] / 1e6
	}
	return stats
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts reports a frame rate below minFPS and a raycast
// phase taking more than budget.
func (pm *PerformanceMonitor) CheckPerformanceAlerts(minFPS float64, budget time.Duration) []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < minFPS {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   fmt.Sprintf("Frame rate is below %.0f FPS", minFPS),
				Value:     fps,
				Threshold: minFPS,
				Timestamp: now,
			})
		}
	}

	if raycast := time.Duration(pm.phaseTime[PhaseRaycast].Load()); budget > 0 && raycast > budget {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_raycast",
			Message:   fmt.Sprintf("Raycast phase took longer than %s", budget),
			Value:     float64(raycast.Milliseconds()),
			Threshold: float64(budget.Milliseconds()),
			Timestamp: now,
		})
	}

	return alerts
}

// EnableDetailedLogging enables/disables running averages
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	for p := range pm.phaseTime {
		pm.phaseTime[p].Store(0)
	}
	pm.raysCast.Store(0)
	pm.raysHit.Store(0)
	pm.tasksDrawn.Store(0)
	pm.lastTasks.Store(0)
	pm.texturesSet.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgPhaseTime = [phaseCount]float64{}
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}

// average folds sample into an exponential moving average. The first sample
// seeds the average.
func average(avg, sample float64, count uint64) float64 {
	if count <= 1 || avg == 0 {
		return sample
	}
	return avg + smoothing*(sample-avg)
}
