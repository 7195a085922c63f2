package monitoring

import (
	"sync"
	"testing"
	"time"
)

func TestNewPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor()

	if pm == nil {
		t.Fatal("NewPerformanceMonitor returned nil")
	}
	if !pm.enableDetailed {
		t.Error("Expected enableDetailed to be true")
	}
	if time.Since(pm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestPerformanceMonitorFrameTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	frameTimer := pm.StartFrame()
	time.Sleep(10 * time.Millisecond)
	frameTimer.EndFrame()

	if pm.frameCount.Load() != 1 {
		t.Errorf("Expected frame count to be 1, got %d", pm.frameCount.Load())
	}
	minExpected := uint64(10 * time.Millisecond)
	if ft := pm.frameTime.Load(); ft < minExpected {
		t.Errorf("Expected frame time to be at least %d ns, got %d ns", minExpected, ft)
	}

	metrics := pm.GetCurrentMetrics()
	if metrics.FramesPerSecond <= 0 || metrics.FramesPerSecond > 100 {
		t.Errorf("Unexpected FPS %v for a 10ms frame", metrics.FramesPerSecond)
	}
	if metrics.AverageFrame < 10*time.Millisecond {
		t.Errorf("Average frame %v should be seeded by the first sample", metrics.AverageFrame)
	}
}

func TestPhaseTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	timer := pm.StartPhase(PhaseRaycast)
	time.Sleep(2 * time.Millisecond)
	if d := timer.End(); d < 2*time.Millisecond {
		t.Errorf("End returned %v", d)
	}

	d := pm.ProfiledFunction(PhaseCompose, func() { time.Sleep(time.Millisecond) })
	if d < time.Millisecond {
		t.Errorf("ProfiledFunction returned %v", d)
	}

	phases := pm.GetCurrentMetrics().Phases
	if phases[PhaseRaycast] < 2*time.Millisecond {
		t.Errorf("raycast phase = %v", phases[PhaseRaycast])
	}
	if phases[PhaseCompose] < time.Millisecond {
		t.Errorf("compose phase = %v", phases[PhaseCompose])
	}
	if phases[PhaseComposite] != 0 {
		t.Errorf("untimed phase = %v, want 0", phases[PhaseComposite])
	}

	// Out of range phases are ignored.
	pm.ProfiledFunction(Phase(42), func() {})
	if Phase(42).String() != "phase(42)" {
		t.Errorf("unexpected name %q", Phase(42).String())
	}
}

func TestNilTimersAreSafe(t *testing.T) {
	var pm *PerformanceMonitor
	pm.StartPhase(PhaseProject).End()

	var ft *FrameTimer
	ft.EndFrame()
}

func TestWorkloadCounters(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.RecordRays(100, 75)
	pm.RecordRays(100, 25)
	pm.RecordTasks(40)
	pm.RecordTasks(12)
	pm.SetTextureCount(3)

	m := pm.GetCurrentMetrics()
	if m.HitRatio != 0.5 {
		t.Errorf("hit ratio = %v, want 0.5", m.HitRatio)
	}
	if m.LastTasks != 12 {
		t.Errorf("last tasks = %d, want 12", m.LastTasks)
	}
	if m.Textures != 3 {
		t.Errorf("textures = %d, want 3", m.Textures)
	}

	stats := pm.GetDetailedStats()
	for _, key := range []string{"rays_cast", "tasks_drawn", "avg_raycast_ms", "avg_composite_ms", "goroutines"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("detailed stats missing %q", key)
		}
	}
	if stats["tasks_drawn"] != uint64(52) {
		t.Errorf("tasks_drawn = %v, want 52", stats["tasks_drawn"])
	}
}

func TestPerformanceMonitorConcurrency(t *testing.T) {
	pm := NewPerformanceMonitor()
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				frameTimer := pm.StartFrame()
				pm.ProfiledFunction(PhaseRaycast, func() {})
				pm.RecordRays(10, 5)
				frameTimer.EndFrame()
			}
		}()
	}
	wg.Wait()

	if got := pm.frameCount.Load(); got != 100 {
		t.Errorf("Expected 100 frames, got %d", got)
	}
	if got := pm.raysCast.Load(); got != 1000 {
		t.Errorf("Expected 1000 rays, got %d", got)
	}
}

func TestCheckPerformanceAlerts(t *testing.T) {
	pm := NewPerformanceMonitor()
	if alerts := pm.CheckPerformanceAlerts(30, 5*time.Millisecond); len(alerts) != 0 {
		t.Fatalf("fresh monitor raised %v", alerts)
	}

	pm.frameTime.Store(uint64(50 * time.Millisecond))
	pm.phaseTime[PhaseRaycast].Store(uint64(8 * time.Millisecond))

	alerts := pm.CheckPerformanceAlerts(30, 5*time.Millisecond)
	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Type != "low_fps" || alerts[0].Value != 20 {
		t.Errorf("unexpected fps alert %+v", alerts[0])
	}
	if alerts[1].Type != "slow_raycast" {
		t.Errorf("unexpected raycast alert %+v", alerts[1])
	}
}

func TestReset(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.StartFrame().EndFrame()
	pm.ProfiledFunction(PhaseProject, func() {})
	pm.RecordTasks(5)

	pm.Reset()

	m := pm.GetCurrentMetrics()
	if m.Frames != 0 || m.LastTasks != 0 || m.Phases[PhaseProject] != 0 || m.AverageFrame != 0 {
		t.Errorf("metrics not cleared: %+v", m)
	}
}
