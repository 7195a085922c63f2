package threading

import (
	"testing"
	"time"
)

func TestNewThreadingComponents(t *testing.T) {
	seq := NewThreadingComponents(false, 4)
	defer seq.Shutdown()
	if seq.Pool != nil {
		t.Error("sequential components should have no pool")
	}
	if seq.GetDetailedPerformanceStats()["workers"] != 0 {
		t.Error("sequential components report workers")
	}

	par := NewThreadingComponents(true, 3)
	defer par.Shutdown()
	if par.Pool == nil || par.Pool.NumWorkers() != 3 {
		t.Fatalf("pool = %+v", par.Pool)
	}

	sum := make([]int, 10)
	par.Pool.ParallelFor(0, 10, func(i int) { sum[i] = i })
	if sum[9] != 9 {
		t.Error("pool did not run work")
	}

	if alerts := par.CheckPerformanceAlerts(30, time.Millisecond); len(alerts) != 0 {
		t.Errorf("fresh components raised %v", alerts)
	}
}
