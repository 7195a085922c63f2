package raycast

import (
	"castlight/internal/threading/core"
	"castlight/internal/world"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

// boxRoom returns a grid with walls on the border of a size x size square.
func boxRoom(size int) *world.Grid {
	tiles := make(map[world.Cell]world.MaterialID)
	for i := 0; i < size; i++ {
		tiles[world.Cell{Col: i, Row: 0}] = 1
		tiles[world.Cell{Col: i, Row: size - 1}] = 2
		tiles[world.Cell{Col: 0, Row: i}] = 3
		tiles[world.Cell{Col: size - 1, Row: i}] = 4
	}
	return world.NewGrid(tiles)
}

func TestCastRaysCountAndOrdering(t *testing.T) {
	grid := boxRoom(8)
	poses := []struct {
		origin Point
		facing float64
		fov    float64
		count  int
	}{
		{Point{4, 4}, 0, math.Pi / 2, 4},
		{Point{2.3, 5.9}, 1.7, math.Pi / 3, 1},
		{Point{6.5, 1.5}, -2.9, math.Pi / 2, 320},
		{Point{1.01, 1.01}, math.Pi, 1.2, 77},
	}

	for _, p := range poses {
		rays := CastRays(p.origin, p.facing, p.fov, p.count, 32, grid)
		if len(rays) != p.count {
			t.Fatalf("got %d rays, want %d", len(rays), p.count)
		}
		if math.Abs(rays[0].Angle-(p.facing-p.fov/2)) > eps {
			t.Errorf("first angle %v, want %v", rays[0].Angle, p.facing-p.fov/2)
		}
		for i := 1; i < len(rays); i++ {
			if rays[i].Angle <= rays[i-1].Angle {
				t.Fatalf("angles not strictly increasing at %d", i)
			}
		}
		if last := rays[len(rays)-1].Angle; last >= p.facing+p.fov/2 {
			t.Errorf("last angle %v reaches facing+fov/2", last)
		}
	}

	if rays := CastRays(Point{4, 4}, 0, 1, 0, 32, grid); len(rays) != 0 {
		t.Errorf("zero ray count should return no rays, got %d", len(rays))
	}
}

func TestAxisAlignedRayHitsAtIntegerDistance(t *testing.T) {
	wallCol := func(col int) *world.Grid {
		tiles := map[world.Cell]world.MaterialID{}
		for row := -10; row <= 10; row++ {
			tiles[world.Cell{Col: col, Row: row}] = 7
		}
		return world.NewGrid(tiles)
	}
	wallRow := func(row int) *world.Grid {
		tiles := map[world.Cell]world.MaterialID{}
		for col := -10; col <= 10; col++ {
			tiles[world.Cell{Col: col, Row: row}] = 7
		}
		return world.NewGrid(tiles)
	}

	testCases := []struct {
		name     string
		grid     *world.Grid
		origin   Point
		angle    float64
		distance float64
		face     Face
	}{
		{"east", wallCol(5), Point{2, 2.5}, 0, 3, East},
		{"west", wallCol(0), Point{4, 2.5}, math.Pi, 3, West},
		{"south", wallRow(6), Point{2.5, 2}, math.Pi / 2, 4, South},
		{"north", wallRow(1), Point{2.5, 5}, -math.Pi / 2, 3, North},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ray := CastRay(tc.origin, tc.angle, tc.angle, 20, tc.grid)
			if ray.Face != tc.face {
				t.Fatalf("face = %v, want %v", ray.Face, tc.face)
			}
			if math.Abs(ray.Distance-tc.distance) > eps {
				t.Errorf("distance = %v, want %v", ray.Distance, tc.distance)
			}
			if math.Abs(ray.CorrectedDistance-tc.distance) > eps {
				t.Errorf("centre ray corrected distance = %v, want %v", ray.CorrectedDistance, tc.distance)
			}
			if ray.Material != 7 {
				t.Errorf("material = %d", ray.Material)
			}
			if math.Abs(ray.WallU-0.5) > eps {
				t.Errorf("wallU = %v, want 0.5 for a ray through a cell centre", ray.WallU)
			}
		})
	}
}

func TestSingleCellRoomScenario(t *testing.T) {
	// A 1x1 open cell at (1,1) surrounded by walls.
	tiles := map[world.Cell]world.MaterialID{}
	for col := 0; col <= 2; col++ {
		for row := 0; row <= 2; row++ {
			if col == 1 && row == 1 {
				continue
			}
			tiles[world.Cell{Col: col, Row: row}] = 1
		}
	}
	grid := world.NewGrid(tiles)

	rays := CastRays(Point{1.5, 1.5}, 0, math.Pi/2, 4, 10, grid)
	for _, i := range []int{1, 2} {
		if rays[i].Face != East {
			t.Errorf("ray %d face = %v, want east", i, rays[i].Face)
		}
		if math.Abs(rays[i].CorrectedDistance-0.5) > eps {
			t.Errorf("ray %d corrected distance = %v, want 0.5", i, rays[i].CorrectedDistance)
		}
	}
	if math.Abs(rays[2].Distance-0.5) > eps {
		t.Errorf("centre ray distance = %v, want 0.5", rays[2].Distance)
	}
	for i, r := range rays {
		if !r.Hit() {
			t.Errorf("ray %d missed inside a closed room", i)
		}
	}
}

func TestWallUAndFishEyeBounds(t *testing.T) {
	grid := boxRoom(12)
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 200; n++ {
		origin := Point{1 + rng.Float64()*10, 1 + rng.Float64()*10}
		facing := rng.Float64()*4*math.Pi - 2*math.Pi
		for _, r := range CastRays(origin, facing, math.Pi/2, 64, 40, grid) {
			if !r.Hit() {
				t.Fatalf("ray from %v missed inside a closed room", origin)
			}
			if r.WallU < 0 || r.WallU >= 1 {
				t.Fatalf("wallU %v outside [0,1)", r.WallU)
			}
			if r.Distance < 0 || math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0) {
				t.Fatalf("bad distance %v", r.Distance)
			}
			if r.CorrectedDistance > r.Distance+eps {
				t.Fatalf("corrected %v exceeds distance %v", r.CorrectedDistance, r.Distance)
			}
		}
	}
}

func TestMissWithinStepBudget(t *testing.T) {
	tiles := map[world.Cell]world.MaterialID{{Col: 10, Row: 0}: 1}
	grid := world.NewGrid(tiles)

	ray := CastRay(Point{0.5, 0.5}, 0, 0, 5, grid)
	if ray.Hit() || ray.Face != FaceNone {
		t.Fatalf("wall 10 cells away should be out of a 5-step budget, got %v", ray.Face)
	}
	if !math.IsInf(ray.Distance, 1) {
		t.Errorf("miss distance = %v, want +Inf", ray.Distance)
	}

	if hit := CastRay(Point{0.5, 0.5}, 0, 0, 10, grid); !hit.Hit() {
		t.Error("wall should be reachable with 10 steps")
	}
	if r := CastRay(Point{0.5, 0.5}, 0, 0, 0, grid); r.Hit() {
		t.Error("zero step budget must always miss")
	}

	var empty *world.Grid
	for _, r := range CastRays(Point{3, 3}, 0.3, 1, 16, 100, empty) {
		if r.Hit() {
			t.Fatal("empty grid produced a hit")
		}
	}
}

func TestAxisAlignedFromGridLineHasNoNaN(t *testing.T) {
	grid := boxRoom(6)
	for _, angle := range []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2} {
		r := CastRay(Point{3, 3}, angle, angle, 20, grid)
		for _, v := range []float64{r.Distance, r.CorrectedDistance, r.WallU} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("angle %v produced non-finite value %v", angle, v)
			}
		}
	}
}

func sameRays(a, b []Ray) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i].Angle) != math.Float64bits(b[i].Angle) ||
			math.Float64bits(a[i].Distance) != math.Float64bits(b[i].Distance) ||
			math.Float64bits(a[i].CorrectedDistance) != math.Float64bits(b[i].CorrectedDistance) ||
			math.Float64bits(a[i].WallU) != math.Float64bits(b[i].WallU) ||
			a[i].Face != b[i].Face || a[i].Material != b[i].Material {
			return false
		}
	}
	return true
}

func TestCastRaysIsPure(t *testing.T) {
	grid := boxRoom(9)
	first := CastRays(Point{3.3, 4.7}, 0.9, math.Pi/2, 200, 30, grid)
	second := CastRays(Point{3.3, 4.7}, 0.9, math.Pi/2, 200, 30, grid)
	if !sameRays(first, second) {
		t.Error("casting twice with identical inputs gave different rays")
	}
}

func TestParallelCasterMatchesSequential(t *testing.T) {
	pool := core.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	grid := boxRoom(16)
	caster := NewCaster(pool)
	for _, count := range []int{3, 64, 640} {
		want := CastRays(Point{7.2, 8.9}, -1.1, math.Pi/2, count, 40, grid)
		got := caster.Cast(Point{7.2, 8.9}, -1.1, math.Pi/2, count, 40, grid)
		if !sameRays(want, got) {
			t.Errorf("parallel cast of %d rays differs from sequential", count)
		}
	}

	if got := NewCaster(nil).Cast(Point{7, 7}, 0, 1, 10, 40, grid); len(got) != 10 {
		t.Errorf("nil-pool caster returned %d rays", len(got))
	}
}
