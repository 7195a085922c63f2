package game

import (
	"castlight/internal/config"
	"castlight/internal/scene"
	"castlight/internal/texture"
	"castlight/internal/world"
	"math"
	"testing"
)

func testMap() *world.MapData {
	tiles := map[world.Cell]world.MaterialID{}
	for i := 0; i < 10; i++ {
		tiles[world.Cell{Col: i, Row: 0}] = 1
		tiles[world.Cell{Col: i, Row: 9}] = 1
		tiles[world.Cell{Col: 0, Row: i}] = 2
		tiles[world.Cell{Col: 9, Row: i}] = 2
	}
	return &world.MapData{
		Grid:         world.NewGrid(tiles),
		Start:        &world.Cell{Col: 2, Row: 4},
		ChaserSpawns: []world.Cell{{Col: 7, Row: 4}},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Graphics.ParallelRaycast = false
	return cfg
}

func TestNewSessionPlacesPlayerAndChasers(t *testing.T) {
	s, err := NewSession(testConfig(), testMap(), texture.NewStore())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if s.player.Entity.X != 2.5 || s.player.Entity.Z != 4.5 {
		t.Errorf("player at (%v, %v), want map start (2.5, 4.5)", s.player.Entity.X, s.player.Entity.Z)
	}
	if s.camera.X != 2.5 || s.camera.Z != 4.5 {
		t.Error("camera does not start on the player")
	}
	if math.Abs(s.camera.FOV-math.Pi/2) > 1e-12 || s.camera.RayCount != 480 {
		t.Errorf("camera = %+v", s.camera)
	}
	if len(s.chasers) != 1 || s.chasers[0].Entity.X != 7.5 {
		t.Fatalf("chasers = %+v", s.chasers)
	}
	if s.GetWorkerCount() != 0 {
		t.Error("sequential config started workers")
	}
}

func TestNewSessionErrors(t *testing.T) {
	if _, err := NewSession(testConfig(), nil, nil); err == nil {
		t.Error("missing map accepted")
	}

	cfg := testConfig()
	cfg.Graphics.Shading = "sepia"
	if _, err := NewSession(cfg, testMap(), nil); err == nil {
		t.Error("unknown shading accepted")
	}
}

func TestStepMovesPlayerCameraAndChaser(t *testing.T) {
	s, err := NewSession(testConfig(), testMap(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	chaser := s.chasers[0].Entity
	before := chaser.DistanceTo(s.player.Entity.X, s.player.Entity.Z)

	for i := 0; i < 30; i++ {
		s.step(1.0/60, scene.Intent{Forward: true})
	}

	if s.player.Entity.X <= 2.5 {
		t.Errorf("player did not move forward: x = %v", s.player.Entity.X)
	}
	if s.camera.X != s.player.Entity.X || s.camera.Z != s.player.Entity.Z || s.camera.Rotation != s.player.Entity.Rotation {
		t.Error("camera does not follow the player")
	}
	if after := chaser.DistanceTo(s.player.Entity.X, s.player.Entity.Z); after >= before {
		t.Errorf("chaser distance %v -> %v", before, after)
	}
	if s.ticks != 30 {
		t.Errorf("ticks = %d", s.ticks)
	}
}

func TestPlayerStaysOutOfWalls(t *testing.T) {
	s, err := NewSession(testConfig(), testMap(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	grid := s.grids.Load()
	for i := 0; i < 600; i++ {
		s.step(1.0/60, scene.Intent{Forward: true, TurnLeft: i%120 < 20})
		if grid.Solid(s.player.Entity.X, s.player.Entity.Z) {
			t.Fatalf("player entered a wall at tick %d: (%v, %v)", i, s.player.Entity.X, s.player.Entity.Z)
		}
	}
}

func TestEntitiesAndMinimapToggle(t *testing.T) {
	s, err := NewSession(testConfig(), testMap(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	entities := s.entities()
	if len(entities) != 2 || entities[1].Space != scene.ScreenSpace {
		t.Fatalf("entities = %+v", entities)
	}

	s.showMinimap = false
	if len(s.entities()) != 1 {
		t.Error("hidden minimap still drawn")
	}
}

func TestLayoutAndSwapGrid(t *testing.T) {
	cfg := testConfig()
	cfg.Display.Resizable = false
	s, err := NewSession(cfg, testMap(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if w, h := s.Layout(1920, 1080); w != 960 || h != 600 {
		t.Errorf("fixed layout = %dx%d", w, h)
	}
	s.cfg.Display.Resizable = true
	if w, h := s.Layout(1920, 1080); w != 1920 || h != 1080 {
		t.Errorf("resizable layout = %dx%d", w, h)
	}

	next := world.NewGrid(map[world.Cell]world.MaterialID{{Col: 0, Row: 0}: 3})
	prev := s.SwapGrid(next)
	if prev == nil || prev.Len() != 36 {
		t.Errorf("previous grid = %v", prev)
	}
	if s.grids.Load() != next || s.minimap.Grid() != next {
		t.Error("swap not visible to the session")
	}
}
