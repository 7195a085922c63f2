// Package game runs the interactive session: input, entity updates and a
// rendered frame per ebiten tick.
package game

import (
	"castlight/internal/config"
	"castlight/internal/game/keytracker"
	"castlight/internal/graphics"
	"castlight/internal/logger"
	"castlight/internal/render"
	"castlight/internal/scene"
	"castlight/internal/texture"
	"castlight/internal/threading"
	"castlight/internal/threading/monitoring"
	"castlight/internal/world"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/sirupsen/logrus"
)

// statsInterval is how many ticks pass between performance log lines.
const statsInterval = 300

var chaserColor = color.RGBA{30, 144, 255, 255}

// Session implements ebiten.Game.
type Session struct {
	cfg      *config.Config
	grids    *world.GridStore
	textures *texture.Store

	player  *scene.Player
	camera  *scene.Camera
	chasers []*scene.Chaser
	minimap *scene.Minimap

	renderer  *render.Renderer
	surface   *graphics.EbitenSurface
	threading *threading.ThreadingComponents
	keys      *keytracker.Tracker

	showMinimap bool
	showStats   bool
	ticks       uint64
	lastFrame   render.FrameStats
	log         *logrus.Entry
}

// NewSession builds a session for the loaded map. Textures may still be
// arriving in store; frames use whatever has been published so far.
func NewSession(cfg *config.Config, data *world.MapData, store *texture.Store) (*Session, error) {
	if data == nil || data.Grid == nil {
		return nil, errors.New("new session: no map")
	}
	shading, err := render.ShadingByName(cfg.Graphics.Shading, cfg.Graphics.FogConstant, cfg.Graphics.LinearRange)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	if store == nil {
		store = texture.NewStore()
	}

	tc := threading.NewThreadingComponents(cfg.Graphics.ParallelRaycast, cfg.Graphics.Workers)
	s := &Session{
		cfg:       cfg,
		grids:     world.NewGridStore(data.Grid),
		textures:  store,
		threading: tc,
		keys:      keytracker.New(),
		renderer: render.NewRenderer(render.Options{
			Shading: shading,
			Epsilon: cfg.GetEpsilon(),
			Ceiling: cfg.GetCeilingColor(),
			Floor:   cfg.GetFloorColor(),
			Pool:    tc.Pool,
			Monitor: tc.PerformanceMonitor,
		}),
		showMinimap: cfg.Minimap.Enabled,
		log:         logger.Component("game"),
	}

	startX, startZ := cfg.Camera.StartX, cfg.Camera.StartZ
	if data.Start != nil {
		startX, startZ = float64(data.Start.Col)+0.5, float64(data.Start.Row)+0.5
	}
	body := scene.NewEntity("player", startX, startZ)
	body.Rotation = cfg.Camera.StartRotation
	body.Width = 0.5
	s.player = scene.NewPlayer(body)
	s.player.MoveSpeed = cfg.Movement.MoveSpeed
	s.player.RotationSpeed = cfg.Movement.RotationSpeed
	s.player.VelocityDamping = cfg.Movement.VelocityDamping
	s.player.RotationDamping = cfg.Movement.RotationDamping

	s.camera = scene.NewCamera(startX, startZ, cfg.GetRayCount(), cfg.GetRenderDistance())
	s.camera.FOV = cfg.GetFOV()
	s.camera.Follow(body)

	if cfg.Chaser.Enabled {
		for _, spawn := range data.ChaserSpawns {
			e := &scene.Entity{
				Name:   "chaser",
				X:      float64(spawn.Col) + 0.5,
				Z:      float64(spawn.Row) + 0.5,
				Width:  0.5,
				Height: 0.65,
				Paint:  scene.FillPaint(chaserColor),
			}
			s.chasers = append(s.chasers, scene.NewChaser(e, body, cfg.Chaser.Speed))
		}
	}

	s.minimap = &scene.Minimap{
		Grid:   s.grids.Load,
		Viewer: body,
		Rays:   s.renderer.LastRays,
		Scale:  cfg.Minimap.Scale,
		Margin: cfg.Minimap.Margin,
	}
	for _, c := range s.chasers {
		s.minimap.Others = append(s.minimap.Others, c.Entity)
	}

	s.log.WithFields(logrus.Fields{
		"start":   fmt.Sprintf("%.2f,%.2f", startX, startZ),
		"tiles":   data.Grid.Len(),
		"chasers": len(s.chasers),
		"workers": s.GetWorkerCount(),
	}).Info("session ready")
	return s, nil
}

// Update handles input and entity updates for one tick
func (s *Session) Update() error {
	timer := s.threading.PerformanceMonitor.StartFrame()
	defer timer.EndFrame()

	if s.keys.IsKeyJustPressed(ebiten.KeyM) {
		s.showMinimap = !s.showMinimap
	}
	if s.keys.IsKeyJustPressed(ebiten.KeyTab) {
		s.showStats = !s.showStats
	}

	s.step(1/float64(ebiten.TPS()), readIntent(s.keys))

	if s.ticks%statsInterval == 0 {
		s.reportStats()
	}
	return nil
}

// step advances the simulation by dt seconds.
func (s *Session) step(dt float64, in scene.Intent) {
	s.ticks++
	s.threading.PerformanceMonitor.ProfiledFunction(monitoring.PhaseUpdate, func() {
		s.player.Update(dt, in, s.grids.Load())
		for _, c := range s.chasers {
			c.Update(dt)
		}
		s.camera.Follow(s.player.Entity)
	})
}

// Draw renders the frame onto screen
func (s *Session) Draw(screen *ebiten.Image) {
	if s.surface == nil {
		s.surface = graphics.NewEbitenSurface()
	}
	s.surface.SetTarget(screen)
	s.lastFrame = s.renderer.Frame(s.camera, s.grids.Load(), s.textures, s.entities(), s.surface)

	if s.showStats {
		ebitenutil.DebugPrint(screen, s.statsText())
	}
}

// Layout returns the screen dimensions
func (s *Session) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if s.cfg.Display.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		return outsideWidth, outsideHeight
	}
	return s.cfg.GetScreenWidth(), s.cfg.GetScreenHeight()
}

// SwapGrid replaces the map between frames and returns the previous one.
func (s *Session) SwapGrid(g *world.Grid) *world.Grid {
	return s.grids.Swap(g)
}

// GetWorkerCount returns the number of raycast workers, 0 when sequential.
func (s *Session) GetWorkerCount() int {
	if s.threading.Pool == nil {
		return 0
	}
	return s.threading.Pool.NumWorkers()
}

// Close stops background workers.
func (s *Session) Close() {
	s.threading.Shutdown()
}

func (s *Session) entities() []*scene.Entity {
	entities := make([]*scene.Entity, 0, len(s.chasers)+1)
	for _, c := range s.chasers {
		entities = append(entities, c.Entity)
	}
	if s.showMinimap {
		entities = append(entities, s.minimap.Entity())
	}
	return entities
}

func (s *Session) statsText() string {
	f := s.lastFrame
	return fmt.Sprintf("FPS %.1f  TPS %.1f\nrays %d  hits %d\nwalls %d  entities %d  painted %d\ntextures %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), f.Rays, f.Hits, f.WallTasks, f.EntityTasks, f.Painted, s.textures.Snapshot().Len())
}

func (s *Session) reportStats() {
	s.log.WithFields(s.threading.GetDetailedPerformanceStats()).Debug("performance")
	for _, alert := range s.threading.CheckPerformanceAlerts(30, 8*time.Millisecond) {
		s.log.WithFields(logrus.Fields{"type": alert.Type, "value": alert.Value, "threshold": alert.Threshold}).Warn(alert.Message)
	}
}
