package render

import (
	"castlight/internal/raycast"
	"castlight/internal/scene"
	"castlight/internal/surface"
	"castlight/internal/texture"
	"castlight/internal/threading/core"
	"castlight/internal/threading/monitoring"
	"castlight/internal/world"
	"image/color"
)

// parallelEntities is the entity count from which projection uses the pool.
const parallelEntities = 32

// Options configures a Renderer.
type Options struct {
	Shading Shading
	Epsilon float64
	Ceiling color.Color
	Floor   color.Color
	// Pool spreads ray casting and entity projection. Nil renders on the
	// calling goroutine.
	Pool    *core.WorkerPool
	Monitor *monitoring.PerformanceMonitor
}

// FrameStats summarises one rendered frame.
type FrameStats struct {
	Rays        int
	Hits        int
	WallTasks   int
	EntityTasks int
	Painted     int
}

// Renderer runs the full frame pipeline: cast, compose, project, composite.
type Renderer struct {
	caster    *raycast.Caster
	walls     WallCompositor
	projector Projector
	ceiling   color.Color
	floor     color.Color
	pool      *core.WorkerPool
	monitor   *monitoring.PerformanceMonitor

	lastRays []raycast.Ray
}

// NewRenderer builds a renderer from opts.
func NewRenderer(opts Options) *Renderer {
	shading := opts.Shading
	if shading == nil {
		shading = DefaultShading
	}
	return &Renderer{
		caster:    raycast.NewCaster(opts.Pool),
		walls:     WallCompositor{Shading: shading, Epsilon: opts.Epsilon},
		projector: Projector{Shading: shading, Epsilon: opts.Epsilon},
		ceiling:   opts.Ceiling,
		floor:     opts.Floor,
		pool:      opts.Pool,
		monitor:   opts.Monitor,
	}
}

// LastRays returns the rays of the most recent frame. The slice is replaced,
// never mutated, by later frames.
func (r *Renderer) LastRays() []raycast.Ray {
	return r.lastRays
}

// Frame renders one frame of grid and entities from cam onto s. Textures are
// read from a single snapshot of store taken when the frame starts.
func (r *Renderer) Frame(cam *scene.Camera, grid *world.Grid, store *texture.Store, entities []*scene.Entity, s surface.Surface) FrameStats {
	var stats FrameStats
	if cam == nil || s == nil {
		return stats
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return stats
	}

	var textures texture.Set
	if store != nil {
		textures = store.Snapshot()
	}

	s.ResetTransform()
	s.SetAlpha(1)
	s.Clear()
	if r.ceiling != nil {
		s.FillRect(surface.Rect{W: float64(w), H: float64(h) / 2}, r.ceiling)
	}
	if r.floor != nil {
		s.FillRect(surface.Rect{Y: float64(h) / 2, W: float64(w), H: float64(h) / 2}, r.floor)
	}

	timer := r.monitor.StartPhase(monitoring.PhaseRaycast)
	rays := r.caster.Cast(raycast.Point{X: cam.X, Z: cam.Z}, cam.Rotation, cam.FOV, cam.RayCount, cam.RenderDistance, grid)
	timer.End()
	r.lastRays = rays
	stats.Rays = len(rays)
	for _, ray := range rays {
		if ray.Hit() {
			stats.Hits++
		}
	}

	timer = r.monitor.StartPhase(monitoring.PhaseCompose)
	wallTasks := r.walls.Compose(rays, textures, w, h)
	timer.End()

	timer = r.monitor.StartPhase(monitoring.PhaseProject)
	entityTasks := r.project(entities, cam, w, h)
	timer.End()

	timer = r.monitor.StartPhase(monitoring.PhaseComposite)
	stats.Painted = RenderFrame(wallTasks, entityTasks, s)
	timer.End()

	stats.WallTasks = len(wallTasks)
	stats.EntityTasks = len(entityTasks)
	if r.monitor != nil {
		r.monitor.RecordRays(stats.Rays, stats.Hits)
		r.monitor.RecordTasks(stats.Painted)
		r.monitor.SetTextureCount(textures.Len())
	}
	return stats
}

type projection struct {
	task DrawTask
	ok   bool
}

func (r *Renderer) project(entities []*scene.Entity, cam *scene.Camera, w, h int) []DrawTask {
	if len(entities) == 0 {
		return nil
	}

	var pool *core.WorkerPool
	if len(entities) >= parallelEntities {
		pool = r.pool
	}
	results := core.ParallelMap(pool, entities, func(e *scene.Entity) projection {
		task, ok := r.projector.Project(e, cam, w, h)
		return projection{task: task, ok: ok}
	})

	tasks := make([]DrawTask, 0, len(results))
	for _, res := range results {
		if res.ok {
			tasks = append(tasks, res.task)
		}
	}
	return tasks
}
