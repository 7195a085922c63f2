// Package raycast traces grid rays with the Amanatides-Woo DDA.
package raycast

import (
	"castlight/internal/mathutil"
	"castlight/internal/threading/core"
	"castlight/internal/world"
	"math"
)

// farAway stands in for an infinite crossing distance on an axis the ray
// never moves along. It is finite so no arithmetic can produce NaN.
const farAway = 1e30

// Tiles is the read-only grid view the caster needs. *world.Grid satisfies it.
type Tiles interface {
	At(col, row int) (world.MaterialID, bool)
}

// Point is a position on the map plane.
type Point struct {
	X, Z float64
}

// RayAngle returns the angle of column i of a rayCount fan centred on facing.
func RayAngle(i int, facing, fov float64, rayCount int) float64 {
	return facing - fov/2 + float64(i)*(fov/float64(rayCount))
}

// CastRays casts rayCount rays left to right across fov. Each ray takes at
// most maxSteps grid steps; rays that find nothing are misses.
func CastRays(origin Point, facing, fov float64, rayCount, maxSteps int, tiles Tiles) []Ray {
	if rayCount <= 0 {
		return []Ray{}
	}
	rays := make([]Ray, rayCount)
	for i := range rays {
		rays[i] = CastRay(origin, RayAngle(i, facing, fov, rayCount), facing, maxSteps, tiles)
	}
	return rays
}

// CastRay traces a single ray at angle. facing is the camera heading used
// for the fish-eye correction.
func CastRay(origin Point, angle, facing float64, maxSteps int, tiles Tiles) Ray {
	dirX := math.Cos(angle)
	dirZ := math.Sin(angle)

	cellX := mathutil.FloorInt(origin.X)
	cellZ := mathutil.FloorInt(origin.Z)

	// Distance along the ray between successive grid lines on each axis
	deltaX, deltaZ := farAway, farAway
	if dirX != 0 {
		deltaX = math.Abs(1 / dirX)
	}
	if dirZ != 0 {
		deltaZ = math.Abs(1 / dirZ)
	}

	// Step direction and distance to the first grid line on each axis
	stepX, stepZ := 1, 1
	sideX, sideZ := farAway, farAway
	if dirX < 0 {
		stepX = -1
		sideX = (origin.X - float64(cellX)) * deltaX
	} else if dirX > 0 {
		sideX = (float64(cellX) + 1 - origin.X) * deltaX
	}
	if dirZ < 0 {
		stepZ = -1
		sideZ = (origin.Z - float64(cellZ)) * deltaZ
	} else if dirZ > 0 {
		sideZ = (float64(cellZ) + 1 - origin.Z) * deltaZ
	}

	steppedX := false
	for steps := 0; steps < maxSteps; steps++ {
		if sideX < sideZ {
			sideX += deltaX
			cellX += stepX
			steppedX = true
		} else {
			sideZ += deltaZ
			cellZ += stepZ
			steppedX = false
		}

		material, ok := tiles.At(cellX, cellZ)
		if !ok {
			continue
		}

		ray := Ray{Angle: angle, Material: material}
		if steppedX {
			ray.Distance = (float64(cellX) - origin.X + float64(1-stepX)/2) / dirX
			ray.WallU = mathutil.Frac(origin.Z + ray.Distance*dirZ)
			ray.Face = East
			if stepX < 0 {
				ray.Face = West
			}
		} else {
			ray.Distance = (float64(cellZ) - origin.Z + float64(1-stepZ)/2) / dirZ
			ray.WallU = mathutil.Frac(origin.X + ray.Distance*dirX)
			ray.Face = South
			if stepZ < 0 {
				ray.Face = North
			}
		}
		ray.CorrectedDistance = ray.Distance * math.Cos(angle-facing)
		return ray
	}

	return Miss(angle)
}

// Caster casts ray fans, spreading columns over a worker pool when one is set.
// Results are written by column index, so the output equals CastRays.
type Caster struct {
	pool        *core.WorkerPool
	minParallel int
}

// NewCaster creates a caster. A nil pool casts sequentially.
func NewCaster(pool *core.WorkerPool) *Caster {
	return &Caster{pool: pool, minParallel: 64}
}

// Cast has the same contract as CastRays.
func (c *Caster) Cast(origin Point, facing, fov float64, rayCount, maxSteps int, tiles Tiles) []Ray {
	if c == nil || c.pool == nil || rayCount < c.minParallel {
		return CastRays(origin, facing, fov, rayCount, maxSteps, tiles)
	}
	rays := make([]Ray, rayCount)
	c.pool.ParallelFor(0, rayCount, func(i int) {
		rays[i] = CastRay(origin, RayAngle(i, facing, fov, rayCount), facing, maxSteps, tiles)
	})
	return rays
}
