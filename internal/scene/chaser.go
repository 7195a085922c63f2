package scene

import "math"

// Chaser walks an entity straight toward a target at a fixed speed. It
// ignores walls.
type Chaser struct {
	Entity *Entity
	Target *Entity
	// Speed is in world units per second.
	Speed float64
	// StopDistance keeps the chaser from stepping onto the target.
	StopDistance float64
}

// NewChaser creates a chaser for e that follows target.
func NewChaser(e, target *Entity, speed float64) *Chaser {
	return &Chaser{Entity: e, Target: target, Speed: speed, StopDistance: 0.25}
}

// Update moves the chaser by dt seconds. It never overshoots the stop distance.
func (c *Chaser) Update(dt float64) {
	if c.Entity == nil || c.Target == nil || c.Speed <= 0 || dt <= 0 {
		return
	}
	dx := c.Target.X - c.Entity.X
	dz := c.Target.Z - c.Entity.Z
	remaining := math.Hypot(dx, dz) - c.StopDistance
	if remaining <= 0 {
		return
	}

	step := math.Min(c.Speed*dt, remaining)
	direction := math.Atan2(dz, dx)
	sx, sz := cosSin(direction)
	c.Entity.X += sx * step
	c.Entity.Z += sz * step
	c.Entity.Rotation = direction
}

func cosSin(angle float64) (float64, float64) {
	return math.Cos(angle), math.Sin(angle)
}
