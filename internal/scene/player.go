package scene

// Collider reports whether a map position is blocked. *world.Grid satisfies it.
type Collider interface {
	Solid(x, z float64) bool
}

// Intent is the movement input for one update.
type Intent struct {
	Forward, Backward bool
	TurnLeft          bool
	TurnRight         bool
}

// Player drives an entity from input with damped velocity and per-axis
// collision against the grid.
type Player struct {
	Entity *Entity

	VelocityX, VelocityZ float64
	VelocityRotation     float64

	MoveSpeed       float64
	RotationSpeed   float64
	VelocityDamping float64
	RotationDamping float64
}

// NewPlayer wraps e with the default handling.
func NewPlayer(e *Entity) *Player {
	return &Player{
		Entity:          e,
		MoveSpeed:       0.45,
		RotationSpeed:   0.85,
		VelocityDamping: 0.85,
		RotationDamping: 0.7,
	}
}

// Update advances the player by dt seconds. Each axis is moved separately and
// rolled back when it lands inside a solid cell, so the player slides along
// walls. A nil collider disables collision.
func (p *Player) Update(dt float64, in Intent, walls Collider) {
	e := p.Entity
	if e == nil {
		return
	}

	fx, fz := cosSin(e.Rotation)
	if in.Forward {
		p.VelocityX += fx * dt * p.MoveSpeed
		p.VelocityZ += fz * dt * p.MoveSpeed
	}
	if in.Backward {
		p.VelocityX -= fx * dt * p.MoveSpeed
		p.VelocityZ -= fz * dt * p.MoveSpeed
	}
	if in.TurnLeft {
		p.VelocityRotation -= dt * p.RotationSpeed
	}
	if in.TurnRight {
		p.VelocityRotation += dt * p.RotationSpeed
	}

	p.VelocityX *= p.VelocityDamping
	p.VelocityZ *= p.VelocityDamping

	e.X += p.VelocityX
	if walls != nil && walls.Solid(e.X, e.Z) {
		e.X -= p.VelocityX
		p.VelocityX = 0
	}
	e.Z += p.VelocityZ
	if walls != nil && walls.Solid(e.X, e.Z) {
		e.Z -= p.VelocityZ
		p.VelocityZ = 0
	}

	p.VelocityRotation *= p.RotationDamping
	e.Rotation += p.VelocityRotation
}
