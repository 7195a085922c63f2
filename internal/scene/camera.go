package scene

import "math"

// Camera is the viewpoint a frame is cast from.
type Camera struct {
	X, Z     float64
	Rotation float64
	FOV      float64
	RayCount int
	// RenderDistance is the DDA step budget per ray.
	RenderDistance int
}

// NewCamera returns a camera at (x, z) with a 90 degree field of view.
func NewCamera(x, z float64, rayCount, renderDistance int) *Camera {
	return &Camera{
		X:              x,
		Z:              z,
		FOV:            math.Pi / 2,
		RayCount:       rayCount,
		RenderDistance: renderDistance,
	}
}

// Follow copies the pose of pov. A nil pov leaves the camera where it is.
func (c *Camera) Follow(pov *Entity) {
	if pov == nil {
		return
	}
	c.X = pov.X
	c.Z = pov.Z
	c.Rotation = pov.Rotation
}

// Forward returns the unit heading vector.
func (c *Camera) Forward() (float64, float64) {
	return math.Cos(c.Rotation), math.Sin(c.Rotation)
}
