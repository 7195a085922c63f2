// Package scene holds the things a frame is rendered from: entities, the
// camera, and the controllers that move them between frames.
package scene

import (
	"castlight/internal/surface"
	"castlight/internal/texture"
	"image"
	"image/color"
	"math"
)

// Space selects how an entity is placed on screen.
type Space int

const (
	// WorldSpace entities are projected as billboards standing on the floor.
	WorldSpace Space = iota
	// ScreenSpace entities paint directly in pixel coordinates.
	ScreenSpace
)

func (s Space) String() string {
	if s == ScreenSpace {
		return "screen"
	}
	return "world"
}

// Entity is anything drawn besides walls. World-space entities paint into a
// unit square [0,1]x[0,1] that the projector maps onto the billboard.
type Entity struct {
	Name     string
	X, Y, Z  float64
	Rotation float64
	// Width and Height are the billboard size in world units.
	Width, Height float64
	Space         Space
	// Layer is the ordering key of screen-space entities. Larger layers are
	// painted earlier, so overlays use negative layers.
	Layer float64
	Paint func(s surface.Surface)
}

// NewEntity creates a world-space entity at (x, z) with the default
// billboard size.
func NewEntity(name string, x, z float64) *Entity {
	return &Entity{Name: name, X: x, Z: z, Width: 1, Height: 0.5}
}

// DistanceTo returns the planar distance from the entity to (x, z).
func (e *Entity) DistanceTo(x, z float64) float64 {
	return math.Hypot(e.X-x, e.Z-z)
}

// FillPaint paints the whole unit square with c.
func FillPaint(c color.Color) func(surface.Surface) {
	return func(s surface.Surface) {
		s.FillRect(surface.Rect{W: 1, H: 1}, c)
	}
}

// TexturePaint stretches tex over the unit square. A nil texture paints nothing.
func TexturePaint(tex *texture.Texture) func(surface.Surface) {
	return func(s surface.Surface) {
		if tex == nil {
			return
		}
		s.DrawImage(tex, image.Rect(0, 0, tex.Width, tex.Height), surface.Rect{W: 1, H: 1})
	}
}
