package scene

import (
	"castlight/internal/raycast"
	"castlight/internal/surface"
	"castlight/internal/world"
	"image/color"
	"math"
)

var (
	minimapBackground = color.RGBA{0, 0, 0, 160}
	minimapPrimary    = color.RGBA{211, 211, 211, 255}
	minimapSecondary  = color.RGBA{169, 169, 169, 255}
	minimapPlayer     = color.RGBA{0, 160, 0, 255}
	minimapHit        = color.RGBA{255, 220, 64, 255}
)

// Minimap draws a top-down view of the grid, the viewer and the last ray
// hits in the corner of the screen.
type Minimap struct {
	Grid   func() *world.Grid
	Viewer *Entity
	Rays   func() []raycast.Ray
	// Scale is the size of one cell in pixels.
	Scale  float64
	Margin float64
	Others []*Entity
}

// Entity returns a screen-space entity that paints the minimap above
// everything else.
func (m *Minimap) Entity() *Entity {
	return &Entity{Name: "minimap", Space: ScreenSpace, Layer: -1, Paint: m.Paint}
}

// Paint draws the minimap.
func (m *Minimap) Paint(s surface.Surface) {
	if m.Grid == nil || m.Scale <= 0 {
		return
	}
	grid := m.Grid()
	lo, hi, ok := grid.Bounds()
	if !ok {
		return
	}

	toScreen := func(x, z float64) (float64, float64) {
		return m.Margin + (x-float64(lo.Col))*m.Scale, m.Margin + (z-float64(lo.Row))*m.Scale
	}

	s.FillRect(surface.Rect{
		X: m.Margin,
		Y: m.Margin,
		W: float64(hi.Col-lo.Col+1) * m.Scale,
		H: float64(hi.Row-lo.Row+1) * m.Scale,
	}, minimapBackground)

	for _, cell := range grid.Cells() {
		id, _ := grid.At(cell.Col, cell.Row)
		clr := minimapSecondary
		if id == 1 {
			clr = minimapPrimary
		}
		x, y := toScreen(float64(cell.Col), float64(cell.Row))
		s.FillRect(surface.Rect{X: x, Y: y, W: m.Scale, H: m.Scale}, clr)
	}

	if m.Viewer == nil {
		return
	}
	if m.Rays != nil {
		for _, r := range m.Rays() {
			if !r.Hit() {
				continue
			}
			x, y := toScreen(m.Viewer.X+math.Cos(r.Angle)*r.Distance, m.Viewer.Z+math.Sin(r.Angle)*r.Distance)
			s.FillRect(surface.Rect{X: x - 1, Y: y - 1, W: 2, H: 2}, minimapHit)
		}
	}
	for _, e := range m.Others {
		m.marker(s, toScreen, e, color.RGBA{30, 144, 255, 255})
	}
	m.marker(s, toScreen, m.Viewer, minimapPlayer)
}

func (m *Minimap) marker(s surface.Surface, toScreen func(x, z float64) (float64, float64), e *Entity, c color.Color) {
	size := math.Max(e.Width*m.Scale, 2)
	x, y := toScreen(e.X, e.Z)
	s.FillRect(surface.Rect{X: x - size/2, Y: y - size/2, W: size, H: size}, c)
}
