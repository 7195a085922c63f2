package render

import (
	"castlight/internal/mathutil"
	"castlight/internal/raycast"
	"castlight/internal/surface"
	"castlight/internal/texture"
	"image"
	"math"
)

// DefaultEpsilon bounds projected distances away from zero.
const DefaultEpsilon = 1e-4

// WallCompositor turns a ray fan into one textured strip per screen column.
type WallCompositor struct {
	Shading Shading
	Epsilon float64
}

// Compose returns a draw task per ray that hit a wall with a loaded texture.
// Strips are w/len(rays) wide, h/CorrectedDistance tall and vertically
// centred. Task depth is the uncorrected ray distance.
func (c WallCompositor) Compose(rays []raycast.Ray, textures texture.Set, w, h int) []DrawTask {
	if len(rays) == 0 || w <= 0 || h <= 0 || textures.Len() == 0 {
		return nil
	}

	eps := c.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	colWidth := float64(w) / float64(len(rays))
	fh := float64(h)

	tasks := make([]DrawTask, 0, len(rays))
	for i, ray := range rays {
		if !ray.Hit() {
			continue
		}
		tex, ok := textures.Get(ray.Material)
		if !ok || tex == nil || tex.Width == 0 || tex.Height == 0 {
			continue
		}

		height := fh / math.Max(ray.CorrectedDistance, eps)
		col := mathutil.IntMin(int(math.Floor(ray.WallU*float64(tex.Width))), tex.Width-1)
		src := image.Rect(col, 0, col+1, tex.Height)
		dst := surface.Rect{X: float64(i) * colWidth, Y: fh/2 - height/2, W: colWidth, H: height}
		alpha := alphaFor(c.Shading, ray.Distance)

		tasks = append(tasks, DrawTask{
			Z: ray.Distance,
			Paint: func(s surface.Surface) {
				s.ResetTransform()
				s.SetAlpha(alpha)
				s.DrawImage(tex, src, dst)
				s.SetAlpha(1)
			},
		})
	}
	return tasks
}
