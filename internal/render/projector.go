package render

import (
	"castlight/internal/mathutil"
	"castlight/internal/scene"
	"castlight/internal/surface"
	"math"
)

// Projector places entities on screen.
type Projector struct {
	Shading Shading
	Epsilon float64
}

// Project returns the draw task for e seen from cam on a w x h surface.
// World-space entities outside the field of view, at the camera position or
// without a Paint callback are rejected.
func (p Projector) Project(e *scene.Entity, cam *scene.Camera, w, h int) (DrawTask, bool) {
	if e == nil || e.Paint == nil {
		return DrawTask{}, false
	}
	if e.Space == scene.ScreenSpace {
		paint := e.Paint
		return DrawTask{
			Z: e.Layer,
			Paint: func(s surface.Surface) {
				s.ResetTransform()
				s.SetAlpha(1)
				paint(s)
			},
		}, true
	}
	if cam == nil || w <= 0 || h <= 0 || cam.FOV <= 0 {
		return DrawTask{}, false
	}

	dx := e.X - cam.X
	dz := e.Z - cam.Z
	d := math.Hypot(dx, dz)
	if d == 0 {
		return DrawTask{}, false
	}
	diff := mathutil.NormalizeAngle(math.Atan2(dz, dx) - cam.Rotation)
	if math.Abs(diff) >= cam.FOV/2 {
		return DrawTask{}, false
	}

	eps := p.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	fw, fh := float64(w), float64(h)
	scale := fh / math.Max(d*math.Cos(diff), eps)
	bw := e.Width * scale
	bh := e.Height * scale

	// Same linear angle-to-column mapping the ray fan uses.
	centreX := (diff + cam.FOV/2) / cam.FOV * fw
	bottom := fh/2 + scale/2 - e.Y*scale
	m := surface.Mul(surface.Translate(centreX-bw/2, bottom-bh), surface.Scale(bw, bh))
	alpha := alphaFor(p.Shading, d)
	paint := e.Paint

	return DrawTask{
		Z: d,
		Paint: func(s surface.Surface) {
			s.SetTransform(m)
			s.SetAlpha(alpha)
			paint(s)
			s.ResetTransform()
			s.SetAlpha(1)
		},
	}, true
}
