// Package surface defines the 2D drawing target the renderer paints into and
// provides a software implementation backed by image.RGBA.
package surface

import (
	"castlight/internal/texture"
	"image"
	"image/color"

	"golang.org/x/image/math/f64"
)

// Affine is a 2x3 affine matrix {a, b, c, d, e, f} mapping (x, y) to
// (a*x + b*y + c, d*x + e*y + f).
type Affine = f64.Aff3

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 0, 1, 0}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{1, 0, tx, 0, 1, ty}
}

// Scale returns a scale by (sx, sy) around the origin.
func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, 0, sy, 0}
}

// Mul returns the transform that applies n first and then m.
func Mul(m, n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Apply maps the point (x, y) through m.
func Apply(m Affine, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Rect is a rectangle in surface (or, under a transform, user) coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Surface is the output target of a frame. Every drawing call is affected by
// the current transform and global alpha.
type Surface interface {
	// Size returns the drawable size in pixels. A zero size means the
	// surface is not ready and nothing should be drawn.
	Size() (width, height int)
	Clear()
	FillRect(r Rect, c color.Color)
	// DrawImage draws the src region of tex scaled into dst.
	DrawImage(tex *texture.Texture, src image.Rectangle, dst Rect)
	SetAlpha(alpha float64)
	ResetTransform()
	SetTransform(m Affine)
}
