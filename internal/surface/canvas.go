package surface

import (
	"castlight/internal/mathutil"
	"castlight/internal/texture"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var unitRect = image.Rect(0, 0, 1, 1)

// Canvas is a software Surface. Scaling uses nearest-neighbour sampling so
// texels stay sharp, matching the look of a canvas with smoothing disabled.
type Canvas struct {
	img        *image.RGBA
	background image.Image
	alpha      float64
	transform  Affine
}

// NewCanvas allocates a width x height canvas cleared to transparent black.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		background: image.Transparent,
		alpha:      1,
		transform:  Identity,
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// SetBackground sets the colour Clear fills with.
func (c *Canvas) SetBackground(clr color.Color) {
	c.background = image.NewUniform(clr)
}

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), c.background, image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(r Rect, clr color.Color) {
	if r.W <= 0 || r.H <= 0 || c.alpha <= 0 {
		return
	}
	s2d := Mul(c.transform, Affine{r.W, 0, r.X, 0, r.H, r.Y})
	draw.NearestNeighbor.Transform(c.img, s2d, image.NewUniform(clr), unitRect, draw.Over, c.options())
}

func (c *Canvas) DrawImage(tex *texture.Texture, src image.Rectangle, dst Rect) {
	if tex == nil || dst.W <= 0 || dst.H <= 0 || c.alpha <= 0 {
		return
	}
	src = src.Intersect(image.Rect(0, 0, tex.Width, tex.Height))
	if src.Empty() {
		return
	}
	sx := dst.W / float64(src.Dx())
	sy := dst.H / float64(src.Dy())
	local := Affine{
		sx, 0, dst.X - float64(src.Min.X)*sx,
		0, sy, dst.Y - float64(src.Min.Y)*sy,
	}
	draw.NearestNeighbor.Transform(c.img, Mul(c.transform, local), tex.RGBA(), src, draw.Over, c.options())
}

func (c *Canvas) SetAlpha(alpha float64) {
	c.alpha = mathutil.Clamp(alpha, 0, 1)
}

func (c *Canvas) ResetTransform() {
	c.transform = Identity
}

func (c *Canvas) SetTransform(m Affine) {
	c.transform = m
}

// options returns the draw options realising the global alpha.
func (c *Canvas) options() *draw.Options {
	if c.alpha >= 1 {
		return nil
	}
	return &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(c.alpha * 0xffff)})}
}
