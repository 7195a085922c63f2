// Package graphics adapts the renderer's drawing surface to an ebiten screen.
package graphics

import (
	"castlight/internal/surface"
	"castlight/internal/texture"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSurface implements surface.Surface on top of an *ebiten.Image. The
// target is replaced every frame with SetTarget; uploaded textures are kept
// across frames.
type EbitenSurface struct {
	target     *ebiten.Image
	background color.Color
	images     map[*texture.Texture]*ebiten.Image
	pixel      *ebiten.Image

	alpha     float64
	transform surface.Affine
}

// NewEbitenSurface creates a surface with no target. Size reports zero until
// SetTarget is called, so frames drawn before that are skipped.
func NewEbitenSurface() *EbitenSurface {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &EbitenSurface{
		background: color.Black,
		images:     make(map[*texture.Texture]*ebiten.Image),
		pixel:      pixel,
		alpha:      1,
		transform:  surface.Identity,
	}
}

// SetTarget points the surface at the screen of the current frame.
func (s *EbitenSurface) SetTarget(target *ebiten.Image) {
	s.target = target
}

// SetBackground sets the colour Clear fills with.
func (s *EbitenSurface) SetBackground(c color.Color) {
	s.background = c
}

// CachedImages returns how many textures have been uploaded.
func (s *EbitenSurface) CachedImages() int {
	return len(s.images)
}

func (s *EbitenSurface) Size() (int, int) {
	if s.target == nil {
		return 0, 0
	}
	b := s.target.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Clear() {
	if s.target == nil {
		return
	}
	s.target.Fill(s.background)
}

func (s *EbitenSurface) FillRect(r surface.Rect, c color.Color) {
	if s.target == nil || r.W <= 0 || r.H <= 0 || s.alpha <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = s.geoM(surface.Affine{r.W, 0, r.X, 0, r.H, r.Y})
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(s.alpha))
	s.target.DrawImage(s.pixel, op)
}

func (s *EbitenSurface) DrawImage(tex *texture.Texture, src image.Rectangle, dst surface.Rect) {
	if s.target == nil || tex == nil || dst.W <= 0 || dst.H <= 0 || s.alpha <= 0 {
		return
	}
	src = src.Intersect(image.Rect(0, 0, tex.Width, tex.Height))
	if src.Empty() {
		return
	}

	sub, ok := s.imageFor(tex).SubImage(src).(*ebiten.Image)
	if !ok {
		return
	}
	// A sub-image is drawn with its top-left corner at the origin.
	local := surface.Affine{
		dst.W / float64(src.Dx()), 0, dst.X,
		0, dst.H / float64(src.Dy()), dst.Y,
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM = s.geoM(local)
	op.ColorScale.ScaleAlpha(float32(s.alpha))
	s.target.DrawImage(sub, op)
}

func (s *EbitenSurface) SetAlpha(alpha float64) {
	s.alpha = min(max(alpha, 0), 1)
}

func (s *EbitenSurface) ResetTransform() {
	s.transform = surface.Identity
}

func (s *EbitenSurface) SetTransform(m surface.Affine) {
	s.transform = m
}

func (s *EbitenSurface) imageFor(tex *texture.Texture) *ebiten.Image {
	if img, ok := s.images[tex]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(tex.RGBA())
	s.images[tex] = img
	return img
}

// geoM converts local followed by the current transform into an ebiten GeoM.
// Surface coordinates are relative to the target's bounds, so sub-images
// can be used as targets.
func (s *EbitenSurface) geoM(local surface.Affine) ebiten.GeoM {
	origin := s.target.Bounds().Min
	m := surface.Mul(surface.Translate(float64(origin.X), float64(origin.Y)), surface.Mul(s.transform, local))
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[1])
	g.SetElement(0, 2, m[2])
	g.SetElement(1, 0, m[3])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

var _ surface.Surface = (*EbitenSurface)(nil)
