package texture

import (
	"castlight/internal/world"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Texture is a decoded pixel buffer. Pixels holds Width*Height premultiplied
// RGBA quadruplets in row-major order, the layout of image.RGBA.Pix.
// A Texture is never modified after construction.
type Texture struct {
	Width  int
	Height int
	Pixels []byte
	Source string
}

// FromImage copies img into a new Texture.
func FromImage(img image.Image, source string) *Texture {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: dst.Pix,
		Source: source,
	}
}

// Decode reads any registered image format (PNG, JPEG, GIF, BMP, WebP).
func Decode(r io.Reader, source string) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", source, err)
	}
	tex := FromImage(img, source)
	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("decode texture %s: empty image", source)
	}
	return tex, nil
}

// RGBA returns an image view sharing the texture's pixels. Callers must not
// write through it.
func (t *Texture) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// At returns the texel at (x, y). Out-of-range coordinates return transparent black.
func (t *Texture) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return color.RGBA{}
	}
	i := (y*t.Width + x) * 4
	return color.RGBA{R: t.Pixels[i], G: t.Pixels[i+1], B: t.Pixels[i+2], A: t.Pixels[i+3]}
}

var placeholderPalette = []color.RGBA{
	{170, 170, 170, 255},
	{150, 60, 45, 255},
	{70, 110, 160, 255},
	{90, 140, 70, 255},
	{160, 130, 60, 255},
	{120, 80, 140, 255},
}

// Placeholder builds a procedural brick texture for materials without an image file.
// The colour is picked from the material id so neighbouring materials differ.
func Placeholder(id world.MaterialID, size int) *Texture {
	if size < 8 {
		size = 8
	}
	base := placeholderPalette[(int(id)-1+len(placeholderPalette))%len(placeholderPalette)]
	mortar := color.RGBA{R: base.R / 3, G: base.G / 3, B: base.B / 3, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	brickH := size / 4
	brickW := size / 2
	for y := 0; y < size; y++ {
		course := y / brickH
		offset := 0
		if course%2 == 1 {
			offset = brickW / 2
		}
		for x := 0; x < size; x++ {
			clr := base
			if y%brickH == 0 || (x+offset)%brickW == 0 {
				clr = mortar
			}
			img.SetRGBA(x, y, clr)
		}
	}
	return &Texture{
		Width:  size,
		Height: size,
		Pixels: img.Pix,
		Source: fmt.Sprintf("placeholder:%d", id),
	}
}
