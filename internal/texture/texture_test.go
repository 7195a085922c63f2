package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(4, 3)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	tex, err := Decode(&buf, "mem.png")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tex.Width != 4 || tex.Height != 3 || len(tex.Pixels) != 4*3*4 {
		t.Fatalf("unexpected texture shape %dx%d (%d bytes)", tex.Width, tex.Height, len(tex.Pixels))
	}
	if got := tex.At(2, 1); got != (color.RGBA{20, 10, 200, 255}) {
		t.Errorf("At(2,1) = %v", got)
	}
	if got := tex.At(9, 9); got != (color.RGBA{}) {
		t.Errorf("out-of-range At should be transparent, got %v", got)
	}
	if view := tex.RGBA(); view.RGBAAt(3, 2) != tex.At(3, 2) {
		t.Error("RGBA view does not share the texture layout")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("definitely not an image")), "junk"); err == nil {
		t.Error("expected decode error")
	}
}

func TestFromImageNormalisesOrigin(t *testing.T) {
	src := testImage(6, 6).SubImage(image.Rect(2, 2, 5, 4))
	tex := FromImage(src, "sub")
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("shape %dx%d", tex.Width, tex.Height)
	}
	if got := tex.At(0, 0); got.R != 20 || got.G != 20 {
		t.Errorf("origin texel = %v, want the (2,2) source pixel", got)
	}
}

func TestPlaceholderIsOpaqueAndDistinct(t *testing.T) {
	a := Placeholder(1, 16)
	b := Placeholder(2, 16)
	if a.Width != 16 || a.Height != 16 {
		t.Fatalf("placeholder size %dx%d", a.Width, a.Height)
	}
	for i := 3; i < len(a.Pixels); i += 4 {
		if a.Pixels[i] != 255 {
			t.Fatal("placeholder must be fully opaque")
		}
	}
	if a.At(3, 3) == b.At(3, 3) {
		t.Error("different materials should get different colours")
	}
	if small := Placeholder(3, 1); small.Width < 8 {
		t.Errorf("placeholder size should be clamped, got %d", small.Width)
	}
}
