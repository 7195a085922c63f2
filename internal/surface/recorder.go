package surface

import (
	"castlight/internal/texture"
	"image"
	"image/color"
)

// OpKind names a recorded surface call.
type OpKind string

const (
	OpClear          OpKind = "clear"
	OpFillRect       OpKind = "fill_rect"
	OpDrawImage      OpKind = "draw_image"
	OpSetAlpha       OpKind = "set_alpha"
	OpResetTransform OpKind = "reset_transform"
	OpSetTransform   OpKind = "set_transform"
)

// Op is one recorded call together with the state it ran under.
type Op struct {
	Kind      OpKind
	Rect      Rect
	Src       image.Rectangle
	Texture   *texture.Texture
	Color     color.Color
	Alpha     float64
	Transform Affine
}

// Recorder is a Surface that only records calls. It backs tests and tools
// that inspect a frame without rasterising it.
type Recorder struct {
	Width, Height int
	Ops           []Op

	alpha     float64
	transform Affine
}

// NewRecorder returns a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height, alpha: 1, transform: Identity}
}

func (r *Recorder) record(op Op) {
	op.Alpha = r.alpha
	op.Transform = r.transform
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Clear() { r.record(Op{Kind: OpClear}) }

func (r *Recorder) FillRect(rect Rect, c color.Color) {
	r.record(Op{Kind: OpFillRect, Rect: rect, Color: c})
}

func (r *Recorder) DrawImage(tex *texture.Texture, src image.Rectangle, dst Rect) {
	r.record(Op{Kind: OpDrawImage, Texture: tex, Src: src, Rect: dst})
}

func (r *Recorder) SetAlpha(alpha float64) {
	r.alpha = alpha
	r.record(Op{Kind: OpSetAlpha})
}

func (r *Recorder) ResetTransform() {
	r.transform = Identity
	r.record(Op{Kind: OpResetTransform})
}

func (r *Recorder) SetTransform(m Affine) {
	r.transform = m
	r.record(Op{Kind: OpSetTransform})
}

// Draws returns only the recorded DrawImage calls.
func (r *Recorder) Draws() []Op {
	var draws []Op
	for _, op := range r.Ops {
		if op.Kind == OpDrawImage {
			draws = append(draws, op)
		}
	}
	return draws
}
