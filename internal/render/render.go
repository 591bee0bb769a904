// Package render maps grid states to pixels: solid colors per cell state,
// nearest-neighbor upscaling and still-image snapshots.
package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"ndlife/internal/video"
	"ndlife/pkg/core"
	"ndlife/pkg/life"
)

// DrawParams controls how a state is drawn. Scale is the side length in
// pixels of one cell.
type DrawParams struct {
	Dead  Color
	Alive Color
	Scale int
}

// NewDrawParams validates the scale factor.
func NewDrawParams(dead, alive Color, scale int) (DrawParams, error) {
	p := DrawParams{Dead: dead, Alive: alive, Scale: scale}
	return p, p.Validate()
}

// Validate reports a scale below one.
func (p DrawParams) Validate() error {
	if p.Scale < 1 {
		return fmt.Errorf("%w: resize factor %d must be at least 1", life.ErrInvalidArgument, p.Scale)
	}
	return nil
}

// FrameSize returns the pixel dimensions of a rendered grid of size s.
func (p DrawParams) FrameSize(s core.Size) core.Size { return s.Scale(p.Scale) }

// Image draws a 2D state. The result is (W*Scale)x(H*Scale) pixels.
func Image(state *life.State, p DrawParams) (*image.RGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	size := state.Size()
	if size.Area() == 0 {
		return nil, fmt.Errorf("%w: only 2D states can be drawn, shape is %v", life.ErrInvalidArgument, state.Shape())
	}
	base := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	fillBinaryRGBA(base.Pix, state.Cells(), p.Alive, p.Dead)
	if p.Scale == 1 {
		return base, nil
	}
	out := p.FrameSize(size)
	dst := image.NewRGBA(image.Rect(0, 0, out.W, out.H))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	return dst, nil
}

// Frame draws state and packs it as a raw buffer in format f.
func Frame(state *life.State, p DrawParams, f video.PixelFormat) ([]byte, error) {
	img, err := Image(state, p)
	if err != nil {
		return nil, err
	}
	return video.Pack(img, f)
}

// RenderFunc binds p and f for life.RunAndRecord.
func (p DrawParams) RenderFunc(f video.PixelFormat) life.RenderFunc {
	return func(s *life.State) ([]byte, error) { return Frame(s, p, f) }
}

// fillBinaryRGBA converts cell data into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []bool, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// FillRGBA writes the 4-byte pixels of state into buf, which must hold
// 4*W*H bytes. It is the unscaled fast path used by live views.
func FillRGBA(buf []byte, state *life.State, p DrawParams) {
	fillBinaryRGBA(buf, state.Cells(), p.Alive, p.Dead)
}
