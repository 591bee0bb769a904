package video

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"
	"runtime"
	"sync"
)

// GIFSink buffers frames and writes them as an animated GIF on Close. A
// GIFSink collected before Close logs a warning and writes what it holds.
// Frames with at most 256 distinct colors are stored losslessly; busier
// frames are dithered onto the web-safe palette.
type GIFSink struct {
	opts Options

	mu     sync.Mutex
	anim   gif.GIF
	closed bool
}

// NewGIFSink validates opts and prepares an empty animation.
func NewGIFSink(opts Options) (*GIFSink, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s := &GIFSink{opts: opts, anim: gif.GIF{LoopCount: 0}}
	runtime.SetFinalizer(s, finalizeGIFSink)
	return s, nil
}

func finalizeGIFSink(s *GIFSink) {
	slog.Warn("gif sink dropped without Close, writing it now", "output", s.opts.Output, "frames", len(s.anim.Image))
	if err := s.Close(); err != nil {
		slog.Warn("best-effort gif sink close failed", "output", s.opts.Output, "err", err)
	}
}

// SendFrame appends a frame to the animation.
func (s *GIFSink) SendFrame(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: gif sink for %s is closed", ErrSinkFailure, s.opts.Output)
	}
	if err := checkFrame(frame, s.opts); err != nil {
		return err
	}
	img, err := Unpack(frame, s.opts.Width, s.opts.Height, s.opts.PixelFormat)
	if err != nil {
		return err
	}
	s.anim.Image = append(s.anim.Image, toPaletted(img))
	s.anim.Delay = append(s.anim.Delay, frameDelay(s.opts.Framerate))
	return nil
}

// Frames returns the number of buffered frames.
func (s *GIFSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.anim.Image)
}

// Close encodes the animation to the output path. Calling it again is a
// no-op.
func (s *GIFSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	if len(s.anim.Image) == 0 {
		return fmt.Errorf("%w: no frames to write to %s", ErrSinkFailure, s.opts.Output)
	}
	f, err := os.Create(s.opts.Output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	if err := gif.EncodeAll(f, &s.anim); err != nil {
		f.Close()
		return fmt.Errorf("%w: encode %s: %v", ErrSinkFailure, s.opts.Output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	s.anim = gif.GIF{}
	return nil
}

// frameDelay converts a framerate to GIF delay units of 10ms.
func frameDelay(fps int) int {
	d := (100 + fps/2) / fps
	if d < 2 {
		d = 2
	}
	return d
}

func toPaletted(img *image.RGBA) *image.Paletted {
	b := img.Bounds()
	var pal color.Palette
	index := make(map[color.RGBA]uint8)
	for p := 0; p+3 < len(img.Pix); p += 4 {
		c := color.RGBA{R: img.Pix[p], G: img.Pix[p+1], B: img.Pix[p+2], A: img.Pix[p+3]}
		if _, ok := index[c]; ok {
			continue
		}
		if len(pal) == 256 {
			out := image.NewPaletted(b, palette.WebSafe)
			draw.FloydSteinberg.Draw(out, b, img, b.Min)
			return out
		}
		index[c] = uint8(len(pal))
		pal = append(pal, c)
	}

	out := image.NewPaletted(b, pal)
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w; x++ {
			p := y*img.Stride + x*4
			c := color.RGBA{R: img.Pix[p], G: img.Pix[p+1], B: img.Pix[p+2], A: img.Pix[p+3]}
			out.Pix[y*out.Stride+x] = index[c]
		}
	}
	return out
}
