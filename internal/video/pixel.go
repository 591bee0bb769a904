package video

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"ndlife/pkg/life"
)

// PixelFormat names a raw frame layout, using ffmpeg's pix_fmt spelling.
type PixelFormat string

const (
	RGB24 PixelFormat = "rgb24"
	BGR24 PixelFormat = "bgr24"
	RGBA  PixelFormat = "rgba"
	Gray  PixelFormat = "gray"
)

// ParsePixelFormat validates a pix_fmt name.
func ParsePixelFormat(s string) (PixelFormat, error) {
	f := PixelFormat(strings.ToLower(strings.TrimSpace(s)))
	if f.BytesPerPixel() == 0 {
		return "", fmt.Errorf("%w: unsupported pixel format %q", life.ErrInvalidArgument, s)
	}
	return f, nil
}

// BytesPerPixel returns the frame stride per pixel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGB24, BGR24:
		return 3
	case RGBA:
		return 4
	case Gray:
		return 1
	}
	return 0
}

// FrameSize returns the byte length of a w*h frame.
func (f PixelFormat) FrameSize(w, h int) int { return w * h * f.BytesPerPixel() }

// Pack converts img into a tightly packed buffer in format f.
func Pack(img *image.RGBA, f PixelFormat) ([]byte, error) {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: unsupported pixel format %q", life.ErrInvalidArgument, f)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*bpp)
	i := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			switch f {
			case RGB24:
				out[i], out[i+1], out[i+2] = r, g, bl
			case BGR24:
				out[i], out[i+1], out[i+2] = bl, g, r
			case RGBA:
				out[i], out[i+1], out[i+2], out[i+3] = r, g, bl, a
			case Gray:
				out[i] = color.GrayModel.Convert(color.RGBA{R: r, G: g, B: bl, A: a}).(color.Gray).Y
			}
			i += bpp
		}
	}
	return out, nil
}

// Unpack is the inverse of Pack. Gray frames expand to opaque grey pixels.
func Unpack(buf []byte, w, h int, f PixelFormat) (*image.RGBA, error) {
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: unsupported pixel format %q", life.ErrInvalidArgument, f)
	}
	if len(buf) != w*h*bpp {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d %s", ErrFrameSizeMismatch, len(buf), w*h*bpp, w, h, f)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for p := 0; p < w*h; p++ {
		src := buf[p*bpp:]
		dst := img.Pix[p*4 : p*4+4]
		switch f {
		case RGB24:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
		case BGR24:
			dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], 0xff
		case RGBA:
			copy(dst, src[:4])
		case Gray:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 0xff
		}
	}
	return img, nil
}
