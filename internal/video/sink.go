// Package video turns rendered frames into persisted animations: an ffmpeg
// subprocess for real video codecs and a pure-Go animated GIF writer.
package video

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ndlife/pkg/life"
)

var (
	// ErrFrameSizeMismatch reports a frame whose length disagrees with the
	// sink's declared width, height and pixel format.
	ErrFrameSizeMismatch = errors.New("video: frame size mismatch")
	// ErrSinkFailure reports an encoder error. It is never retried.
	ErrSinkFailure = errors.New("video: sink failure")
)

// FrameSink accepts fixed-size frames in order and finalizes the output on
// Close. Close is idempotent.
type FrameSink interface {
	SendFrame(frame []byte) error
	Close() error
}

// Options configures a sink.
type Options struct {
	Framerate   int
	Width       int
	Height      int
	PixelFormat PixelFormat
	Output      string

	// Codec is the ffmpeg output codec, libx264 when empty.
	Codec string
	// InputArgs and OutputArgs are extra ffmpeg arguments placed before the
	// input and before the output path respectively.
	InputArgs  []string
	OutputArgs []string
	// FFmpegPath overrides the encoder binary looked up in PATH.
	FFmpegPath string
	// Quiet suppresses encoder diagnostics on stderr. They are still kept
	// for error reports.
	Quiet bool
}

// FrameSize is the byte length every frame must have.
func (o Options) FrameSize() int { return o.PixelFormat.FrameSize(o.Width, o.Height) }

func (o Options) validate() error {
	switch {
	case o.Framerate <= 0:
		return fmt.Errorf("%w: framerate %d must be positive", life.ErrInvalidArgument, o.Framerate)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: frame size %dx%d must be positive", life.ErrInvalidArgument, o.Width, o.Height)
	case o.PixelFormat.BytesPerPixel() == 0:
		return fmt.Errorf("%w: unsupported pixel format %q", life.ErrInvalidArgument, o.PixelFormat)
	case o.Output == "":
		return fmt.Errorf("%w: output path is required", life.ErrInvalidArgument)
	}
	return nil
}

// Open returns a GIFSink for ".gif" outputs and an ffmpeg Recorder for
// anything else.
func Open(ctx context.Context, opts Options) (FrameSink, error) {
	if strings.EqualFold(filepath.Ext(opts.Output), ".gif") {
		return NewGIFSink(opts)
	}
	return NewRecorder(ctx, opts)
}

func checkFrame(frame []byte, opts Options) error {
	if want := opts.FrameSize(); len(frame) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d %s",
			ErrFrameSizeMismatch, len(frame), want, opts.Width, opts.Height, opts.PixelFormat)
	}
	return nil
}
