package video

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
)

func TestOptionsArgs(t *testing.T) {
	opts := Options{
		Framerate:   5,
		Width:       64,
		Height:      32,
		PixelFormat: RGB24,
		Output:      "out.mp4",
		OutputArgs:  []string{"-crf", "18"},
		Quiet:       true,
	}
	want := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo", "-pix_fmt", "rgb24", "-s", "64x32", "-framerate", "5",
		"-i", "pipe:", "-vcodec", "libx264", "-crf", "18", "-y", "out.mp4",
	}
	if got := opts.Args(); !slices.Equal(got, want) {
		t.Fatalf("Args() = %v\nwant %v", got, want)
	}
}

func lookOrSkip(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

func TestRecorderMissingBinary(t *testing.T) {
	_, err := NewRecorder(context.Background(), Options{
		Framerate: 5, Width: 2, Height: 2, PixelFormat: RGB24,
		Output: "out.mp4", FFmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
	})
	if !errors.Is(err, ErrSinkFailure) {
		t.Fatalf("err = %v, want ErrSinkFailure", err)
	}
}

func TestRecorderFrameSizeMismatch(t *testing.T) {
	bin := lookOrSkip(t, "true")
	r, err := NewRecorder(context.Background(), Options{
		Framerate: 5, Width: 2, Height: 2, PixelFormat: RGB24,
		Output: "unused.mp4", FFmpegPath: bin, Quiet: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.SendFrame(make([]byte, 11)); !errors.Is(err, ErrFrameSizeMismatch) {
		t.Fatalf("err = %v, want ErrFrameSizeMismatch", err)
	}
	if r.Frames() != 0 {
		t.Fatal("rejected frame was counted")
	}
}

func TestRecorderEncoderFailure(t *testing.T) {
	bin := lookOrSkip(t, "false")
	r, err := NewRecorder(context.Background(), Options{
		Framerate: 5, Width: 2, Height: 2, PixelFormat: RGB24,
		Output: "unused.mp4", FFmpegPath: bin, Quiet: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	// The write may or may not land before the process exits; Close must
	// report the non-zero exit either way.
	_ = r.SendFrame(make([]byte, 12))
	if err := r.Close(); !errors.Is(err, ErrSinkFailure) {
		t.Fatalf("Close err = %v, want ErrSinkFailure", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close = %v, want nil", err)
	}
	if err := r.SendFrame(make([]byte, 12)); !errors.Is(err, ErrSinkFailure) {
		t.Fatalf("send after close err = %v", err)
	}
}

func TestRecorderEncodesVideo(t *testing.T) {
	bin := lookOrSkip(t, "ffmpeg")
	out := filepath.Join(t.TempDir(), "run.mp4")
	r, err := NewRecorder(context.Background(), Options{
		Framerate: 5, Width: 32, Height: 32, PixelFormat: RGB24,
		Output: out, FFmpegPath: bin, Quiet: true,
		OutputArgs: []string{"-pix_fmt", "yuv420p"},
	})
	if err != nil {
		t.Fatal(err)
	}
	frame := make([]byte, 32*32*3)
	for i := 0; i < 10; i++ {
		for j := range frame {
			frame[j] = byte(i * 25)
		}
		if err := r.SendFrame(frame); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Close(); err != nil {
		t.Skipf("encoder rejected the stream (codec missing?): %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty video file")
	}
}

func TestTailBufferKeepsEnd(t *testing.T) {
	tb := &tailBuffer{limit: 4}
	tb.Write([]byte("abc"))
	tb.Write([]byte("defg"))
	if got := tb.String(); got != "defg" {
		t.Fatalf("tail = %q", got)
	}
	if got := (&tailBuffer{limit: 4}).suffix(); got != "" {
		t.Fatalf("empty suffix = %q", got)
	}
}
