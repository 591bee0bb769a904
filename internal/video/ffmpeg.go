package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

const stderrTail = 4 << 10

// Recorder pipes raw frames into an ffmpeg process. Close must be called for
// the output file to be valid; a Recorder collected while still running logs
// a warning and closes itself as a last resort.
type Recorder struct {
	opts  Options
	cmd   *exec.Cmd
	stdin io.WriteCloser
	diag  *tailBuffer

	mu     sync.Mutex
	closed bool
	frames int
}

// Args returns the ffmpeg command line (without the binary) for opts.
func (o Options) Args() []string {
	codec := o.Codec
	if codec == "" {
		codec = "libx264"
	}
	level := "info"
	if o.Quiet {
		level = "error"
	}
	args := []string{
		"-hide_banner", "-loglevel", level,
		"-f", "rawvideo",
		"-pix_fmt", string(o.PixelFormat),
		"-s", fmt.Sprintf("%dx%d", o.Width, o.Height),
		"-framerate", strconv.Itoa(o.Framerate),
	}
	args = append(args, o.InputArgs...)
	args = append(args, "-i", "pipe:", "-vcodec", codec)
	args = append(args, o.OutputArgs...)
	return append(args, "-y", o.Output)
}

// NewRecorder starts the encoder. The process is killed if ctx is cancelled
// before Close.
func NewRecorder(ctx context.Context, opts Options) (*Recorder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, opts.Args()...)
	diag := &tailBuffer{limit: stderrTail}
	if opts.Quiet {
		cmd.Stderr = diag
	} else {
		cmd.Stderr = io.MultiWriter(diag, os.Stderr)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrSinkFailure, bin, err)
	}
	r := &Recorder{opts: opts, cmd: cmd, stdin: stdin, diag: diag}
	runtime.SetFinalizer(r, finalizeRecorder)
	return r, nil
}

func finalizeRecorder(r *Recorder) {
	slog.Warn("recorder dropped without Close, closing it now", "output", r.opts.Output, "frames", r.frames)
	if err := r.Close(); err != nil {
		slog.Warn("best-effort recorder close failed", "output", r.opts.Output, "err", err)
	}
}

// Options returns the configuration the recorder was opened with.
func (r *Recorder) Options() Options { return r.opts }

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// SendFrame writes one frame to the encoder.
func (r *Recorder) SendFrame(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("%w: recorder for %s is closed", ErrSinkFailure, r.opts.Output)
	}
	if err := checkFrame(frame, r.opts); err != nil {
		return err
	}
	if _, err := r.stdin.Write(frame); err != nil {
		return fmt.Errorf("%w: write frame %d: %v%s", ErrSinkFailure, r.frames, err, r.diag.suffix())
	}
	r.frames++
	return nil
}

// Close flushes stdin and waits for the encoder to finish. Calling it again
// is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	runtime.SetFinalizer(r, nil)

	closeErr := r.stdin.Close()
	if err := r.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %s: %v%s", ErrSinkFailure, r.cmd.Path, err, r.diag.suffix())
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close stdin: %v", ErrSinkFailure, closeErr)
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// suffix formats the captured diagnostics for an error message.
func (t *tailBuffer) suffix() string {
	s := strings.TrimSpace(t.String())
	if s == "" {
		return ""
	}
	return ": " + s
}
