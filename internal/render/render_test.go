package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"ndlife/internal/video"
	"ndlife/pkg/life"
)

var (
	red  = Color{R: 255}
	blue = Color{B: 200}
)

func testState(t *testing.T) *life.State {
	t.Helper()
	s, err := life.FromPattern(life.Classic(life.Wrap),
		"#..",
		".#.",
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestImageColorsAndSize(t *testing.T) {
	img, err := Image(testState(t), DrawParams{Dead: blue, Alive: red, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("alive pixel = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 200, A: 255}) {
		t.Fatalf("dead pixel = %v", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("alive pixel = %v", got)
	}
}

func TestImageNearestNeighborScale(t *testing.T) {
	const scale = 4
	img, err := Image(testState(t), DrawParams{Dead: blue, Alive: red, Scale: scale})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3*scale || b.Dy() != 2*scale {
		t.Fatalf("bounds = %v", b)
	}
	for y := 0; y < 2*scale; y++ {
		for x := 0; x < 3*scale; x++ {
			alive := (x/scale == 0 && y/scale == 0) || (x/scale == 1 && y/scale == 1)
			want := color.RGBA{B: 200, A: 255}
			if alive {
				want = color.RGBA{R: 255, A: 255}
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFrameLength(t *testing.T) {
	p, err := NewDrawParams(Black, White, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []video.PixelFormat{video.RGB24, video.RGBA, video.Gray} {
		frame, err := p.RenderFunc(f)(testState(t))
		if err != nil {
			t.Fatal(err)
		}
		if want := 9 * 6 * f.BytesPerPixel(); len(frame) != want {
			t.Fatalf("%s: frame length %d, want %d", f, len(frame), want)
		}
	}
}

func TestDrawParamsRejectsScale(t *testing.T) {
	if _, err := NewDrawParams(Black, White, 0); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Image(testState(t), DrawParams{Scale: -1}); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestImageRejectsNon2D(t *testing.T) {
	rules, err := life.NewRulesetND(3, nil, nil, life.Wrap)
	if err != nil {
		t.Fatal(err)
	}
	s, err := life.NewState(rules, []int{2, 2, 2}, make([]bool, 8))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Image(s, DrawParams{Scale: 1}); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveSnapshots(t *testing.T) {
	dir := t.TempDir()
	p := DrawParams{Dead: Black, Alive: White, Scale: 2}
	for _, name := range []string{"s.png", "s.bmp", "s.tiff"} {
		path := filepath.Join(dir, name)
		if err := Save(path, testState(t), p); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		switch filepath.Ext(name) {
		case ".png":
			img, err := png.Decode(f)
			if err != nil || img.Bounds().Dx() != 6 {
				t.Fatalf("png decode: %v", err)
			}
		case ".bmp":
			img, err := bmp.Decode(f)
			if err != nil || img.Bounds().Dy() != 4 {
				t.Fatalf("bmp decode: %v", err)
			}
		case ".tiff":
			img, err := tiff.Decode(f)
			if err != nil || img.Bounds().Dx() != 6 {
				t.Fatalf("tiff decode: %v", err)
			}
		}
		f.Close()
	}
	if err := Save(filepath.Join(dir, "s.jpg"), testState(t), p); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("jpg err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "s.jpg")); !os.IsNotExist(err) {
		t.Fatal("unsupported format must not create a file")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"255,0,10":  {R: 255, B: 10},
		" 1, 2, 3 ": {R: 1, G: 2, B: 3},
		"#10ff00":   {R: 0x10, G: 0xff},
		"12.9,0,0":  {R: 12},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "1,2", "256,0,0", "-1,0,0", "#12", "a,b,c", "300.0,0,0", "0.5,NaN,0", "NaN,0.5,0"} {
		if _, err := ParseColor(bad); !errors.Is(err, life.ErrInvalidArgument) {
			t.Errorf("ParseColor(%q) err = %v", bad, err)
		}
	}
}

func TestColorFromFloatsRejectsNaN(t *testing.T) {
	if _, err := ColorFromFloats([]float64{0.5, math.NaN(), 0}); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestNormalizedColorWarns(t *testing.T) {
	buf := captureLog(t)
	c, err := ColorFromFloats([]float64{1.0, 0.5, 0})
	if err != nil {
		t.Fatal(err)
	}
	if c != (Color{R: 1}) {
		t.Fatalf("color = %v", c)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected a warning, log was %q", buf.String())
	}

	buf.Reset()
	if _, err := ColorFromFloats([]float64{200, 0.5, 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := ColorFromInts([]int64{1, 1, 1}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected warning %q", buf.String())
	}
}

func TestColorUnmarshalTOMLValues(t *testing.T) {
	var c Color
	if err := c.UnmarshalTOML([]any{int64(1), int64(2), int64(3)}); err != nil || c != (Color{1, 2, 3}) {
		t.Fatalf("ints: %v %v", c, err)
	}
	if err := c.UnmarshalTOML("#000001"); err != nil || c != (Color{B: 1}) {
		t.Fatalf("string: %v %v", c, err)
	}
	if err := c.UnmarshalTOML([]any{int64(1), "x", int64(3)}); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("mixed err = %v", err)
	}
	if err := c.UnmarshalTOML(int64(4)); !errors.Is(err, life.ErrInvalidArgument) {
		t.Fatalf("scalar err = %v", err)
	}
}
