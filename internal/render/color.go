package render

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"ndlife/pkg/life"
)

// Color is an opaque 8-bit RGB color. It satisfies color.Color, flag.Value
// and toml.Unmarshaler.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) | uint32(c.R)<<8
	g = uint32(c.G) | uint32(c.G)<<8
	b = uint32(c.B) | uint32(c.B)<<8
	return r, g, b, 0xffff
}

// String formats the color as "r,g,b".
func (c Color) String() string { return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B) }

// Set parses "r,g,b" or "#rrggbb".
func (c *Color) Set(s string) error {
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalTOML accepts a three element array of integers or floats, or a
// string understood by ParseColor.
func (c *Color) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		return c.Set(val)
	case []any:
		if len(val) != 3 {
			return fmt.Errorf("%w: color needs 3 components, got %d", life.ErrInvalidArgument, len(val))
		}
		ints := make([]int64, 0, 3)
		floats := make([]float64, 0, 3)
		isFloat := false
		for _, e := range val {
			switch n := e.(type) {
			case int64:
				ints = append(ints, n)
				floats = append(floats, float64(n))
			case float64:
				isFloat = true
				floats = append(floats, n)
			default:
				return fmt.Errorf("%w: color component %v is not a number", life.ErrInvalidArgument, e)
			}
		}
		var (
			parsed Color
			err    error
		)
		if isFloat {
			parsed, err = ColorFromFloats(floats)
		} else {
			parsed, err = ColorFromInts(ints)
		}
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	return fmt.Errorf("%w: unsupported color value %T", life.ErrInvalidArgument, v)
}

// ParseColor reads "r,g,b" (integers, or floats) or "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		raw, err := hex.DecodeString(s[1:])
		if err != nil || len(raw) != 3 {
			return Color{}, fmt.Errorf("%w: bad hex color %q", life.ErrInvalidArgument, s)
		}
		return Color{R: raw[0], G: raw[1], B: raw[2]}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: color %q needs 3 components", life.ErrInvalidArgument, s)
	}
	if strings.Contains(s, ".") {
		vals := make([]float64, 3)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Color{}, fmt.Errorf("%w: color %q: %v", life.ErrInvalidArgument, s, err)
			}
			vals[i] = v
		}
		return ColorFromFloats(vals)
	}
	vals := make([]int64, 3)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: color %q: %v", life.ErrInvalidArgument, s, err)
		}
		vals[i] = v
	}
	return ColorFromInts(vals)
}

// ColorFromInts builds a color from three components in [0,255].
func ColorFromInts(vals []int64) (Color, error) {
	if len(vals) != 3 {
		return Color{}, fmt.Errorf("%w: color needs 3 components, got %d", life.ErrInvalidArgument, len(vals))
	}
	var out [3]uint8
	for i, v := range vals {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("%w: color component %d outside [0,255]", life.ErrInvalidArgument, v)
		}
		out[i] = uint8(v)
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}

// ColorFromFloats builds a color from floating point components on the
// 0-255 scale, truncating fractions. Components that all sit at or below 1.0
// most likely come from a normalized color; that is logged but accepted.
func ColorFromFloats(vals []float64) (Color, error) {
	if len(vals) != 3 {
		return Color{}, fmt.Errorf("%w: color needs 3 components, got %d", life.ErrInvalidArgument, len(vals))
	}
	maxV := vals[0]
	var out [3]uint8
	for i, v := range vals {
		if math.IsNaN(v) || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("%w: color component %g outside [0,255]", life.ErrInvalidArgument, v)
		}
		maxV = max(maxV, v)
		out[i] = uint8(v)
	}
	if maxV <= 1.0 {
		slog.Warn("floating-point color with every component <= 1 will render near black; rescale 0-1 colors to 0-255",
			"color", vals)
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}
