// Package config holds run settings shared by the command line tools.
// Values come from defaults, an optional TOML file and flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"ndlife/internal/render"
	"ndlife/internal/video"
	"ndlife/pkg/core"
	"ndlife/pkg/life"
)

// Config represents the parameters of one simulation run.
type Config struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Seed     int64  `toml:"seed"`
	Ticks    int    `toml:"ticks"`
	Rule     string `toml:"rule"`
	Topology string `toml:"topology"`

	Scale int          `toml:"scale"`
	Alive render.Color `toml:"alive_color"`
	Dead  render.Color `toml:"dead_color"`

	Output      string   `toml:"output"`
	FPS         int      `toml:"fps"`
	Codec       string   `toml:"codec"`
	PixelFormat string   `toml:"pixel_format"`
	EncoderArgs []string `toml:"encoder_args"`
	FFmpeg      string   `toml:"ffmpeg"`
	Verbose     bool     `toml:"verbose"`
	Snapshot    string   `toml:"snapshot"`

	TPS int `toml:"tps"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:       256,
		Height:      256,
		Seed:        42,
		Ticks:       100,
		Rule:        "B3/S23",
		Topology:    "wrap",
		Scale:       4,
		Alive:       render.White,
		Dead:        render.Black,
		FPS:         5,
		Codec:       "libx264",
		PixelFormat: string(video.RGB24),
		TPS:         30,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random initial grid")
	fs.IntVar(&c.Ticks, "ticks", c.Ticks, "generations to simulate")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule in B/S notation, e.g. B36/S23")
	fs.StringVar(&c.Topology, "topology", c.Topology, "edge handling: wrap or bounded")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel size of one cell")
	fs.Var(&c.Alive, "alive", "live cell color as r,g,b or #rrggbb")
	fs.Var(&c.Dead, "dead", "dead cell color as r,g,b or #rrggbb")
	fs.StringVar(&c.Output, "o", c.Output, "output video (.mp4, .mkv, ...) or .gif; empty disables recording")
	fs.IntVar(&c.FPS, "fps", c.FPS, "output framerate")
	fs.StringVar(&c.Codec, "codec", c.Codec, "ffmpeg video codec")
	fs.StringVar(&c.PixelFormat, "pix-fmt", c.PixelFormat, "raw frame pixel format: rgb24, bgr24, rgba, gray")
	fs.Var((*argList)(&c.EncoderArgs), "encoder-arg", "extra ffmpeg output argument (repeatable)")
	fs.StringVar(&c.FFmpeg, "ffmpeg", c.FFmpeg, "path to the ffmpeg binary")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "show encoder output and debug logs")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "write the final generation as .png, .bmp or .tiff")
	fs.IntVar(&c.TPS, "tps", c.TPS, "generations per second in the viewer")
}

// Load decodes a TOML file over c. Keys that do not map to a field are an
// error so typos do not pass silently.
func (c *Config) Load(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: config %s: unknown keys %s", life.ErrInvalidArgument, path, strings.Join(keys, ", "))
	}
	return nil
}

// Parse builds a Config from args. A -config file is applied over the
// defaults first; flags given explicitly on the command line win over it.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := DefaultConfig()
	var path string
	fs.StringVar(&path, "config", "", "TOML file with run settings")
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if path != "" {
		fromFile := DefaultConfig()
		if err := fromFile.Load(path); err != nil {
			return nil, err
		}
		overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
		fromFile.Bind(overlay)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			switch {
			case f.Name == "config" || setErr != nil:
				return
			case f.Name == "encoder-arg":
				fromFile.EncoderArgs = cfg.EncoderArgs
				return
			}
			setErr = overlay.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return nil, setErr
		}
		cfg = fromFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and that every named value parses.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid %dx%d must be positive", life.ErrInvalidArgument, c.Width, c.Height))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("%w: ticks %d must not be negative", life.ErrInvalidArgument, c.Ticks))
	}
	if c.Scale < 1 {
		errs = append(errs, fmt.Errorf("%w: scale %d must be at least 1", life.ErrInvalidArgument, c.Scale))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: fps %d must be positive", life.ErrInvalidArgument, c.FPS))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: tps %d must be positive", life.ErrInvalidArgument, c.TPS))
	}
	if _, err := c.Ruleset(); err != nil {
		errs = append(errs, err)
	}
	if _, err := video.ParsePixelFormat(c.PixelFormat); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Shape returns the grid shape as (rows, columns).
func (c *Config) Shape() []int { return []int{c.Height, c.Width} }

// Ruleset parses Rule and Topology.
func (c *Config) Ruleset() (*life.Ruleset, error) {
	topo, err := life.ParseTopology(c.Topology)
	if err != nil {
		return nil, err
	}
	return life.ParseRule(c.Rule, topo)
}

// DrawParams returns the render settings.
func (c *Config) DrawParams() (render.DrawParams, error) {
	return render.NewDrawParams(c.Dead, c.Alive, c.Scale)
}

// SinkOptions returns the encoder settings for frames of the configured
// grid drawn at the configured scale.
func (c *Config) SinkOptions() (video.Options, error) {
	pix, err := video.ParsePixelFormat(c.PixelFormat)
	if err != nil {
		return video.Options{}, err
	}
	frame := core.Size{W: c.Width, H: c.Height}.Scale(c.Scale)
	return video.Options{
		Framerate:   c.FPS,
		Width:       frame.W,
		Height:      frame.H,
		PixelFormat: pix,
		Output:      c.Output,
		Codec:       c.Codec,
		OutputArgs:  c.EncoderArgs,
		FFmpegPath:  c.FFmpeg,
		Quiet:       !c.Verbose,
	}, nil
}

// argList collects a repeatable string flag.
type argList []string

func (l *argList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, " ")
}

func (l *argList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
