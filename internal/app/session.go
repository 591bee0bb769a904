package app

import (
	"fmt"
	"time"

	"ndlife/internal/config"
	"ndlife/internal/core"
	"ndlife/internal/render"
	pcore "ndlife/pkg/core"
	"ndlife/pkg/life"
)

// tpsControl is the HUD control for simulation speed.
var tpsControl = pcore.ParameterControl{Key: "tps", Label: "Speed (tps)", Step: 5, Min: 1, Max: 240}

// Session holds the viewer's simulation state independent of any window
// system: the current generation, pacing and pause handling.
type Session struct {
	rules  *life.Ruleset
	shape  []int
	params render.DrawParams

	state    *life.State
	seed     int64
	clock    *core.FixedStep
	paused   bool
	tickOnce bool
}

// NewSession seeds a random board from cfg.
func NewSession(cfg *config.Config) (*Session, error) {
	rules, err := cfg.Ruleset()
	if err != nil {
		return nil, err
	}
	params, err := cfg.DrawParams()
	if err != nil {
		return nil, err
	}
	s := &Session{
		rules:  rules,
		shape:  cfg.Shape(),
		params: params,
		clock:  core.NewFixedStep(cfg.TPS),
	}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset replaces the board with a fresh random one.
func (s *Session) Reset(seed int64) error {
	state, err := life.RandomSeeded(s.rules, s.shape, seed)
	if err != nil {
		return err
	}
	s.state = state
	s.seed = seed
	s.tickOnce = false
	s.clock.Reset()
	return nil
}

// State returns the current generation.
func (s *Session) State() *life.State { return s.state }

// Seed returns the seed of the current board.
func (s *Session) Seed() int64 { return s.seed }

// DrawParams returns the colors and scale used to draw the board.
func (s *Session) DrawParams() render.DrawParams { return s.params }

// Paused reports whether automatic stepping is suspended.
func (s *Session) Paused() bool { return s.paused }

// TogglePause flips the paused flag.
func (s *Session) TogglePause() { s.paused = !s.paused }

// Resume clears the paused flag.
func (s *Session) Resume() { s.paused = false }

// StepOnce requests a single generation on the next Advance, even when
// paused.
func (s *Session) StepOnce() { s.tickOnce = true }

// Advance steps the board by however many ticks are due at now and returns
// that count.
func (s *Session) Advance(now time.Time) int {
	due := s.clock.Advance(now)
	if s.paused {
		due = 0
	}
	if s.tickOnce {
		due = max(due, 1)
		s.tickOnce = false
	}
	for i := 0; i < due; i++ {
		s.state = s.state.Step()
	}
	return due
}

// Name identifies the view in the window title.
func (s *Session) Name() string { return fmt.Sprintf("ndlife %s", s.rules) }

// Parameters implements the HUD's value provider.
func (s *Session) Parameters() pcore.ParameterSnapshot {
	status := "running"
	if s.paused {
		status = "paused"
	}
	size := s.state.Size()
	return pcore.ParameterSnapshot{Groups: []pcore.ParameterGroup{
		{
			Name: "Rule",
			Params: []pcore.Parameter{
				pcore.TextParam("rule", "Rule", s.rules.String()),
				pcore.TextParam("grid", "Grid", fmt.Sprintf("%dx%d", size.W, size.H)),
				pcore.IntParam("seed", "Seed", int(s.seed)),
			},
		},
		{
			Name: "Run",
			Params: []pcore.Parameter{
				pcore.IntParam("generation", "Generation", s.state.Generation()),
				pcore.IntParam("population", "Population", s.state.Population()),
				pcore.IntParam("tps", "Speed (tps)", s.clock.TPS()),
				pcore.TextParam("status", "Status", status),
			},
		},
	}}
}

// ParameterControls lists the adjustable values.
func (s *Session) ParameterControls() []pcore.ParameterControl {
	return []pcore.ParameterControl{tpsControl}
}

// SetIntParameter updates an adjustable value, clamped to its bounds.
func (s *Session) SetIntParameter(key string, value int) bool {
	if key != tpsControl.Key {
		return false
	}
	s.clock.SetTPS(tpsControl.Clamp(value))
	return true
}
