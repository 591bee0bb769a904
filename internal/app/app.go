//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"ndlife/internal/config"
	"ndlife/internal/render"
	"ndlife/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the width in pixels of the parameter panel.
const hudWidth = 240

// Game adapts a Session to the ebiten.Game interface.
type Game struct {
	session *Session
	hud     *ui.HUD

	img      *ebiten.Image
	buf      []byte
	scale    int
	snapshot string
	saved    int
}

// New constructs a Game for the provided configuration.
func New(cfg *config.Config) (*Game, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	size := s.State().Size()
	return &Game{
		session:  s,
		hud:      ui.NewHUD(s, hudWidth),
		img:      ebiten.NewImage(size.W, size.H),
		buf:      make([]byte, 4*size.Area()),
		scale:    cfg.Scale,
		snapshot: cfg.Snapshot,
	}, nil
}

// Title returns the window title.
func (g *Game) Title() string { return g.session.Name() }

// WindowSize returns the initial window dimensions.
func (g *Game) WindowSize() (int, int) { return g.Layout(0, 0) }

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.session.Resume()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.session.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reset(g.session.Seed()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		if err := g.session.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveSnapshot()
	}

	size := g.session.State().Size()
	g.hud.Update(size.W * g.scale)
	g.session.Advance(time.Now())
	return nil
}

// saveSnapshot writes the current generation next to the configured
// snapshot path. Failures are logged and the viewer keeps running.
func (g *Game) saveSnapshot() {
	path := g.snapshot
	if path == "" {
		path = fmt.Sprintf("ndlife-%d-%06d.png", g.session.Seed(), g.session.State().Generation())
	} else if g.saved > 0 {
		path = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, filepath.Ext(path)), g.saved, filepath.Ext(path))
	}
	if err := render.Save(path, g.session.State(), g.session.DrawParams()); err != nil {
		slog.Warn("snapshot failed", "path", path, "err", err)
		return
	}
	g.saved++
	slog.Info("snapshot saved", "path", path, "generation", g.session.State().Generation())
}

// Draw renders the current generation and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	render.FillRGBA(g.buf, g.session.State(), g.session.DrawParams())
	g.img.WritePixels(g.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)

	size := g.session.State().Size()
	g.hud.Draw(screen, size.W*g.scale, size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.session.State().Size()
	return s.W*g.scale + hudWidth, s.H * g.scale
}
