//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"

	"ndlife/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Provider supplies the values and controls shown on the HUD.
type Provider interface {
	Name() string
	Parameters() core.ParameterSnapshot
	ParameterControls() []core.ParameterControl
}

// HUD renders the parameter panel to the right of the grid view.
type HUD struct {
	src      Provider
	setter   core.IntParameterSetter
	width    int
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot
	values   map[string]string

	controls     []hudControlState
	panelOffsetX int

	pixel *ebiten.Image
}

type hudControlState struct {
	control   core.ParameterControl
	value     int
	hasValue  bool
	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 18
	groupSpacing   = 10
	controlHeight  = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
)

var (
	panelBG   = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleFG   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupFG   = color.RGBA{R: 140, G: 170, B: 220, A: 255}
	labelFG   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedFG   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG  = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	disableBG = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// NewHUD constructs a HUD for the provided source and panel width.
func NewHUD(src Provider, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{src: src, width: width, values: map[string]string{}}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if setter, ok := src.(core.IntParameterSetter); ok {
		h.setter = setter
	}
	for _, ctrl := range src.ParameterControls() {
		h.controls = append(h.controls, hudControlState{control: ctrl})
	}
	return h
}

// Update refreshes the snapshot and handles clicks on control buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.src.Parameters()
	clear(h.values)
	for _, group := range h.snapshot.Groups {
		for _, p := range group.Params {
			h.values[p.Key] = p.Value
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		v, err := strconv.Atoi(h.values[state.control.Key])
		state.hasValue = err == nil
		state.value = v
	}
	h.handleInput()
}

func (h *HUD) handleInput() {
	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	mx -= h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		switch {
		case pointInRect(mx, my, state.minusRect):
			h.adjust(state, -1)
		case pointInRect(mx, my, state.plusRect):
			h.adjust(state, 1)
		}
	}
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	step := state.control.Step
	if step <= 0 {
		step = 1
	}
	target := state.control.Clamp(state.value + direction*step)
	if target == state.value {
		return
	}
	if h.setter.SetIntParameter(state.control.Key, target) {
		state.value = target
	}
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.src.Name(), face, panelPadding, y, titleFG)
	for _, group := range h.snapshot.Groups {
		y += lineHeight + groupSpacing
		text.Draw(h.panel, group.Name, face, panelPadding, y, groupFG)
		for _, p := range group.Params {
			y += lineHeight
			text.Draw(h.panel, p.Label, face, panelPadding, y, labelFG)
			bounds := text.BoundString(face, p.Value)
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-bounds.Dx(), y, labelFG)
		}
	}

	y += groupSpacing
	for i := range h.controls {
		h.layoutControl(&h.controls[i], y+i*controlHeight)
		h.drawControl(&h.controls[i])
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) layoutControl(state *hudControlState, top int) {
	buttonY := top + (controlHeight-buttonSize)/2
	state.top = top
	state.plusRect = image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
	state.minusRect = image.Rect(state.plusRect.Min.X-buttonGap-buttonSize, buttonY, state.plusRect.Min.X-buttonGap, buttonY+buttonSize)
}

func (h *HUD) drawControl(state *hudControlState) {
	face := basicfont.Face7x13
	baseline := state.top + controlHeight/2 + 5
	fg := labelFG
	if !state.hasValue {
		fg = mutedFG
	}
	text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, fg)
	h.drawButton(state.minusRect, "-", state.hasValue && state.value > state.control.Min)
	h.drawButton(state.plusRect, "+", state.hasValue && state.value < state.control.Max)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg, fg := buttonBG, labelFG
	if !enabled {
		bg, fg = disableBG, mutedFG
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
