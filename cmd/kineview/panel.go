package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorBgDark    = rl.NewColor(24, 24, 32, 230)
	colorBgElement = rl.NewColor(44, 44, 58, 255)
	colorBgHover   = rl.NewColor(60, 60, 80, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)
	colorText      = rl.NewColor(220, 220, 230, 255)
	colorTextMuted = rl.NewColor(150, 150, 165, 255)
)

const (
	panelW  = 280
	rowH    = 22
	labelW  = 110
	sliderW = 110
)

// panel tunes the world and the selected entity. Tunables apply to every
// pilot; controller values apply to the selected entity only.
type panel struct {
	v         *viewer
	timeScale float32
}

func newPanel(v *viewer) panel {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	return panel{v: v, timeScale: 1}
}

func (p *panel) slider(y *int32, label string, value, lo, hi float32) float32 {
	x := int32(rl.GetScreenWidth()) - panelW + 10
	rl.DrawText(label, x, *y+5, 14, colorTextMuted)
	bounds := rl.Rectangle{X: float32(x + labelW), Y: float32(*y), Width: sliderW, Height: rowH}
	value = gui.Slider(bounds, "", fmt.Sprintf("%.2f", value), value, lo, hi)
	*y += rowH + 6
	return value
}

func (p *panel) checkBox(y *int32, label string, value bool) bool {
	x := int32(rl.GetScreenWidth()) - panelW + 10
	bounds := rl.Rectangle{X: float32(x), Y: float32(*y), Width: rowH - 6, Height: rowH - 6}
	value = gui.CheckBox(bounds, label, value)
	*y += rowH + 2
	return value
}

func (p *panel) draw() {
	w := p.v.world
	x := int32(rl.GetScreenWidth()) - panelW
	rl.DrawRectangle(x, 0, panelW, int32(rl.GetScreenHeight()), colorBgDark)
	rl.DrawRectangle(x, 0, 1, int32(rl.GetScreenHeight()), colorAccent)

	y := int32(12)
	rl.DrawText("Simulation", x+10, y, 18, colorText)
	y += 28
	p.timeScale = p.slider(&y, "Time scale", p.timeScale, 0, 2)
	p.v.paused = p.checkBox(&y, "Paused (P)", p.v.paused)
	p.v.debug = p.checkBox(&y, "Debug draw (F1)", p.v.debug)

	y += 10
	rl.DrawText("Pilots", x+10, y, 18, colorText)
	y += 28
	t := &w.Tunables
	t.TopSpeed = p.slider(&y, "Top speed", t.TopSpeed, 1, 20)
	t.Acceleration = p.slider(&y, "Acceleration", t.Acceleration, 1, 60)
	t.JumpSpeed = p.slider(&y, "Jump speed", t.JumpSpeed, 2, 30)
	t.Gravity = p.slider(&y, "Gravity", t.Gravity, 1, 80)

	e := p.v.current()
	if e == nil {
		return
	}
	y += 10
	rl.DrawText(e.GetGameObject().Name, x+10, y, 18, colorText)
	y += 28
	r := e.Resolver()
	r.SlopeLimit = p.slider(&y, "Slope limit", r.SlopeLimit, 0, 89)
	r.StepOffset = p.slider(&y, "Step offset", r.StepOffset, 0, 1)
	e.RotateToGround = p.checkBox(&y, "Rotate to ground", e.RotateToGround)
	if gui.Button(rl.Rectangle{X: float32(x + 10), Y: float32(y), Width: panelW - 20, Height: rowH}, "Lock gravity") {
		e.LockGravity(0)
	}
}
