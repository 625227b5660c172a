// Command kineview opens a window on a scene and lets you drive its players
// with the keyboard while tuning them from a side panel.
package main

import (
	"flag"
	"fmt"
	"os"

	"kinematic3d/internal/camera"
	"kinematic3d/internal/config"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/logging"
	"kinematic3d/internal/sim"

	"github.com/caarlos0/env/v11"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type options struct {
	Config   string `env:"KINEVIEW_CONFIG"`
	Scene    string `env:"KINEVIEW_SCENE" envDefault:"assets/scenes/playground.json"`
	LogLevel string `env:"KINEVIEW_LOG_LEVEL" envDefault:"info"`
	Width    int    `env:"KINEVIEW_WIDTH" envDefault:"1280"`
	Height   int    `env:"KINEVIEW_HEIGHT" envDefault:"720"`
}

// maxStepsPerFrame keeps a slow frame from spiralling into ever more ticks.
const maxStepsPerFrame = 5

type viewer struct {
	world    *sim.World
	settings *config.Settings
	selected int
	paused   bool
	debug    bool

	accumulator float32
	orbit       *camera.Orbit
	panel       panel
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "kineview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	fs := flag.NewFlagSet("kineview", flag.ContinueOnError)
	fs.StringVar(&opts.Config, "config", opts.Config, "tunables file (json, yaml or toml)")
	fs.StringVar(&opts.Scene, "scene", opts.Scene, "scene file")
	fs.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	settings := config.Default()
	if opts.Config != "" {
		s, err := config.Load(opts.Config)
		if err != nil {
			return err
		}
		settings = s
	}

	log := logging.NewConsole(os.Stderr, opts.LogLevel, true)
	w, err := sim.NewWorld(log)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}
	settings.Apply(w)
	if err := w.LoadScene(opts.Scene); err != nil {
		return err
	}

	v := &viewer{world: w, settings: settings, orbit: camera.New()}
	v.panel = newPanel(v)

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "kineview - "+opts.Scene)
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)

	for !rl.WindowShouldClose() {
		v.update(rl.GetFrameTime())
		v.draw()
	}
	return nil
}

func (v *viewer) current() *entity.Entity {
	entities := v.world.Entities()
	if len(entities) == 0 {
		return nil
	}
	return entities[v.selected%len(entities)]
}

func (v *viewer) update(frame float32) {
	if rl.IsKeyPressed(rl.KeyTab) {
		v.selected++
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		v.debug = !v.debug
	}

	e := v.current()
	if e != nil {
		v.steer(e)
	}
	var look rl.Vector2
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		look = rl.GetMouseDelta()
	}
	follow := v.orbit.Target
	if e != nil {
		follow = e.Position()
	}
	v.orbit.Update(frame, follow, look, rl.GetMouseWheelMove())

	if v.paused {
		v.world.Clock.TimeScale = 0
	} else {
		v.world.Clock.TimeScale = v.panel.timeScale
	}

	// Fixed step; TimeScale slows the simulated time, not the tick rate.
	step := v.settings.TickDelta()
	v.accumulator += frame
	for i := 0; v.accumulator >= step && i < maxStepsPerFrame; i++ {
		v.world.Step(step)
		v.accumulator -= step
	}
	if v.accumulator > step {
		v.accumulator = 0
	}
}

// steer feeds the keyboard into the selected entity's pilot. Movement is
// relative to the camera heading projected onto the entity's frame.
func (v *viewer) steer(e *entity.Entity) {
	p := v.world.Pilot(e)
	if p == nil {
		return
	}

	var side, ahead float32
	if rl.IsKeyDown(rl.KeyW) {
		ahead++
	}
	if rl.IsKeyDown(rl.KeyS) {
		ahead--
	}
	if rl.IsKeyDown(rl.KeyA) {
		side++
	}
	if rl.IsKeyDown(rl.KeyD) {
		side--
	}

	// Screen left of a right-handed camera looking along forward.
	forward := v.orbit.Heading()
	left := rl.Vector3{X: forward.Z, Z: -forward.X}
	p.Input.Move = e.LocalDirection(rl.Vector3Add(rl.Vector3Scale(forward, ahead), rl.Vector3Scale(left, side)))
	if rl.IsKeyPressed(rl.KeySpace) {
		p.Input.Jump = true
	}
	p.Tunables = v.world.Tunables
}
