// Command kinesim runs a scene headless for a fixed number of ticks and logs
// what every entity is doing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"kinematic3d/internal/config"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/logging"
	"kinematic3d/internal/sim"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type options struct {
	Config      string `env:"KINESIM_CONFIG"`
	Scene       string `env:"KINESIM_SCENE" envDefault:"assets/scenes/playground.json"`
	LogLevel    string `env:"KINESIM_LOG_LEVEL"`
	Ticks       int    `env:"KINESIM_TICKS"`
	ReportEvery int    `env:"KINESIM_REPORT_EVERY" envDefault:"50"`
	Console     bool   `env:"KINESIM_CONSOLE" envDefault:"true"`
}

func parseOptions(args []string) (options, error) {
	var opts options
	if err := env.Parse(&opts); err != nil {
		return opts, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("kinesim", flag.ContinueOnError)
	fs.StringVar(&opts.Config, "config", opts.Config, "tunables file (json, yaml or toml)")
	fs.StringVar(&opts.Scene, "scene", opts.Scene, "scene file")
	fs.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "overrides the configured log level")
	fs.IntVar(&opts.Ticks, "ticks", opts.Ticks, "ticks to run, 0 uses sim.maxTicks")
	fs.IntVar(&opts.ReportEvery, "report-every", opts.ReportEvery, "ticks between entity reports, 0 disables")
	fs.BoolVar(&opts.Console, "console", opts.Console, "human readable log output")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parse flags: %w", err)
	}
	return opts, nil
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(opts.Config)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := logging.New(out, level)
	if opts.Console {
		log = logging.NewConsole(out, level, false)
	}

	w, err := sim.NewWorld(log)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}
	settings.Apply(w)
	if err := w.LoadScene(opts.Scene); err != nil {
		return err
	}

	ticks := opts.Ticks
	if ticks <= 0 {
		ticks = settings.Sim.MaxTicks
	}
	log.Info().Str("scene", opts.Scene).Int("ticks", ticks).Int("entities", len(w.Entities())).Msg("simulation started")

	err = w.Run(ctx, ticks, settings.TickDelta(), func(tick int) {
		if opts.ReportEvery > 0 && (tick+1)%opts.ReportEvery == 0 {
			report(log, w, tick+1)
		}
	})
	if err != nil {
		log.Warn().Err(err).Uint64("ticks", w.Clock.Ticks()).Msg("simulation interrupted")
		return nil
	}

	report(log, w, ticks)
	log.Info().Uint64("ticks", w.Clock.Ticks()).Float64("time", w.Clock.Time()).Msg("simulation finished")
	return nil
}

func report(log zerolog.Logger, w *sim.World, tick int) {
	for _, e := range w.Entities() {
		reportEntity(log, w, e, tick)
	}
}

func reportEntity(log zerolog.Logger, w *sim.World, e *entity.Entity, tick int) {
	pos := e.GetGameObject().Transform.Position
	up := e.GetGameObject().Transform.Up()
	ev := log.Info().
		Int("tick", tick).
		Str("entity", e.GetGameObject().Name).
		Str("state", e.States.CurrentID()).
		Bool("grounded", e.IsGrounded()).
		Floats32("position", []float32{pos.X, pos.Y, pos.Z}).
		Floats32("up", []float32{up.X, up.Y, up.Z})
	if f := e.GravityField(); f != nil {
		ev = ev.Str("field", f.GetGameObject().Name)
	}
	if e.Platform() != nil {
		ev = ev.Bool("onPlatform", true)
	}
	if p := w.Pilot(e); p != nil {
		ev = ev.Int("hazards", p.Hazards)
	}
	ev.Msg("entity")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "kinesim:", err)
		os.Exit(1)
	}
}
