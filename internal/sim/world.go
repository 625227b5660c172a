// Package sim drives the movement core one fixed tick at a time: clock,
// timers, platforms, trigger volumes and then entities, in that order.
package sim

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"kinematic3d/internal/bounds"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/fsm"
	"kinematic3d/internal/gravity"
	"kinematic3d/internal/physics"
	"kinematic3d/internal/platform"

	"github.com/rs/zerolog"
)

// FieldDefaults are applied to gravity fields built from scene files.
type FieldDefaults struct {
	IgnoreDuration        float32
	DetachOnExit          bool
	ResetRotationOnDetach bool
}

func DefaultFieldDefaults() FieldDefaults {
	return FieldDefaults{IgnoreDuration: gravity.DefaultIgnoreDuration}
}

// World owns the simulation state. It is not safe for concurrent use.
type World struct {
	Clock     *engine.Clock
	Scheduler *engine.Scheduler
	Physics   *physics.World
	Bounds    *bounds.Helper
	Scene     *engine.Scene

	// Used when building objects from scene files.
	EntityConfig entity.Config
	Tunables     Tunables
	Fields       FieldDefaults

	platforms []platform.Updater
	entities  []*entity.Entity
	followers []*gravity.Follower
	// Objects whose volumes are tested against triggers every tick.
	bodies []*engine.GameObject
	pilots map[*entity.Entity]*Pilot

	entityCount atomic.Int64
	metrics     *metrics
	log         zerolog.Logger
}

func NewWorld(log zerolog.Logger) (*World, error) {
	clock := engine.NewClock()
	w := &World{
		Clock:        clock,
		Scheduler:    engine.NewScheduler(clock),
		Physics:      physics.NewWorld(log),
		Bounds:       bounds.NewHelper(),
		Scene:        engine.NewScene("sim"),
		EntityConfig: entity.DefaultConfig(),
		Tunables:     DefaultTunables(),
		Fields:       DefaultFieldDefaults(),
		pilots:       make(map[*entity.Entity]*Pilot),
		log:          log,
	}

	m, err := newMetrics(w)
	if err != nil {
		return nil, err
	}
	w.metrics = m
	return w, nil
}

// Add registers g with the scene, the physics world and the update lists.
// Components must be attached before the call.
func (w *World) Add(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	w.Physics.AddObject(g)

	body := false
	for _, c := range g.Components() {
		switch v := c.(type) {
		case *entity.Entity:
			w.addEntity(v)
			body = true
		case *gravity.Follower:
			w.followers = append(w.followers, v)
			body = true
		case platform.Updater:
			w.platforms = append(w.platforms, v)
		}
	}
	if body {
		w.bodies = append(w.bodies, g)
	}
}

func (w *World) addEntity(e *entity.Entity) {
	w.entities = append(w.entities, e)
	w.entityCount.Add(1)

	name := e.GetGameObject().Name
	e.Events.GroundEnter.AddListener(func() {
		w.metrics.groundEnters.Add(context.Background(), 1, entityAttr(name))
	})
	e.States.OnChange.AddListener(func(t fsm.Transition) {
		w.metrics.stateChanges.Add(context.Background(), 1, entityAttr(name))
		w.log.Debug().Str("entity", name).Str("from", t.From).Str("to", t.To).Msg("state change")
	})
}

// Remove takes g out of every list. Listeners hooked by Add stay on the
// entity's events.
func (w *World) Remove(g *engine.GameObject) {
	w.Scene.RemoveGameObject(g)
	w.Physics.RemoveObject(g)

	w.entities = slices.DeleteFunc(w.entities, func(e *entity.Entity) bool {
		if e.GetGameObject() != g {
			return false
		}
		delete(w.pilots, e)
		return true
	})
	w.entityCount.Store(int64(len(w.entities)))
	w.followers = slices.DeleteFunc(w.followers, func(f *gravity.Follower) bool { return f.GetGameObject() == g })
	w.platforms = slices.DeleteFunc(w.platforms, func(p platform.Updater) bool {
		c, ok := p.(engine.Component)
		return ok && c.GetGameObject() == g
	})
	w.bodies = slices.DeleteFunc(w.bodies, func(b *engine.GameObject) bool { return b == g })
}

// Step advances the simulation by dt seconds. Platforms move before
// entities so riders are carried before they resolve their own motion.
func (w *World) Step(dt float32) {
	start := time.Now()

	w.Clock.Advance(dt)
	w.Scheduler.Run()
	delta := w.Clock.DeltaTime()

	for _, p := range w.platforms {
		p.PlatformUpdate(delta)
	}

	w.Physics.DispatchTriggers(w.bodies)

	for _, e := range w.entities {
		e.Update(delta)
	}
	for _, f := range w.followers {
		f.Update(delta)
	}
	for _, e := range w.entities {
		e.RecordPosition()
	}

	ctx := context.Background()
	w.metrics.ticks.Add(ctx, 1)
	w.metrics.tickDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000)
}

// Run steps the world ticks times, stopping early when ctx is done.
func (w *World) Run(ctx context.Context, ticks int, dt float32, each func(tick int)) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Step(dt)
		if each != nil {
			each(i)
		}
	}
	return nil
}

func (w *World) Entities() []*entity.Entity {
	return w.entities
}

// Entity finds an entity by its GameObject name.
func (w *World) Entity(name string) *entity.Entity {
	for _, e := range w.entities {
		if e.GetGameObject().Name == name {
			return e
		}
	}
	return nil
}

func (w *World) Followers() []*gravity.Follower {
	return w.followers
}

func (w *World) Platforms() []platform.Updater {
	return w.platforms
}
