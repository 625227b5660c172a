package sim

import (
	"context"
	"testing"

	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/platform"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 0.02

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(zerolog.Nop())
	require.NoError(t, err)
	return w
}

func addFloor(w *World) *engine.GameObject {
	g := engine.NewGameObject("floor")
	g.Static = true
	g.Transform.Position = rl.Vector3{Y: -0.5}
	g.AddComponent(components.NewBoxCollider(rl.Vector3{X: 100, Y: 1, Z: 100}))
	w.Add(g)
	return g
}

func steps(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Step(dt)
	}
}

func TestPlayerFallsLandsAndWalks(t *testing.T) {
	w := newTestWorld(t)
	addFloor(w)
	e, pilot, err := w.NewPlayer("player", rl.Vector3{Y: 3})
	require.NoError(t, err)
	require.Same(t, pilot, w.Pilot(e))

	landings := 0
	e.Events.GroundEnter.AddListener(func() { landings++ })
	pilot.Input.Move = rl.Vector3{Z: 1}

	steps(w, 5)
	assert.Equal(t, StateFall, e.States.CurrentID())

	steps(w, 95)
	assert.True(t, e.IsGrounded())
	assert.Equal(t, 1, landings)
	assert.Equal(t, StateWalk, e.States.CurrentID())
	pos := e.GetGameObject().Transform.Position
	assert.InDelta(t, 1, pos.Y, 0.05)
	assert.Greater(t, pos.Z, float32(3))
	assert.InDelta(t, 6, e.LateralVelocity().Z, 0.1)
	assert.InDelta(t, 2, w.Clock.Time(), 1e-4)
}

func TestPlayerJumpsAndStops(t *testing.T) {
	w := newTestWorld(t)
	addFloor(w)
	e, pilot, err := w.NewPlayer("player", rl.Vector3{Y: 1})
	require.NoError(t, err)

	steps(w, 2)
	require.True(t, e.IsGrounded())
	assert.Equal(t, StateIdle, e.States.CurrentID())

	pilot.Input.Jump = true
	steps(w, 1)
	assert.False(t, pilot.Input.Jump)
	assert.Equal(t, StateFall, e.States.CurrentID())
	steps(w, 5)
	assert.False(t, e.IsGrounded())
	assert.Greater(t, e.GetGameObject().Transform.Position.Y, float32(1.5))

	steps(w, 100)
	assert.True(t, e.IsGrounded())
	assert.Equal(t, StateIdle, e.States.CurrentID())
	assert.InDelta(t, 1, e.GetGameObject().Transform.Position.Y, 0.05)
}

func TestPlatformsMoveBeforeRiders(t *testing.T) {
	w := newTestWorld(t)
	scheduler := w.Scheduler

	lift := engine.NewGameObject("lift")
	lift.Transform.Position = rl.Vector3{Y: -0.25}
	lift.AddComponent(components.NewBoxCollider(rl.Vector3{X: 4, Y: 0.5, Z: 4}))
	mover := platform.NewMovingPlatform(platform.NewWaypoints(scheduler, platform.Once,
		platform.Waypoint{Position: rl.Vector3{Y: -0.25}, Rotation: rl.QuaternionIdentity()},
		platform.Waypoint{Position: rl.Vector3{X: 10, Y: -0.25}, Rotation: rl.QuaternionIdentity()},
	))
	mover.Speed = 2
	lift.AddComponent(mover)
	w.Add(lift)

	e, _, err := w.NewPlayer("player", rl.Vector3{Y: 1})
	require.NoError(t, err)

	steps(w, 50)
	require.NotNil(t, e.Platform())
	assert.Contains(t, mover.Attached(), e.GetGameObject())

	liftX := lift.Transform.Position.X
	assert.Greater(t, liftX, float32(1.5))
	assert.InDelta(t, liftX, e.GetGameObject().Transform.Position.X, 1e-2)
	assert.True(t, e.IsGrounded())
}

func TestPausedClockFreezesStates(t *testing.T) {
	w := newTestWorld(t)
	addFloor(w)
	e, pilot, err := w.NewPlayer("player", rl.Vector3{Y: 1})
	require.NoError(t, err)
	steps(w, 2)

	w.Clock.TimeScale = 0
	pilot.Input.Move = rl.Vector3{X: 1}
	steps(w, 10)
	assert.Equal(t, StateIdle, e.States.CurrentID())
	assert.InDelta(t, 0, e.GetGameObject().Transform.Position.X, 1e-5)

	w.Clock.TimeScale = 1
	steps(w, 1)
	assert.Equal(t, StateWalk, e.States.CurrentID())
}

func TestRunHonoursCancellation(t *testing.T) {
	w := newTestWorld(t)

	ticks := 0
	require.NoError(t, w.Run(context.Background(), 5, dt, func(int) { ticks++ }))
	assert.Equal(t, 5, ticks)
	assert.Equal(t, uint64(5), w.Clock.Ticks())

	ctx, cancel := context.WithCancel(context.Background())
	err := w.Run(ctx, 10, dt, func(tick int) {
		if tick == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(8), w.Clock.Ticks())
}

func TestRemoveDropsEverywhere(t *testing.T) {
	w := newTestWorld(t)
	floor := addFloor(w)
	e, _, err := w.NewPlayer("player", rl.Vector3{Y: 1})
	require.NoError(t, err)
	require.Same(t, e, w.Entity("player"))

	w.Remove(e.GetGameObject())
	assert.Empty(t, w.Entities())
	assert.Nil(t, w.Entity("player"))
	assert.Nil(t, w.Pilot(e))
	assert.Same(t, floor, w.Scene.FindByName("floor"))
	assert.Nil(t, w.Scene.FindByName("player"))
	assert.Equal(t, int64(0), w.entityCount.Load())

	steps(w, 3)
}

func TestRegistryRejectsUnknownStates(t *testing.T) {
	w := newTestWorld(t)
	e := entity.New(w.Physics, w.Clock, w.EntityConfig, zerolog.Nop())
	err := PilotStates(&Pilot{}).Populate(e.States, StateIdle, "swim")
	assert.EqualError(t, err, `unknown state "swim"`)
}
