package platform

import (
	"testing"

	"kinematic3d/internal/bounds"
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rider struct {
	engine.BaseComponent
	step   rl.Vector3
	height float32
}

func (r *rider) Position() rl.Vector3     { return r.GetGameObject().Transform.Position }
func (r *rider) StepPosition() rl.Vector3 { return r.step }
func (r *rider) Velocity() rl.Vector3     { return rl.Vector3{} }
func (r *rider) Height() float32          { return r.height }

func newRider(name string, pos rl.Vector3, tags ...string) (*engine.GameObject, *rider) {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.Tags = tags
	r := &rider{height: 2}
	g.AddComponent(r)
	return g, r
}

func assertVec(t *testing.T, want, got rl.Vector3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-3, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-3, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-3, msgAndArgs...)
}

func TestPlatformCarriesAttached(t *testing.T) {
	g := engine.NewGameObject("lift")
	p := &Platform{}
	g.AddComponent(p)
	assert.True(t, engine.IsPlatform(g))

	passenger, _ := newRider("passenger", rl.Vector3{X: 2, Y: 1})
	p.Attach(passenger)
	p.Attach(passenger)
	require.Len(t, p.Attached(), 1)

	p.CacheTransform()
	turn := engine.AngleAxis(90, engine.WorldUp)
	g.Transform.Position = rl.Vector3{Z: 5}
	g.Transform.Rotation = turn
	p.HandleAttached()

	assertVec(t, rl.Vector3{Y: 1, Z: 3}, passenger.Transform.Position)
	assert.InDelta(t, 0, engine.QuaternionAngle(turn, passenger.Transform.Rotation), 1e-2)

	p.Detach(passenger)
	assert.Empty(t, p.Attached())
	p.Attach(passenger)
	p.DetachAll()
	assert.Empty(t, p.Attached())
}

func TestWaypointModes(t *testing.T) {
	points := []Waypoint{
		{Position: rl.Vector3{}},
		{Position: rl.Vector3{X: 1}},
		{Position: rl.Vector3{X: 2}},
	}
	cases := []struct {
		mode WaypointMode
		want []int
	}{
		{Loop, []int{1, 2, 0, 1}},
		{PingPong, []int{1, 2, 1, 0, 1}},
		{Once, []int{1, 2, 2, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			scheduler := engine.NewScheduler(engine.NewClock())
			w := NewWaypoints(scheduler, tc.mode, points...)
			var got []int
			for range tc.want {
				w.Next()
				scheduler.Run()
				got = append(got, w.Index())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWaypointWaitTime(t *testing.T) {
	clock := engine.NewClock()
	scheduler := engine.NewScheduler(clock)
	w := NewWaypoints(scheduler, Loop, Waypoint{}, Waypoint{Position: rl.Vector3{X: 1}}, Waypoint{Position: rl.Vector3{X: 2}})
	w.WaitTime = 1

	w.Next()
	clock.Advance(0.5)
	scheduler.Run()
	assert.True(t, w.Changing())
	assert.Equal(t, 0, w.Index())

	// Ignored while the first change is pending.
	w.Next()
	clock.Advance(0.5)
	scheduler.Run()
	assert.False(t, w.Changing())
	assert.Equal(t, 1, w.Index())
	assert.Equal(t, 0, scheduler.Pending())
	assert.Equal(t, rl.Vector3{}, w.Previous().Position)
}

func TestParseWaypointMode(t *testing.T) {
	m, err := ParseWaypointMode("PingPong")
	require.NoError(t, err)
	assert.Equal(t, PingPong, m)

	_, err = ParseWaypointMode("zigzag")
	assert.Error(t, err)
}

func newMoving(clock *engine.Clock, points ...Waypoint) (*MovingPlatform, *engine.Scheduler) {
	scheduler := engine.NewScheduler(clock)
	g := engine.NewGameObject("mover")
	g.Transform.Position = points[0].Position
	m := NewMovingPlatform(NewWaypoints(scheduler, Loop, points...))
	g.AddComponent(m)
	return m, scheduler
}

func TestMovingPlatformTravelsAndCarries(t *testing.T) {
	clock := engine.NewClock()
	m, scheduler := newMoving(clock,
		Waypoint{Position: rl.Vector3{}, Rotation: rl.QuaternionIdentity()},
		Waypoint{Position: rl.Vector3{X: 3}, Rotation: rl.QuaternionIdentity()},
	)
	passenger, _ := newRider("passenger", rl.Vector3{Y: 1})
	m.Attach(passenger)

	var xs []float32
	for i := 0; i < 4; i++ {
		clock.Advance(0.5)
		scheduler.Run()
		m.PlatformUpdate(0.5)
		xs = append(xs, m.GetGameObject().Transform.Position.X)
	}

	assert.InDeltaSlice(t, []float32{0, 1.5, 3, 1.5}, xs, 1e-4)
	assertVec(t, rl.Vector3{X: 1.5, Y: 1}, passenger.Transform.Position)
}

func TestMovingPlatformInterpolatesRotation(t *testing.T) {
	clock := engine.NewClock()
	quarter := engine.AngleAxis(90, engine.WorldUp)
	m, scheduler := newMoving(clock,
		Waypoint{Position: rl.Vector3{}, Rotation: rl.QuaternionIdentity()},
		Waypoint{Position: rl.Vector3{X: 4}, Rotation: quarter},
	)
	m.Speed = 4
	m.RotateToWaypoint = true

	m.PlatformUpdate(0)
	scheduler.Run()
	m.PlatformUpdate(0.5)

	rot := m.GetGameObject().Transform.Rotation
	assert.InDelta(t, 45, engine.QuaternionAngle(rl.QuaternionIdentity(), rot), 0.1)
	assert.InDelta(t, 45, engine.QuaternionAngle(quarter, rot), 0.1)
}

func TestMovingPlatformLookAt(t *testing.T) {
	clock := engine.NewClock()
	quarter := engine.AngleAxis(90, engine.WorldUp)
	m, scheduler := newMoving(clock,
		Waypoint{Position: rl.Vector3{}, Rotation: rl.QuaternionIdentity()},
		Waypoint{Position: rl.Vector3{X: 4}, Rotation: quarter},
	)
	m.RotateToWaypoint = true
	m.RotationMode = LookAt
	m.LookAtSpeed = 90

	m.PlatformUpdate(0)
	scheduler.Run()
	m.PlatformUpdate(0.5)

	rot := m.GetGameObject().Transform.Rotation
	assert.InDelta(t, 45, engine.QuaternionAngle(rl.QuaternionIdentity(), rot), 0.1)
}

func TestRotatingPlatformSpaces(t *testing.T) {
	g := engine.NewGameObject("spinner")
	r := NewRotatingPlatform()
	g.AddComponent(r)

	passenger, _ := newRider("passenger", rl.Vector3{X: 2})
	r.Attach(passenger)
	r.PlatformUpdate(0.5)
	assertVec(t, rl.Vector3{Z: -2}, passenger.Transform.Position)
	r.DetachAll()

	tilt := engine.AngleAxis(90, engine.WorldRight)
	g.Transform.Rotation = tilt
	r.PlatformUpdate(0.5)
	assertVec(t, rl.Vector3{Z: 1}, g.Transform.Up(), "self space spins around the platform's own up")

	g.Transform.Rotation = tilt
	r.Space = engine.WorldSpace
	r.PlatformUpdate(0.5)
	assertVec(t, rl.Vector3{X: 1}, g.Transform.Up())
}

type fallingFixture struct {
	clock     *engine.Clock
	scheduler *engine.Scheduler
	world     *physics.World
	platform  *FallingPlatform
	collider  *components.BoxCollider
}

func newFalling(t *testing.T) *fallingFixture {
	t.Helper()
	clock := engine.NewClock()
	fx := &fallingFixture{
		clock:     clock,
		scheduler: engine.NewScheduler(clock),
		world:     physics.NewWorld(zerolog.Nop()),
	}
	g := engine.NewGameObject("crumbling")
	g.Transform.Position = rl.Vector3{Y: -0.5}
	fx.collider = components.NewBoxCollider(rl.Vector3{X: 4, Y: 1, Z: 4})
	g.AddComponent(fx.collider)
	fx.platform = NewFallingPlatform(fx.world, fx.scheduler, bounds.NewHelper(), zerolog.Nop())
	g.AddComponent(fx.platform)
	fx.world.AddObject(g)
	return fx
}

func (fx *fallingFixture) tick(dt float32) {
	fx.clock.Advance(dt)
	fx.scheduler.Run()
	fx.platform.PlatformUpdate(dt)
}

func TestFallingPlatformArmsOnlyFromAbove(t *testing.T) {
	fx := newFalling(t)

	_, enemy := newRider("enemy", rl.Vector3{Y: 1}, engine.TagEnemy)
	enemy.step = rl.Vector3{Y: 0.3}
	fx.platform.OnEntityContact(enemy)
	assert.False(t, fx.platform.Activated())

	_, below := newRider("player", rl.Vector3{Y: -3}, engine.TagPlayer)
	below.step = rl.Vector3{Y: -2.7}
	fx.platform.OnEntityContact(below)
	assert.False(t, fx.platform.Activated())

	_, above := newRider("player", rl.Vector3{Y: 1}, engine.TagPlayer)
	above.step = rl.Vector3{Y: 0.3}
	fx.platform.OnEntityContact(above)
	assert.True(t, fx.platform.Activated())
}

func TestFallingPlatformCycle(t *testing.T) {
	fx := newFalling(t)
	playerObj, player := newRider("player", rl.Vector3{Y: 1}, engine.TagPlayer)
	player.step = rl.Vector3{Y: 0.3}
	fx.platform.Attach(playerObj)
	fx.platform.OnEntityContact(player)

	for i := 0; i < 4; i++ {
		fx.tick(0.25)
	}
	assert.False(t, fx.platform.Shaking())
	fx.tick(0.25)
	assert.True(t, fx.platform.Shaking())
	for i := 0; i < 3; i++ {
		fx.tick(0.25)
	}

	require.True(t, fx.platform.Falling())
	assert.False(t, fx.platform.Shaking())
	assert.True(t, fx.collider.IsTrigger())
	assert.Empty(t, fx.platform.Attached())
	assert.Less(t, fx.platform.GetGameObject().Transform.Position.Y, float32(-5))

	// A player standing where the platform respawns is lifted on top.
	trapped := engine.NewGameObject("trapped")
	trapped.Tags = []string{engine.TagPlayer}
	trapped.Transform.Position = rl.Vector3{Y: -0.5}
	capsule := components.NewCapsuleCollider(0.5, 2)
	capsule.Trigger = true
	trapped.AddComponent(capsule)
	trapped.AddComponent(&rider{height: 2})
	fx.world.AddObject(trapped)

	fx.clock.Advance(5)
	fx.scheduler.Run()

	assert.False(t, fx.platform.Falling())
	assert.False(t, fx.platform.Activated())
	assert.False(t, fx.collider.IsTrigger())
	assertVec(t, rl.Vector3{Y: -0.5}, fx.platform.GetGameObject().Transform.Position)
	assert.InDelta(t, 1, trapped.Transform.Position.Y, 1e-4)
}

func TestFallingPlatformWithoutReset(t *testing.T) {
	fx := newFalling(t)
	fx.platform.AutoReset = false
	fx.platform.Fall()
	assert.Equal(t, 0, fx.scheduler.Pending())

	fx.tick(0.1)
	assert.InDelta(t, -4.5, fx.platform.GetGameObject().Transform.Position.Y, 1e-4)
}
