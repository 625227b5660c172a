package controller

import (
	"testing"

	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBox(name string, pos, size rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.Static = true
	g.AddComponent(components.NewBoxCollider(size))
	return g
}

func newFloor() *engine.GameObject {
	return newBox("floor", rl.Vector3{Y: -0.5}, rl.Vector3{X: 40, Y: 1, Z: 40})
}

// setup builds a world holding objs and a capsule whose pivot sits at pos.
func setup(pos rl.Vector3, objs ...*engine.GameObject) (*Resolver, *engine.GameObject, *physics.World) {
	w := physics.NewWorld(zerolog.Nop())
	for _, g := range objs {
		w.AddObject(g)
	}
	body := engine.NewGameObject("body")
	body.Transform.Position = pos
	r := New(w, DefaultConfig(), zerolog.Nop())
	body.AddComponent(r)
	w.AddObject(body)
	return r, body, w
}

func TestMoveZeroMotion(t *testing.T) {
	r, body, _ := setup(rl.Vector3{Y: 1}, newFloor())
	moved := r.Move(rl.Vector3{})
	assert.Equal(t, rl.Vector3{}, moved)
	assert.InDelta(t, 1, body.Transform.Position.Y, 1e-5)
}

func TestMoveLandsOnFloor(t *testing.T) {
	r, body, _ := setup(rl.Vector3{Y: 2}, newFloor())
	r.Move(rl.Vector3{Y: -3})
	assert.InDelta(t, 1, body.Transform.Position.Y, 2e-3)
	assert.InDelta(t, 0, body.Transform.Position.X, 1e-5)
}

func TestMoveSlidesAlongWall(t *testing.T) {
	wall := newBox("wall", rl.Vector3{X: 2, Y: 1}, rl.Vector3{X: 1, Y: 10, Z: 10})
	r, body, _ := setup(rl.Vector3{Y: 1}, wall)

	r.Move(rl.Vector3{X: 3, Z: 3})
	pos := body.Transform.Position
	// Wall face at x = 1.5 and radius 0.5.
	assert.InDelta(t, 0.99, pos.X, 0.01)
	assert.LessOrEqual(t, pos.X, float32(1.0))
	assert.InDelta(t, 3, pos.Z, 0.01)
	assert.InDelta(t, 1, pos.Y, 1e-4)
}

func TestMoveIgnoredCollider(t *testing.T) {
	wall := newBox("wall", rl.Vector3{X: 2, Y: 1}, rl.Vector3{X: 1, Y: 10, Z: 10})
	r, body, _ := setup(rl.Vector3{Y: 1}, wall)

	collider := engine.GetComponent[*components.BoxCollider](wall)
	r.IgnoreCollider(collider, true)
	r.IgnoreCollider(collider, true)
	assert.True(t, r.IsIgnored(collider))

	r.Move(rl.Vector3{X: 4})
	assert.InDelta(t, 4, body.Transform.Position.X, 1e-4)

	r.IgnoreCollider(collider, false)
	assert.False(t, r.IsIgnored(collider))
}

func TestMoveWithoutCollisionHandling(t *testing.T) {
	r, body, _ := setup(rl.Vector3{Y: 2}, newFloor())
	r.HandleCollision = false
	moved := r.Move(rl.Vector3{Y: -5})
	assert.InDelta(t, -5, moved.Y, 1e-5)
	assert.InDelta(t, -3, body.Transform.Position.Y, 1e-5)
}

func TestMoveDisabled(t *testing.T) {
	r, body, _ := setup(rl.Vector3{Y: 2}, newFloor())
	r.Enabled = false
	assert.Equal(t, rl.Vector3{}, r.Move(rl.Vector3{X: 1}))
	assert.Equal(t, rl.Vector3{Y: 2}, body.Transform.Position)
}

func TestPenetrationPushOut(t *testing.T) {
	crate := newBox("crate", rl.Vector3{X: 0.6, Y: 1}, rl.Vector3{X: 1, Y: 1, Z: 1})
	r, body, _ := setup(rl.Vector3{Y: 1}, crate)

	r.Move(rl.Vector3{})
	// Shrunken radius 0.49 overlapped the crate face at x = 0.1.
	assert.InDelta(t, -0.39, body.Transform.Position.X, 2e-3)
}

func TestPenetrationLiftsOntoPlatform(t *testing.T) {
	platform := newBox("platform", rl.Vector3{Y: -0.5}, rl.Vector3{X: 4, Y: 1, Z: 4})
	platform.Tags = []string{engine.TagPlatform}
	r, body, _ := setup(rl.Vector3{Y: 0.8}, platform)

	r.Move(rl.Vector3{})
	// Capsule bottom ends one skin width above the platform top.
	assert.InDelta(t, 1.01, body.Transform.Position.Y, 1e-4)
}

func TestResizeKeepsBottom(t *testing.T) {
	r, body, _ := setup(rl.Vector3{Y: 1})
	bottom := func() float32 {
		return r.WorldCenter(body.Transform.Position).Y - r.Height()/2
	}
	before := bottom()

	r.Resize(1)
	assert.InDelta(t, 1, r.Height(), 1e-6)
	assert.InDelta(t, before, bottom(), 1e-5)
	assert.InDelta(t, -0.5, r.Center.Y, 1e-6)
	assert.InDelta(t, 1-r.SkinWidth, r.Collider().Height, 1e-6)

	r.Resize(2)
	assert.InDelta(t, before, bottom(), 1e-5)
	assert.InDelta(t, 0, r.Center.Y, 1e-6)
}

func TestSizeClamps(t *testing.T) {
	r, _, _ := setup(rl.Vector3{})
	r.SetRadius(0)
	assert.Equal(t, r.SkinWidth, r.Radius())

	r.SetRadius(0.5)
	r.SetHeight(0.2)
	assert.Equal(t, float32(1), r.Height())
	assert.InDelta(t, 0, rl.Vector3Length(r.CapsuleOffset()), 1e-6)
}

func TestColliderAttachedAsTrigger(t *testing.T) {
	r, body, _ := setup(rl.Vector3{})
	c := engine.GetComponent[*components.CapsuleCollider](body)
	require.NotNil(t, c)
	assert.Same(t, r.Collider(), c)
	assert.True(t, c.IsTrigger())
	assert.InDelta(t, 0.49, c.Radius, 1e-6)
}

func TestMoveStopsOnSlope(t *testing.T) {
	ramp := newBox("ramp", rl.Vector3{}, rl.Vector3{X: 20, Y: 1, Z: 20})
	ramp.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, 20*rl.Deg2rad)
	r, body, _ := setup(rl.Vector3{Y: 3}, ramp)

	r.Move(rl.Vector3{Y: -5})

	normal := ramp.Transform.Up()
	surface := rl.Vector3Scale(normal, 0.5)
	bottomSphere := rl.Vector3Subtract(body.Transform.Position, rl.Vector3{Y: r.Height()/2 - r.Radius()})
	gap := rl.Vector3DotProduct(rl.Vector3Subtract(bottomSphere, surface), normal)
	assert.InDelta(t, r.Radius(), gap, 0.05, "capsule should rest on the slope, not inside it")
	assert.InDelta(t, 0, body.Transform.Position.X, 0.05)
}
