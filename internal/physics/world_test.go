package physics

import (
	"testing"

	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBox(name string, pos, size rl.Vector3, static bool) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.Static = static
	g.AddComponent(components.NewBoxCollider(size))
	return g
}

func newTestWorld(objs ...*engine.GameObject) *World {
	scene := engine.NewScene("test")
	for _, g := range objs {
		scene.AddGameObject(g)
	}
	w := NewWorld(zerolog.Nop())
	w.AddScene(scene)
	return w
}

func TestRaycastClosestHit(t *testing.T) {
	floor := newBox("floor", rl.Vector3{Y: -0.5}, rl.Vector3{X: 20, Y: 1, Z: 20}, true)
	crate := newBox("crate", rl.Vector3{Y: 1}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	w := newTestWorld(floor, crate)

	hit, ok := w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: -1}, 10, engine.DefaultMask, IgnoreTriggers)
	require.True(t, ok)
	assert.Equal(t, crate, hit.GameObject)
	assert.InDelta(t, 3.5, hit.Distance, 1e-4)
	assert.InDelta(t, 1.5, hit.Point.Y, 1e-4)

	hit, ok = w.Raycast(rl.Vector3{X: 3, Y: 5}, rl.Vector3{Y: -1}, 10, engine.DefaultMask, IgnoreTriggers)
	require.True(t, ok)
	assert.Equal(t, floor, hit.GameObject)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-4)
}

func TestRaycastFilters(t *testing.T) {
	floor := newBox("floor", rl.Vector3{Y: -0.5}, rl.Vector3{X: 20, Y: 1, Z: 20}, true)
	zone := newBox("zone", rl.Vector3{Y: 2}, rl.Vector3{X: 2, Y: 2, Z: 2}, false)
	engine.GetComponent[*components.BoxCollider](zone).Trigger = true
	w := newTestWorld(floor, zone)

	hit, ok := w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: -1}, 10, engine.DefaultMask, IgnoreTriggers)
	require.True(t, ok)
	assert.Equal(t, floor, hit.GameObject)

	hit, ok = w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: -1}, 10, engine.DefaultMask, CollideTriggers)
	require.True(t, ok)
	assert.Equal(t, zone, hit.GameObject)

	floor.Layer = engine.IgnoreRaycastLayer
	_, ok = w.Raycast(rl.Vector3{X: 5, Y: 5}, rl.Vector3{Y: -1}, 10, engine.DefaultMask, IgnoreTriggers)
	assert.False(t, ok)
}

func TestCapsuleCastWall(t *testing.T) {
	wall := newBox("wall", rl.Vector3{X: 3}, rl.Vector3{X: 1, Y: 4, Z: 4}, true)
	w := newTestWorld(wall)

	capsule := geom.NewCapsule(rl.Vector3{Y: 1}, engine.WorldUp, 0.5, 2)
	hit, ok := w.CapsuleCast(capsule.A, capsule.B, capsule.Radius, rl.Vector3{X: 1}, 5, engine.DefaultMask, IgnoreTriggers)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Distance, 2e-3)
	assert.InDelta(t, -1, hit.Normal.X, 1e-3)

	_, ok = w.SphereCast(rl.Vector3{Y: 1}, 0.5, rl.Vector3{X: -1}, 5, engine.DefaultMask, IgnoreTriggers)
	assert.False(t, ok)
}

func TestOverlapRespectsResultCapacity(t *testing.T) {
	a := newBox("a", rl.Vector3{X: -0.5}, rl.Vector3{X: 1, Y: 1, Z: 1}, true)
	b := newBox("b", rl.Vector3{X: 0.5}, rl.Vector3{X: 1, Y: 1, Z: 1}, true)
	c := newBox("c", rl.Vector3{X: 10}, rl.Vector3{X: 1, Y: 1, Z: 1}, true)
	w := newTestWorld(a, b, c)

	results := make([]components.Collider, 8)
	n := w.OverlapSphere(rl.Vector3{}, 0.25, results, engine.AllLayers, IgnoreTriggers)
	assert.Equal(t, 2, n)

	n = w.OverlapSphere(rl.Vector3{}, 0.25, results[:1], engine.AllLayers, IgnoreTriggers)
	assert.Equal(t, 1, n)
}

func TestComputePenetration(t *testing.T) {
	floor := newBox("floor", rl.Vector3{Y: -0.5}, rl.Vector3{X: 20, Y: 1, Z: 20}, true)
	w := newTestWorld(floor)

	capsule := geom.NewCapsule(rl.Vector3{Y: 0.8}, engine.WorldUp, 0.5, 2)
	dir, depth, ok := w.ComputePenetration(capsule, engine.GetComponent[*components.BoxCollider](floor))
	require.True(t, ok)
	assert.InDelta(t, 1, dir.Y, 1e-3)
	assert.InDelta(t, 0.2, depth, 2e-3)
}

func TestStaticRefreshAfterMove(t *testing.T) {
	block := newBox("block", rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, true)
	w := newTestWorld(block)

	block.Transform.Position = rl.Vector3{X: 50}
	w.Refresh()

	_, ok := w.Raycast(rl.Vector3{X: 50, Y: 5}, rl.Vector3{Y: -1}, 10, engine.AllLayers, IgnoreTriggers)
	assert.True(t, ok)
}

type recorder struct {
	engine.BaseComponent
	events []string
}

func (r *recorder) OnTriggerEnter(other *engine.GameObject) { r.events = append(r.events, "enter:"+other.Name) }
func (r *recorder) OnTriggerStay(other *engine.GameObject)  { r.events = append(r.events, "stay:"+other.Name) }
func (r *recorder) OnTriggerExit(other *engine.GameObject)  { r.events = append(r.events, "exit:"+other.Name) }

func TestDispatchTriggers(t *testing.T) {
	zone := newBox("zone", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2}, false)
	engine.GetComponent[*components.BoxCollider](zone).Trigger = true
	rec := &recorder{}
	zone.AddComponent(rec)

	body := engine.NewGameObject("body")
	body.AddComponent(components.NewSphereCollider(0.5))
	w := newTestWorld(zone, body)

	w.DispatchTriggers([]*engine.GameObject{body})
	w.DispatchTriggers([]*engine.GameObject{body})
	body.Transform.Position = rl.Vector3{X: 5}
	w.DispatchTriggers([]*engine.GameObject{body})
	w.DispatchTriggers([]*engine.GameObject{body})

	assert.Equal(t, []string{"enter:body", "stay:body", "exit:body"}, rec.events)
	assert.Empty(t, w.ActiveTriggers())
}
