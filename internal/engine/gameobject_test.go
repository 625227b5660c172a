package engine

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b rl.Vector3) bool {
	return rl.Vector3Distance(a, b) < 1e-4
}

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}
	if obj.UID == 0 {
		t.Error("UID should not be 0")
	}
	if !obj.Active {
		t.Error("new objects should be active")
	}
	if obj.Transform.Rotation != rl.QuaternionIdentity() {
		t.Error("rotation should start at identity")
	}
	if obj.Transform.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Error("scale should start at one")
	}
}

func TestGameObjectUniqueUIDs(t *testing.T) {
	obj1 := NewGameObject("First")
	obj2 := NewGameObject("Second")
	obj3 := NewGameObject("Third")

	if obj1.UID == obj2.UID || obj2.UID == obj3.UID || obj1.UID == obj3.UID {
		t.Error("GameObjects should have unique UIDs")
	}
}

func TestGameObjectHasTag(t *testing.T) {
	obj := NewGameObject("Test")
	obj.Tags = []string{TagEnemy, TagHazard}

	if !obj.HasTag(TagEnemy) {
		t.Error("HasTag should return true for existing tag")
	}
	if obj.HasTag(TagPlayer) {
		t.Error("HasTag should return false for non-existent tag")
	}
	if !IsEntity(obj) || !IsHazard(obj) || IsPlatform(obj) {
		t.Error("tag helpers disagree with tags")
	}

	// Test empty tags
	if IsEntity(NewGameObject("Test2")) || IsEntity(nil) {
		t.Error("untagged and nil objects are not entities")
	}
}

type counter struct {
	BaseComponent
	starts, updates int
}

func (c *counter) Start()             { c.starts++ }
func (c *counter) Update(dt float32) { c.updates++ }

func TestGameObjectAddComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &BaseComponent{}

	obj.AddComponent(comp)

	if len(obj.Components()) != 1 {
		t.Errorf("Expected 1 component, got %d", len(obj.Components()))
	}
	if comp.GetGameObject() != obj {
		t.Error("Component.gameObject should be set")
	}
}

func TestGameObjectGetComponent(t *testing.T) {
	obj := NewGameObject("Test")
	base := &BaseComponent{}
	c1, c2 := &counter{}, &counter{}
	obj.AddComponent(base)
	obj.AddComponent(c1)
	obj.AddComponent(c2)

	if GetComponent[*counter](obj) != c1 {
		t.Error("GetComponent should return the first match")
	}
	if got := GetComponents[*counter](obj); len(got) != 2 || got[1] != c2 {
		t.Errorf("GetComponents returned %v", got)
	}
	if got := GetComponents[Component](obj); len(got) != 3 {
		t.Errorf("interface lookup should match all components, got %d", len(got))
	}
	if GetComponent[*counter](nil) != nil {
		t.Error("nil object has no components")
	}
}

func TestGameObjectStartCalledOnce(t *testing.T) {
	obj := NewGameObject("Test")
	c := &counter{}
	obj.AddComponent(c)

	obj.Start()
	obj.Start()
	if c.starts != 1 {
		t.Errorf("Start ran %d times", c.starts)
	}

	obj.Update(0.1)
	obj.Active = false
	obj.Update(0.1)
	if c.updates != 1 {
		t.Errorf("inactive objects should not update, got %d updates", c.updates)
	}
}

func TestTransformDirections(t *testing.T) {
	tr := NewTransform()
	if !near(tr.Up(), WorldUp) || !near(tr.Forward(), WorldForward) || !near(tr.Right(), WorldRight) {
		t.Fatal("identity transform should use world axes")
	}

	tr.Rotate(rl.QuaternionFromAxisAngle(WorldForward, -math.Pi/2))
	if !near(tr.Up(), rl.Vector3{X: 1}) {
		t.Errorf("up after roll = %v", tr.Up())
	}
	if !near(tr.InverseTransformDirection(rl.Vector3{X: 1}), WorldUp) {
		t.Error("inverse direction should undo the rotation")
	}
}

func TestTransformPointRoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	tr.Rotation = rl.QuaternionFromAxisAngle(WorldUp, math.Pi/2)
	tr.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	p := rl.Vector3{X: 0.5, Y: -1, Z: 0.25}
	world := tr.TransformPoint(p)
	if !near(tr.InverseTransformPoint(world), p) {
		t.Errorf("round trip gave %v", tr.InverseTransformPoint(world))
	}
	if !near(tr.TransformPoint(rl.Vector3{Z: 1}), rl.Vector3{X: 3, Y: 2, Z: 3}) {
		t.Errorf("forward point = %v", tr.TransformPoint(rl.Vector3{Z: 1}))
	}
}

func TestLayerMask(t *testing.T) {
	if DefaultMask.Contains(IgnoreRaycastLayer) {
		t.Error("DefaultMask should skip the ignore-raycast layer")
	}
	if !DefaultMask.Contains(DefaultLayer) || !AllLayers.Contains(IgnoreRaycastLayer) {
		t.Error("mask membership is wrong")
	}
	if Layer(5).Mask() != 32 {
		t.Errorf("Layer(5).Mask() = %d", Layer(5).Mask())
	}
}
