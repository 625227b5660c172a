package components

import (
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Collider is a collision volume attached to a GameObject. Shapes are
// rebuilt from the owner's transform on every call.
type Collider interface {
	engine.Component
	IsTrigger() bool
	SetTrigger(trigger bool)
	Shape() geom.Convex
	// UnrotatedBounds is the world box the volume would occupy with an
	// identity rotation.
	UnrotatedBounds() geom.AABB
}

type BoxCollider struct {
	engine.BaseComponent
	Size    rl.Vector3
	Center  rl.Vector3
	Trigger bool
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Center: rl.Vector3{},
	}
}

func (b *BoxCollider) IsTrigger() bool {
	return b.Trigger
}

func (b *BoxCollider) SetTrigger(trigger bool) {
	b.Trigger = trigger
}

// GetCenter returns the world-space center of this collider
func (b *BoxCollider) GetCenter() rl.Vector3 {
	return b.GetGameObject().Transform.TransformPoint(b.Center)
}

// GetWorldSize returns the size scaled by the transform.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	return rl.Vector3Multiply(b.Size, b.GetGameObject().Transform.Scale)
}

func (b *BoxCollider) OBB() geom.OBB {
	g := b.GetGameObject()
	return geom.NewOBB(b.GetCenter(), b.GetWorldSize(), g.Transform.Rotation)
}

func (b *BoxCollider) Shape() geom.Convex {
	return b.OBB()
}

func (b *BoxCollider) UnrotatedBounds() geom.AABB {
	t := b.GetGameObject().Transform
	center := rl.Vector3Add(t.Position, rl.Vector3Multiply(b.Center, t.Scale))
	return geom.NewAABBFromCenter(center, b.GetWorldSize())
}
