package components

import (
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CapsuleCollider is a capsule aligned with the owner's local up axis.
type CapsuleCollider struct {
	engine.BaseComponent
	Radius  float32
	Height  float32
	Center  rl.Vector3
	Trigger bool
}

func NewCapsuleCollider(radius, height float32) *CapsuleCollider {
	return &CapsuleCollider{
		Radius: radius,
		Height: height,
	}
}

func (c *CapsuleCollider) IsTrigger() bool {
	return c.Trigger
}

func (c *CapsuleCollider) SetTrigger(trigger bool) {
	c.Trigger = trigger
}

func (c *CapsuleCollider) GetCenter() rl.Vector3 {
	return c.GetGameObject().Transform.TransformPoint(c.Center)
}

func (c *CapsuleCollider) Capsule() geom.Capsule {
	t := c.GetGameObject().Transform
	radius := c.Radius * maxScale(rl.Vector3{X: t.Scale.X, Z: t.Scale.Z})
	height := c.Height * abs(t.Scale.Y)
	return geom.NewCapsule(c.GetCenter(), t.Up(), radius, height)
}

func (c *CapsuleCollider) Shape() geom.Convex {
	return c.Capsule()
}

func (c *CapsuleCollider) UnrotatedBounds() geom.AABB {
	t := c.GetGameObject().Transform
	center := rl.Vector3Add(t.Position, rl.Vector3Multiply(c.Center, t.Scale))
	capsule := c.Capsule()
	d := capsule.Radius * 2
	h := rl.Vector3Distance(capsule.A, capsule.B) + d
	return geom.NewAABBFromCenter(center, rl.Vector3{X: d, Y: h, Z: d})
}
