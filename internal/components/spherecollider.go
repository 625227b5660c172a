package components

import (
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type SphereCollider struct {
	engine.BaseComponent
	Radius  float32
	Center  rl.Vector3
	Trigger bool
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		Radius: radius,
		Center: rl.Vector3{},
	}
}

func (s *SphereCollider) IsTrigger() bool {
	return s.Trigger
}

func (s *SphereCollider) SetTrigger(trigger bool) {
	s.Trigger = trigger
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	return s.GetGameObject().Transform.TransformPoint(s.Center)
}

// GetWorldRadius scales the radius by the largest scale axis.
func (s *SphereCollider) GetWorldRadius() float32 {
	return s.Radius * maxScale(s.GetGameObject().Transform.Scale)
}

func (s *SphereCollider) Shape() geom.Convex {
	return geom.Sphere{Center: s.GetCenter(), Radius: s.GetWorldRadius()}
}

func (s *SphereCollider) UnrotatedBounds() geom.AABB {
	t := s.GetGameObject().Transform
	center := rl.Vector3Add(t.Position, rl.Vector3Multiply(s.Center, t.Scale))
	d := s.GetWorldRadius() * 2
	return geom.NewAABBFromCenter(center, rl.Vector3{X: d, Y: d, Z: d})
}

func maxScale(s rl.Vector3) float32 {
	m := abs(s.X)
	if v := abs(s.Y); v > m {
		m = v
	}
	if v := abs(s.Z); v > m {
		m = v
	}
	return m
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
