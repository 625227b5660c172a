package physics

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlapCapsule collects colliders touching the capsule.
func (w *World) OverlapCapsule(point1, point2 rl.Vector3, radius float32, results []components.Collider, mask engine.LayerMask, triggers QueryTriggers) int {
	capsule := geom.Capsule{A: point1, B: point2, Radius: radius}
	n := 0
	for _, e := range w.candidates(capsule.Bounds(), mask, triggers) {
		if n >= len(results) {
			break
		}
		if overlaps(capsule, e.collider.Shape()) {
			results[n] = e.collider
			n++
		}
	}
	return n
}

// OverlapSphere collects colliders touching the sphere.
func (w *World) OverlapSphere(center rl.Vector3, radius float32, results []components.Collider, mask engine.LayerMask, triggers QueryTriggers) int {
	return w.OverlapCapsule(center, center, radius, results, mask, triggers)
}

func (w *World) ComputePenetration(capsule geom.Capsule, other components.Collider) (rl.Vector3, float32, bool) {
	if other == nil {
		return rl.Vector3{}, 0, false
	}
	return geom.Penetration(capsule, other.Shape())
}

func overlaps(c geom.Capsule, shape geom.Convex) bool {
	d, _, _ := geom.SegmentDistance(c.Segment(), shape)
	return d <= c.Radius
}

// asCapsule expresses round volumes as a capsule so they can be tested
// against any other shape.
func asCapsule(shape geom.Convex) (geom.Capsule, bool) {
	switch v := shape.(type) {
	case geom.Capsule:
		return v, true
	case geom.Sphere:
		return geom.Capsule{A: v.Center, B: v.Center, Radius: v.Radius}, true
	}
	return geom.Capsule{}, false
}
