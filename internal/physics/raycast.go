package physics

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Raycast checks for intersection with all collidable objects and returns the closest hit
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool) {
	direction = rl.Vector3Normalize(direction)
	if maxDistance <= 0 || rl.Vector3Length(direction) == 0 {
		return Hit{}, false
	}
	seg := geom.Segment{A: origin, B: origin}
	area := sweptBounds(seg, 0, direction, maxDistance)

	var closest Hit
	closest.Distance = maxDistance
	hit := false
	for _, e := range w.candidates(area, mask, triggers) {
		dist, normal, ok := raycastCollider(origin, direction, maxDistance, e.collider)
		if !ok || dist > closest.Distance {
			continue
		}
		closest = Hit{
			GameObject: e.obj,
			Collider:   e.collider,
			Point:      rl.Vector3Add(origin, rl.Vector3Scale(direction, dist)),
			Normal:     normal,
			Distance:   dist,
		}
		hit = true
	}
	return closest, hit
}

func raycastCollider(origin, direction rl.Vector3, maxDistance float32, c components.Collider) (float32, rl.Vector3, bool) {
	switch shape := c.Shape().(type) {
	case geom.OBB:
		return shape.Raycast(origin, direction, maxDistance)
	case geom.Sphere:
		return shape.Raycast(origin, direction, maxDistance)
	default:
		res, ok := geom.Sweep(geom.Segment{A: origin, B: origin}, 0, direction, maxDistance, shape)
		return res.Distance, res.Normal, ok
	}
}

// SphereCast sweeps a sphere and returns the closest hit.
func (w *World) SphereCast(origin rl.Vector3, radius float32, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool) {
	return w.CapsuleCast(origin, origin, radius, direction, maxDistance, mask, triggers)
}

// CapsuleCast sweeps the capsule spanned by two sphere centers.
func (w *World) CapsuleCast(point1, point2 rl.Vector3, radius float32, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool) {
	direction = rl.Vector3Normalize(direction)
	if maxDistance <= 0 || rl.Vector3Length(direction) == 0 {
		return Hit{}, false
	}
	seg := geom.Segment{A: point1, B: point2}
	area := sweptBounds(seg, radius, direction, maxDistance)

	var closest Hit
	closest.Distance = maxDistance
	hit := false
	for _, e := range w.candidates(area, mask, triggers) {
		res, ok := geom.Sweep(seg, radius, direction, maxDistance, e.collider.Shape())
		if !ok || res.Distance > closest.Distance {
			continue
		}
		closest = Hit{
			GameObject: e.obj,
			Collider:   e.collider,
			Point:      res.Point,
			Normal:     res.Normal,
			Distance:   res.Distance,
		}
		hit = true
	}
	return closest, hit
}
