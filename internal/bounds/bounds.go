// Package bounds answers proximity questions about collision volumes:
// nearest points on lines, boxes, discs and capsules, and whether a point
// lies above or below a volume along the volume's own up axis.
package bounds

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Helper caches the unrotated bounds of each collider the first time they
// are requested. Volumes are assumed not to change size afterwards.
type Helper struct {
	local map[components.Collider]geom.AABB
}

func NewHelper() *Helper {
	return &Helper{local: make(map[components.Collider]geom.AABB)}
}

// LocalBounds returns the collider's world bounds as if it had no rotation.
func (h *Helper) LocalBounds(c components.Collider) geom.AABB {
	if b, ok := h.local[c]; ok {
		return b
	}
	b := c.UnrotatedBounds()
	h.local[c] = b
	return b
}

// Forget drops the cached bounds of c.
func (h *Helper) Forget(c components.Collider) {
	delete(h.local, c)
}

func (h *Helper) top(c components.Collider) rl.Vector3 {
	t := c.GetGameObject().Transform
	return rl.Vector3Add(c.Shape().Bounds().Center(), rl.Vector3Scale(t.Up(), h.LocalBounds(c).Extents().Y))
}

func (h *Helper) bottom(c components.Collider) rl.Vector3 {
	t := c.GetGameObject().Transform
	return rl.Vector3Subtract(c.Shape().Bounds().Center(), rl.Vector3Scale(t.Up(), h.LocalBounds(c).Extents().Y))
}

// localHeight is the height of p along the collider's up axis.
func localHeight(c components.Collider, p rl.Vector3) float32 {
	t := c.GetGameObject().Transform
	return rl.Vector3DotProduct(rl.Vector3Subtract(p, t.Position), t.Up())
}

// IsBelowPoint reports whether the whole collider lies below p.
func (h *Helper) IsBelowPoint(c components.Collider, p rl.Vector3) bool {
	return localHeight(c, p) >= localHeight(c, h.top(c))
}

// IsAbovePoint reports whether the whole collider lies above p.
func (h *Helper) IsAbovePoint(c components.Collider, p rl.Vector3) bool {
	return localHeight(c, p) <= localHeight(c, h.bottom(c))
}

// IsPointBelowTop reports whether p is under the collider's top face.
func (h *Helper) IsPointBelowTop(c components.Collider, p rl.Vector3) bool {
	return localHeight(c, p) <= localHeight(c, h.top(c))
}

// IsPointInExtentsRadius tests p against a sphere of the bounds' X extent.
func (h *Helper) IsPointInExtentsRadius(c components.Collider, p rl.Vector3) bool {
	b := c.Shape().Bounds()
	return rl.Vector3Distance(b.Center(), p) <= b.Extents().X
}

// ClosestPointOnCapsule returns the nearest point to p on the capsule's
// central segment.
func (h *Helper) ClosestPointOnCapsule(c components.Collider, p rl.Vector3) rl.Vector3 {
	local := h.LocalBounds(c)
	center := c.Shape().Bounds().Center()
	up := c.GetGameObject().Transform.Up()
	offset := local.Extents().Y - local.Extents().X
	top := rl.Vector3Add(center, rl.Vector3Scale(up, offset))
	bottom := rl.Vector3Subtract(center, rl.Vector3Scale(up, offset))
	return NearestPointOnFiniteLine(top, bottom, p)
}

func (h *Helper) IsPointInsideCapsule(c components.Collider, p rl.Vector3) bool {
	closest := h.ClosestPointOnCapsule(c, p)
	return rl.Vector3Distance(p, closest) <= h.LocalBounds(c).Extents().X
}

// NearestPointOnFiniteLine clamps the projection of p onto the segment.
func NearestPointOnFiniteLine(start, end, p rl.Vector3) rl.Vector3 {
	return geom.Segment{A: start, B: end}.ClosestPoint(p)
}

// NearestPointOnBox returns the nearest point of the solid box to p.
func NearestPointOnBox(center, size rl.Vector3, rotation rl.Quaternion, p rl.Vector3) rl.Vector3 {
	return geom.NewOBB(center, size, rotation).ClosestPoint(p)
}

// NearestPointOnDisc projects p onto the disc plane and clamps it to radius.
func NearestPointOnDisc(center, normal rl.Vector3, radius float32, p rl.Vector3) rl.Vector3 {
	distance := rl.Vector3DotProduct(rl.Vector3Subtract(p, center), normal)
	onPlane := rl.Vector3Subtract(p, rl.Vector3Scale(normal, distance))
	toPoint := rl.Vector3Subtract(onPlane, center)
	magnitude := rl.Vector3Length(toPoint)
	if magnitude <= radius {
		return onPlane
	}
	return rl.Vector3Add(center, rl.Vector3Scale(toPoint, radius/magnitude))
}

// DirectionFrom returns the unit vector from the nearest point to p, or
// fallback when p sits on the nearest point.
func DirectionFrom(nearest, p, fallback rl.Vector3) rl.Vector3 {
	d := engine.Normalize(rl.Vector3Subtract(p, nearest))
	if engine.IsZero(d) {
		return fallback
	}
	return d
}
