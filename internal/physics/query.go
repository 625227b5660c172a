package physics

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// QueryTriggers controls whether trigger volumes take part in a query.
type QueryTriggers int

const (
	IgnoreTriggers QueryTriggers = iota
	CollideTriggers
)

// Hit describes the first obstruction found by a cast.
type Hit struct {
	GameObject *engine.GameObject
	Collider   components.Collider
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Query is the geometry provider consumed by the movement core. Directions
// are normalized by the implementation. Casts ignore volumes that already
// overlap the cast shape at its origin.
type Query interface {
	Raycast(origin, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool)
	SphereCast(origin rl.Vector3, radius float32, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool)
	CapsuleCast(point1, point2 rl.Vector3, radius float32, direction rl.Vector3, maxDistance float32, mask engine.LayerMask, triggers QueryTriggers) (Hit, bool)

	// Overlap queries fill results and return how many entries were written.
	OverlapCapsule(point1, point2 rl.Vector3, radius float32, results []components.Collider, mask engine.LayerMask, triggers QueryTriggers) int
	OverlapSphere(center rl.Vector3, radius float32, results []components.Collider, mask engine.LayerMask, triggers QueryTriggers) int

	// ComputePenetration returns the direction and distance that separate
	// the capsule from other.
	ComputePenetration(capsule geom.Capsule, other components.Collider) (rl.Vector3, float32, bool)
}
