package gravity

import (
	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// StandardGravity is the magnitude used by followers with no field.
const StandardGravity = 9.81

type FollowMode int

const (
	// FollowVelocity accelerates Velocity along the field and integrates it.
	FollowVelocity FollowMode = iota
	// FollowRotation keeps the transform's up opposite to gravity.
	FollowRotation
)

// Follower lets a plain body (a prop, a pickup) obey gravity fields. The
// body needs a sphere or capsule collider to receive trigger callbacks.
type Follower struct {
	engine.BaseComponent
	Mode     FollowMode
	Velocity rl.Vector3
	Gravity  float32
	// Frozen stops velocity integration.
	Frozen bool

	direction rl.Vector3
	field     *Field
	current   *engine.GameObject
}

func NewFollower(mode FollowMode) *Follower {
	return &Follower{
		Mode:      mode,
		Gravity:   StandardGravity,
		direction: engine.WorldDown,
	}
}

// GravityDirection is the last direction sampled from the bound field.
func (f *Follower) GravityDirection() rl.Vector3 {
	return f.direction
}

func (f *Follower) Field() *Field {
	return f.field
}

func (f *Follower) Update(deltaTime float32) {
	g := f.GetGameObject()
	if f.field != nil {
		f.direction = f.field.GravityDirection(g.Transform.Position)
	}

	switch f.Mode {
	case FollowRotation:
		g.Transform.Rotate(engine.FromToRotation(g.Transform.Up(), rl.Vector3Negate(f.direction)))
	case FollowVelocity:
		if f.Frozen {
			return
		}
		multiplier := float32(1)
		if f.field != nil {
			multiplier = f.field.GravityMultiplier
		}
		f.Velocity = rl.Vector3Add(f.Velocity, rl.Vector3Scale(f.direction, multiplier*f.Gravity*deltaTime))
		g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(f.Velocity, deltaTime))
	}
}

func (f *Follower) OnTriggerEnter(other *engine.GameObject) {}

// OnTriggerStay adopts other's field by priority, then by distance to its
// center on a tie.
func (f *Follower) OnTriggerStay(other *engine.GameObject) {
	if !other.HasTag(engine.TagGravityField) || other == f.current {
		return
	}
	candidate := engine.GetComponent[*Field](other)
	if candidate == nil {
		return
	}

	switch {
	case f.field == nil, candidate.Priority > f.field.Priority:
	case candidate.Priority == f.field.Priority:
		position := f.GetGameObject().Transform.Position
		if rl.Vector3Distance(position, candidate.WorldCenter()) >= rl.Vector3Distance(position, f.field.WorldCenter()) {
			return
		}
	default:
		return
	}
	f.current, f.field = other, candidate
}

func (f *Follower) OnTriggerExit(other *engine.GameObject) {
	if other != f.current || f.field == nil || !f.field.DetachOnExit {
		return
	}
	f.current, f.field = nil, nil
}
