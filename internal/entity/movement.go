package entity

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CapsuleCast sweeps the full capsule from its current position.
func (e *Entity) CapsuleCast(direction rl.Vector3, distance float32) (physics.Hit, bool) {
	radius := e.Radius()
	origin := rl.Vector3Subtract(e.Position(), rl.Vector3Scale(direction, radius))
	offset := rl.Vector3Scale(e.up(), e.Height()*0.5-radius)
	top := rl.Vector3Add(origin, offset)
	bottom := rl.Vector3Subtract(origin, offset)
	return e.query.CapsuleCast(top, bottom, radius, direction, distance+radius, engine.DefaultMask, physics.IgnoreTriggers)
}

// SphereCast sweeps a sphere of the capsule radius from the center until
// its surface has travelled distance.
func (e *Entity) SphereCast(direction rl.Vector3, distance float32) (physics.Hit, bool) {
	castDistance := distance - e.Radius()
	if castDistance < 0 {
		castDistance = -castDistance
	}
	return e.query.SphereCast(e.Position(), e.Radius(), direction, castDistance, engine.DefaultMask, physics.IgnoreTriggers)
}

// OverlapEntity collects solid colliders touching a capsule of the entity's
// size centered at position, grown or shrunk by skinOffset.
func (e *Entity) OverlapEntity(position rl.Vector3, results []components.Collider, skinOffset float32) int {
	up := e.up()
	radius := e.Radius() + skinOffset
	offset := (e.Height()+skinOffset)*0.5 - radius
	top := rl.Vector3Add(position, rl.Vector3Scale(up, offset))
	bottom := rl.Vector3Subtract(position, rl.Vector3Scale(up, offset))
	return e.query.OverlapCapsule(top, bottom, radius, results, engine.DefaultMask, physics.IgnoreTriggers)
}

// FitsIntoPosition reports whether the capsule centered at position would
// stay clear of static geometry. Hazards do not count.
func (e *Entity) FitsIntoPosition(position rl.Vector3) bool {
	skinOffset := e.controller.SkinWidth + e.ContactOffset
	n := e.OverlapEntity(position, e.contacts[:], -skinOffset)
	for _, c := range e.contacts[:n] {
		other := c.GetGameObject()
		if other.Static && !engine.IsHazard(other) {
			return false
		}
	}
	return true
}

// OnSlopingGround reports whether the entity stands on ground steeper than
// SlopingGroundAngle, confirmed by a longer ray below the pivot.
func (e *Entity) OnSlopingGround() bool {
	if !e.grounded || e.platform != nil || e.groundAngle <= e.SlopingGroundAngle {
		return false
	}
	up := e.up()
	hit, ok := e.query.Raycast(e.transform().Position, rl.Vector3Negate(up), e.Height()*2, engine.DefaultMask, physics.IgnoreTriggers)
	if !ok {
		return true
	}
	return engine.Angle(hit.Normal, up) > e.SlopingGroundAngle
}

// Accelerate speeds the lateral velocity up along direction, a local
// lateral unit vector, while dragging the sideways part toward zero.
func (e *Entity) Accelerate(direction rl.Vector3, turningDrag, acceleration, topSpeed float32) {
	if engine.IsZero(direction) {
		return
	}
	dt := e.clock.DeltaTime()
	lateral := e.LateralVelocity()
	speed := rl.Vector3DotProduct(direction, lateral)
	turning := rl.Vector3Subtract(lateral, rl.Vector3Scale(direction, speed))
	turningDelta := turningDrag * e.Multipliers.TurningDrag * dt
	targetTopSpeed := topSpeed * e.Multipliers.TopSpeed

	if rl.Vector3Length(lateral) < targetTopSpeed || speed < 0 {
		speed += acceleration * e.Multipliers.Acceleration * dt
		speed = engine.Clamp(speed, -targetTopSpeed, targetTopSpeed)
	}

	turning = engine.MoveTowards(turning, rl.Vector3{}, turningDelta)
	e.SetLateralVelocity(rl.Vector3Add(rl.Vector3Scale(direction, speed), turning))
}

// Decelerate brings the lateral velocity toward zero.
func (e *Entity) Decelerate(deceleration float32) {
	delta := deceleration * e.Multipliers.Deceleration * e.clock.DeltaTime()
	e.SetLateralVelocity(engine.MoveTowards(e.LateralVelocity(), rl.Vector3{}, delta))
}

// ApplyGravity accelerates the entity down its local up while airborne.
func (e *Entity) ApplyGravity(gravity float32) {
	if e.grounded {
		return
	}
	e.localVelocity.Y -= gravity * e.Multipliers.Gravity * e.clock.DeltaTime()
}

// SlopeFactor pushes the entity along sloping ground, with downwardForce
// when already moving down the slope and upwardForce otherwise.
func (e *Entity) SlopeFactor(upwardForce, downwardForce float32) {
	if !e.grounded || !e.OnSlopingGround() {
		return
	}
	factor := rl.Vector3DotProduct(engine.WorldUp, e.groundNormal)
	multiplier := upwardForce
	if rl.Vector3DotProduct(e.localSlopeDirection, e.LateralVelocity()) > 0 {
		multiplier = downwardForce
	}
	delta := factor * multiplier * e.clock.DeltaTime()
	e.SetLateralVelocity(rl.Vector3Add(e.LateralVelocity(), rl.Vector3Scale(e.localSlopeDirection, delta)))
}

// SnapToGround keeps a grounded entity pressed down with force.
func (e *Entity) SnapToGround(force float32) {
	if e.grounded && e.VerticalSpeed() <= 0 {
		e.SetVerticalSpeed(-force)
	}
}

// FaceDirection turns the entity's forward to direction, keeping up.
func (e *Entity) FaceDirection(direction rl.Vector3, space engine.Space) {
	if engine.IsZero(direction) {
		return
	}
	up := e.up()
	if space == engine.SelfSpace {
		direction = rl.Vector3RotateByQuaternion(direction, e.toWorld())
	}
	e.transform().Rotation = engine.LookRotation(direction, up)
}

// FaceDirectionSmooth turns toward a self-space direction at a limited
// angular speed.
func (e *Entity) FaceDirectionSmooth(direction rl.Vector3, degreesPerSecond float32) {
	if engine.IsZero(direction) {
		return
	}
	up := e.up()
	direction = rl.Vector3RotateByQuaternion(direction, e.toWorld())
	target := engine.LookRotation(direction, up)
	t := e.transform()
	t.Rotation = engine.RotateTowards(t.Rotation, target, degreesPerSecond*e.clock.DeltaTime())
}
