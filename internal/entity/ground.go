package entity

import (
	"kinematic3d/internal/engine"
	"kinematic3d/internal/physics"
	"kinematic3d/internal/platform"
	"kinematic3d/internal/spline"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (e *Entity) handleGround() {
	if e.onRails {
		return
	}

	down := rl.Vector3Negate(e.up())
	distance := e.Height()*0.5 + e.GroundOffset
	sphereHit, sphereColliding := e.SphereCast(down, distance)
	rayHit, rayColliding := e.query.Raycast(e.Position(), down, distance, engine.DefaultMask, physics.IgnoreTriggers)

	colliding := sphereColliding || rayColliding
	hit := e.sortGroundHit(rayHit, rayColliding, sphereHit, sphereColliding)
	movingTowardGround := colliding && rl.Vector3DotProduct(e.Velocity(), hit.Normal) <= 0
	validAngle := colliding && engine.Angle(hit.Normal, e.CurrentWorldUp()) <= e.controller.SlopeLimit

	canFall := e.RotateToGround && e.gravityField == nil
	steepGround := e.grounded && e.groundAngle >= 90
	falling := canFall && steepGround && rl.Vector3Length(e.LateralVelocity()) < e.MinSpeedToFall
	landing := colliding && movingTowardGround && validAngle && (!e.RotateToGround || !falling)

	if !landing {
		e.exitGround()
		return
	}
	if !e.grounded && e.evaluateLanding(hit) {
		e.enterGround(hit)
	}
	e.updateGround(hit)
}

// sortGroundHit prefers the sweep on fields and platforms, where surfaces
// curve or move, and the ray everywhere else.
func (e *Entity) sortGroundHit(ray physics.Hit, rayOK bool, sphere physics.Hit, sphereOK bool) physics.Hit {
	if e.gravityField != nil || e.platform != nil {
		if sphereOK {
			return sphere
		}
		return ray
	}
	if rayOK {
		return ray
	}
	return sphere
}

func (e *Entity) evaluateLanding(hit physics.Hit) bool {
	if engine.Angle(hit.Normal, e.up()) >= e.controller.SlopeLimit {
		return false
	}
	return e.LandingFilter == nil || e.LandingFilter(hit)
}

func (e *Entity) enterGround(hit physics.Hit) {
	if e.grounded {
		return
	}
	e.groundHit = hit
	e.grounded = true
	e.controller.HandleSteps = true
	// Landing discards the fall speed.
	e.localVelocity.Y = max(e.localVelocity.Y, 0)
	e.log.Debug().Str("entity", e.GetGameObject().Name).Str("ground", objectName(hit.GameObject)).Msg("ground enter")
	e.Events.GroundEnter.Invoke()
}

func (e *Entity) exitGround() {
	if !e.grounded {
		return
	}
	e.grounded = false
	e.lastGroundTime = e.clock.Time()
	e.localVelocity.Y = max(e.localVelocity.Y, 0)
	e.controller.HandleSteps = false
	e.exitMovingPlatform()
	e.log.Debug().Str("entity", e.GetGameObject().Name).Msg("ground exit")
	e.Events.GroundExit.Invoke()
}

func (e *Entity) updateGround(hit physics.Hit) {
	if !e.grounded {
		return
	}
	e.groundHit = hit
	e.groundNormal = hit.Normal
	e.groundAngle = engine.Angle(engine.WorldUp, hit.Normal)
	e.localSlopeDirection = engine.Normalize(rl.Vector3{X: hit.Normal.X, Z: hit.Normal.Z})
	e.handlePlatform(hit.GameObject)
}

func (e *Entity) handleCeiling() {
	if e.VerticalSpeed() <= 0 {
		return
	}

	distance := e.Height()*0.5 + e.CeilingOffset
	hit, colliding := e.SphereCast(e.up(), distance)
	if colliding && engine.Angle(hit.Normal, engine.WorldDown) < e.MaxCeilingAngle {
		e.invokeContacts(hit.GameObject)
		e.SetVerticalSpeed(0)
	}
}

func (e *Entity) updateGroundRotation() {
	if (!e.RotateToGround && e.platform == nil) || e.gravityField != nil || e.onRails {
		return
	}

	up := e.up()
	if !e.grounded {
		e.rotate(engine.FromToRotation(up, engine.WorldUp))
		return
	}

	distance := e.Height()*0.5 + e.GroundOffset*2
	if _, below := e.query.Raycast(e.Position(), rl.Vector3Negate(up), distance, engine.DefaultMask, physics.IgnoreTriggers); below {
		e.rotate(engine.FromToRotation(up, e.groundNormal))
	}
}

func (e *Entity) updateGravityField() {
	if e.gravityField == nil || e.onRails || e.clock.Time() <= e.lockGravityTime || e.ignoresFieldChanges() {
		return
	}

	point := e.StepPosition()
	if e.grounded {
		point = e.Position()
	}
	direction := e.gravityField.GravityDirection(point)
	e.rotate(engine.FromToRotation(e.up(), rl.Vector3Negate(direction)))
}

func (e *Entity) handleSpline() {
	hit, ok := e.SphereCast(rl.Vector3Negate(e.up()), e.Height())
	if !ok || !hit.GameObject.HasTag(engine.TagRail) {
		e.ExitRail()
		return
	}
	if !e.onRails && e.VerticalSpeed() <= 0 {
		e.enterRail(engine.GetComponent[*spline.Spline](hit.GameObject))
	}
}

func (e *Entity) enterRail(rails *spline.Spline) {
	if e.onRails {
		return
	}
	e.onRails = true
	e.rails = rails
	e.log.Debug().Str("entity", e.GetGameObject().Name).Msg("rails enter")
	e.Events.RailsEnter.Invoke()
}

// ExitRail leaves the current rail, if any.
func (e *Entity) ExitRail() {
	if !e.onRails {
		return
	}
	e.onRails = false
	e.log.Debug().Str("entity", e.GetGameObject().Name).Msg("rails exit")
	e.Events.RailsExit.Invoke()
}

func (e *Entity) handlePlatform(other *engine.GameObject) {
	if engine.IsPlatform(other) {
		e.EnterMovingPlatform(other)
		return
	}
	e.exitMovingPlatform()
}

// EnterMovingPlatform attaches the entity to the carrier on other.
func (e *Entity) EnterMovingPlatform(other *engine.GameObject) {
	if other == nil || other == e.platformObject {
		return
	}
	carrier := engine.GetComponent[platform.Carrier](other)
	if carrier == nil {
		return
	}
	e.exitMovingPlatform()
	e.platform, e.platformObject = carrier, other
	carrier.Attach(e.GetGameObject())
	e.log.Debug().Str("entity", e.GetGameObject().Name).Str("platform", other.Name).Msg("platform attach")
}

// exitMovingPlatform detaches and straightens the entity to the current up.
func (e *Entity) exitMovingPlatform() {
	if e.platform == nil {
		return
	}
	e.rotate(engine.FromToRotation(e.up(), e.CurrentWorldUp()))
	e.platform.Detach(e.GetGameObject())
	e.log.Debug().Str("entity", e.GetGameObject().Name).Str("platform", e.platformObject.Name).Msg("platform detach")
	e.platform, e.platformObject = nil, nil
}

func objectName(g *engine.GameObject) string {
	if g == nil {
		return ""
	}
	return g.Name
}
