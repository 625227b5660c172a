// Package entity implements the per-tick update of a kinematic character:
// ground and ceiling tracking, orientation toward ground and gravity
// fields, state machine stepping, movement and contact notification.
package entity

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/controller"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/fsm"
	"kinematic3d/internal/gravity"
	"kinematic3d/internal/physics"
	"kinematic3d/internal/platform"
	"kinematic3d/internal/spline"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

const contactBufferSize = 10

// Config holds the per-entity tunables.
type Config struct {
	Controller controller.Config

	// RotateToGround aligns the entity with the ground normal. Gravity
	// fields take precedence.
	RotateToGround bool
	// MinSpeedToFall is the lateral speed under which the entity drops off
	// vertical ground while rotating to it.
	MinSpeedToFall float32
	// MaxCeilingAngle is the largest ceiling tilt, in degrees from straight
	// down, that stops upward motion.
	MaxCeilingAngle float32

	GroundOffset        float32
	CeilingOffset       float32
	ContactOffset       float32
	SlopingGroundAngle  float32
	GravityLockDuration float32
}

func DefaultConfig() Config {
	return Config{
		Controller:          controller.DefaultConfig(),
		MinSpeedToFall:      5,
		MaxCeilingAngle:     60,
		GroundOffset:        0.1,
		CeilingOffset:       0.1,
		ContactOffset:       0.01,
		SlopingGroundAngle:  20,
		GravityLockDuration: 0.1,
	}
}

// Events are raised on ground and rail transitions.
type Events struct {
	GroundEnter engine.Event
	GroundExit  engine.Event
	RailsEnter  engine.Event
	RailsExit   engine.Event
}

// Multipliers scale the movement helpers. Volume effectors override them.
type Multipliers struct {
	Acceleration float32
	TopSpeed     float32
	Deceleration float32
	TurningDrag  float32
	Gravity      float32
}

func DefaultMultipliers() Multipliers {
	return Multipliers{Acceleration: 1, TopSpeed: 1, Deceleration: 1, TurningDrag: 1, Gravity: 1}
}

// FieldChangeIgnorer is implemented by states, such as climbing or
// swimming, during which gravity fields must not reorient the entity.
type FieldChangeIgnorer interface {
	IgnoresGravityFieldChanges() bool
}

// Entity is the character component. It owns a Resolver that it adds to
// its GameObject, and a state machine that callers fill with states.
type Entity struct {
	engine.BaseComponent
	Config
	Events      Events
	Multipliers Multipliers
	States      *fsm.Machine[*Entity]

	// ManualUpdate stops Update from ticking the entity.
	ManualUpdate bool
	// LandingFilter can veto landing on a surface, e.g. springs.
	LandingFilter func(hit physics.Hit) bool

	controller *controller.Resolver
	query      physics.Query
	clock      *engine.Clock
	log        zerolog.Logger

	// Velocity relative to frame, whose Y axis is the entity's up.
	localVelocity rl.Vector3
	// frame maps local to world space. It is carried along incrementally
	// as up turns, never rebuilt from up, so it has no pole to flip at.
	frame   rl.Quaternion
	frameUp rl.Vector3

	grounded            bool
	lastGroundTime      float64
	groundHit           physics.Hit
	groundNormal        rl.Vector3
	groundAngle         float32
	localSlopeDirection rl.Vector3

	onRails bool
	rails   *spline.Spline

	gravityField    *gravity.Field
	lockGravityTime float64

	platform       platform.Carrier
	platformObject *engine.GameObject

	lastPosition   rl.Vector3
	positionDelta  float32
	originalHeight float32

	contacts [contactBufferSize]components.Collider
}

var (
	_ engine.Kinematic = (*Entity)(nil)
	_ gravity.Subject  = (*Entity)(nil)
)

func New(query physics.Query, clock *engine.Clock, cfg Config, log zerolog.Logger) *Entity {
	e := &Entity{
		Config:       cfg,
		Multipliers:  DefaultMultipliers(),
		controller:   controller.New(query, cfg.Controller, log),
		query:        query,
		clock:        clock,
		log:          log,
		grounded:     true,
		groundNormal: engine.WorldUp,
		frame:        rl.QuaternionIdentity(),
		frameUp:      engine.WorldUp,
	}
	e.States = fsm.NewMachine(e, clock, log)
	e.originalHeight = e.controller.Height()
	return e
}

// SetGameObject also attaches the entity's Resolver.
func (e *Entity) SetGameObject(g *engine.GameObject) {
	e.BaseComponent.SetGameObject(g)
	if e.controller.GetGameObject() != g {
		g.AddComponent(e.controller)
	}
	e.lastPosition = e.Position()
	e.syncFrame()
}

func (e *Entity) Update(deltaTime float32) {
	if !e.ManualUpdate {
		e.Tick()
	}
}

// Tick runs one step of the update pipeline. Order matters: ground and
// ceiling contact are resolved before states decide on velocity, and
// contacts are gathered after the move.
func (e *Entity) Tick() {
	if !e.controller.Enabled {
		return
	}

	e.handleGround()
	e.handleCeiling()
	e.updateGroundRotation()
	e.States.Step()
	e.updateGravityField()
	e.handleController()
	e.handleContacts()
	e.handleSpline()
}

// RecordPosition updates PositionDelta. Run it once per tick after every
// entity has moved.
func (e *Entity) RecordPosition() {
	if !e.controller.Enabled {
		return
	}
	position := e.Position()
	e.positionDelta = rl.Vector3Distance(position, e.lastPosition)
	e.lastPosition = position
}

// Resolver is the capsule that moves the entity.
func (e *Entity) Resolver() *controller.Resolver {
	return e.controller
}

func (e *Entity) Query() physics.Query {
	return e.query
}

func (e *Entity) Clock() *engine.Clock {
	return e.clock
}

func (e *Entity) transform() *engine.Transform {
	return &e.GetGameObject().Transform
}

func (e *Entity) up() rl.Vector3 {
	return e.transform().Up()
}

// rotate turns the entity around its pivot. Velocity is stored relative
// to up and follows along.
func (e *Entity) rotate(q rl.Quaternion) {
	e.syncFrame()
	e.transform().Rotate(q)
	e.syncFrame()
}

// syncFrame turns frame by the swing between the up it was built for and
// the current up. Rotations applied to the transform elsewhere, such as a
// carrying platform, are picked up here too.
func (e *Entity) syncFrame() {
	if e.GetGameObject() == nil {
		return
	}
	up := e.up()
	if up == e.frameUp {
		return
	}
	e.frame = rl.QuaternionNormalize(rl.QuaternionMultiply(engine.FromToRotation(e.frameUp, up), e.frame))
	e.frameUp = up
}

func (e *Entity) toWorld() rl.Quaternion {
	e.syncFrame()
	return e.frame
}

func (e *Entity) toLocal() rl.Quaternion {
	e.syncFrame()
	return rl.QuaternionInvert(e.frame)
}

// Velocity is the world-space velocity.
func (e *Entity) Velocity() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(e.localVelocity, e.toWorld())
}

func (e *Entity) SetVelocity(v rl.Vector3) {
	e.localVelocity = rl.Vector3RotateByQuaternion(v, e.toLocal())
}

// LocalVelocity is the velocity in the frame whose Y axis is up.
func (e *Entity) LocalVelocity() rl.Vector3 {
	return e.localVelocity
}

func (e *Entity) SetLocalVelocity(v rl.Vector3) {
	e.localVelocity = v
}

// LateralVelocity is the local velocity without its vertical part.
// Tiny values snap to zero.
func (e *Entity) LateralVelocity() rl.Vector3 {
	v := rl.Vector3{X: e.localVelocity.X, Z: e.localVelocity.Z}
	if rl.Vector3DotProduct(v, v) < 0.0001 {
		return rl.Vector3{}
	}
	return v
}

func (e *Entity) SetLateralVelocity(v rl.Vector3) {
	e.localVelocity.X = v.X
	e.localVelocity.Z = v.Z
}

// VerticalSpeed is the velocity along up.
func (e *Entity) VerticalSpeed() float32 {
	return e.localVelocity.Y
}

func (e *Entity) SetVerticalSpeed(v float32) {
	e.localVelocity.Y = v
}

// Position is the capsule center in world space.
func (e *Entity) Position() rl.Vector3 {
	return e.controller.WorldCenter(e.transform().Position)
}

// StepPosition sits StepOffset above the bottom of the capsule.
func (e *Entity) StepPosition() rl.Vector3 {
	return rl.Vector3Subtract(e.Position(), rl.Vector3Scale(e.up(), e.Height()*0.5-e.controller.StepOffset))
}

// UnsizedPosition is where the center would be at the original height.
func (e *Entity) UnsizedPosition() rl.Vector3 {
	up := e.up()
	p := rl.Vector3Subtract(e.Position(), rl.Vector3Scale(up, e.Height()*0.5))
	return rl.Vector3Add(p, rl.Vector3Scale(up, e.originalHeight*0.5))
}

func (e *Entity) LastPosition() rl.Vector3 {
	return e.lastPosition
}

// PositionDelta is the distance covered between the last two recordings.
func (e *Entity) PositionDelta() float32 {
	return e.positionDelta
}

func (e *Entity) Height() float32 {
	return e.controller.Height()
}

func (e *Entity) Radius() float32 {
	return e.controller.Radius()
}

func (e *Entity) OriginalHeight() float32 {
	return e.originalHeight
}

func (e *Entity) IsGrounded() bool {
	return e.grounded
}

func (e *Entity) LastGroundTime() float64 {
	return e.lastGroundTime
}

func (e *Entity) GroundHit() physics.Hit {
	return e.groundHit
}

func (e *Entity) GroundNormal() rl.Vector3 {
	return e.groundNormal
}

// GroundAngle is the angle between the ground normal and world up.
func (e *Entity) GroundAngle() float32 {
	return e.groundAngle
}

// LocalSlopeDirection points down the slope in the horizontal plane.
func (e *Entity) LocalSlopeDirection() rl.Vector3 {
	return e.localSlopeDirection
}

func (e *Entity) OnRails() bool {
	return e.onRails
}

// Rails is the spline of the last rail entered.
func (e *Entity) Rails() *spline.Spline {
	return e.rails
}

func (e *Entity) Platform() platform.Carrier {
	return e.platform
}

func (e *Entity) GravityField() *gravity.Field {
	return e.gravityField
}

func (e *Entity) SetGravityField(f *gravity.Field) {
	e.gravityField = f
}

// CanChangeToGravityField is false for the current field and while the
// active state ignores field changes.
func (e *Entity) CanChangeToGravityField(f *gravity.Field) bool {
	return e.gravityField != f && !e.ignoresFieldChanges()
}

func (e *Entity) ignoresFieldChanges() bool {
	ig, ok := e.States.Current().(FieldChangeIgnorer)
	return ok && ig.IgnoresGravityFieldChanges()
}

// CurrentWorldUp is the field's up at the entity, or world up.
func (e *Entity) CurrentWorldUp() rl.Vector3 {
	if e.gravityField != nil {
		return e.gravityField.Up(e.Position())
	}
	return engine.WorldUp
}

// LockGravity suppresses field reorientation for duration seconds. A zero
// duration uses GravityLockDuration.
func (e *Entity) LockGravity(duration float32) {
	if duration <= 0 {
		duration = e.GravityLockDuration
	}
	e.lockGravityTime = e.clock.Time() + float64(duration)
}

// LocalForward is the forward axis expressed as if up were world up.
func (e *Entity) LocalForward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(e.transform().Forward(), e.toLocal())
}

func (e *Entity) LocalRight() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(e.transform().Right(), e.toLocal())
}

// LocalDirection maps a world direction into the lateral plane of the
// velocity frame, for steering input. Directions along up map to zero.
func (e *Entity) LocalDirection(world rl.Vector3) rl.Vector3 {
	local := rl.Vector3RotateByQuaternion(world, e.toLocal())
	return engine.Normalize(rl.Vector3{X: local.X, Z: local.Z})
}

func (e *Entity) ResizeCollider(height float32) {
	e.controller.Resize(height)
}

// UseCustomCollision turns the Resolver's collision handling off.
func (e *Entity) UseCustomCollision(value bool) {
	e.controller.HandleCollision = !value
}

func (e *Entity) handleController() {
	motion := rl.Vector3Scale(e.Velocity(), e.clock.DeltaTime())
	if e.controller.Enabled {
		e.controller.Move(motion)
		return
	}
	t := e.transform()
	t.Position = rl.Vector3Add(t.Position, motion)
}

func (e *Entity) handleContacts() {
	g := e.GetGameObject()
	skinOffset := e.controller.SkinWidth + e.ContactOffset
	n := e.OverlapEntity(e.Position(), e.contacts[:], skinOffset)
	for _, c := range e.contacts[:n] {
		other := c.GetGameObject()
		if other == g {
			continue
		}
		e.States.OnContact(other)
		e.invokeContacts(other)
	}
}

// invokeContacts notifies the contact handlers living on other.
func (e *Entity) invokeContacts(other *engine.GameObject) {
	if other == nil {
		return
	}
	for _, h := range engine.GetComponents[engine.ContactHandler](other) {
		h.OnEntityContact(e)
	}
}
