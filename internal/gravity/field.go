package gravity

import (
	"kinematic3d/internal/bounds"
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/spline"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

// DefaultIgnoreDuration is how long a field disregards a body it released.
const DefaultIgnoreDuration = 0.5

// Subject is a body a field can bind to.
type Subject interface {
	GetGameObject() *engine.GameObject
	Position() rl.Vector3
	Velocity() rl.Vector3
	IsGrounded() bool
	VerticalSpeed() float32
	SetVerticalSpeed(v float32)
	GravityField() *Field
	SetGravityField(f *Field)
	CanChangeToGravityField(f *Field) bool
}

// Field is a trigger volume that overrides the gravity of the subjects
// inside it. It needs a trigger collider on the same GameObject.
type Field struct {
	engine.BaseComponent

	Shape Shape
	// Local volume parameters, scaled by the owner's transform.
	Center rl.Vector3
	Size   rl.Vector3
	Radius float32
	Height float32

	Inverted              bool
	DetachOnExit          bool
	ResetRotationOnDetach bool
	Priority              int
	// GravityMultiplier scales gravity for Followers in rigidbody mode.
	GravityMultiplier float32
	IgnoreDuration    float32

	scheduler *engine.Scheduler
	ignored   map[*engine.GameObject]engine.TimerID
	log       zerolog.Logger
}

func NewField(shape Shape, scheduler *engine.Scheduler, log zerolog.Logger) *Field {
	return &Field{
		Shape:             shape,
		Size:              rl.Vector3{X: 1, Y: 1, Z: 1},
		Radius:            0.5,
		Height:            2,
		GravityMultiplier: 2,
		IgnoreDuration:    DefaultIgnoreDuration,
		scheduler:         scheduler,
		ignored:           make(map[*engine.GameObject]engine.TimerID),
		log:               log,
	}
}

func (f *Field) SetGameObject(g *engine.GameObject) {
	f.BaseComponent.SetGameObject(g)
	if !g.HasTag(engine.TagGravityField) {
		g.Tags = append(g.Tags, engine.TagGravityField)
	}
}

// WorldCenter is the field center in world space.
func (f *Field) WorldCenter() rl.Vector3 {
	t := f.GetGameObject().Transform
	return rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(f.Center, t.Rotation))
}

// Params resolves the field volume against its transform.
func (f *Field) Params() Params {
	g := f.GetGameObject()
	t := g.Transform
	return Params{
		Shape:          f.Shape,
		Center:         f.WorldCenter(),
		Rotation:       t.Rotation,
		Size:           rl.Vector3Multiply(f.Size, t.Scale),
		Radius:         f.Radius * max(abs(t.Scale.X), abs(t.Scale.Z)),
		Height:         f.Height * abs(t.Scale.Y),
		HalfPipeRadius: f.Radius * abs(t.Scale.Y),
		HalfPipeHeight: f.Height * abs(t.Scale.X),
		Inverted:       f.Inverted,
		Curve:          engine.GetComponent[*spline.Spline](g),
	}
}

// GravityDirection is the direction gravity pulls at point.
func (f *Field) GravityDirection(point rl.Vector3) rl.Vector3 {
	return f.Params().GravityDirection(point)
}

// Up is the opposite of GravityDirection.
func (f *Field) Up(point rl.Vector3) rl.Vector3 {
	return f.Params().Up(point)
}

// IgnoreCollider makes the field disregard g for IgnoreDuration seconds.
func (f *Field) IgnoreCollider(g *engine.GameObject) {
	if _, ok := f.ignored[g]; ok {
		return
	}
	f.ignored[g] = f.scheduler.After(f.IgnoreDuration, func() {
		delete(f.ignored, g)
	})
}

func (f *Field) IsIgnored(g *engine.GameObject) bool {
	_, ok := f.ignored[g]
	return ok
}

// RemoveIgnoredColliders clears the ignore list and its pending timers.
func (f *Field) RemoveIgnoredColliders() {
	for g, id := range f.ignored {
		f.scheduler.Cancel(id)
		delete(f.ignored, g)
	}
}

func (f *Field) subject(other *engine.GameObject) (Subject, bool) {
	if f.IsIgnored(other) || !engine.IsEntity(other) {
		return nil, false
	}
	s := engine.GetComponent[Subject](other)
	return s, s != nil
}

func (f *Field) OnTriggerEnter(other *engine.GameObject) {}

func (f *Field) OnTriggerStay(other *engine.GameObject) {
	if s, ok := f.subject(other); ok {
		f.handleSubject(s)
	}
}

func (f *Field) OnTriggerExit(other *engine.GameObject) {
	if !f.DetachOnExit {
		return
	}
	if s, ok := f.subject(other); ok {
		f.handleDetach(s)
	}
}

// handleSubject adopts s when this field outranks its current one. Equal
// priorities go to the field an ascending airborne subject is heading into.
func (f *Field) handleSubject(s Subject) {
	if !s.CanChangeToGravityField(f) {
		return
	}

	current := s.GravityField()
	switch {
	case current == nil, current.Priority < f.Priority:
	case current.Priority == f.Priority &&
		!s.IsGrounded() && s.VerticalSpeed() > 0 &&
		rl.Vector3DotProduct(s.Velocity(), rl.Vector3Subtract(f.WorldCenter(), s.Position())) > 0:
		s.SetVerticalSpeed(0)
		current.IgnoreCollider(s.GetGameObject())
	default:
		return
	}

	f.log.Debug().Str("field", f.GetGameObject().Name).Str("subject", s.GetGameObject().Name).Int("priority", f.Priority).Msg("gravity field bound")
	s.SetGravityField(f)
}

func (f *Field) handleDetach(s Subject) {
	if s.GravityField() != f {
		return
	}

	s.SetGravityField(nil)
	f.IgnoreCollider(s.GetGameObject())
	f.log.Debug().Str("field", f.GetGameObject().Name).Str("subject", s.GetGameObject().Name).Msg("gravity field released")

	if !f.ResetRotationOnDetach {
		return
	}
	t := &s.GetGameObject().Transform
	t.Rotate(engine.FromToRotation(t.Up(), engine.WorldUp))
}

// IsPointInside tests p against a field trigger volume.
func IsPointInside(h *bounds.Helper, c components.Collider, p rl.Vector3) bool {
	switch c.(type) {
	case *components.BoxCollider:
		return h.IsPointBelowTop(c, p)
	case *components.SphereCollider:
		return h.IsPointInExtentsRadius(c, p)
	case *components.CapsuleCollider:
		return h.IsPointInsideCapsule(c, p)
	}
	return false
}
