package sim

import (
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/fsm"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// State ids of a piloted entity.
const (
	StateIdle = "idle"
	StateWalk = "walk"
	StateFall = "fall"
)

// Tunables drive the scripted player states.
type Tunables struct {
	Gravity         float32
	Acceleration    float32
	AirAcceleration float32
	TopSpeed        float32
	Deceleration    float32
	TurningDrag     float32
	SnapForce       float32
	JumpSpeed       float32
	// RotationSpeed is in degrees per second.
	RotationSpeed float32
}

func DefaultTunables() Tunables {
	return Tunables{
		Gravity:         38,
		Acceleration:    13,
		AirAcceleration: 32,
		TopSpeed:        6,
		Deceleration:    28,
		TurningDrag:     28,
		SnapForce:       15,
		JumpSpeed:       17,
		RotationSpeed:   970,
	}
}

// Input is what a controller would read from a gamepad. Move is a lateral
// direction in the entity's local frame.
type Input struct {
	Move rl.Vector3
	Jump bool
}

// Pilot feeds scripted input to an entity's states.
type Pilot struct {
	Input    Input
	Tunables Tunables

	// Hazards counts contacts with hazard-tagged objects.
	Hazards int
}

// PilotStates is the catalog of states a piloted entity can be built with.
func PilotStates(p *Pilot) *fsm.Registry[*entity.Entity] {
	r := fsm.NewRegistry[*entity.Entity]()
	r.Register(StateIdle, func() fsm.State[*entity.Entity] { return &idleState{pilot: p} })
	r.Register(StateWalk, func() fsm.State[*entity.Entity] { return &walkState{pilot: p} })
	r.Register(StateFall, func() fsm.State[*entity.Entity] { return &fallState{pilot: p} })
	return r
}

// NewPlayer builds a player-tagged entity driven by a Pilot and adds it to
// the world.
func (w *World) NewPlayer(name string, position rl.Vector3) (*entity.Entity, *Pilot, error) {
	g := engine.NewGameObject(name)
	g.Tags = []string{engine.TagPlayer}
	g.Transform.Position = position

	e, p, err := w.attachPilot(g)
	if err != nil {
		return nil, nil, err
	}
	w.Add(g)
	return e, p, nil
}

// attachPilot adds a piloted entity to g without registering g.
func (w *World) attachPilot(g *engine.GameObject) (*entity.Entity, *Pilot, error) {
	e := entity.New(w.Physics, w.Clock, w.EntityConfig, w.log)
	e.LandingFilter = func(hit physics.Hit) bool { return !hit.GameObject.HasTag(engine.TagSpring) }
	g.AddComponent(e)

	p := &Pilot{Tunables: w.Tunables}
	if err := PilotStates(p).Populate(e.States, StateIdle, StateWalk, StateFall); err != nil {
		return nil, nil, err
	}
	w.pilots[e] = p
	return e, p, nil
}

// Pilot returns the pilot driving e, if any.
func (w *World) Pilot(e *entity.Entity) *Pilot {
	return w.pilots[e]
}

func (p *Pilot) moving() bool {
	return !engine.IsZero(p.Input.Move)
}

func (p *Pilot) direction() rl.Vector3 {
	return engine.Normalize(rl.Vector3{X: p.Input.Move.X, Z: p.Input.Move.Z})
}

// jump consumes a pending jump request while grounded.
func (p *Pilot) jump(e *entity.Entity) bool {
	if !p.Input.Jump || !e.IsGrounded() {
		return false
	}
	p.Input.Jump = false
	e.SetVerticalSpeed(p.Tunables.JumpSpeed)
	e.States.Change(StateFall)
	return true
}

func (p *Pilot) contact(other *engine.GameObject) {
	if engine.IsHazard(other) {
		p.Hazards++
	}
}

type idleState struct{ pilot *Pilot }

func (s *idleState) OnEnter(e *entity.Entity) {}
func (s *idleState) OnExit(e *entity.Entity)  {}

func (s *idleState) OnStep(e *entity.Entity) {
	t := s.pilot.Tunables
	if s.pilot.jump(e) {
		return
	}
	e.ApplyGravity(t.Gravity)
	e.SnapToGround(t.SnapForce)
	e.Decelerate(t.Deceleration)

	switch {
	case !e.IsGrounded():
		e.States.Change(StateFall)
	case s.pilot.moving():
		e.States.Change(StateWalk)
	}
}

func (s *idleState) OnContact(e *entity.Entity, other *engine.GameObject) { s.pilot.contact(other) }

type walkState struct{ pilot *Pilot }

func (s *walkState) OnEnter(e *entity.Entity) {}
func (s *walkState) OnExit(e *entity.Entity)  {}

func (s *walkState) OnStep(e *entity.Entity) {
	t := s.pilot.Tunables
	if s.pilot.jump(e) {
		return
	}
	e.ApplyGravity(t.Gravity)
	e.SnapToGround(t.SnapForce)

	if !s.pilot.moving() {
		e.Decelerate(t.Deceleration)
		if e.LateralVelocity() == (rl.Vector3{}) {
			e.States.Change(StateIdle)
		}
	} else {
		dir := s.pilot.direction()
		e.Accelerate(dir, t.TurningDrag, t.Acceleration, t.TopSpeed)
		e.FaceDirectionSmooth(dir, t.RotationSpeed)
	}

	if !e.IsGrounded() {
		e.States.Change(StateFall)
	}
}

func (s *walkState) OnContact(e *entity.Entity, other *engine.GameObject) { s.pilot.contact(other) }

type fallState struct{ pilot *Pilot }

func (s *fallState) OnEnter(e *entity.Entity) {}
func (s *fallState) OnExit(e *entity.Entity)  {}

func (s *fallState) OnStep(e *entity.Entity) {
	t := s.pilot.Tunables
	e.ApplyGravity(t.Gravity)
	if s.pilot.moving() {
		e.Accelerate(s.pilot.direction(), t.TurningDrag, t.AirAcceleration, t.TopSpeed)
	}

	if e.IsGrounded() {
		if s.pilot.moving() {
			e.States.Change(StateWalk)
		} else {
			e.States.Change(StateIdle)
		}
	}
}

func (s *fallState) OnContact(e *entity.Entity, other *engine.GameObject) { s.pilot.contact(other) }
