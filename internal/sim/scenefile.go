package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/entity"
	"kinematic3d/internal/gravity"
	"kinematic3d/internal/platform"
	"kinematic3d/internal/spline"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween/ease"
)

// --- JSON types ---

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Static   bool     `json:"static,omitempty"`
	Layer    int      `json:"layer,omitempty"`
	Position vec3     `json:"position"`
	// Rotation is in Euler degrees.
	Rotation   vec3              `json:"rotation"`
	Scale      vec3              `json:"scale"`
	Components []json.RawMessage `json:"components"`
}

type vec3 [3]float32

func (v vec3) vector() rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v vec3) rotation() rl.Quaternion {
	return rl.QuaternionFromEuler(v[0]*rl.Deg2rad, v[1]*rl.Deg2rad, v[2]*rl.Deg2rad)
}

type componentHeader struct {
	Type string `json:"type"`
}

type boxColliderDef struct {
	Size    vec3 `json:"size"`
	Center  vec3 `json:"center,omitempty"`
	Trigger bool `json:"trigger,omitempty"`
}

type sphereColliderDef struct {
	Radius  float32 `json:"radius"`
	Center  vec3    `json:"center,omitempty"`
	Trigger bool    `json:"trigger,omitempty"`
}

type capsuleColliderDef struct {
	Radius  float32 `json:"radius"`
	Height  float32 `json:"height"`
	Center  vec3    `json:"center,omitempty"`
	Trigger bool    `json:"trigger,omitempty"`
}

type gravityFieldDef struct {
	Shape                 string   `json:"shape"`
	Center                vec3     `json:"center,omitempty"`
	Size                  *vec3    `json:"size,omitempty"`
	Radius                *float32 `json:"radius,omitempty"`
	Height                *float32 `json:"height,omitempty"`
	Inverted              bool     `json:"inverted,omitempty"`
	Priority              int      `json:"priority,omitempty"`
	DetachOnExit          *bool    `json:"detachOnExit,omitempty"`
	ResetRotationOnDetach *bool    `json:"resetRotationOnDetach,omitempty"`
	IgnoreDuration        *float32 `json:"ignoreDuration,omitempty"`
}

type waypointDef struct {
	Position vec3 `json:"position"`
	Rotation vec3 `json:"rotation"`
}

type movingPlatformDef struct {
	Speed            *float32      `json:"speed,omitempty"`
	Mode             string        `json:"mode,omitempty"`
	WaitTime         float32       `json:"waitTime,omitempty"`
	RotateToWaypoint bool          `json:"rotateToWaypoint,omitempty"`
	RotationMode     string        `json:"rotationMode,omitempty"`
	LookAtSpeed      *float32      `json:"lookAtSpeed,omitempty"`
	Ease             string        `json:"ease,omitempty"`
	Waypoints        []waypointDef `json:"waypoints"`
}

type rotatingPlatformDef struct {
	Rotation *vec3 `json:"rotation,omitempty"`
	Space    string `json:"space,omitempty"`
}

type fallingPlatformDef struct {
	AutoReset   *bool    `json:"autoReset,omitempty"`
	FallDelay   *float32 `json:"fallDelay,omitempty"`
	ResetDelay  *float32 `json:"resetDelay,omitempty"`
	FallGravity *float32 `json:"fallGravity,omitempty"`
	Shake       *bool    `json:"shake,omitempty"`
}

type multipliersDef struct {
	Acceleration float32 `json:"acceleration"`
	TopSpeed     float32 `json:"topSpeed"`
	Deceleration float32 `json:"deceleration"`
	TurningDrag  float32 `json:"turningDrag"`
	Gravity      float32 `json:"gravity"`
}

type volumeEffectorDef struct {
	VelocityConversion *float32        `json:"velocityConversion,omitempty"`
	Multipliers        *multipliersDef `json:"multipliers,omitempty"`
}

type splineDef struct {
	Points []vec3 `json:"points"`
	Closed bool   `json:"closed,omitempty"`
}

type playerDef struct {
	Move vec3 `json:"move,omitempty"`
	Jump bool `json:"jump,omitempty"`
}

type followerDef struct {
	Mode    string   `json:"mode,omitempty"`
	Gravity *float32 `json:"gravity,omitempty"`
}

// --- Name mapping ---

var easeByName = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
}

func lookupEase(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	if f, ok := easeByName[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unknown ease %q", name)
}

func lookupSpace(name string) (engine.Space, error) {
	switch strings.ToLower(name) {
	case "", "self":
		return engine.SelfSpace, nil
	case "world":
		return engine.WorldSpace, nil
	}
	return engine.SelfSpace, fmt.Errorf("unknown space %q", name)
}

func lookupRotationMode(name string) (platform.RotationMode, error) {
	switch strings.ToLower(name) {
	case "", "interpolate":
		return platform.Interpolate, nil
	case "lookat":
		return platform.LookAt, nil
	}
	return platform.Interpolate, fmt.Errorf("unknown rotation mode %q", name)
}

func lookupFollowMode(name string) (gravity.FollowMode, error) {
	switch strings.ToLower(name) {
	case "", "velocity":
		return gravity.FollowVelocity, nil
	case "rotation":
		return gravity.FollowRotation, nil
	}
	return gravity.FollowVelocity, fmt.Errorf("unknown follow mode %q", name)
}

// --- Loading ---

// LoadScene reads a scene file and adds its objects to the world.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	return w.ParseScene(data)
}

// ParseScene adds the objects described by a JSON scene document. Objects
// before the first faulty one stay in the world.
func (w *World) ParseScene(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	for _, def := range sf.Objects {
		g, err := w.buildObject(def)
		if err != nil {
			return fmt.Errorf("object %q: %w", def.Name, err)
		}
		w.Add(g)
	}
	w.log.Debug().Int("objects", len(sf.Objects)).Int("entities", len(w.entities)).Msg("scene loaded")
	return nil
}

func (w *World) buildObject(def ObjectDef) (*engine.GameObject, error) {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.Static = def.Static
	g.Layer = engine.Layer(def.Layer)
	g.Transform.Position = def.Position.vector()
	g.Transform.Rotation = def.Rotation.rotation()
	if def.Scale != (vec3{}) {
		g.Transform.Scale = def.Scale.vector()
	}

	trigger, needsTrigger := false, ""
	for _, raw := range def.Components {
		var header componentHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("component header: %w", err)
		}

		var err error
		switch header.Type {
		case "BoxCollider":
			err = decodeInto(raw, func(d boxColliderDef) error {
				c := components.NewBoxCollider(d.Size.vector())
				c.Center = d.Center.vector()
				c.Trigger = d.Trigger
				trigger = trigger || d.Trigger
				g.AddComponent(c)
				return nil
			})
		case "SphereCollider":
			err = decodeInto(raw, func(d sphereColliderDef) error {
				c := components.NewSphereCollider(d.Radius)
				c.Center = d.Center.vector()
				c.Trigger = d.Trigger
				trigger = trigger || d.Trigger
				g.AddComponent(c)
				return nil
			})
		case "CapsuleCollider":
			err = decodeInto(raw, func(d capsuleColliderDef) error {
				c := components.NewCapsuleCollider(d.Radius, d.Height)
				c.Center = d.Center.vector()
				c.Trigger = d.Trigger
				trigger = trigger || d.Trigger
				g.AddComponent(c)
				return nil
			})
		case "GravityField":
			needsTrigger = header.Type
			err = decodeInto(raw, func(d gravityFieldDef) error { return w.loadGravityField(g, d) })
		case "VolumeEffector":
			needsTrigger = header.Type
			err = decodeInto(raw, func(d volumeEffectorDef) error {
				v := entity.NewVolumeEffector()
				if d.VelocityConversion != nil {
					v.VelocityConversion = *d.VelocityConversion
				}
				if m := d.Multipliers; m != nil {
					v.Multipliers = entity.Multipliers{
						Acceleration: m.Acceleration,
						TopSpeed:     m.TopSpeed,
						Deceleration: m.Deceleration,
						TurningDrag:  m.TurningDrag,
						Gravity:      m.Gravity,
					}
				}
				g.AddComponent(v)
				return nil
			})
		case "Spline":
			err = decodeInto(raw, func(d splineDef) error {
				points := make([]rl.Vector3, len(d.Points))
				for i, p := range d.Points {
					points[i] = p.vector()
				}
				s := spline.Linear(points...)
				s.Closed = d.Closed
				g.AddComponent(s)
				return nil
			})
		case "MovingPlatform":
			err = decodeInto(raw, func(d movingPlatformDef) error { return w.loadMovingPlatform(g, d) })
		case "RotatingPlatform":
			err = decodeInto(raw, func(d rotatingPlatformDef) error {
				space, err := lookupSpace(d.Space)
				if err != nil {
					return err
				}
				r := platform.NewRotatingPlatform()
				r.Space = space
				if d.Rotation != nil {
					r.Rotation = d.Rotation.vector()
				}
				g.AddComponent(r)
				return nil
			})
		case "FallingPlatform":
			err = decodeInto(raw, func(d fallingPlatformDef) error {
				f := platform.NewFallingPlatform(w.Physics, w.Scheduler, w.Bounds, w.log)
				setIf(&f.AutoReset, d.AutoReset)
				setIf(&f.FallDelay, d.FallDelay)
				setIf(&f.ResetDelay, d.ResetDelay)
				setIf(&f.FallGravity, d.FallGravity)
				setIf(&f.Shake, d.Shake)
				g.AddComponent(f)
				return nil
			})
		case "Player":
			err = decodeInto(raw, func(d playerDef) error {
				if !g.HasTag(engine.TagPlayer) {
					g.Tags = append(g.Tags, engine.TagPlayer)
				}
				_, p, err := w.attachPilot(g)
				if err != nil {
					return err
				}
				p.Input = Input{Move: d.Move.vector(), Jump: d.Jump}
				return nil
			})
		case "Follower":
			err = decodeInto(raw, func(d followerDef) error {
				mode, err := lookupFollowMode(d.Mode)
				if err != nil {
					return err
				}
				f := gravity.NewFollower(mode)
				setIf(&f.Gravity, d.Gravity)
				g.AddComponent(f)
				return nil
			})
		default:
			err = fmt.Errorf("unknown component %q", header.Type)
		}
		if err != nil {
			return nil, err
		}
	}

	if needsTrigger != "" && !trigger {
		return nil, fmt.Errorf("%s needs a trigger collider", needsTrigger)
	}
	return g, nil
}

func (w *World) loadGravityField(g *engine.GameObject, d gravityFieldDef) error {
	shape, ok := gravity.ParseShape(d.Shape)
	if !ok {
		return fmt.Errorf("unknown field shape %q", d.Shape)
	}
	f := gravity.NewField(shape, w.Scheduler, w.log)
	f.Center = d.Center.vector()
	if d.Size != nil {
		f.Size = d.Size.vector()
	}
	setIf(&f.Radius, d.Radius)
	setIf(&f.Height, d.Height)
	f.Inverted = d.Inverted
	f.Priority = d.Priority

	f.IgnoreDuration = w.Fields.IgnoreDuration
	f.DetachOnExit = w.Fields.DetachOnExit
	f.ResetRotationOnDetach = w.Fields.ResetRotationOnDetach
	setIf(&f.IgnoreDuration, d.IgnoreDuration)
	setIf(&f.DetachOnExit, d.DetachOnExit)
	setIf(&f.ResetRotationOnDetach, d.ResetRotationOnDetach)

	g.AddComponent(f)
	return nil
}

func (w *World) loadMovingPlatform(g *engine.GameObject, d movingPlatformDef) error {
	if len(d.Waypoints) == 0 {
		return fmt.Errorf("moving platform needs waypoints")
	}
	mode := platform.Loop
	if d.Mode != "" {
		var err error
		if mode, err = platform.ParseWaypointMode(d.Mode); err != nil {
			return err
		}
	}
	rotationMode, err := lookupRotationMode(d.RotationMode)
	if err != nil {
		return err
	}
	curve, err := lookupEase(d.Ease)
	if err != nil {
		return err
	}

	points := make([]platform.Waypoint, len(d.Waypoints))
	for i, wp := range d.Waypoints {
		points[i] = platform.Waypoint{Position: wp.Position.vector(), Rotation: wp.Rotation.rotation()}
	}
	waypoints := platform.NewWaypoints(w.Scheduler, mode, points...)
	waypoints.WaitTime = d.WaitTime

	m := platform.NewMovingPlatform(waypoints)
	setIf(&m.Speed, d.Speed)
	setIf(&m.LookAtSpeed, d.LookAtSpeed)
	m.RotateToWaypoint = d.RotateToWaypoint
	m.RotationMode = rotationMode
	m.Ease = curve
	g.AddComponent(m)
	return nil
}

func decodeInto[T any](raw json.RawMessage, apply func(T) error) error {
	var def T
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	return apply(def)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
