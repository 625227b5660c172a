// Package controller moves a capsule through the world with sweep-and-slide
// collision resolution.
package controller

import (
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

const (
	maxCollisionSteps = 3
	maxOverlaps       = 128
)

// Config holds the capsule tunables.
type Config struct {
	Radius         float32
	Height         float32
	Center         rl.Vector3
	SlopeLimit     float32 // degrees
	StepOffset     float32
	SkinWidth      float32
	CollisionLayer engine.LayerMask
}

func DefaultConfig() Config {
	return Config{
		Radius:         0.5,
		Height:         2,
		SlopeLimit:     45,
		StepOffset:     0.3,
		SkinWidth:      0.01,
		CollisionLayer: engine.DefaultMask,
	}
}

// Resolver handles capsule movement with collision detection, slope
// handling and stair stepping, similar to Unity's CharacterController.
type Resolver struct {
	engine.BaseComponent

	SlopeLimit     float32
	StepOffset     float32
	SkinWidth      float32
	Center         rl.Vector3
	CollisionLayer engine.LayerMask

	// HandleCollision off makes Move translate without any query.
	HandleCollision bool
	// HandleSteps lifts the bottom of the lateral sweep by StepOffset.
	HandleSteps bool
	Enabled     bool

	radius float32
	height float32

	query    physics.Query
	collider *components.CapsuleCollider
	ignored  []components.Collider
	overlaps []components.Collider
	log      zerolog.Logger
}

func New(query physics.Query, cfg Config, log zerolog.Logger) *Resolver {
	r := &Resolver{
		SlopeLimit:      cfg.SlopeLimit,
		StepOffset:      cfg.StepOffset,
		SkinWidth:       cfg.SkinWidth,
		Center:          cfg.Center,
		CollisionLayer:  cfg.CollisionLayer,
		HandleCollision: true,
		HandleSteps:     true,
		Enabled:         true,
		radius:          cfg.Radius,
		height:          cfg.Height,
		query:           query,
		overlaps:        make([]components.Collider, maxOverlaps),
		log:             log,
	}
	if r.SkinWidth < 0.0001 {
		r.SkinWidth = 0.0001
	}
	r.collider = components.NewCapsuleCollider(0, 0)
	r.collider.Trigger = true
	r.refreshCollider()
	return r
}

// SetGameObject also attaches the trigger volume that represents the
// capsule to other queries.
func (r *Resolver) SetGameObject(g *engine.GameObject) {
	r.BaseComponent.SetGameObject(g)
	if r.collider.GetGameObject() != g {
		g.AddComponent(r.collider)
	}
}

// Collider is the trigger capsule registered with the physics world.
func (r *Resolver) Collider() *components.CapsuleCollider {
	return r.collider
}

func (r *Resolver) Query() physics.Query {
	return r.query
}

// Radius never falls below the skin width.
func (r *Resolver) Radius() float32 {
	return max(r.radius, r.SkinWidth)
}

func (r *Resolver) SetRadius(v float32) {
	r.radius = v
	r.refreshCollider()
}

// Height never falls below twice the radius.
func (r *Resolver) Height() float32 {
	return max(r.height, r.Radius()*2)
}

func (r *Resolver) SetHeight(v float32) {
	r.height = v
	r.refreshCollider()
}

func (r *Resolver) up() rl.Vector3 {
	if g := r.GetGameObject(); g != nil {
		return g.Transform.Up()
	}
	return engine.WorldUp
}

// CapsuleOffset spans from the capsule center to a sphere center.
func (r *Resolver) CapsuleOffset() rl.Vector3 {
	return rl.Vector3Scale(r.up(), r.Height()*0.5-r.Radius())
}

// WorldCenter is the capsule center for a given pivot position.
func (r *Resolver) WorldCenter(position rl.Vector3) rl.Vector3 {
	g := r.GetGameObject()
	return rl.Vector3Add(position, rl.Vector3RotateByQuaternion(r.Center, g.Transform.Rotation))
}

// Move displaces the pivot by motion, sliding along whatever it hits.
// Returns the displacement actually applied.
func (r *Resolver) Move(motion rl.Vector3) rl.Vector3 {
	g := r.GetGameObject()
	if !r.Enabled || g == nil {
		return rl.Vector3{}
	}

	original := g.Transform.Position
	position := original

	if r.HandleCollision && r.query != nil {
		up := r.up()
		vertical := rl.Vector3Scale(up, rl.Vector3DotProduct(motion, up))
		lateral := rl.Vector3Subtract(motion, vertical)

		position = r.moveAndSlide(position, lateral, false)
		position = r.moveAndSlide(position, vertical, true)
		position = r.handlePenetration(position)
	} else {
		position = rl.Vector3Add(position, motion)
	}

	g.Transform.Position = position
	return rl.Vector3Subtract(position, original)
}

// Resize changes the height keeping the bottom of the capsule in place.
func (r *Resolver) Resize(height float32) {
	delta := height - r.Height()
	r.height = height
	r.Center = rl.Vector3Add(r.Center, rl.Vector3Scale(engine.WorldUp, delta*0.5))
	r.refreshCollider()
}

// IgnoreCollider adds or removes a collider from the ignore list.
func (r *Resolver) IgnoreCollider(c components.Collider, ignore bool) {
	if c == nil {
		return
	}
	for i, existing := range r.ignored {
		if existing == c {
			if !ignore {
				r.ignored = append(r.ignored[:i], r.ignored[i+1:]...)
			}
			return
		}
	}
	if ignore {
		r.ignored = append(r.ignored, c)
	}
}

func (r *Resolver) IsIgnored(c components.Collider) bool {
	for _, existing := range r.ignored {
		if existing == c {
			return true
		}
	}
	return false
}

func (r *Resolver) refreshCollider() {
	r.collider.Radius = r.Radius() - r.SkinWidth
	r.collider.Height = r.Height() - r.SkinWidth
	r.collider.Center = r.Center
}

// moveAndSlide sweeps the capsule along motion up to maxCollisionSteps times,
// projecting what is left onto each surface it hits.
func (r *Resolver) moveAndSlide(position, motion rl.Vector3, verticalPass bool) rl.Vector3 {
	up := r.up()
	radius := r.Radius()
	skin := rl.Vector3Scale(up, r.SkinWidth)

	for i := 0; i < maxCollisionSteps; i++ {
		moveDistance := rl.Vector3Length(motion)
		if moveDistance <= engine.Epsilon {
			break
		}
		direction := rl.Vector3Scale(motion, 1/moveDistance)

		distance := moveDistance + radius - r.SkinWidth
		origin := rl.Vector3Subtract(r.WorldCenter(position), rl.Vector3Scale(direction, radius))
		offset := r.CapsuleOffset()
		top := rl.Vector3Subtract(rl.Vector3Add(origin, offset), skin)
		bottom := rl.Vector3Add(rl.Vector3Subtract(origin, offset), skin)

		if !verticalPass && r.HandleSteps && r.Height() > radius*2 {
			bottom = rl.Vector3Add(bottom, rl.Vector3Scale(up, r.StepOffset))
		}

		hit, colliding := r.sweepTest(position, top, bottom, direction, distance)
		if !colliding || r.IsIgnored(hit.Collider) {
			position = rl.Vector3Add(position, motion)
			break
		}

		safeDistance := hit.Distance - r.SkinWidth - radius
		step := rl.Vector3Scale(direction, safeDistance)
		leftover := rl.Vector3Subtract(motion, step)
		position = rl.Vector3Add(position, step)

		if verticalPass && engine.Angle(up, hit.Normal) <= r.SlopeLimit {
			continue
		}
		motion = engine.ProjectOnPlane(leftover, hit.Normal)
	}

	return position
}

// handlePenetration pushes the capsule out of everything it still overlaps.
func (r *Resolver) handlePenetration(position rl.Vector3) rl.Vector3 {
	g := r.GetGameObject()
	up := r.up()
	center := r.WorldCenter(position)
	offset := r.CapsuleOffset()
	skin := rl.Vector3Scale(up, r.SkinWidth)
	top := rl.Vector3Subtract(rl.Vector3Add(center, offset), skin)
	bottom := rl.Vector3Add(rl.Vector3Subtract(center, offset), skin)

	n := r.query.OverlapCapsule(top, bottom, r.Radius(), r.overlaps, r.CollisionLayer, physics.IgnoreTriggers)
	for _, other := range r.overlaps[:n] {
		if r.IsIgnored(other) || other.GetGameObject() == g {
			continue
		}

		volume := geom.NewCapsule(r.WorldCenter(position), up, r.Radius()-r.SkinWidth, r.Height()-r.SkinWidth)
		direction, depth, ok := r.query.ComputePenetration(volume, other)
		if !ok {
			continue
		}

		if engine.IsPlatform(other.GetGameObject()) {
			// Moving floors lift the capsule onto their top instead.
			surface := geom.Support(other.Shape(), up)
			feet := rl.Vector3DotProduct(r.WorldCenter(position), up) - r.Height()*0.5
			if lift := surface + r.SkinWidth - feet; lift > 0 {
				position = rl.Vector3Add(position, rl.Vector3Scale(up, lift))
			}
			continue
		}

		r.log.Trace().Str("object", other.GetGameObject().Name).Float32("depth", depth).Msg("penetration resolved")
		position = rl.Vector3Add(position, rl.Vector3Scale(direction, depth))
	}

	return position
}

// sweepTest casts the capsule and falls back to a ray from the pivot.
func (r *Resolver) sweepTest(position, top, bottom, direction rl.Vector3, distance float32) (physics.Hit, bool) {
	if hit, ok := r.query.CapsuleCast(top, bottom, r.Radius(), direction, distance, r.CollisionLayer, physics.IgnoreTriggers); ok {
		return hit, true
	}
	return r.query.Raycast(position, direction, distance, r.CollisionLayer, physics.IgnoreTriggers)
}
