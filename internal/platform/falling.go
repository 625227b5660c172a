package platform

import (
	"math"

	"kinematic3d/internal/bounds"
	"kinematic3d/internal/components"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

// FallingPlatform drops after a player stands on it. It shakes during the
// second half of FallDelay, falls as a trigger so nothing lands on it, and
// returns to its spawn pose after ResetDelay when AutoReset is set.
type FallingPlatform struct {
	Platform

	AutoReset   bool
	FallDelay   float32
	ResetDelay  float32
	FallGravity float32

	Shake       bool
	ShakeSpeed  float32
	ShakeHeight float32

	query     physics.Query
	scheduler *engine.Scheduler
	bounds    *bounds.Helper
	log       zerolog.Logger

	collider        components.Collider
	initialPosition rl.Vector3
	timer           float32
	activated       bool
	falling         bool
	shaking         bool

	overlaps [32]components.Collider
}

var (
	_ Updater               = (*FallingPlatform)(nil)
	_ engine.ContactHandler = (*FallingPlatform)(nil)
)

func NewFallingPlatform(query physics.Query, scheduler *engine.Scheduler, helper *bounds.Helper, log zerolog.Logger) *FallingPlatform {
	return &FallingPlatform{
		AutoReset:   true,
		FallDelay:   2,
		ResetDelay:  5,
		FallGravity: 40,
		Shake:       true,
		ShakeSpeed:  45,
		ShakeHeight: 0.1,
		query:       query,
		scheduler:   scheduler,
		bounds:      helper,
		log:         log,
	}
}

// Start captures the collider and spawn position. It runs lazily on the
// first update or contact if the owner was never started.
func (f *FallingPlatform) Start() {
	if f.collider != nil {
		return
	}
	g := f.GetGameObject()
	f.collider = engine.GetComponent[components.Collider](g)
	f.initialPosition = g.Transform.Position
}

func (f *FallingPlatform) Activated() bool { return f.activated }
func (f *FallingPlatform) Falling() bool   { return f.falling }
func (f *FallingPlatform) Shaking() bool   { return f.shaking }

// OnEntityContact arms the platform when a player touches it from above.
func (f *FallingPlatform) OnEntityContact(k engine.Kinematic) {
	f.Start()
	if f.activated || f.collider == nil || !k.GetGameObject().HasTag(engine.TagPlayer) {
		return
	}
	if f.bounds.IsBelowPoint(f.collider, k.StepPosition()) {
		f.activated = true
		f.timer = f.FallDelay
		f.log.Debug().Str("platform", f.GetGameObject().Name).Msg("falling platform armed")
	}
}

func (f *FallingPlatform) PlatformUpdate(dt float32) {
	f.Start()
	f.CacheTransform()
	f.handleShaking(dt)
	f.handleFall(dt)
	if !f.falling {
		f.HandleAttached()
	}
}

// Fall drops the platform immediately.
func (f *FallingPlatform) Fall() {
	f.Start()
	f.falling = true
	f.shaking = false
	if f.collider != nil {
		f.collider.SetTrigger(true)
	}
	f.DetachAll()
	f.log.Debug().Str("platform", f.GetGameObject().Name).Msg("falling platform dropped")

	if f.AutoReset {
		f.scheduler.After(f.ResetDelay, f.Restart)
	}
}

// Restart puts the platform back and lifts any player caught inside it.
func (f *FallingPlatform) Restart() {
	f.Start()
	f.timer = 0
	f.activated, f.falling, f.shaking = false, false, false
	f.GetGameObject().Transform.Position = f.initialPosition
	if f.collider != nil {
		f.collider.SetTrigger(false)
	}
	f.offsetPlayers()
}

func (f *FallingPlatform) handleShaking(dt float32) {
	if !f.activated || f.falling {
		return
	}

	t := &f.GetGameObject().Transform
	if f.Shake && f.timer <= f.FallDelay*0.5 {
		now := f.scheduler.Clock().Time()
		offset := float32(math.Sin(now*float64(f.ShakeSpeed))) * f.ShakeHeight
		t.Position = rl.Vector3Add(f.initialPosition, rl.Vector3Scale(t.Up(), offset))
		f.shaking = true
	}

	f.timer -= dt
	if f.timer <= 0 {
		f.Fall()
	}
}

func (f *FallingPlatform) handleFall(dt float32) {
	if !f.falling {
		return
	}
	t := &f.GetGameObject().Transform
	t.Position = rl.Vector3Add(t.Position, rl.Vector3Scale(t.Up(), -f.FallGravity*dt))
}

// offsetPlayers moves players overlapping the platform on top of it.
func (f *FallingPlatform) offsetPlayers() {
	if f.collider == nil || f.query == nil {
		return
	}

	box := f.collider.Shape().Bounds()
	reach := rl.Vector3Length(box.Extents())
	n := f.query.OverlapSphere(box.Center(), reach, f.overlaps[:], engine.AllLayers, physics.CollideTriggers)

	t := f.GetGameObject().Transform
	up := t.Up()
	top := rl.Vector3DotProduct(box.Center(), up) + box.Extents().Y
	for _, c := range f.overlaps[:n] {
		other := c.GetGameObject()
		if !other.HasTag(engine.TagPlayer) || !c.Shape().Bounds().Intersects(box) {
			continue
		}
		k := engine.GetComponent[engine.Kinematic](other)
		if k == nil {
			continue
		}
		distance := top - rl.Vector3DotProduct(other.Transform.Position, up)
		other.Transform.Position = rl.Vector3Add(other.Transform.Position, rl.Vector3Scale(up, distance+k.Height()*0.5))
		f.log.Debug().Str("platform", f.GetGameObject().Name).Str("player", other.Name).Msg("player lifted out of platform")
	}
}
