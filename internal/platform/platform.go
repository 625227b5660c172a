package platform

import (
	"slices"

	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Updater is implemented by every platform kind. The simulation calls
// PlatformUpdate once per tick, before any entity moves.
type Updater interface {
	PlatformUpdate(dt float32)
}

// Platform is the shared part of every platform: it remembers its pose
// from the start of the tick and drags attached objects along with
// whatever change happened since.
type Platform struct {
	engine.BaseComponent

	lastPosition rl.Vector3
	lastRotation rl.Quaternion
	attached     []*engine.GameObject
}

var _ Carrier = (*Platform)(nil)

// SetGameObject tags the owner so entities recognize it as a platform.
func (p *Platform) SetGameObject(g *engine.GameObject) {
	p.BaseComponent.SetGameObject(g)
	if !g.HasTag(engine.TagPlatform) {
		g.Tags = append(g.Tags, engine.TagPlatform)
	}
	p.CacheTransform()
}

func (p *Platform) CacheTransform() {
	t := p.GetGameObject().Transform
	p.lastPosition = t.Position
	p.lastRotation = t.Rotation
}

// HandleAttached applies the motion since CacheTransform to every attached
// object: they keep their offset from the platform pivot and turn with it.
func (p *Platform) HandleAttached() {
	t := p.GetGameObject().Transform
	delta := rl.QuaternionMultiply(t.Rotation, rl.QuaternionInvert(p.lastRotation))
	for _, g := range p.attached {
		offset := rl.Vector3Subtract(g.Transform.Position, p.lastPosition)
		g.Transform.Position = rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(offset, delta))
		g.Transform.Rotate(delta)
	}
}

func (p *Platform) Attach(g *engine.GameObject) {
	if g != nil && !slices.Contains(p.attached, g) {
		p.attached = append(p.attached, g)
	}
}

func (p *Platform) Detach(g *engine.GameObject) {
	if i := slices.Index(p.attached, g); i >= 0 {
		p.attached = slices.Delete(p.attached, i, i+1)
	}
}

func (p *Platform) DetachAll() {
	p.attached = p.attached[:0]
}

// Attached lists the objects currently riding the platform.
func (p *Platform) Attached() []*engine.GameObject {
	return p.attached
}
