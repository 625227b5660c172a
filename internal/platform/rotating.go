package platform

import (
	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RotatingPlatform spins at a constant rate around each axis.
type RotatingPlatform struct {
	Platform

	Space engine.Space
	// Rotation is in degrees per second around X, Y and Z.
	Rotation rl.Vector3
}

var _ Updater = (*RotatingPlatform)(nil)

func NewRotatingPlatform() *RotatingPlatform {
	return &RotatingPlatform{Rotation: rl.Vector3{Y: 180}}
}

func (r *RotatingPlatform) PlatformUpdate(dt float32) {
	r.CacheTransform()
	r.rotate(dt)
	r.HandleAttached()
}

func (r *RotatingPlatform) rotate(dt float32) {
	step := rl.Vector3Scale(r.Rotation, dt*rl.Deg2rad)
	q := rl.QuaternionFromEuler(step.X, step.Y, step.Z)
	t := &r.GetGameObject().Transform
	if r.Space == engine.WorldSpace {
		t.Rotate(q)
		return
	}
	t.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(t.Rotation, q))
}
