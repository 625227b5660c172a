package platform

import (
	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween/ease"
)

// RotationMode picks how a MovingPlatform turns toward waypoint rotations.
type RotationMode int

const (
	// Interpolate blends from the previous waypoint's rotation to the
	// current one as the platform covers the distance between them.
	Interpolate RotationMode = iota
	// LookAt turns toward the current waypoint's rotation at LookAtSpeed.
	LookAt
)

const minWaypointDistance = 0.001

type MovingPlatform struct {
	Platform

	Speed            float32
	RotateToWaypoint bool
	RotationMode     RotationMode
	// LookAtSpeed is in degrees per second.
	LookAtSpeed float32
	// Ease shapes the Interpolate blend.
	Ease ease.TweenFunc

	Waypoints *Waypoints
}

var _ Updater = (*MovingPlatform)(nil)

func NewMovingPlatform(waypoints *Waypoints) *MovingPlatform {
	return &MovingPlatform{
		Speed:       3,
		LookAtSpeed: 360,
		Ease:        ease.Linear,
		Waypoints:   waypoints,
	}
}

func (m *MovingPlatform) PlatformUpdate(dt float32) {
	m.CacheTransform()
	m.handleWaypoints(dt)
	m.HandleAttached()
}

func (m *MovingPlatform) handleWaypoints(dt float32) {
	t := &m.GetGameObject().Transform
	target := m.Waypoints.Current().Position
	t.Position = engine.MoveTowards(t.Position, target, m.Speed*dt)

	distance := rl.Vector3Distance(t.Position, target)
	m.handleRotation(distance, dt)

	if distance <= minWaypointDistance {
		m.Waypoints.Next()
	}
}

func (m *MovingPlatform) handleRotation(distance, dt float32) {
	if !m.RotateToWaypoint {
		return
	}

	t := &m.GetGameObject().Transform
	current, previous := m.Waypoints.Current(), m.Waypoints.Previous()

	switch m.RotationMode {
	case Interpolate:
		span := rl.Vector3Distance(current.Position, previous.Position)
		progress := float32(1)
		if span > minWaypointDistance {
			progress = engine.Clamp(1-distance/span, 0, 1)
		}
		if m.Ease != nil {
			progress = m.Ease(progress, 0, 1, 1)
		}
		t.Rotation = rl.QuaternionNlerp(previous.Rotation, current.Rotation, progress)
	case LookAt:
		t.Rotation = engine.RotateTowards(t.Rotation, current.Rotation, m.LookAtSpeed*dt)
	}
}
