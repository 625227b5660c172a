// Package camera has the viewer's third-person orbit camera.
package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orbit circles a target at Distance. Yaw and Pitch are in degrees; a yaw
// of 90 looks along +Z.
type Orbit struct {
	Target   rl.Vector3
	Yaw      float32
	Pitch    float32
	Distance float32

	LookSpeed   float32
	ZoomSpeed   float32
	FollowSpeed float32
	MinDistance float32
	MaxDistance float32
}

func New() *Orbit {
	return &Orbit{
		Yaw:         90,
		Pitch:       -25,
		Distance:    12,
		LookSpeed:   0.2,
		ZoomSpeed:   1.5,
		FollowSpeed: 8,
		MinDistance: 3,
		MaxDistance: 60,
	}
}

// Update turns the camera by look (mouse delta in pixels), zooms by zoom
// (wheel steps) and eases the target toward follow.
func (c *Orbit) Update(deltaTime float32, follow rl.Vector3, look rl.Vector2, zoom float32) {
	c.Yaw += look.X * c.LookSpeed
	c.Pitch -= look.Y * c.LookSpeed

	// Clamp pitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}

	c.Distance -= zoom * c.ZoomSpeed
	c.Distance = rl.Clamp(c.Distance, c.MinDistance, c.MaxDistance)

	t := rl.Clamp(c.FollowSpeed*deltaTime, 0, 1)
	c.Target = rl.Vector3Lerp(c.Target, follow, t)
}

// direction is the unit vector from the camera toward the target.
func (c *Orbit) direction() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
}

// Heading is the view direction flattened onto the ground plane.
func (c *Orbit) Heading() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	return rl.Vector3{X: float32(math.Cos(yawRad)), Z: float32(math.Sin(yawRad))}
}

func (c *Orbit) Position() rl.Vector3 {
	return rl.Vector3Subtract(c.Target, rl.Vector3Scale(c.direction(), c.Distance))
}

func (c *Orbit) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
