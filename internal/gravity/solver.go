// Package gravity maps world points to local up directions for a set of
// field shapes and binds kinematic bodies to the fields they overlap.
package gravity

import (
	"kinematic3d/internal/bounds"
	"kinematic3d/internal/engine"
	"kinematic3d/internal/geom"
	"kinematic3d/internal/spline"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Shape int

const (
	Parallel Shape = iota
	Box
	Sphere
	Capsule
	Cylinder
	Spline
	HalfPipe
	Disc
)

var shapeNames = [...]string{"parallel", "box", "sphere", "capsule", "cylinder", "spline", "halfpipe", "disc"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShape resolves a shape name as written in config files.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return Parallel, false
}

// Params is a field volume resolved to world space.
type Params struct {
	Shape    Shape
	Center   rl.Vector3
	Rotation rl.Quaternion
	Size     rl.Vector3
	Radius   float32
	Height   float32

	// Half-pipe dimensions. Height runs along the field's right axis.
	HalfPipeRadius float32
	HalfPipeHeight float32

	Inverted bool
	Curve    *spline.Spline
}

func (p Params) up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(engine.WorldUp, p.Rotation)
}

func (p Params) right() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(engine.WorldRight, p.Rotation)
}

func (p Params) forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(engine.WorldForward, p.Rotation)
}

func (p Params) top() rl.Vector3 {
	return rl.Vector3Add(p.Center, rl.Vector3Scale(p.up(), p.Height*0.5))
}

func (p Params) bottom() rl.Vector3 {
	return rl.Vector3Subtract(p.Center, rl.Vector3Scale(p.up(), p.Height*0.5))
}

// GravityDirection is the unit direction gravity pulls toward at point.
func (p Params) GravityDirection(point rl.Vector3) rl.Vector3 {
	return rl.Vector3Negate(p.Up(point))
}

// Up is the anti-gravity direction at point. Inverted fields flip it,
// except half-pipes where the flag selects the outward-facing variant.
func (p Params) Up(point rl.Vector3) rl.Vector3 {
	var up rl.Vector3
	switch p.Shape {
	case Box:
		up = p.boxUp(point)
	case Sphere:
		up = bounds.DirectionFrom(p.Center, point, p.up())
	case Cylinder:
		up = p.cylinderUp(point)
	case Capsule:
		up = p.capsuleUp(point)
	case Spline:
		up = p.splineUp(point)
	case HalfPipe:
		return p.halfPipeUp(point, !p.Inverted)
	case Disc:
		up = p.discUp(point)
	default:
		up = p.up()
	}
	if p.Inverted {
		return rl.Vector3Negate(up)
	}
	return up
}

// boxUp points away from the nearest surface point. Inside the box it uses
// the normal of the nearest face so the direction does not collapse.
func (p Params) boxUp(point rl.Vector3) rl.Vector3 {
	box := geom.NewOBB(p.Center, p.Size, p.Rotation)
	if !box.Contains(point) {
		return bounds.DirectionFrom(box.ClosestPoint(point), point, p.up())
	}

	local := box.ToLocal(point)
	axes := box.Axes()
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}
	coords := [3]float32{local.X, local.Y, local.Z}
	best, bestGap := 1, half[1]-abs(coords[1])
	for i := 0; i < 3; i++ {
		if gap := half[i] - abs(coords[i]); gap < bestGap {
			best, bestGap = i, gap
		}
	}
	if coords[best] < 0 {
		return rl.Vector3Negate(axes[best])
	}
	return axes[best]
}

func (p Params) cylinderUp(point rl.Vector3) rl.Vector3 {
	up := p.up()
	top, bottom := p.top(), p.bottom()
	line := engine.Normalize(rl.Vector3Subtract(bottom, top))
	distance := rl.Vector3DotProduct(rl.Vector3Subtract(point, top), line)

	switch {
	case distance <= 0:
		return bounds.DirectionFrom(bounds.NearestPointOnDisc(top, up, p.Radius, point), point, up)
	case distance >= p.Height:
		return bounds.DirectionFrom(bounds.NearestPointOnDisc(bottom, rl.Vector3Negate(up), p.Radius, point), point, rl.Vector3Negate(up))
	}

	closest := bounds.NearestPointOnFiniteLine(top, bottom, point)
	radial := rl.Vector3Distance(point, closest)
	if radial < p.Radius {
		// Inside the solid: whichever surface is nearer wins.
		side := p.Radius - radial
		if distance < side && distance <= p.Height-distance {
			return up
		}
		if p.Height-distance < side {
			return rl.Vector3Negate(up)
		}
	}
	return bounds.DirectionFrom(closest, point, up)
}

func (p Params) capsuleUp(point rl.Vector3) rl.Vector3 {
	offset := rl.Vector3Scale(p.up(), p.Height*0.5-p.Radius)
	topSphere := rl.Vector3Add(p.Center, offset)
	bottomSphere := rl.Vector3Subtract(p.Center, offset)
	return bounds.DirectionFrom(bounds.NearestPointOnFiniteLine(topSphere, bottomSphere, point), point, p.up())
}

func (p Params) splineUp(point rl.Vector3) rl.Vector3 {
	if p.Curve == nil {
		return p.up()
	}
	nearest, _ := p.Curve.WorldNearestPoint(point)
	return bounds.DirectionFrom(nearest, point, p.up())
}

// halfPipeUp rotates the field's up around its right axis by the angle the
// point makes with the pipe, clamped to a quarter turn.
func (p Params) halfPipeUp(point rl.Vector3, inwards bool) rl.Vector3 {
	up, right := p.up(), p.right()
	if inwards {
		point = rl.Vector3Subtract(point, rl.Vector3Scale(p.forward(), p.HalfPipeRadius))
		point = rl.Vector3Subtract(point, rl.Vector3Scale(up, p.HalfPipeRadius))
	}

	halfRight := rl.Vector3Scale(right, p.HalfPipeHeight*0.5)
	closest := bounds.NearestPointOnFiniteLine(rl.Vector3Add(p.Center, halfRight), rl.Vector3Subtract(p.Center, halfRight), point)
	direction := engine.Normalize(rl.Vector3Subtract(point, closest))
	if inwards {
		direction = rl.Vector3Negate(direction)
	}

	angle := engine.Clamp(engine.SignedAngle(up, direction, right), 0, 90)
	return engine.Normalize(rl.Vector3RotateByQuaternion(up, engine.AngleAxis(angle, right)))
}

func (p Params) discUp(point rl.Vector3) rl.Vector3 {
	up := p.up()
	radius := p.Radius - p.Height*0.5
	return bounds.DirectionFrom(bounds.NearestPointOnDisc(p.Center, up, radius, point), point, up)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
