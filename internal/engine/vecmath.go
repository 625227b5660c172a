package engine

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	WorldUp      = rl.Vector3{X: 0, Y: 1, Z: 0}
	WorldDown    = rl.Vector3{X: 0, Y: -1, Z: 0}
	WorldForward = rl.Vector3{X: 0, Y: 0, Z: 1}
	WorldRight   = rl.Vector3{X: 1, Y: 0, Z: 0}
)

// Epsilon is the length below which a vector counts as zero.
const Epsilon = 1e-6

func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func IsZero(v rl.Vector3) bool {
	return rl.Vector3DotProduct(v, v) <= Epsilon*Epsilon
}

// Normalize returns the unit vector of v, or zero for a degenerate input.
func Normalize(v rl.Vector3) rl.Vector3 {
	l := rl.Vector3Length(v)
	if l <= Epsilon {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(v, 1/l)
}

// Angle returns the unsigned angle between a and b in degrees.
func Angle(a, b rl.Vector3) float32 {
	la, lb := rl.Vector3Length(a), rl.Vector3Length(b)
	if la <= Epsilon || lb <= Epsilon {
		return 0
	}
	cos := Clamp(rl.Vector3DotProduct(a, b)/(la*lb), -1, 1)
	return float32(math.Acos(float64(cos))) * rl.Rad2deg
}

// SignedAngle returns the angle from a to b around axis in degrees, in [-180, 180].
func SignedAngle(from, to, axis rl.Vector3) float32 {
	angle := Angle(from, to)
	if rl.Vector3DotProduct(axis, rl.Vector3CrossProduct(from, to)) < 0 {
		return -angle
	}
	return angle
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal rl.Vector3) rl.Vector3 {
	sqr := rl.Vector3DotProduct(normal, normal)
	if sqr <= Epsilon {
		return v
	}
	dot := rl.Vector3DotProduct(v, normal)
	return rl.Vector3Subtract(v, rl.Vector3Scale(normal, dot/sqr))
}

// Project returns the component of v along onto.
func Project(v, onto rl.Vector3) rl.Vector3 {
	sqr := rl.Vector3DotProduct(onto, onto)
	if sqr <= Epsilon {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(onto, rl.Vector3DotProduct(v, onto)/sqr)
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target rl.Vector3, maxDelta float32) rl.Vector3 {
	diff := rl.Vector3Subtract(target, current)
	dist := rl.Vector3Length(diff)
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return rl.Vector3Add(current, rl.Vector3Scale(diff, maxDelta/dist))
}

// AngleAxis builds a rotation of deg degrees around axis.
func AngleAxis(deg float32, axis rl.Vector3) rl.Quaternion {
	return rl.QuaternionFromAxisAngle(Normalize(axis), deg*rl.Deg2rad)
}

// FromToRotation returns the shortest rotation taking from onto to.
// Opposite vectors rotate 180 degrees around an arbitrary perpendicular axis.
func FromToRotation(from, to rl.Vector3) rl.Quaternion {
	a, b := Normalize(from), Normalize(to)
	if IsZero(a) || IsZero(b) {
		return rl.QuaternionIdentity()
	}
	d := rl.Vector3DotProduct(a, b)
	if d >= 1-1e-6 {
		return rl.QuaternionIdentity()
	}
	if d <= -1+1e-6 {
		axis := rl.Vector3CrossProduct(WorldRight, a)
		if rl.Vector3DotProduct(axis, axis) < 1e-6 {
			axis = rl.Vector3CrossProduct(WorldUp, a)
		}
		return AngleAxis(180, axis)
	}
	c := rl.Vector3CrossProduct(a, b)
	return rl.QuaternionNormalize(rl.Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d})
}

// QuaternionAngle returns the angle between two rotations in degrees.
func QuaternionAngle(a, b rl.Quaternion) float32 {
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	if dot < 0 {
		dot = -dot
	}
	if dot > 1 {
		dot = 1
	}
	return 2 * float32(math.Acos(float64(dot))) * rl.Rad2deg
}

// RotateTowards rotates from toward to by at most maxDegrees.
func RotateTowards(from, to rl.Quaternion, maxDegrees float32) rl.Quaternion {
	angle := QuaternionAngle(from, to)
	if angle <= 1e-4 {
		return to
	}
	t := maxDegrees / angle
	if t >= 1 {
		return to
	}
	return rl.QuaternionSlerp(from, to, t)
}

// LookRotation builds a rotation whose forward axis is forward and whose up
// axis is as close to up as possible.
func LookRotation(forward, up rl.Vector3) rl.Quaternion {
	f := Normalize(forward)
	if IsZero(f) {
		return rl.QuaternionIdentity()
	}
	r := Normalize(rl.Vector3CrossProduct(up, f))
	if IsZero(r) {
		r = Normalize(rl.Vector3CrossProduct(WorldForward, f))
		if IsZero(r) {
			r = WorldRight
		}
	}
	u := rl.Vector3CrossProduct(f, r)
	return quaternionFromBasis(r, u, f)
}

func quaternionFromBasis(r, u, f rl.Vector3) rl.Quaternion {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q rl.Quaternion
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / sqrt(trace+1)
		q = rl.Quaternion{W: 0.25 / s, X: (m21 - m12) * s, Y: (m02 - m20) * s, Z: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * sqrt(1+m00-m11-m22)
		q = rl.Quaternion{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * sqrt(1+m11-m00-m22)
		q = rl.Quaternion{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := 2 * sqrt(1+m22-m00-m11)
		q = rl.Quaternion{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return rl.QuaternionNormalize(q)
}

func sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
