package geom

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Convex is a solid convex volume that can report its closest point to any
// world point. Points inside the volume are their own closest point.
type Convex interface {
	ClosestPoint(p rl.Vector3) rl.Vector3
	Bounds() AABB
}

type Sphere struct {
	Center rl.Vector3
	Radius float32
}

func (s Sphere) ClosestPoint(p rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(p, s.Center)
	l := rl.Vector3Length(d)
	if l <= s.Radius {
		return p
	}
	return rl.Vector3Add(s.Center, rl.Vector3Scale(d, s.Radius/l))
}

func (s Sphere) Bounds() AABB {
	r := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return AABB{Min: rl.Vector3Subtract(s.Center, r), Max: rl.Vector3Add(s.Center, r)}
}

// Raycast intersects a ray with the sphere surface. Rays starting inside miss.
func (s Sphere) Raycast(origin, direction rl.Vector3, maxDistance float32) (float32, rl.Vector3, bool) {
	oc := rl.Vector3Subtract(origin, s.Center)
	b := rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - s.Radius*s.Radius
	if c <= 0 {
		return 0, rl.Vector3{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, rl.Vector3{}, false
	}
	t := -b - float32(math.Sqrt(float64(disc)))
	if t < 0 || t > maxDistance {
		return 0, rl.Vector3{}, false
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return t, rl.Vector3Normalize(rl.Vector3Subtract(point, s.Center)), true
}

// Segment is the line segment between A and B.
type Segment struct {
	A, B rl.Vector3
}

// ClosestT returns the segment parameter in [0, 1] of the point nearest p.
func (s Segment) ClosestT(p rl.Vector3) float32 {
	ab := rl.Vector3Subtract(s.B, s.A)
	den := rl.Vector3DotProduct(ab, ab)
	if den <= 1e-12 {
		return 0
	}
	return clampf(rl.Vector3DotProduct(rl.Vector3Subtract(p, s.A), ab)/den, 0, 1)
}

func (s Segment) At(t float32) rl.Vector3 {
	return rl.Vector3Lerp(s.A, s.B, t)
}

func (s Segment) ClosestPoint(p rl.Vector3) rl.Vector3 {
	return s.At(s.ClosestT(p))
}

// ClosestPoints returns the closest pair of points between two segments.
func ClosestPoints(s1, s2 Segment) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(s1.B, s1.A)
	d2 := rl.Vector3Subtract(s2.B, s2.A)
	r := rl.Vector3Subtract(s1.A, s2.A)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	const eps = 1e-12
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return s1.A, s2.A
	case a <= eps:
		t = clampf(f/e, 0, 1)
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= eps {
			s = clampf(-c/a, 0, 1)
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom > eps {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}
	return s1.At(s), s2.At(t)
}

// Capsule is a segment inflated by Radius.
type Capsule struct {
	A, B   rl.Vector3
	Radius float32
}

// NewCapsule builds a capsule around center whose axis points along up.
// Height is clamped to at least twice the radius.
func NewCapsule(center, up rl.Vector3, radius, height float32) Capsule {
	height = maxf(height, radius*2)
	offset := rl.Vector3Scale(up, height/2-radius)
	return Capsule{
		A:      rl.Vector3Add(center, offset),
		B:      rl.Vector3Subtract(center, offset),
		Radius: radius,
	}
}

func (c Capsule) Segment() Segment {
	return Segment{A: c.A, B: c.B}
}

func (c Capsule) ClosestPoint(p rl.Vector3) rl.Vector3 {
	return Sphere{Center: c.Segment().ClosestPoint(p), Radius: c.Radius}.ClosestPoint(p)
}

func (c Capsule) Bounds() AABB {
	r := rl.Vector3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	lo := rl.Vector3{X: minf(c.A.X, c.B.X), Y: minf(c.A.Y, c.B.Y), Z: minf(c.A.Z, c.B.Z)}
	hi := rl.Vector3{X: maxf(c.A.X, c.B.X), Y: maxf(c.A.Y, c.B.Y), Z: maxf(c.A.Z, c.B.Z)}
	return AABB{Min: rl.Vector3Subtract(lo, r), Max: rl.Vector3Add(hi, r)}
}

// Translate moves the capsule by offset.
func (c Capsule) Translate(offset rl.Vector3) Capsule {
	return Capsule{A: rl.Vector3Add(c.A, offset), B: rl.Vector3Add(c.B, offset), Radius: c.Radius}
}

// Support returns the largest projection of shape onto the unit vector dir.
func Support(shape Convex, dir rl.Vector3) float32 {
	switch v := shape.(type) {
	case OBB:
		return rl.Vector3DotProduct(v.Center, dir) + v.Extent(dir)
	case Sphere:
		return rl.Vector3DotProduct(v.Center, dir) + v.Radius
	case Capsule:
		return maxf(rl.Vector3DotProduct(v.A, dir), rl.Vector3DotProduct(v.B, dir)) + v.Radius
	}
	b := shape.Bounds()
	e := b.Extents()
	return rl.Vector3DotProduct(b.Center(), dir) + e.X*absf(dir.X) + e.Y*absf(dir.Y) + e.Z*absf(dir.Z)
}
