package geom

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// ContactThreshold is the gap under which a sweep reports contact.
	ContactThreshold = 1e-3

	searchIterations = 40
	traceIterations  = 64
)

// SegmentDistance returns the distance between segment s and shape together
// with the closest points on each. Zero means the segment touches or enters
// the shape.
func SegmentDistance(s Segment, shape Convex) (float32, rl.Vector3, rl.Vector3) {
	switch v := shape.(type) {
	case Sphere:
		p := s.ClosestPoint(v.Center)
		q := v.ClosestPoint(p)
		return rl.Vector3Distance(p, q), p, q
	case Capsule:
		p, c := ClosestPoints(s, v.Segment())
		q := Sphere{Center: c, Radius: v.Radius}.ClosestPoint(p)
		return rl.Vector3Distance(p, q), p, q
	}

	// Distance to a convex set is convex along a line, so a ternary search
	// over the segment parameter converges on the minimum.
	f := func(t float32) (float32, rl.Vector3, rl.Vector3) {
		p := s.At(t)
		q := shape.ClosestPoint(p)
		return rl.Vector3Distance(p, q), p, q
	}
	lo, hi := float32(0), float32(1)
	if rl.Vector3Distance(s.A, s.B) > 1e-6 {
		for i := 0; i < searchIterations; i++ {
			m1 := lo + (hi-lo)/3
			m2 := hi - (hi-lo)/3
			d1, _, _ := f(m1)
			d2, _, _ := f(m2)
			if d1 <= d2 {
				hi = m2
			} else {
				lo = m1
			}
		}
	}
	return f((lo + hi) / 2)
}

// SweepResult describes the first contact of a swept shape.
type SweepResult struct {
	Distance float32
	Point    rl.Vector3
	Normal   rl.Vector3
}

// Sweep moves the capsule core s, inflated by radius, along the unit
// direction dir and reports the first contact with shape within maxDistance.
// Shapes already overlapping at the start are not reported. A radius of zero
// degenerates into a ray test.
//
// The gap between two convex volumes is convex in the travelled distance,
// so Newton steps taken from the start never overshoot the first contact.
func Sweep(s Segment, radius float32, dir rl.Vector3, maxDistance float32, shape Convex) (SweepResult, bool) {
	var t float32
	for i := 0; i < traceIterations; i++ {
		offset := rl.Vector3Scale(dir, t)
		moved := Segment{A: rl.Vector3Add(s.A, offset), B: rl.Vector3Add(s.B, offset)}
		dist, p, q := SegmentDistance(moved, shape)
		gap := dist - radius
		if i == 0 && gap <= 0 {
			return SweepResult{}, false
		}

		normal := rl.Vector3Subtract(p, q)
		if dist > 1e-6 {
			normal = rl.Vector3Scale(normal, 1/dist)
		} else {
			normal = rl.Vector3Negate(dir)
		}

		if gap < ContactThreshold {
			hit := t + maxf(gap, 0)
			if hit > maxDistance {
				return SweepResult{}, false
			}
			return SweepResult{Distance: hit, Point: q, Normal: normal}, true
		}

		closing := -rl.Vector3DotProduct(dir, normal)
		if closing <= 1e-6 {
			return SweepResult{}, false
		}
		t += gap / closing
		if t > maxDistance {
			return SweepResult{}, false
		}
		if i == traceIterations-1 {
			// Still closing in on a grazing contact: stop here rather than
			// let the caller pass through.
			return SweepResult{Distance: t, Point: q, Normal: normal}, true
		}
	}
	return SweepResult{}, false
}

// Penetration computes the direction and depth needed to push the capsule
// out of shape. ok is false when the two do not overlap.
func Penetration(c Capsule, shape Convex) (rl.Vector3, float32, bool) {
	dist, p, q := SegmentDistance(c.Segment(), shape)
	if dist >= c.Radius {
		return rl.Vector3{}, 0, false
	}
	if dist > 1e-5 {
		dir := rl.Vector3Scale(rl.Vector3Subtract(p, q), 1/dist)
		return dir, c.Radius - dist, true
	}

	// The core segment is inside the shape.
	switch v := shape.(type) {
	case OBB:
		dir, depth := v.Penetration(c.A, c.B, c.Radius)
		return dir, depth, true
	case Sphere:
		return deepRadial(c, v.Center, v.Radius)
	case Capsule:
		_, onOther := ClosestPoints(c.Segment(), v.Segment())
		return deepRadial(c, onOther, v.Radius)
	}
	return rl.Vector3{}, 0, false
}

func deepRadial(c Capsule, center rl.Vector3, radius float32) (rl.Vector3, float32, bool) {
	p := c.Segment().ClosestPoint(center)
	d := rl.Vector3Subtract(p, center)
	l := rl.Vector3Length(d)
	dir := rl.Vector3{Y: 1}
	if l > 1e-6 {
		dir = rl.Vector3Scale(d, 1/l)
	} else if axis := rl.Vector3Subtract(c.A, c.B); rl.Vector3Length(axis) > 1e-6 {
		dir = rl.Vector3Normalize(axis)
	}
	return dir, radius + c.Radius - l, true
}
