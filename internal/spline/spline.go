// Package spline implements piecewise cubic Bezier curves used by rails and
// spline-shaped gravity fields.
package spline

import (
	"math"

	"kinematic3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultResolution is the number of coarse samples per nearest-point search.
	DefaultResolution = 128
	// DefaultIterations is the number of refinement passes after sampling.
	DefaultIterations = 16
)

// Knot is a curve control point. Tangents are offsets from Position.
type Knot struct {
	Position   rl.Vector3
	TangentIn  rl.Vector3
	TangentOut rl.Vector3
}

// Spline is a component holding a curve in its GameObject's local space.
type Spline struct {
	engine.BaseComponent
	Knots  []Knot
	Closed bool
}

func New(knots ...Knot) *Spline {
	return &Spline{Knots: knots}
}

// Linear builds a spline through points with straight segments.
func Linear(points ...rl.Vector3) *Spline {
	knots := make([]Knot, len(points))
	for i, p := range points {
		knots[i] = Knot{Position: p}
	}
	for i := 0; i+1 < len(points); i++ {
		third := rl.Vector3Scale(rl.Vector3Subtract(points[i+1], points[i]), 1.0/3)
		knots[i].TangentOut = third
		knots[i+1].TangentIn = rl.Vector3Negate(third)
	}
	return &Spline{Knots: knots}
}

// SegmentCount returns the number of cubic pieces.
func (s *Spline) SegmentCount() int {
	n := len(s.Knots)
	if n < 2 {
		return 0
	}
	if s.Closed {
		return n
	}
	return n - 1
}

func (s *Spline) segment(i int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	a := s.Knots[i]
	b := s.Knots[(i+1)%len(s.Knots)]
	return vec(a.Position),
		vec(rl.Vector3Add(a.Position, a.TangentOut)),
		vec(rl.Vector3Add(b.Position, b.TangentIn)),
		vec(b.Position)
}

// locate maps a curve parameter in [0, 1] to a segment and local parameter.
func (s *Spline) locate(t float32) (int, float32) {
	count := s.SegmentCount()
	if s.Closed {
		t -= float32(math.Floor(float64(t)))
	} else {
		t = engine.Clamp(t, 0, 1)
	}
	scaled := t * float32(count)
	i := int(scaled)
	if i >= count {
		i = count - 1
	}
	return i, scaled - float32(i)
}

// Evaluate returns the local-space point at curve parameter t in [0, 1].
func (s *Spline) Evaluate(t float32) rl.Vector3 {
	switch len(s.Knots) {
	case 0:
		return rl.Vector3{}
	case 1:
		return s.Knots[0].Position
	}
	i, u := s.locate(t)
	p0, p1, p2, p3 := s.segment(i)
	return vector(mgl32.CubicBezierCurve3D(u, p0, p1, p2, p3))
}

// Tangent returns the unnormalized derivative at t.
func (s *Spline) Tangent(t float32) rl.Vector3 {
	if len(s.Knots) < 2 {
		return rl.Vector3{}
	}
	i, u := s.locate(t)
	p0, p1, p2, p3 := s.segment(i)
	v := 1 - u
	d := p1.Sub(p0).Mul(3 * v * v).
		Add(p2.Sub(p1).Mul(6 * v * u)).
		Add(p3.Sub(p2).Mul(3 * u * u))
	return vector(d)
}

// NearestPoint finds the local point on the curve closest to p and its
// parameter. resolution samples seed the search and each iteration halves
// the bracket around the best sample.
func (s *Spline) NearestPoint(p rl.Vector3, resolution, iterations int) (rl.Vector3, float32) {
	if len(s.Knots) < 2 {
		return s.Evaluate(0), 0
	}
	if resolution < 2 {
		resolution = 2
	}

	best := float32(0)
	bestDist := float32(math.MaxFloat32)
	for i := 0; i <= resolution; i++ {
		t := float32(i) / float32(resolution)
		if d := distSq(s.Evaluate(t), p); d < bestDist {
			best, bestDist = t, d
		}
	}

	step := 1 / float32(resolution)
	for i := 0; i < iterations; i++ {
		step *= 0.5
		for _, t := range [2]float32{best - step, best + step} {
			if !s.Closed && (t < 0 || t > 1) {
				continue
			}
			if d := distSq(s.Evaluate(t), p); d < bestDist {
				best, bestDist = t, d
			}
		}
	}
	return s.Evaluate(best), best
}

// WorldNearestPoint runs NearestPoint in the owner's space and returns the
// result in world space.
func (s *Spline) WorldNearestPoint(p rl.Vector3) (rl.Vector3, float32) {
	g := s.GetGameObject()
	if g == nil {
		return s.NearestPoint(p, DefaultResolution, DefaultIterations)
	}
	local := g.Transform.InverseTransformPoint(p)
	nearest, t := s.NearestPoint(local, DefaultResolution, DefaultIterations)
	return g.Transform.TransformPoint(nearest), t
}

// Length approximates the arc length by sampling.
func (s *Spline) Length() float32 {
	if len(s.Knots) < 2 {
		return 0
	}
	samples := DefaultResolution * s.SegmentCount()
	var length float32
	prev := s.Evaluate(0)
	for i := 1; i <= samples; i++ {
		p := s.Evaluate(float32(i) / float32(samples))
		length += rl.Vector3Distance(prev, p)
		prev = p
	}
	return length
}

func vec(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func vector(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func distSq(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return rl.Vector3DotProduct(d, d)
}
