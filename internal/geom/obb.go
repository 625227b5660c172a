package geom

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Rotation rl.Quaternion // Local-to-world rotation
}

// NewOBB creates an OBB from center, full size and rotation.
func NewOBB(center, size rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: absf(size.X) / 2, Y: absf(size.Y) / 2, Z: absf(size.Z) / 2},
		Rotation: rotation,
	}
}

// Axes returns the box's local X, Y, Z axes in world space.
func (o OBB) Axes() [3]rl.Vector3 {
	return [3]rl.Vector3{
		rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, o.Rotation),
		rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, o.Rotation),
		rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, o.Rotation),
	}
}

// ToLocal expresses a world point in the box's frame, relative to its center.
func (o OBB) ToLocal(p rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3Subtract(p, o.Center), rl.QuaternionInvert(o.Rotation))
}

// ToWorld maps a point in the box's frame back to world space.
func (o OBB) ToWorld(local rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(o.Center, rl.Vector3RotateByQuaternion(local, o.Rotation))
}

// ClosestPoint returns the closest point of the solid box to p (p itself when inside).
func (o OBB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	local := o.ToLocal(p)
	clamped := rl.Vector3{
		X: clampf(local.X, -o.HalfSize.X, o.HalfSize.X),
		Y: clampf(local.Y, -o.HalfSize.Y, o.HalfSize.Y),
		Z: clampf(local.Z, -o.HalfSize.Z, o.HalfSize.Z),
	}
	return o.ToWorld(clamped)
}

func (o OBB) Contains(p rl.Vector3) bool {
	local := o.ToLocal(p)
	return absf(local.X) <= o.HalfSize.X && absf(local.Y) <= o.HalfSize.Y && absf(local.Z) <= o.HalfSize.Z
}

// Bounds returns the world AABB enclosing the rotated box.
func (o OBB) Bounds() AABB {
	axes := o.Axes()
	ext := rl.Vector3{
		X: o.HalfSize.X*absf(axes[0].X) + o.HalfSize.Y*absf(axes[1].X) + o.HalfSize.Z*absf(axes[2].X),
		Y: o.HalfSize.X*absf(axes[0].Y) + o.HalfSize.Y*absf(axes[1].Y) + o.HalfSize.Z*absf(axes[2].Y),
		Z: o.HalfSize.X*absf(axes[0].Z) + o.HalfSize.Y*absf(axes[1].Z) + o.HalfSize.Z*absf(axes[2].Z),
	}
	return AABB{Min: rl.Vector3Subtract(o.Center, ext), Max: rl.Vector3Add(o.Center, ext)}
}

// Extent is the box's half-width when projected on axis (unit length).
func (o OBB) Extent(axis rl.Vector3) float32 {
	axes := o.Axes()
	return o.HalfSize.X*absf(rl.Vector3DotProduct(axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(axes[2], axis))
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := o.ClosestPoint(center)
	d := rl.Vector3Subtract(center, closest)
	return rl.Vector3DotProduct(d, d) <= radius*radius
}

// Raycast intersects a ray with the box using the slab method in local space.
// Rays starting inside the box report no hit.
func (o OBB) Raycast(origin, direction rl.Vector3, maxDistance float32) (float32, rl.Vector3, bool) {
	inv := rl.QuaternionInvert(o.Rotation)
	lo := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(origin, o.Center), inv)
	ld := rl.Vector3RotateByQuaternion(direction, inv)

	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)
	hitAxis := -1
	hitSign := float32(0)

	origins := [3]float32{lo.X, lo.Y, lo.Z}
	dirs := [3]float32{ld.X, ld.Y, ld.Z}
	halves := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}

	for i := 0; i < 3; i++ {
		if absf(dirs[i]) < 1e-8 {
			if origins[i] < -halves[i] || origins[i] > halves[i] {
				return 0, rl.Vector3{}, false
			}
			continue
		}
		t1 := (-halves[i] - origins[i]) / dirs[i]
		t2 := (halves[i] - origins[i]) / dirs[i]
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			hitAxis = i
			hitSign = sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, rl.Vector3{}, false
		}
	}

	if hitAxis < 0 || tmin < 0 || tmin > maxDistance {
		return 0, rl.Vector3{}, false
	}

	var localNormal rl.Vector3
	switch hitAxis {
	case 0:
		localNormal = rl.Vector3{X: hitSign}
	case 1:
		localNormal = rl.Vector3{Y: hitSign}
	default:
		localNormal = rl.Vector3{Z: hitSign}
	}
	return tmin, rl.Vector3RotateByQuaternion(localNormal, o.Rotation), true
}

// Penetration finds the face axis with the smallest push that separates a
// capsule core segment (a, b) inflated by radius from the box.
func (o OBB) Penetration(a, b rl.Vector3, radius float32) (rl.Vector3, float32) {
	best := float32(math.MaxFloat32)
	var dir rl.Vector3
	for _, axis := range o.Axes() {
		for _, n := range [2]rl.Vector3{axis, rl.Vector3Negate(axis)} {
			boxMax := rl.Vector3DotProduct(o.Center, n) + o.Extent(n)
			capMin := minf(rl.Vector3DotProduct(a, n), rl.Vector3DotProduct(b, n)) - radius
			push := boxMax - capMin
			if push < best {
				best = push
				dir = n
			}
		}
	}
	return dir, best
}
